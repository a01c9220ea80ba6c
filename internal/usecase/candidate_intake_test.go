package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/memory"
)

func newIntake(store *memory.Store, files *fakeStorage) *CandidateIntakeUseCase {
	return NewCandidateIntakeUseCase(store.ClientLists(), store.Candidates(), store.PendingCleanups(), files, 0, zap.NewNop())
}

func TestIntakeState(t *testing.T) {
	store := memory.NewStore()
	uc := newIntake(store, newFakeStorage())

	st, err := uc.State(t.Context(), userID)
	require.NoError(t, err)
	assert.Equal(t, StateNoListsYet, st.State)

	mustList(t, store, userID, "Fintech")
	st, err = uc.State(t.Context(), userID)
	require.NoError(t, err)
	assert.Equal(t, StateEditing, st.State)
	assert.Len(t, st.Lists, 1)
}

func TestSubmitWithoutListsIsBlocked(t *testing.T) {
	files := newFakeStorage()
	uc := newIntake(memory.NewStore(), files)

	_, err := uc.Submit(t.Context(), userID, SubmitCandidateInput{
		Name: "Ana Lima",
		File: &UploadedFile{Filename: "cv.pdf", ContentType: "application/pdf", Body: pdfBody},
	})
	assert.Equal(t, CodeNoClientLists, ErrorCode(err))
	assert.Zero(t, files.calls)
}

func TestSubmitRejectsPNGBeforeStorage(t *testing.T) {
	store := memory.NewStore()
	files := newFakeStorage()
	uc := newIntake(store, files)
	l := mustList(t, store, userID, "Fintech")

	_, err := uc.Submit(t.Context(), userID, SubmitCandidateInput{
		Name:   "Ana Lima",
		ListID: l.ID,
		File:   &UploadedFile{Filename: "photo.png", ContentType: "image/png", Body: []byte("\x89PNG\r\n\x1a\n")},
	})
	assert.Equal(t, CodeValidation, ErrorCode(err))
	assert.Zero(t, files.calls)

	all, err := uc.List(t.Context(), userID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitUploadsAndRecords(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	files := newFakeStorage()
	uc := newIntake(store, files)
	l := mustList(t, store, userID, "Fintech")

	out, err := uc.Submit(ctx, userID, SubmitCandidateInput{
		Name:   "  Ana Lima ",
		ListID: l.ID,
		File:   &UploadedFile{Filename: "CV.PDF", ContentType: "application/pdf", Body: pdfBody},
	})
	require.NoError(t, err)

	assert.Equal(t, StateSubmitted, out.State)
	assert.Equal(t, "Ana Lima", out.Candidate.CandidateName)
	assert.Equal(t, NextSelectClients, out.NextStep.Action)
	assert.Equal(t, l.ID, out.NextStep.ListID)
	assert.Equal(t, (2 * time.Second).Milliseconds(), out.RedirectAfterMS)

	require.Len(t, files.uploads, 1)
	for key := range files.uploads {
		assert.True(t, strings.HasPrefix(key, userID+"/"))
		assert.True(t, strings.HasSuffix(key, ".pdf"))
		require.NotNil(t, out.Candidate.KeynotesURL)
		assert.Equal(t, files.PublicURL(key), *out.Candidate.KeynotesURL)
	}

	latest, err := uc.Latest(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, out.Candidate.ID, latest.ID)

	got, err := uc.Get(ctx, userID, out.Candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Candidate.ID, got.ID)

	_, err = uc.Get(ctx, otherUser, out.Candidate.ID)
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestSubmitWithoutFile(t *testing.T) {
	store := memory.NewStore()
	files := newFakeStorage()
	uc := newIntake(store, files)
	l := mustList(t, store, userID, "Fintech")

	out, err := uc.Submit(t.Context(), userID, SubmitCandidateInput{Name: "Ana Lima", ListID: l.ID})
	require.NoError(t, err)
	assert.Nil(t, out.Candidate.KeynotesURL)
	assert.Zero(t, files.calls)
}

func TestSubmitForeignList(t *testing.T) {
	store := memory.NewStore()
	files := newFakeStorage()
	uc := newIntake(store, files)
	mustList(t, store, userID, "Mine")
	theirs := mustList(t, store, otherUser, "Theirs")

	_, err := uc.Submit(t.Context(), userID, SubmitCandidateInput{
		Name:   "Ana Lima",
		ListID: theirs.ID,
		File:   &UploadedFile{Filename: "cv.pdf", Body: pdfBody},
	})
	assert.Equal(t, CodeNotFound, ErrorCode(err))
	assert.Zero(t, files.calls)
}

func TestSubmitInsertFailureDeletesUpload(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	files := newFakeStorage()
	uc := newIntake(store, files)
	l := mustList(t, store, userID, "Fintech")
	store.Err = errors.New("insert or update on table \"candidates\" violates foreign key constraint")

	_, err := uc.Submit(ctx, userID, SubmitCandidateInput{
		Name:   "Ana Lima",
		ListID: l.ID,
		File:   &UploadedFile{Filename: "cv.pdf", Body: pdfBody},
	})
	require.Error(t, err)
	assert.Equal(t, CodeStoreError, ErrorCode(err))

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, store.Err.Error(), te.Message)

	assert.Empty(t, files.uploads)
	assert.Len(t, files.deleted, 1)

	due, err := store.PendingCleanups().ListDue(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestSubmitInsertAndDeleteFailureLeavesCleanup(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	files := newFakeStorage()
	files.deleteErr = errors.New("503 SlowDown")
	uc := newIntake(store, files)
	l := mustList(t, store, userID, "Fintech")
	store.Err = errors.New("connection reset by peer")

	_, err := uc.Submit(ctx, userID, SubmitCandidateInput{
		Name:   "Ana Lima",
		ListID: l.ID,
		File:   &UploadedFile{Filename: "cv.docx", Body: []byte("PK\x03\x04word/document.xml")},
	})
	require.Error(t, err)

	due, err := store.PendingCleanups().ListDue(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "keynotes", due[0].Bucket)
	assert.True(t, strings.HasSuffix(due[0].ObjectKey, ".docx"))
	assert.Equal(t, "503 SlowDown", due[0].LastError)
}

func TestValidateDocument(t *testing.T) {
	ole := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}

	tests := []struct {
		name     string
		filename string
		ctype    string
		head     []byte
		ext      string
		wantErr  bool
	}{
		{"pdf", "cv.pdf", "application/pdf", pdfBody, "pdf", false},
		{"doc", "cv.doc", "application/msword", ole, "doc", false},
		{"docx", "cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK\x03\x04"), "docx", false},
		{"octet stream", "cv.pdf", "application/octet-stream", pdfBody, "pdf", false},
		{"png", "photo.png", "image/png", []byte("\x89PNG"), "", true},
		{"renamed png", "photo.pdf", "application/pdf", []byte("\x89PNG"), "", true},
		{"type mismatch", "cv.pdf", "application/msword", pdfBody, "", true},
		{"no extension, typed by content type", "cv", "application/pdf", pdfBody, "pdf", false},
		{"no extension, typed by content", "resume", "application/octet-stream", ole, "doc", false},
		{"no extension, docx without type", "resume", "", []byte("PK\x03\x04"), "docx", false},
		{"no extension, unknown content", "cv", "", []byte("hello"), "", true},
		{"no extension, type and content disagree", "cv", "application/pdf", ole, "", true},
	}

	uc := newIntake(memory.NewStore(), newFakeStorage())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := uc.ValidateDocument(tt.filename, tt.ctype, tt.head)
			if tt.wantErr {
				assert.Equal(t, CodeValidation, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, ext)
		})
	}
}
