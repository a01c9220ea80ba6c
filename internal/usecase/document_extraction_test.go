package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const keynotesURL = "https://proj.supabase.co/storage/v1/object/public/keynotes/u1/cv.pdf"

func TestExtractCollapsesDocumentText(t *testing.T) {
	files := newFakeStorage()
	files.uploads["u1/cv.pdf"] = []byte("Ana   Lima\r\n\r\nSenior  engineer\n")
	uc := NewDocumentExtractionUseCase(files, zap.NewNop())

	out, err := uc.Extract(t.Context(), keynotesURL)
	require.NoError(t, err)
	assert.Equal(t, "pdf", out.FileType)
	assert.Equal(t, "Ana Lima Senior engineer", out.Text)
}

func TestExtractPlainTextIsRaw(t *testing.T) {
	files := newFakeStorage()
	files.uploads["u1/notes.txt"] = []byte("line one\nline  two\n")
	uc := NewDocumentExtractionUseCase(files, zap.NewNop())

	out, err := uc.Extract(t.Context(), "https://proj.supabase.co/storage/v1/object/public/keynotes/u1/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "txt", out.FileType)
	assert.Equal(t, "line one\nline  two\n", out.Text)
}

func TestExtractErrors(t *testing.T) {
	uc := NewDocumentExtractionUseCase(newFakeStorage(), zap.NewNop())

	_, err := uc.Extract(t.Context(), " ")
	assert.True(t, IsDomainError(err))

	_, err = uc.Extract(t.Context(), "https://example.com/no/bucket/here.pdf")
	assert.True(t, IsTechnicalError(err))

	_, err = uc.Extract(t.Context(), keynotesURL)
	assert.True(t, IsTechnicalError(err))
	assert.Contains(t, err.Error(), "NoSuchKey")
}
