package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
	"github.com/xavierca1/recruitica/internal/infra/memory"
	"github.com/xavierca1/recruitica/internal/infra/storage"
)

const (
	userID    = "7f0c7e8e-3f57-4c61-9d55-2b8b8f7c0a01"
	otherUser = "0c5b1f7e-2a43-4f0e-8f7a-5c7b2d9e4f10"
)

var pdfBody = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

func newDirectory(store *memory.Store) *ClientDirectoryUseCase {
	return NewClientDirectoryUseCase(store.ClientLists(), store.Clients(), store.Entries(), 0)
}

func mustList(t *testing.T, store *memory.Store, owner, name string) *entity.ClientList {
	t.Helper()
	l := entity.NewClientList(owner, name, "")
	require.NoError(t, store.ClientLists().Create(t.Context(), l))
	return l
}

type fakeStorage struct {
	mu        sync.Mutex
	calls     int
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (f *fakeStorage) Bucket() string { return "keynotes" }

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads[key] = body
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://proj.supabase.co/storage/v1/object/public/keynotes/" + key
}

func (f *fakeStorage) Delete(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, bucket+"/"+key)
	delete(f.uploads, key)
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, bucket, key string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.uploads[key]
	if !ok {
		return nil, errors.New("NoSuchKey: The specified key does not exist.")
	}
	return &storage.Object{Bucket: bucket, Key: key, Body: body}, nil
}

type fakeCompleter struct {
	mu        sync.Mutex
	requests  []llm.ChatRequest
	reply     string
	err       error
	models    []llm.Model
	modelsErr error
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{
		Choices: []llm.Choice{{Message: llm.Message{Role: llm.RoleAssistant, Content: f.reply}}},
	}, nil
}

func (f *fakeCompleter) ListModels(ctx context.Context) ([]llm.Model, error) {
	return f.models, f.modelsErr
}

func (f *fakeCompleter) last() llm.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}
