package usecase

import (
	"context"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/integration/automation"
	"github.com/xavierca1/recruitica/internal/infra/storage"
)

// ObjectStore is the file store holding candidate documents.
type ObjectStore interface {
	Bucket() string
	Upload(ctx context.Context, key, contentType string, body []byte) error
	PublicURL(key string) string
	Delete(ctx context.Context, bucket, key string) error
}

type ObjectDownloader interface {
	Download(ctx context.Context, bucket, key string) (*storage.Object, error)
}

// DraftGateway calls the draft-generation workflow.
type DraftGateway interface {
	GenerateDraft(ctx context.Context, in automation.DraftRequest) (*entity.Draft, error)
}

// FinalizeNotifier delivers a finished draft: webhook, queue or SMTP.
type FinalizeNotifier interface {
	Finalize(ctx context.Context, d entity.Draft) error
}

// ContactSource resolves the active contacts of a list the user owns.
type ContactSource interface {
	ActiveContacts(ctx context.Context, userID, listID string) ([]entity.Contact, error)
}

// TextExtractor turns a stored document URL into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, fileURL string) (*ExtractOutput, error)
}
