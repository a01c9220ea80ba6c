package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/extract"
	"github.com/xavierca1/recruitica/internal/infra/storage"
)

type DocumentExtractionUseCase struct {
	Storage ObjectDownloader
	Logger  *zap.Logger
}

func NewDocumentExtractionUseCase(store ObjectDownloader, logger *zap.Logger) *DocumentExtractionUseCase {
	return &DocumentExtractionUseCase{Storage: store, Logger: logger}
}

// Extract downloads a stored document by its public URL and returns its text.
func (uc *DocumentExtractionUseCase) Extract(ctx context.Context, fileURL string) (*ExtractOutput, error) {
	if strings.TrimSpace(fileURL) == "" {
		return nil, validationFailed([]ValidationError{{"fileUrl", "is required"}})
	}

	bucket, key, err := storage.ResolvePublicURL(fileURL)
	if err != nil {
		return nil, &TechnicalError{Code: CodeStoreError, Message: err.Error(), Err: err}
	}

	obj, err := uc.Storage.Download(ctx, bucket, key)
	if err != nil {
		uc.Logger.Error("document download failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, &TechnicalError{Code: CodeStoreError, Message: err.Error(), Err: err}
	}

	fileType := storage.Extension(key)
	return &ExtractOutput{
		Text:     extract.Text(fileType, obj.Body),
		FileType: fileType,
	}, nil
}
