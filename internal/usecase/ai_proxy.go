package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
)

const (
	defaultProxyTemperature = 0.7
	defaultProxyMaxTokens   = 500
)

// AIProxyUseCase backs the ai-generate and get-openrouter-models functions.
type AIProxyUseCase struct {
	AI     llm.Completer
	Logger *zap.Logger
}

func NewAIProxyUseCase(ai llm.Completer, logger *zap.Logger) *AIProxyUseCase {
	return &AIProxyUseCase{AI: ai, Logger: logger}
}

func (uc *AIProxyUseCase) Generate(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	var errs []ValidationError
	if strings.TrimSpace(req.Model) == "" {
		errs = append(errs, ValidationError{"model", "is required"})
	}
	if len(req.Messages) == 0 {
		errs = append(errs, ValidationError{"messages", "must not be empty"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	if req.Temperature == nil {
		req.Temperature = llm.Float(defaultProxyTemperature)
	}
	if req.MaxTokens == nil {
		req.MaxTokens = llm.Int(defaultProxyMaxTokens)
	}

	resp, err := uc.AI.Complete(ctx, req)
	if err != nil {
		uc.Logger.Error("ai-generate failed", zap.String("model", req.Model), zap.Error(err))
		return nil, aiError(err)
	}
	return resp, nil
}

func (uc *AIProxyUseCase) Models(ctx context.Context) ([]llm.Model, error) {
	models, err := uc.AI.ListModels(ctx)
	if err != nil {
		uc.Logger.Error("model listing failed", zap.Error(err))
		return nil, aiError(err)
	}
	return models, nil
}
