package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/htmlutil"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
	"github.com/xavierca1/recruitica/internal/logger"
)

const (
	tuneTemperature     = 0.7
	instructTemperature = 0.3
	instructMaxTokens   = 4000

	instructSummary = "Email updated. The changes are applied to the preview."
)

const tunePrompt = "You're the recruiter's assistant helping polish introduction emails to clients. " +
	"Refine this email by enhancing clarity and professionalism, without changing facts or tone. " +
	"Make it concise, warm, and easy to read. Return only the edited version, no explanations."

const instructPrompt = `You are an expert email editor for HTML emails. You receive an HTML email and an instruction.

Rules:
1. Always return valid, complete HTML that an email client can display.
2. Preserve the structure and styling of the email.
3. Keep CSS untouched unless the instruction asks to change it.
4. Use email-safe HTML: inline styles and table layouts.
5. Apply the instruction precisely.
6. Use <strong> for bold text and inline styles for styling changes.
7. Keep the tone professional and the branding consistent.

Answer with the modified HTML email only.`

// FallbackModels is served when the live model list cannot be fetched. Ids
// are OpenRouter model ids.
var FallbackModels = []llm.Model{
	{Value: "openai/gpt-4o", Label: "GPT-4o"},
	{Value: "openai/gpt-4o-mini", Label: "GPT-4o Mini"},
	{Value: "anthropic/claude-3-opus", Label: "Claude 3 Opus"},
	{Value: "anthropic/claude-3-sonnet", Label: "Claude 3 Sonnet"},
	{Value: "anthropic/claude-3-haiku", Label: "Claude 3 Haiku"},
	{Value: "meta-llama/llama-3-70b-instruct", Label: "Llama 3 70B"},
	{Value: "mistralai/mistral-large", Label: "Mistral Large"},
	{Value: "mistralai/mistral-medium", Label: "Mistral Medium"},
}

type EmailRefinementUseCase struct {
	AI           llm.Completer
	Drafts       entity.DraftStoreInterface
	Logger       *zap.Logger
	MaxLogLength int
}

func NewEmailRefinementUseCase(ai llm.Completer, drafts entity.DraftStoreInterface, logger *zap.Logger, maxLogLength int) *EmailRefinementUseCase {
	return &EmailRefinementUseCase{
		AI:           ai,
		Drafts:       drafts,
		Logger:       logger,
		MaxLogLength: maxLogLength,
	}
}

// Tune rewrites the body in one shot. The completion replaces the body as is.
func (uc *EmailRefinementUseCase) Tune(ctx context.Context, userID, draftID string, in TuneInput) (*entity.DraftSession, error) {
	session, err := uc.Drafts.Get(userID, draftID)
	if err != nil {
		return nil, storeError(err)
	}

	body := in.Body
	if strings.TrimSpace(body) == "" {
		body = session.HTML
	}

	var errs []ValidationError
	if strings.TrimSpace(in.Model) == "" {
		errs = append(errs, ValidationError{"model", "is required"})
	}
	if strings.TrimSpace(body) == "" {
		errs = append(errs, ValidationError{"body", "email body is required for tuning"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	content, err := uc.complete(ctx, "tune", llm.ChatRequest{
		Model: in.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: tunePrompt},
			{Role: llm.RoleUser, Content: body},
		},
		Temperature: llm.Float(tuneTemperature),
	})
	if err != nil {
		return nil, err
	}

	updated, err := uc.Drafts.Update(userID, draftID, func(s *entity.DraftSession) {
		s.HTML = content
	})
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

// Instruct applies a free-form instruction to the working HTML. The
// transcript only records what was asked; the model always sees the
// current HTML and the latest instruction.
func (uc *EmailRefinementUseCase) Instruct(ctx context.Context, userID, draftID string, in InstructInput) (*entity.DraftSession, error) {
	session, err := uc.Drafts.Get(userID, draftID)
	if err != nil {
		return nil, storeError(err)
	}

	html := in.HTML
	if strings.TrimSpace(html) == "" {
		html = session.HTML
	}
	instruction := strings.TrimSpace(in.Instruction)

	var errs []ValidationError
	if strings.TrimSpace(in.Model) == "" {
		errs = append(errs, ValidationError{"model", "is required"})
	}
	if instruction == "" {
		errs = append(errs, ValidationError{"instruction", "is required"})
	}
	if strings.TrimSpace(html) == "" {
		errs = append(errs, ValidationError{"html", "email HTML is required"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	content, err := uc.complete(ctx, "instruct", llm.ChatRequest{
		Model: in.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: instructPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(
				"Here is the current HTML email:\n\n%s\n\nPlease apply this instruction: %s\n\nReturn the complete modified HTML email.",
				html, instruction,
			)},
		},
		Temperature: llm.Float(instructTemperature),
		MaxTokens:   llm.Int(instructMaxTokens),
	})
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &TechnicalError{Code: CodeAIProxyError, Message: "AI returned empty response"}
	}

	now := time.Now()
	updated, err := uc.Drafts.Update(userID, draftID, func(s *entity.DraftSession) {
		s.HTML = content
		s.Transcript = append(s.Transcript,
			entity.ChatTurn{Role: llm.RoleUser, Content: instruction, At: now},
			entity.ChatTurn{Role: llm.RoleAssistant, Content: instructSummary, At: now},
		)
	})
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

// Preview renders the working HTML through the allow-list sanitizer. The
// stored copy keeps its full markup.
func (uc *EmailRefinementUseCase) Preview(ctx context.Context, userID, draftID string) (string, error) {
	session, err := uc.Drafts.Get(userID, draftID)
	if err != nil {
		return "", storeError(err)
	}
	return htmlutil.Sanitize(session.HTML), nil
}

// Models lists the selectable models, falling back to the static list.
func (uc *EmailRefinementUseCase) Models(ctx context.Context) []llm.Model {
	models, err := uc.AI.ListModels(ctx)
	if err != nil || len(models) == 0 {
		if err != nil {
			uc.Logger.Warn("live model list unavailable, using fallback", zap.Error(err))
		}
		return FallbackModels
	}
	return models
}

func (uc *EmailRefinementUseCase) complete(ctx context.Context, op string, req llm.ChatRequest) (string, error) {
	uc.Logger.Debug("ai request",
		zap.String("operation", op),
		zap.String("model", req.Model),
		zap.String("prompt", logger.Truncate(req.Messages[len(req.Messages)-1].Content, uc.MaxLogLength)),
	)

	resp, err := uc.AI.Complete(ctx, req)
	if err != nil {
		uc.Logger.Error("ai request failed", zap.String("operation", op), zap.Error(err))
		return "", aiError(err)
	}
	content, err := resp.Content()
	if err != nil {
		return "", aiError(err)
	}
	return content, nil
}
