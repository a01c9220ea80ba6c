// Package gemini is an alternative llm.Completer backed by the Google GenAI
// SDK. It is selected with AI_PROVIDER=gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
)

const (
	defaultModel = "gemini-2.5-flash"
	providerName = "Gemini"
)

type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	All(ctx context.Context) iter.Seq2[*genai.Model, error]
}

type Client struct {
	models       models
	defaultModel string
	logger       *zap.Logger
}

func NewClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, llm.ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{models: client.Models, defaultModel: model, logger: logger}, nil
}

// Complete maps the chat request onto GenerateContent. System messages become
// the system instruction; assistant turns are sent with the model role.
func (c *Client) Complete(ctx context.Context, in llm.ChatRequest) (*llm.ChatResponse, error) {
	model := strings.TrimPrefix(strings.TrimSpace(in.Model), "google/")
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = c.defaultModel
	}

	cfg := &genai.GenerateContentConfig{}
	if in.Temperature != nil {
		t := float32(*in.Temperature)
		cfg.Temperature = &t
	}
	if in.MaxTokens != nil {
		cfg.MaxOutputTokens = int32(*in.MaxTokens)
	}

	var system []string
	contents := make([]*genai.Content, 0, len(in.Messages))
	for _, m := range in.Messages {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}}
	}

	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, mapError(err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		break
	}

	c.logger.Debug("gemini completion", zap.String("model", model), zap.Int("chars", builder.Len()))

	return &llm.ChatResponse{
		ID:      "gemini-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []llm.Choice{{
			Message:      llm.Message{Role: llm.RoleAssistant, Content: builder.String()},
			FinishReason: "stop",
		}},
	}, nil
}

func (c *Client) ListModels(ctx context.Context) ([]llm.Model, error) {
	var out []llm.Model
	for m, err := range c.models.All(ctx) {
		if err != nil {
			return nil, mapError(err)
		}
		if m == nil || !supportsGenerate(m.SupportedActions) || m.InputTokenLimit <= 1000 {
			continue
		}
		label := m.DisplayName
		if label == "" {
			label = m.Name
		}
		out = append(out, llm.Model{
			Value:         strings.TrimPrefix(m.Name, "models/"),
			Label:         label,
			Description:   m.Description,
			ContextLength: int(m.InputTokenLimit),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func supportsGenerate(actions []string) bool {
	for _, a := range actions {
		if a == "generateContent" {
			return true
		}
	}
	return false
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.APIError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Status:     http.StatusText(apiErr.Code),
			Body:       apiErr.Message,
		}
	}
	return fmt.Errorf("gemini: %w", err)
}
