// Package llm holds the OpenAI-compatible chat completion shapes shared by
// the LLM gateway backends.
package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNotConfigured       = errors.New("LLM gateway API key not configured")
	ErrMalformedCompletion = errors.New("invalid response from AI service")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Object  string   `json:"object,omitempty"`
	Created int64    `json:"created,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`

	// Raw is the gateway body as received, relayed by the proxy endpoint.
	Raw []byte `json:"-"`
}

// Content returns the first choice's text or ErrMalformedCompletion.
func (r *ChatResponse) Content() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", ErrMalformedCompletion
	}
	return r.Choices[0].Message.Content, nil
}

type Pricing struct {
	Prompt     string `json:"prompt,omitempty"`
	Completion string `json:"completion,omitempty"`
}

// Model is one entry of the model-listing response.
type Model struct {
	Value         string   `json:"value"`
	Label         string   `json:"label"`
	Description   string   `json:"description,omitempty"`
	ContextLength int      `json:"contextLength,omitempty"`
	Pricing       *Pricing `json:"pricing,omitempty"`
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, e.Status)
}

// Completer is implemented by every gateway backend.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	ListModels(ctx context.Context) ([]Model, error)
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
