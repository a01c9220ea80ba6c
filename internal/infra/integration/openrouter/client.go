package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	providerName   = "OpenRouter"
	maxBodyBytes   = 10 * 1024 * 1024
)

// Client forwards chat completions and model listings to OpenRouter with the
// server-held API key.
type Client struct {
	baseURL  string
	apiKey   string
	siteURL  string
	siteName string
	http     *http.Client
	logger   *zap.Logger
}

type Config struct {
	APIKey   string
	BaseURL  string
	SiteURL  string
	SiteName string
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		siteURL:  cfg.SiteURL,
		siteName: cfg.SiteName,
		// No client timeout: AI calls are bounded by the caller's context only.
		http:   &http.Client{},
		logger: logger,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends the request as-is to /chat/completions.
func (c *Client) Complete(ctx context.Context, in llm.ChatRequest) (*llm.ChatResponse, error) {
	if !c.Configured() {
		return nil, llm.ErrNotConfigured
	}

	jsonBody, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	c.logger.Debug("forwarding chat completion",
		zap.String("model", in.Model),
		zap.Int("messages", len(in.Messages)),
	)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out llm.ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedCompletion, err)
	}

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil && len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: %s", llm.ErrMalformedCompletion, apiErr.Error.Message)
	}

	out.Raw = body
	return &out, nil
}

// ListModels returns the text-generation models sorted by label.
func (c *Client) ListModels(ctx context.Context) ([]llm.Model, error) {
	if !c.Configured() {
		return nil, llm.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp modelsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}

	models := filterTextModels(resp.Data)
	c.logger.Debug("fetched models", zap.Int("total", len(resp.Data)), zap.Int("text", len(models)))
	return models, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("OpenRouter API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, &llm.APIError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return body, nil
}

var excludedModelMarkers = []string{"embedding", "whisper", "dall-e", "tts"}

func filterTextModels(entries []modelEntry) []llm.Model {
	models := make([]llm.Model, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" || e.Name == "" || e.ContextLength <= 1000 {
			continue
		}
		if containsAny(e.ID, excludedModelMarkers) {
			continue
		}
		m := llm.Model{
			Value:         e.ID,
			Label:         e.Name,
			Description:   e.Description,
			ContextLength: int(e.ContextLength),
		}
		if e.Pricing != nil {
			m.Pricing = &llm.Pricing{Prompt: e.Pricing.Prompt, Completion: e.Pricing.Completion}
		}
		models = append(models, m)
	}

	sort.SliceStable(models, func(i, j int) bool {
		return strings.ToLower(models[i].Label) < strings.ToLower(models[j].Label)
	})
	return models
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", c.siteName)
}
