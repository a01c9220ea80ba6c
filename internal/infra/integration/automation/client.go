// Package automation talks to the external workflow that drafts and sends
// candidate introduction emails.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
)

const (
	DefaultTimeout = 60 * time.Second
	maxBodyBytes   = 5 * 1024 * 1024
)

type Config struct {
	DraftURL    string
	FinalizeURL string
	Timeout     time.Duration
}

type Client struct {
	draftURL    string
	finalizeURL string
	timeout     time.Duration
	http        *http.Client
	logger      *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		draftURL:    cfg.DraftURL,
		finalizeURL: cfg.FinalizeURL,
		timeout:     timeout,
		http:        &http.Client{},
		logger:      logger,
	}
}

func (c *Client) DraftConfigured() bool    { return c.draftURL != "" }
func (c *Client) FinalizeConfigured() bool { return c.finalizeURL != "" }

// GenerateDraft posts the candidate and its contacts and waits, at most the
// configured timeout, for the drafted email.
func (c *Client) GenerateDraft(ctx context.Context, in DraftRequest) (*entity.Draft, error) {
	if c.draftURL == "" {
		return nil, ErrNotConfigured
	}
	if in.Contacts == nil {
		in.Contacts = []entity.Contact{}
	}

	body, err := c.post(ctx, c.draftURL, in)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: body is not JSON", ErrUnrecognizedResponseShape)
	}

	draft, shape, err := normalizeDraft(decoded)
	if err != nil {
		c.logger.Warn("automation response not recognized",
			zap.String("shape", shape),
			zap.Int("bytes", len(body)),
		)
		return nil, err
	}

	c.logger.Info("draft received",
		zap.String("shape", shape),
		zap.Int("contacts", len(draft.Contacts)),
	)
	return draft, nil
}

// Finalize posts the approved email to the send workflow.
func (c *Client) Finalize(ctx context.Context, draft entity.Draft) error {
	if c.finalizeURL == "" {
		return ErrNotConfigured
	}
	if draft.Contacts == nil {
		draft.Contacts = []entity.Contact{}
	}
	_, err := c.post(ctx, c.finalizeURL, draft)
	return err
}

func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.logger.Warn("automation webhook timed out", zap.Duration("after", time.Since(start)))
			return nil, fmt.Errorf("%w after %s", ErrTimedOut, c.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimedOut, c.timeout)
		}
		return nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("automation webhook error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
