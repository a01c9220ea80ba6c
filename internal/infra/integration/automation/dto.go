package automation

import (
	"errors"
	"fmt"

	"github.com/xavierca1/recruitica/internal/entity"
)

var (
	ErrNotConfigured             = errors.New("automation webhook URL not configured")
	ErrNetwork                   = errors.New("network error")
	ErrTimedOut                  = errors.New("automation webhook timed out")
	ErrUnrecognizedResponseShape = errors.New("unrecognized automation response shape")
)

// DraftRequest is the body of the draft-generation webhook.
type DraftRequest struct {
	CandidateName string           `json:"candidateName"`
	KeynotesFile  *string          `json:"keynotesFile"`
	Contacts      []entity.Contact `json:"contacts"`
}

// StatusError is a non-2xx answer from a webhook. It matches ErrNetwork.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("automation webhook returned status %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNetwork
}

// draftPayload covers both the subject/body and the HTML-first variants.
type draftPayload struct {
	EmailSubject string           `mapstructure:"emailSubject"`
	EmailBody    string           `mapstructure:"emailBody"`
	ClientList   []entity.Contact `mapstructure:"clientList"`
	HTML         string           `mapstructure:"html"`
	Contacts     []entity.Contact `mapstructure:"contacts"`
}
