package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Candidate is created once per submission and never updated afterwards.
type Candidate struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CandidateName string    `json:"candidate_name"`
	KeynotesURL   *string   `json:"keynotes_url"`
	ClientListID  string    `json:"client_list_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewCandidate(userID, name, listID string, keynotesURL string) *Candidate {
	c := &Candidate{
		ID:            uuid.New().String(),
		UserID:        userID,
		CandidateName: strings.TrimSpace(name),
		ClientListID:  listID,
		CreatedAt:     time.Now(),
	}
	if keynotesURL != "" {
		c.KeynotesURL = &keynotesURL
	}
	return c
}

type CandidateRepositoryInterface interface {
	Create(ctx context.Context, c *Candidate) error
	FindByID(ctx context.Context, userID, id string) (*Candidate, error)
	FindLatest(ctx context.Context, userID string) (*Candidate, error)
	ListByUser(ctx context.Context, userID string) ([]*Candidate, error)
}

// PendingCleanup marks an uploaded object whose owning record was never written.
type PendingCleanup struct {
	ID        string    `json:"id"`
	Bucket    string    `json:"bucket"`
	ObjectKey string    `json:"object_key"`
	Reason    string    `json:"reason"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPendingCleanup(bucket, key, reason string) *PendingCleanup {
	return &PendingCleanup{
		ID:        uuid.New().String(),
		Bucket:    bucket,
		ObjectKey: key,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
}

type PendingCleanupRepositoryInterface interface {
	Create(ctx context.Context, p *PendingCleanup) error
	ListDue(ctx context.Context, maxAttempts, limit int) ([]*PendingCleanup, error)
	MarkFailed(ctx context.Context, id string, errMsg string) error
	Delete(ctx context.Context, id string) error
}
