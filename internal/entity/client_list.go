package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClientList is a named audience for one outreach round.
type ClientList struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewClientList(userID, name, description string) *ClientList {
	l := &ClientList{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
	if d := strings.TrimSpace(description); d != "" {
		l.Description = &d
	}
	return l
}

type ClientListRepositoryInterface interface {
	Create(ctx context.Context, l *ClientList) error
	// ListByUser returns the newest lists first.
	ListByUser(ctx context.Context, userID string) ([]*ClientList, error)
	FindByID(ctx context.Context, userID, id string) (*ClientList, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
