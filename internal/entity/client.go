package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateInList = errors.New("client is already in this list")
)

// Client is a company contact. It is global to its owner and unique by email.
type Client struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListedClient is a Client seen through its entry in one list.
type ListedClient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	IsActive    bool   `json:"is_active"`
}

type ClientListEntry struct {
	ID           string    `json:"id"`
	ClientListID string    `json:"client_list_id"`
	ClientID     string    `json:"client_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewClient(userID, name, email, companyName string) *Client {
	return &Client{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Email:       NormalizeEmail(email),
		CompanyName: strings.TrimSpace(companyName),
		CreatedAt:   time.Now(),
	}
}

func NewClientListEntry(listID, clientID string) *ClientListEntry {
	return &ClientListEntry{
		ID:           uuid.New().String(),
		ClientListID: listID,
		ClientID:     clientID,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}

// NormalizeEmail is the join key used for dedup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AttachResult reports what AttachByEmail did.
type AttachResult struct {
	Client        *Client
	Entry         *ClientListEntry
	ClientCreated bool
}

type ClientRepositoryInterface interface {
	// Search matches name, email and company case-insensitively and skips
	// clients that already have an entry in excludeListID.
	Search(ctx context.Context, userID, query, excludeListID string, limit int) ([]*Client, error)
	// AttachByEmail upserts the client keyed on (user, email) and adds it to
	// the list in one transaction. Returns ErrDuplicateInList when the entry exists.
	AttachByEmail(ctx context.Context, listID string, c *Client) (*AttachResult, error)
	FindByID(ctx context.Context, userID, id string) (*Client, error)
}

type ClientListEntryRepositoryInterface interface {
	ListClients(ctx context.Context, listID string) ([]*ListedClient, error)
	Toggle(ctx context.Context, listID, clientID string) (bool, error)
	Delete(ctx context.Context, listID, clientID string) error
	BatchCreate(ctx context.Context, listID string, clientIDs []string) ([]*ClientListEntry, error)
}
