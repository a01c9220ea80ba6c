package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/recruitica/internal/entity"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ClientRepository) Search(ctx context.Context, userID, query, excludeListID string, limit int) ([]*entity.Client, error) {
	sqlQuery := `
		SELECT c.id, c.user_id, c.name, c.email, c.company_name, c.created_at
		FROM clients c
		WHERE c.user_id = $1
		  AND (c.name ILIKE $2 OR c.email ILIKE $2 OR c.company_name ILIKE $2)
		  AND NOT EXISTS (
			SELECT 1 FROM client_list_entries e
			WHERE e.client_id = c.id AND e.client_list_id::text = $3
		  )
		ORDER BY c.name
		LIMIT $4
	`
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"

	rows, err := r.DB.QueryContext(ctx, sqlQuery, userID, pattern, excludeListID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*entity.Client{}
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.CompanyName, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

// AttachByEmail runs the client upsert and the entry insert in one
// transaction. A duplicate entry rolls both back.
func (r *ClientRepository) AttachByEmail(ctx context.Context, listID string, c *entity.Client) (*entity.AttachResult, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var owned bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM client_lists WHERE id = $1 AND user_id = $2)`,
		listID, c.UserID,
	).Scan(&owned)
	if notFound(err) || (err == nil && !owned) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	upsert := `
		INSERT INTO clients (id, user_id, name, email, company_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, email)
		DO UPDATE SET email = EXCLUDED.email
		RETURNING id, name, company_name, created_at, (xmax = 0) AS inserted
	`
	client := *c
	var created bool
	err = tx.QueryRowContext(ctx, upsert,
		c.ID, c.UserID, c.Name, c.Email, c.CompanyName, c.CreatedAt,
	).Scan(&client.ID, &client.Name, &client.CompanyName, &client.CreatedAt, &created)
	if err != nil {
		return nil, fmt.Errorf("upsert client: %w", err)
	}

	entry := entity.NewClientListEntry(listID, client.ID)
	insertEntry := `
		INSERT INTO client_list_entries (id, client_list_id, client_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_list_id, client_id) DO NOTHING
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insertEntry,
		entry.ID, entry.ClientListID, entry.ClientID, entry.IsActive, entry.CreatedAt,
	).Scan(&entry.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrDuplicateInList
	}
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attach: %w", err)
	}

	return &entity.AttachResult{Client: &client, Entry: entry, ClientCreated: created}, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, userID, id string) (*entity.Client, error) {
	query := `
		SELECT id, user_id, name, email, company_name, created_at
		FROM clients
		WHERE id = $1 AND user_id = $2
	`
	var c entity.Client
	err := r.DB.QueryRowContext(ctx, query, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.CompanyName, &c.CreatedAt)
	if notFound(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
