package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/xavierca1/recruitica/internal/entity"
)

type ClientListEntryRepository struct {
	DB *sql.DB
}

func NewClientListEntryRepository(db *sql.DB) *ClientListEntryRepository {
	return &ClientListEntryRepository{DB: db}
}

func (r *ClientListEntryRepository) ListClients(ctx context.Context, listID string) ([]*entity.ListedClient, error) {
	query := `
		SELECT c.id, c.name, c.email, c.company_name, e.is_active
		FROM client_list_entries e
		JOIN clients c ON c.id = e.client_id
		WHERE e.client_list_id = $1
		ORDER BY c.name
	`
	rows, err := r.DB.QueryContext(ctx, query, listID)
	if isInvalidUUID(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*entity.ListedClient{}
	for rows.Next() {
		var c entity.ListedClient
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CompanyName, &c.IsActive); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

// Toggle flips is_active and returns the new value. Concurrent toggles are
// last-write-wins.
func (r *ClientListEntryRepository) Toggle(ctx context.Context, listID, clientID string) (bool, error) {
	query := `
		UPDATE client_list_entries
		SET is_active = NOT is_active
		WHERE client_list_id = $1 AND client_id = $2
		RETURNING is_active
	`
	var active bool
	err := r.DB.QueryRowContext(ctx, query, listID, clientID).Scan(&active)
	if notFound(err) {
		return false, entity.ErrNotFound
	}
	return active, err
}

func (r *ClientListEntryRepository) Delete(ctx context.Context, listID, clientID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM client_list_entries WHERE client_list_id = $1 AND client_id = $2`,
		listID, clientID,
	)
	if isInvalidUUID(err) {
		return entity.ErrNotFound
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// BatchCreate inserts all entries in one statement. Any conflict or unknown
// client aborts the whole batch.
func (r *ClientListEntryRepository) BatchCreate(ctx context.Context, listID string, clientIDs []string) ([]*entity.ClientListEntry, error) {
	ids := make([]string, len(clientIDs))
	for i := range ids {
		ids[i] = uuid.New().String()
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO client_list_entries (id, client_list_id, client_id, is_active, created_at)
		SELECT t.id, l.id, c.id, TRUE, NOW()
		FROM unnest($2::uuid[], $3::uuid[]) AS t(id, client_id)
		JOIN client_lists l ON l.id = $1
		JOIN clients c ON c.id = t.client_id AND c.user_id = l.user_id
		RETURNING id, client_list_id, client_id, is_active, created_at
	`
	rows, err := tx.QueryContext(ctx, query, listID, pq.Array(ids), pq.Array(clientIDs))
	if err != nil {
		return nil, batchError(err)
	}

	entries := make([]*entity.ClientListEntry, 0, len(clientIDs))
	for rows.Next() {
		var e entity.ClientListEntry
		if err := rows.Scan(&e.ID, &e.ClientListID, &e.ClientID, &e.IsActive, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		entries = append(entries, &e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, batchError(err)
	}

	if len(entries) != len(clientIDs) {
		return nil, entity.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return entries, nil
}

func batchError(err error) error {
	switch {
	case isUniqueViolation(err):
		return entity.ErrDuplicateInList
	case isInvalidUUID(err):
		return entity.ErrNotFound
	}
	return err
}
