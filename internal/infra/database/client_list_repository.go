package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/recruitica/internal/entity"
)

type ClientListRepository struct {
	DB *sql.DB
}

func NewClientListRepository(db *sql.DB) *ClientListRepository {
	return &ClientListRepository{DB: db}
}

func (r *ClientListRepository) Create(ctx context.Context, l *entity.ClientList) error {
	query := `
		INSERT INTO client_lists (id, user_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, l.ID, l.UserID, l.Name, l.Description, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert client list: %w", err)
	}
	return nil
}

func (r *ClientListRepository) ListByUser(ctx context.Context, userID string) ([]*entity.ClientList, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM client_lists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []*entity.ClientList{}
	for rows.Next() {
		var l entity.ClientList
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, &l)
	}
	return lists, rows.Err()
}

func (r *ClientListRepository) FindByID(ctx context.Context, userID, id string) (*entity.ClientList, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM client_lists
		WHERE id = $1 AND user_id = $2
	`
	var l entity.ClientList
	err := r.DB.QueryRowContext(ctx, query, id, userID).Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.CreatedAt)
	if notFound(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ClientListRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM client_lists WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
