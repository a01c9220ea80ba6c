package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/recruitica/internal/entity"
)

type PendingCleanupRepository struct {
	DB *sql.DB
}

func NewPendingCleanupRepository(db *sql.DB) *PendingCleanupRepository {
	return &PendingCleanupRepository{DB: db}
}

func (r *PendingCleanupRepository) Create(ctx context.Context, p *entity.PendingCleanup) error {
	query := `
		INSERT INTO pending_cleanups (id, bucket, object_key, reason, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.Bucket, p.ObjectKey, p.Reason, p.Attempts, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pending cleanup: %w", err)
	}
	return nil
}

func (r *PendingCleanupRepository) ListDue(ctx context.Context, maxAttempts, limit int) ([]*entity.PendingCleanup, error) {
	query := `
		SELECT id, bucket, object_key, reason, attempts, last_error, created_at
		FROM pending_cleanups
		WHERE attempts < $1
		ORDER BY created_at
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []*entity.PendingCleanup
	for rows.Next() {
		var p entity.PendingCleanup
		var lastErr sql.NullString
		if err := rows.Scan(&p.ID, &p.Bucket, &p.ObjectKey, &p.Reason, &p.Attempts, &lastErr, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.LastError = lastErr.String
		due = append(due, &p)
	}
	return due, rows.Err()
}

func (r *PendingCleanupRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE pending_cleanups SET attempts = attempts + 1, last_error = $2 WHERE id = $1`,
		id, errMsg,
	)
	return err
}

func (r *PendingCleanupRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM pending_cleanups WHERE id = $1`, id)
	return err
}
