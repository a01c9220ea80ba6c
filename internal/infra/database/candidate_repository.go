package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/recruitica/internal/entity"
)

type CandidateRepository struct {
	DB *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{DB: db}
}

const candidateColumns = `id, user_id, candidate_name, keynotes_url, client_list_id, created_at`

func (r *CandidateRepository) Create(ctx context.Context, c *entity.Candidate) error {
	query := `
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.UserID, c.CandidateName, c.KeynotesURL, c.ClientListID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, userID, id string) (*entity.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 AND user_id = $2`
	return scanCandidate(r.DB.QueryRowContext(ctx, query, id, userID))
}

func (r *CandidateRepository) FindLatest(ctx context.Context, userID string) (*entity.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanCandidate(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *CandidateRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []*entity.Candidate{}
	for rows.Next() {
		var c entity.Candidate
		if err := rows.Scan(&c.ID, &c.UserID, &c.CandidateName, &c.KeynotesURL, &c.ClientListID, &c.CreatedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

func scanCandidate(row *sql.Row) (*entity.Candidate, error) {
	var c entity.Candidate
	err := row.Scan(&c.ID, &c.UserID, &c.CandidateName, &c.KeynotesURL, &c.ClientListID, &c.CreatedAt)
	if notFound(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
