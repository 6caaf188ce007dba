package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads listings and developer profiles from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetSolution fetches a listing by id.
func (r *Repository) GetSolution(ctx context.Context, id string) (Solution, error) {
	var s Solution
	err := r.pool.QueryRow(ctx, `SELECT id, developer_id, title, category, price_cents, created_at FROM solutions WHERE id = $1`, id).
		Scan(&s.ID, &s.DeveloperID, &s.Title, &s.Category, &s.PriceCents, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Solution{}, ErrNotFound
		}
		return Solution{}, fmt.Errorf("catalog: get solution: %w", err)
	}
	return s, nil
}

// ListSolutions returns every listing ordered by newest first.
func (r *Repository) ListSolutions(ctx context.Context) ([]Solution, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, developer_id, title, category, price_cents, created_at FROM solutions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list solutions: %w", err)
	}
	defer rows.Close()
	var out []Solution
	for rows.Next() {
		var s Solution
		if err := rows.Scan(&s.ID, &s.DeveloperID, &s.Title, &s.Category, &s.PriceCents, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetDeveloper fetches a developer profile.
func (r *Repository) GetDeveloper(ctx context.Context, id string) (Developer, error) {
	var d Developer
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM users WHERE id = $1 AND role = 'developer'`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Developer{}, ErrNotFound
		}
		return Developer{}, fmt.Errorf("catalog: get developer: %w", err)
	}
	return d, nil
}

var _ RepositoryPort = (*Repository)(nil)
