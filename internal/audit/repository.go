package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository stores denials in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// InsertDenial writes a denial. Re-delivered tasks carry the same id and are
// ignored.
func (r *PGRepository) InsertDenial(ctx context.Context, d Denial) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO access_denials (id, actor_id, role, check_kind, target, method, path, request_id, occurred_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
ON CONFLICT (id) DO NOTHING`,
		d.ID, d.ActorID, d.Role, d.Check, d.Target, d.Method, d.Path, d.RequestID, d.OccurredAt)
	if err != nil {
		return fmt.Errorf("audit: insert denial: %w", err)
	}
	return nil
}

// ListDenials returns the newest denials first.
func (r *PGRepository) ListDenials(ctx context.Context, f Filters) ([]Denial, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(actor_id, ''), role, check_kind, target, method, path, COALESCE(request_id, ''), occurred_at
FROM access_denials
WHERE ($1 = '' OR actor_id = $1) AND ($2 = '' OR check_kind = $2)
ORDER BY occurred_at DESC, id
LIMIT $3`, f.ActorID, f.Check, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list denials: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Denial, error) {
		var d Denial
		err := row.Scan(&d.ID, &d.ActorID, &d.Role, &d.Check, &d.Target, &d.Method, &d.Path, &d.RequestID, &d.OccurredAt)
		return d, err
	})
}

var _ Repository = (*PGRepository)(nil)
