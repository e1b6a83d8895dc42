package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailimport"
)

// PendingImportRepository stores emails waiting for user review.
type PendingImportRepository struct {
	pool *pgxpool.Pool
}

func NewPendingImportRepository(pool *pgxpool.Pool) *PendingImportRepository {
	return &PendingImportRepository{pool: pool}
}

const pendingColumns = `id, user_id, platform, job_title, company, location, email_type,
	from_email, subject, preview, status, job_id, created_at, updated_at`

func scanPending(row pgx.Row) (emailimport.PendingImport, error) {
	var p emailimport.PendingImport
	if err := row.Scan(&p.ID, &p.UserID, &p.Platform, &p.JobTitle, &p.Company, &p.Location, &p.EmailType,
		&p.FromEmail, &p.Subject, &p.Preview, &p.Status, &p.JobID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return emailimport.PendingImport{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *PendingImportRepository) Create(ctx context.Context, p emailimport.PendingImport) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO pending_imports (`+pendingColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`, p.ID, p.UserID, p.Platform, p.JobTitle, p.Company, p.Location, p.EmailType,
		p.FromEmail, p.Subject, p.Preview, p.Status, p.JobID, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PendingImportRepository) GetForOwner(ctx context.Context, userID, id uuid.UUID) (emailimport.PendingImport, error) {
	p, err := scanPending(r.pool.QueryRow(ctx, `
SELECT `+pendingColumns+` FROM pending_imports WHERE id = $1 AND user_id = $2
`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return emailimport.PendingImport{}, emailimport.ErrNotFound
	}
	return p, err
}

func (r *PendingImportRepository) ListByOwner(ctx context.Context, userID uuid.UUID, status emailimport.PendingStatus, limit, offset int) ([]emailimport.PendingImport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+pendingColumns+` FROM pending_imports
WHERE user_id = $1 AND ($2 = '' OR status = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4
`, userID, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []emailimport.PendingImport
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PendingImportRepository) Resolve(ctx context.Context, userID, id uuid.UUID, status emailimport.PendingStatus, jobID *uuid.UUID, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE pending_imports SET status = $3, job_id = $4, updated_at = $5
WHERE id = $1 AND user_id = $2 AND status = 'pending'
`, id, userID, status, jobID, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM pending_imports WHERE id = $1 AND user_id = $2)
`, id, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return emailimport.ErrNotFound
	}
	return emailimport.ErrNotPending
}

func (r *PendingImportRepository) LinkJob(ctx context.Context, userID, id, jobID uuid.UUID, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE pending_imports SET job_id = $3, updated_at = $4
WHERE id = $1 AND user_id = $2 AND status = 'confirmed' AND job_id IS NULL
`, id, userID, jobID, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return emailimport.ErrNotFound
	}
	return nil
}

func (r *PendingImportRepository) Reopen(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
UPDATE pending_imports SET status = 'pending', updated_at = $3
WHERE id = $1 AND user_id = $2 AND status = 'confirmed' AND job_id IS NULL
`, id, userID, at)
	return err
}

func (r *PendingImportRepository) ExpireBefore(ctx context.Context, cutoff, at time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE pending_imports SET status = 'expired', updated_at = $2
WHERE status = 'pending' AND created_at < $1
`, cutoff, at)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
