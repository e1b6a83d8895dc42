package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailimport"
)

// PendingImportRepository implements emailimport.PendingRepository on SQLite.
type PendingImportRepository struct {
	db *sql.DB
}

func NewPendingImportRepository(db *sql.DB) *PendingImportRepository {
	return &PendingImportRepository{db: db}
}

const pendingColumns = `id, user_id, platform, job_title, company, location, email_type,
	from_email, subject, preview, status, job_id, created_at, updated_at`

func scanPending(row scanner) (emailimport.PendingImport, error) {
	var (
		p                emailimport.PendingImport
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Platform, &p.JobTitle, &p.Company, &p.Location, &p.EmailType,
		&p.FromEmail, &p.Subject, &p.Preview, &p.Status, &p.JobID, &created, &updated); err != nil {
		return emailimport.PendingImport{}, err
	}
	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return emailimport.PendingImport{}, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return emailimport.PendingImport{}, err
	}
	return p, nil
}

func (r *PendingImportRepository) Create(ctx context.Context, p emailimport.PendingImport) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO pending_imports (`+pendingColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, p.ID, p.UserID, p.Platform, p.JobTitle, p.Company, p.Location, p.EmailType,
		p.FromEmail, p.Subject, p.Preview, string(p.Status), p.JobID, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	return err
}

func (r *PendingImportRepository) GetForOwner(ctx context.Context, userID, id uuid.UUID) (emailimport.PendingImport, error) {
	p, err := scanPending(r.db.QueryRowContext(ctx, `
SELECT `+pendingColumns+` FROM pending_imports WHERE id = ? AND user_id = ?
`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return emailimport.PendingImport{}, emailimport.ErrNotFound
	}
	return p, err
}

func (r *PendingImportRepository) ListByOwner(ctx context.Context, userID uuid.UUID, status emailimport.PendingStatus, limit, offset int) ([]emailimport.PendingImport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+pendingColumns+` FROM pending_imports
WHERE user_id = ? AND (? = '' OR status = ?)
ORDER BY created_at DESC
LIMIT ? OFFSET ?
`, userID, string(status), string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []emailimport.PendingImport
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PendingImportRepository) Resolve(ctx context.Context, userID, id uuid.UUID, status emailimport.PendingStatus, jobID *uuid.UUID, at time.Time) error {
	var job any
	if jobID != nil {
		job = jobID.String()
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE pending_imports SET status = ?, job_id = ?, updated_at = ?
WHERE id = ? AND user_id = ? AND status = 'pending'
`, string(status), job, formatTime(at), id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM pending_imports WHERE id = ? AND user_id = ?)
`, id, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return emailimport.ErrNotFound
	}
	return emailimport.ErrNotPending
}

func (r *PendingImportRepository) LinkJob(ctx context.Context, userID, id, jobID uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE pending_imports SET job_id = ?, updated_at = ?
WHERE id = ? AND user_id = ? AND status = 'confirmed' AND job_id IS NULL
`, jobID, formatTime(at), id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return emailimport.ErrNotFound
	}
	return nil
}

func (r *PendingImportRepository) Reopen(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE pending_imports SET status = 'pending', updated_at = ?
WHERE id = ? AND user_id = ? AND status = 'confirmed' AND job_id IS NULL
`, formatTime(at), id, userID)
	return err
}

func (r *PendingImportRepository) ExpireBefore(ctx context.Context, cutoff, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE pending_imports SET status = 'expired', updated_at = ?
WHERE status = 'pending' AND created_at < ?
`, formatTime(at), formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
