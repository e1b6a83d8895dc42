package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
)

// JobRepository implements job.Repository on SQLite.
type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, user_id, job_title, company_name, location, status, platform_count, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (job.Job, error) {
	var (
		j                job.Job
		created, updated string
	)
	if err := row.Scan(&j.ID, &j.UserID, &j.JobTitle, &j.CompanyName, &j.Location,
		&j.Status, &j.PlatformCount, &created, &updated); err != nil {
		return job.Job{}, err
	}
	var err error
	if j.CreatedAt, err = parseTime(created); err != nil {
		return job.Job{}, err
	}
	if j.UpdatedAt, err = parseTime(updated); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO jobs (`+jobColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, j.ID, j.UserID, j.JobTitle, j.CompanyName, j.Location, string(j.Status), j.PlatformCount,
		formatTime(j.CreatedAt), formatTime(j.UpdatedAt))
	return err
}

func (r *JobRepository) GetForOwner(ctx context.Context, userID, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx, `
SELECT `+jobColumns+` FROM jobs WHERE id = ? AND user_id = ?
`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return job.Job{}, job.ErrNotFound
	}
	return j, err
}

func (r *JobRepository) ListByOwner(ctx context.Context, userID uuid.UUID, limit, offset int) ([]job.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(ctx, `
SELECT `+jobColumns+` FROM jobs
WHERE user_id = ?
ORDER BY created_at DESC
LIMIT ? OFFSET ?
`, userID, limit, offset)
}

func (r *JobRepository) DeleteForOwner(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return job.ErrNotFound
	}
	return nil
}

// FindMatching uses SQLite's lower(), which only folds ASCII letters.
func (r *JobRepository) FindMatching(ctx context.Context, userID uuid.UUID, title, company string) ([]job.Job, error) {
	return r.query(ctx, `
SELECT `+jobColumns+` FROM jobs
WHERE user_id = ?
	AND instr(lower(job_title), lower(?)) > 0
	AND instr(lower(company_name), lower(?)) > 0
ORDER BY created_at DESC
`, userID, title, company)
}

func (r *JobRepository) AttachPlatform(ctx context.Context, p job.ApplicationPlatform) (bool, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO application_platforms (id, job_id, platform_name, from_email, subject, email_type, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (job_id, platform_name) DO NOTHING
`, p.ID, p.JobID, p.PlatformName, p.FromEmail, p.Subject, p.EmailType, formatTime(p.CreatedAt))
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}

	res, err = tx.ExecContext(ctx, `
UPDATE jobs SET platform_count = platform_count + 1, updated_at = ? WHERE id = ?
`, formatTime(p.CreatedAt), p.JobID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, job.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *JobRepository) ListPlatforms(ctx context.Context, userID, jobID uuid.UUID) ([]job.ApplicationPlatform, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT ap.id, ap.job_id, ap.platform_name, ap.from_email, ap.subject, ap.email_type, ap.created_at
FROM application_platforms ap
JOIN jobs j ON j.id = ap.job_id
WHERE j.user_id = ? AND ap.job_id = ?
ORDER BY ap.created_at
`, userID, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []job.ApplicationPlatform
	for rows.Next() {
		var (
			p       job.ApplicationPlatform
			created string
		)
		if err := rows.Scan(&p.ID, &p.JobID, &p.PlatformName, &p.FromEmail, &p.Subject, &p.EmailType, &created); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *JobRepository) query(ctx context.Context, q string, args ...any) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
