package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
)

// JobRepository stores tracked jobs and the platforms each was seen on.
type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `id, user_id, job_title, company_name, location, status, platform_count, created_at, updated_at`

func scanJob(row pgx.Row) (job.Job, error) {
	var j job.Job
	if err := row.Scan(&j.ID, &j.UserID, &j.JobTitle, &j.CompanyName, &j.Location,
		&j.Status, &j.PlatformCount, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return job.Job{}, err
	}
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()
	return j, nil
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO jobs (`+jobColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, j.ID, j.UserID, j.JobTitle, j.CompanyName, j.Location, j.Status, j.PlatformCount, j.CreatedAt, j.UpdatedAt)
	return err
}

func (r *JobRepository) GetForOwner(ctx context.Context, userID, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.pool.QueryRow(ctx, `
SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND user_id = $2
`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
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
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, userID, limit, offset)
}

func (r *JobRepository) DeleteForOwner(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *JobRepository) FindMatching(ctx context.Context, userID uuid.UUID, title, company string) ([]job.Job, error) {
	return r.query(ctx, `
SELECT `+jobColumns+` FROM jobs
WHERE user_id = $1
	AND strpos(lower(job_title), lower($2)) > 0
	AND strpos(lower(company_name), lower($3)) > 0
ORDER BY created_at DESC
`, userID, title, company)
}

// AttachPlatform relies on the unique index on (job_id, platform_name): a
// concurrent duplicate fails the insert and leaves the count alone.
func (r *JobRepository) AttachPlatform(ctx context.Context, p job.ApplicationPlatform) (bool, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO application_platforms (id, job_id, platform_name, from_email, subject, email_type, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, p.ID, p.JobID, p.PlatformName, p.FromEmail, p.Subject, p.EmailType, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}

	cmd, err := tx.Exec(ctx, `
UPDATE jobs SET platform_count = platform_count + 1, updated_at = $2 WHERE id = $1
`, p.JobID, p.CreatedAt)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, job.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *JobRepository) ListPlatforms(ctx context.Context, userID, jobID uuid.UUID) ([]job.ApplicationPlatform, error) {
	rows, err := r.pool.Query(ctx, `
SELECT ap.id, ap.job_id, ap.platform_name, ap.from_email, ap.subject, ap.email_type, ap.created_at
FROM application_platforms ap
JOIN jobs j ON j.id = ap.job_id
WHERE j.user_id = $1 AND ap.job_id = $2
ORDER BY ap.created_at
`, userID, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []job.ApplicationPlatform
	for rows.Next() {
		var p job.ApplicationPlatform
		if err := rows.Scan(&p.ID, &p.JobID, &p.PlatformName, &p.FromEmail, &p.Subject, &p.EmailType, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *JobRepository) query(ctx context.Context, sql string, args ...any) ([]job.Job, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, j)
	}
	return res, rows.Err()
}
