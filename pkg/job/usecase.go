package job

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UseCase is the application layer for tracked jobs.
type UseCase interface {
	Create(ctx context.Context, j Job) (Job, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Job, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Job, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Platforms(ctx context.Context, userID, id uuid.UUID) ([]ApplicationPlatform, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) UseCase {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, j Job) (Job, error) {
	j, err := Prepare(j, s.now())
	if err != nil {
		return Job{}, err
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return Job{}, err
	}
	return j, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (Job, error) {
	return s.repo.GetForOwner(ctx, userID, id)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Job, error) {
	return s.repo.ListByOwner(ctx, userID, limit, offset)
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteForOwner(ctx, userID, id)
}

func (s *service) Platforms(ctx context.Context, userID, id uuid.UUID) ([]ApplicationPlatform, error) {
	if _, err := s.repo.GetForOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.ListPlatforms(ctx, userID, id)
}

// Prepare validates j and fills defaults: a new ID, status applied, and
// timestamps at now.
func Prepare(j Job, now time.Time) (Job, error) {
	j.JobTitle = strings.TrimSpace(j.JobTitle)
	j.CompanyName = strings.TrimSpace(j.CompanyName)
	if j.UserID == uuid.Nil {
		return Job{}, ErrValidation("user is required")
	}
	if j.JobTitle == "" {
		return Job{}, ErrValidation("jobTitle is required")
	}
	if j.CompanyName == "" {
		return Job{}, ErrValidation("companyName is required")
	}
	if j.Status == "" {
		j.Status = StatusApplied
	}
	if !j.Status.Valid() {
		return Job{}, ErrValidation("unknown status " + string(j.Status))
	}
	if j.Location != nil {
		if loc := strings.TrimSpace(*j.Location); loc != "" {
			j.Location = &loc
		} else {
			j.Location = nil
		}
	}
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = j.CreatedAt
	return j, nil
}

// ErrValidation is a simple validation error.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
