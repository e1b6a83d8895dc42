package emailimport

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailtype"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
)

// ListPending returns the user's imports with the given status, or all of
// them when status is empty.
func (s *Service) ListPending(ctx context.Context, userID uuid.UUID, status PendingStatus, limit, offset int) ([]PendingImport, error) {
	if status != "" && !status.Valid() {
		return nil, job.ErrValidation("unknown status " + string(status))
	}
	items, err := s.pending.ListByOwner(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, persistErr("list pending imports", err)
	}
	return items, nil
}

func (s *Service) GetPending(ctx context.Context, userID, id uuid.UUID) (PendingImport, error) {
	p, err := s.pending.GetForOwner(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PendingImport{}, err
		}
		return PendingImport{}, persistErr("get pending import", err)
	}
	return p, nil
}

// Confirm turns a pending import into a tracked job. The import must still be
// pending and carry both a title and a company.
func (s *Service) Confirm(ctx context.Context, userID, id uuid.UUID) (job.Job, error) {
	p, err := s.GetPending(ctx, userID, id)
	if err != nil {
		return job.Job{}, err
	}
	if p.Status != StatusPending {
		return job.Job{}, ErrNotPending
	}
	if p.JobTitle == nil || p.Company == nil {
		return job.Job{}, job.ErrValidation("pending import has no job title or company")
	}
	if !emailtype.Valid(emailtype.Type(p.EmailType)) {
		return job.Job{}, job.ErrValidation("pending import has unknown email type " + p.EmailType)
	}

	now := s.now()
	j, err := job.Prepare(job.Job{
		UserID:      userID,
		JobTitle:    *p.JobTitle,
		CompanyName: *p.Company,
		Location:    p.Location,
		Status:      statusFor(emailtype.Type(p.EmailType)),
	}, now)
	if err != nil {
		return job.Job{}, err
	}

	// Claim the import before creating anything so concurrent confirms
	// cannot both create a job.
	if err := s.pending.Resolve(ctx, userID, id, StatusConfirmed, nil, now); err != nil {
		if errors.Is(err, ErrNotPending) || errors.Is(err, ErrNotFound) {
			return job.Job{}, err
		}
		return job.Job{}, persistErr("confirm pending import", err)
	}
	j, err = s.createConfirmed(ctx, p, j, now)
	if err != nil {
		if rerr := s.pending.Reopen(ctx, userID, id, s.now()); rerr != nil {
			s.log.Warn("reopen pending import failed", "import_id", id, "error", rerr)
		}
		return job.Job{}, err
	}

	s.publish(ctx, Event{Type: EventImportConfirmed, UserID: userID, Platform: p.Platform, EmailType: p.EmailType, Action: ActionCreated, JobID: &j.ID, PendingImportID: &id})
	return j, nil
}

func (s *Service) createConfirmed(ctx context.Context, p PendingImport, j job.Job, now time.Time) (job.Job, error) {
	if err := s.jobs.Create(ctx, j); err != nil {
		return job.Job{}, persistErr("create job", err)
	}
	created, err := s.jobs.AttachPlatform(ctx, job.ApplicationPlatform{
		ID:           uuid.New(),
		JobID:        j.ID,
		PlatformName: p.Platform,
		FromEmail:    p.FromEmail,
		Subject:      p.Subject,
		EmailType:    p.EmailType,
		CreatedAt:    now,
	})
	if err != nil {
		return job.Job{}, persistErr("attach platform", err)
	}
	if created {
		j.PlatformCount = 1
	}
	if err := s.pending.LinkJob(ctx, p.UserID, p.ID, j.ID, now); err != nil {
		return job.Job{}, persistErr("link job to pending import", err)
	}
	return j, nil
}

// Dismiss marks a pending import as dismissed.
func (s *Service) Dismiss(ctx context.Context, userID, id uuid.UUID) error {
	p, err := s.GetPending(ctx, userID, id)
	if err != nil {
		return err
	}
	if p.Status != StatusPending {
		return ErrNotPending
	}
	if err := s.pending.Resolve(ctx, userID, id, StatusDismissed, nil, s.now()); err != nil {
		if errors.Is(err, ErrNotPending) {
			return err
		}
		return persistErr("dismiss pending import", err)
	}
	s.publish(ctx, Event{Type: EventImportDismissed, UserID: userID, Platform: p.Platform, PendingImportID: &id})
	return nil
}

// ExpireStale expires pending imports older than olderThan and returns how
// many were touched.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	now := s.now()
	n, err := s.pending.ExpireBefore(ctx, now.Add(-olderThan), now)
	if err != nil {
		return 0, persistErr("expire pending imports", err)
	}
	if n > 0 {
		s.log.Info("pending imports expired", "count", n, "older_than", olderThan)
		s.publish(ctx, Event{Type: EventImportsExpired, Count: n})
	}
	return n, nil
}
