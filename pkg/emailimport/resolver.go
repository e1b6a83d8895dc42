package emailimport

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailtype"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/platform"
)

// ResolveInput is everything the resolver needs about one parsed email.
type ResolveInput struct {
	UserID     uuid.UUID
	Platform   string
	Details    platform.JobDetails
	EmailType  emailtype.Type
	Email      Email
	Preview    string
	AutoCreate bool
}

// Resolver decides whether a parsed email belongs to an existing job.
type Resolver struct {
	jobs    job.Repository
	pending PendingRepository
	now     func() time.Time
}

func NewResolver(jobs job.Repository, pending PendingRepository) *Resolver {
	return &Resolver{jobs: jobs, pending: pending, now: func() time.Time { return time.Now().UTC() }}
}

// ResolveAndPersist merges the email into the newest matching job, or, when
// nothing matches, creates a job (AutoCreate) or stages a pending import.
// Without a job title nothing is stored and the outcome has no action.
func (r *Resolver) ResolveAndPersist(ctx context.Context, in ResolveInput) (Outcome, error) {
	d := in.Details
	if d.JobTitle == nil {
		return Outcome{}, nil
	}

	if d.Company != nil {
		matches, err := r.jobs.FindMatching(ctx, in.UserID, *d.JobTitle, *d.Company)
		if err != nil {
			return Outcome{}, persistErr("find matching jobs", err)
		}
		if len(matches) > 0 {
			existing := matches[0]
			created, err := r.jobs.AttachPlatform(ctx, r.platformRow(existing.ID, in))
			if err != nil {
				return Outcome{}, persistErr("attach platform", err)
			}
			return Outcome{Action: ActionMerged, JobID: &existing.ID, IsDuplicate: !created}, nil
		}
	}

	if in.AutoCreate && d.Company != nil {
		return r.createJob(ctx, in)
	}
	return r.stage(ctx, in)
}

func (r *Resolver) createJob(ctx context.Context, in ResolveInput) (Outcome, error) {
	j, err := job.Prepare(job.Job{
		UserID:      in.UserID,
		JobTitle:    *in.Details.JobTitle,
		CompanyName: *in.Details.Company,
		Location:    in.Details.Location,
		Status:      statusFor(in.EmailType),
	}, r.now())
	if err != nil {
		return Outcome{}, err
	}
	if err := r.jobs.Create(ctx, j); err != nil {
		return Outcome{}, persistErr("create job", err)
	}
	if _, err := r.jobs.AttachPlatform(ctx, r.platformRow(j.ID, in)); err != nil {
		return Outcome{}, persistErr("attach platform", err)
	}
	return Outcome{Action: ActionCreated, JobID: &j.ID}, nil
}

func (r *Resolver) stage(ctx context.Context, in ResolveInput) (Outcome, error) {
	now := r.now()
	p := PendingImport{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Platform:  in.Platform,
		JobTitle:  in.Details.JobTitle,
		Company:   in.Details.Company,
		Location:  in.Details.Location,
		EmailType: string(in.EmailType),
		FromEmail: in.Email.FromEmail,
		Subject:   in.Email.Subject,
		Preview:   in.Preview,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.pending.Create(ctx, p); err != nil {
		return Outcome{}, persistErr("create pending import", err)
	}
	return Outcome{Action: ActionPending, PendingImport: &p}, nil
}

func (r *Resolver) platformRow(jobID uuid.UUID, in ResolveInput) job.ApplicationPlatform {
	return job.ApplicationPlatform{
		ID:           uuid.New(),
		JobID:        jobID,
		PlatformName: in.Platform,
		FromEmail:    in.Email.FromEmail,
		Subject:      in.Email.Subject,
		EmailType:    string(in.EmailType),
		CreatedAt:    r.now(),
	}
}

// statusFor picks the initial status of a job created straight from an email.
func statusFor(t emailtype.Type) job.Status {
	switch t {
	case emailtype.InterviewInvitation:
		return job.StatusInterview
	case emailtype.Offer:
		return job.StatusOffer
	case emailtype.Rejection:
		return job.StatusRejected
	}
	return job.StatusApplied
}
