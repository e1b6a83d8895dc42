package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is where a tracked job sits in the application pipeline.
type Status string

const (
	StatusSaved     Status = "saved"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Job is an application the user is tracking.
type Job struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	JobTitle      string    `json:"jobTitle"`
	CompanyName   string    `json:"companyName"`
	Location      *string   `json:"location"`
	Status        Status    `json:"status"`
	PlatformCount int       `json:"platformCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApplicationPlatform records that a job was seen on a platform. There is at
// most one row per (JobID, PlatformName).
type ApplicationPlatform struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"jobId"`
	PlatformName string    `json:"platformName"`
	FromEmail    string    `json:"fromEmail,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	EmailType    string    `json:"emailType,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a job does not exist or belongs to another user.
var ErrNotFound = errors.New("job not found")

// Repository is the storage port for jobs and their platform rows.
type Repository interface {
	Create(ctx context.Context, j Job) error
	GetForOwner(ctx context.Context, userID, id uuid.UUID) (Job, error)
	ListByOwner(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Job, error)
	DeleteForOwner(ctx context.Context, userID, id uuid.UUID) error
	// FindMatching returns the user's jobs whose title contains title and whose
	// company contains company, case-insensitively, newest first.
	FindMatching(ctx context.Context, userID uuid.UUID, title, company string) ([]Job, error)
	// AttachPlatform inserts the platform row and bumps the job's platform
	// count in one transaction. created is false when the row already existed,
	// in which case nothing changes.
	AttachPlatform(ctx context.Context, p ApplicationPlatform) (created bool, err error)
	ListPlatforms(ctx context.Context, userID, jobID uuid.UUID) ([]ApplicationPlatform, error)
}
