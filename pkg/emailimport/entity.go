// Package emailimport runs a forwarded platform email through detection,
// extraction and classification, then merges it into the user's tracked
// jobs or stages it for review.
package emailimport

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Email is the payload a user forwards.
type Email struct {
	FromEmail  string
	Subject    string
	Body       string
	RawContent string
}

// Action describes what the resolver did with an email. The zero value means
// nothing was persisted.
type Action string

const (
	ActionMerged  Action = "merged_with_existing"
	ActionPending Action = "pending_review"
	ActionCreated Action = "created"
)

// PendingStatus is the review state of a PendingImport.
type PendingStatus string

const (
	StatusPending   PendingStatus = "pending"
	StatusConfirmed PendingStatus = "confirmed"
	StatusDismissed PendingStatus = "dismissed"
	StatusExpired   PendingStatus = "expired"
)

// Valid reports whether s is a known status.
func (s PendingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDismissed, StatusExpired:
		return true
	}
	return false
}

// PendingImport is an email that matched no tracked job and waits for the
// user to confirm or dismiss it.
type PendingImport struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Platform  string        `json:"platform"`
	JobTitle  *string       `json:"jobTitle"`
	Company   *string       `json:"company"`
	Location  *string       `json:"location"`
	EmailType string        `json:"emailType"`
	FromEmail string        `json:"fromEmail"`
	Subject   string        `json:"subject"`
	Preview   string        `json:"preview,omitempty"`
	Status    PendingStatus `json:"status"`
	JobID     *uuid.UUID    `json:"jobId,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Outcome is the result of ResolveAndPersist.
type Outcome struct {
	Action        Action
	JobID         *uuid.UUID
	PendingImport *PendingImport
	// IsDuplicate is set on a merge when the job already had this platform.
	IsDuplicate bool
}

// PendingRepository stores pending imports.
type PendingRepository interface {
	Create(ctx context.Context, p PendingImport) error
	GetForOwner(ctx context.Context, userID, id uuid.UUID) (PendingImport, error)
	// ListByOwner returns the user's imports newest first. An empty status
	// lists every status.
	ListByOwner(ctx context.Context, userID uuid.UUID, status PendingStatus, limit, offset int) ([]PendingImport, error)
	// Resolve moves a pending import to status. It returns ErrNotPending when
	// the row is no longer pending.
	Resolve(ctx context.Context, userID, id uuid.UUID, status PendingStatus, jobID *uuid.UUID, at time.Time) error
	// LinkJob records the job created for a confirmed import that has none yet.
	LinkJob(ctx context.Context, userID, id, jobID uuid.UUID, at time.Time) error
	// Reopen returns a confirmed import without a job to pending.
	Reopen(ctx context.Context, userID, id uuid.UUID, at time.Time) error
	// ExpireBefore marks every pending import created before cutoff as expired.
	ExpireBefore(ctx context.Context, cutoff, at time.Time) (int64, error)
}
