package emailimport

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventEmailImported   = "email.imported"
	EventImportConfirmed = "import.confirmed"
	EventImportDismissed = "import.dismissed"
	EventImportsExpired  = "imports.expired"
)

// Event is published after an import changes state.
type Event struct {
	Type            string     `json:"type"`
	UserID          uuid.UUID  `json:"userId,omitempty"`
	Platform        string     `json:"platform,omitempty"`
	EmailType       string     `json:"emailType,omitempty"`
	Action          Action     `json:"action,omitempty"`
	JobID           *uuid.UUID `json:"jobId,omitempty"`
	PendingImportID *uuid.UUID `json:"pendingImportId,omitempty"`
	IsDuplicate     bool       `json:"isDuplicate,omitempty"`
	Count           int64      `json:"count,omitempty"`
	OccurredAt      time.Time  `json:"occurredAt"`
}

// Publisher delivers events to whoever listens downstream.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
