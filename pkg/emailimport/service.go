package emailimport

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailtext"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailtype"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/platform"
)

// ParseOptions tune a single Parse call.
type ParseOptions struct {
	// AutoCreate creates a job instead of a pending import when nothing matches.
	AutoCreate bool
}

// Result is what Parse reports back to the caller.
type Result struct {
	Platform  string
	Details   platform.JobDetails
	EmailType emailtype.Type
	Outcome
}

// Service is the email import pipeline.
type Service struct {
	registry     *platform.Registry
	resolver     *Resolver
	jobs         job.Repository
	pending      PendingRepository
	publisher    Publisher
	log          *slog.Logger
	previewChars int
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where import events go. Defaults to NopPublisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPreviewChars bounds the preview stored with pending imports.
func WithPreviewChars(n int) Option {
	return func(s *Service) { s.previewChars = n }
}

func NewService(registry *platform.Registry, jobs job.Repository, pending PendingRepository, opts ...Option) *Service {
	s := &Service{
		registry:     registry,
		resolver:     NewResolver(jobs, pending),
		jobs:         jobs,
		pending:      pending,
		publisher:    NopPublisher{},
		log:          slog.Default(),
		previewChars: emailtext.DefaultPreviewChars,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Parse detects the platform, extracts job details, classifies the email and
// resolves it against the user's jobs. It returns ErrUnsupportedPlatform when
// no platform matches and a *PersistenceError when storage fails.
func (s *Service) Parse(ctx context.Context, userID uuid.UUID, e Email, opts ParseOptions) (Result, error) {
	name, ok := s.registry.Detect(e.FromEmail, e.Subject)
	if !ok {
		return Result{}, ErrUnsupportedPlatform
	}

	body := emailtext.Normalize(e.Body)
	if strings.TrimSpace(body) == "" && e.RawContent != "" {
		body = emailtext.Normalize(e.RawContent)
	}

	res := Result{
		Platform:  name,
		Details:   s.registry.Extract(name, e.Subject, body),
		EmailType: emailtype.ClassifyPlatformEmail(e.Subject, body),
	}

	raw := e.RawContent
	if raw == "" {
		raw = e.Body
	}
	out, err := s.resolver.ResolveAndPersist(ctx, ResolveInput{
		UserID:     userID,
		Platform:   name,
		Details:    res.Details,
		EmailType:  res.EmailType,
		Email:      e,
		Preview:    emailtext.Preview(raw, s.previewChars),
		AutoCreate: opts.AutoCreate,
	})
	if err != nil {
		s.log.Error("resolve email import", "user_id", userID, "platform", name, "error", err)
		return Result{}, err
	}
	res.Outcome = out

	s.log.Info("email parsed",
		"user_id", userID,
		"platform", name,
		"email_type", res.EmailType,
		"action", out.Action,
		"duplicate", out.IsDuplicate,
	)
	if out.Action != "" {
		ev := Event{
			Type:        EventEmailImported,
			UserID:      userID,
			Platform:    name,
			EmailType:   string(res.EmailType),
			Action:      out.Action,
			JobID:       out.JobID,
			IsDuplicate: out.IsDuplicate,
		}
		if out.PendingImport != nil {
			ev.PendingImportID = &out.PendingImport.ID
		}
		s.publish(ctx, ev)
	}
	return res, nil
}

// Classify runs the general inbox classifier.
func (s *Service) Classify(e Email) emailtype.Type {
	return emailtype.Classify(e.Subject, emailtext.Normalize(e.Body))
}

// Platforms lists the names of the platforms the service can detect.
func (s *Service) Platforms() []string {
	return s.registry.Names()
}

func (s *Service) publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now()
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("publish import event", "type", e.Type, "error", err)
	}
}
