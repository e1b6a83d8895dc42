// Package scheduler runs the periodic expiry of stale pending imports.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer expires pending imports older than a given age.
type Expirer interface {
	ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler wraps robfig/cron.
type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	ttl     time.Duration
	spec    string // cron spec, e.g. "@every 1h"
	log     *slog.Logger
}

func New(expirer Expirer, spec string, ttl time.Duration, log *slog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		expirer: expirer,
		ttl:     ttl,
		spec:    spec,
		log:     log,
	}
}

// Start registers the expiry job, starts the scheduler and runs one pass
// right away in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.spec, "ttl", s.ttl)

	go s.RunOnce(ctx)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}

// RunOnce expires stale imports once. Failures are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n, err := s.expirer.ExpireStale(ctx, s.ttl)
	if err != nil {
		s.log.Error("expire pending imports", "error", err)
		return
	}
	s.log.Debug("expiry pass complete", "expired", n)
}

type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
