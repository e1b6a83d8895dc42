package health

import (
	"context"
	"sync"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Report is the outcome of one readiness pass. Checks maps each dependency
// to "ok" or its error text.
type Report struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) Report
}

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers. Nil checkers are skipped.
func NewService(checkers ...Checker) ReadinessUseCase {
	s := &service{}
	for _, ch := range checkers {
		if ch != nil {
			s.checkers = append(s.checkers, ch)
		}
	}
	return s
}

// Ready runs every checker concurrently.
func (s *service) Ready(ctx context.Context) Report {
	errs := make([]error, len(s.checkers))
	var wg sync.WaitGroup
	for i, ch := range s.checkers {
		wg.Go(func() { errs[i] = ch.Check(ctx) })
	}
	wg.Wait()

	r := Report{Ready: true, Checks: make(map[string]string, len(s.checkers))}
	for i, ch := range s.checkers {
		if errs[i] != nil {
			r.Ready = false
			r.Checks[ch.Name()] = errs[i].Error()
			continue
		}
		r.Checks[ch.Name()] = "ok"
	}
	return r
}
