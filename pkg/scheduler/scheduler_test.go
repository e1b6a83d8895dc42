package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExpirer struct {
	calls chan time.Duration
	err   error
}

func (s *stubExpirer) ExpireStale(_ context.Context, olderThan time.Duration) (int64, error) {
	s.calls <- olderThan
	return 3, s.err
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestStart_RunsImmediately(t *testing.T) {
	exp := &stubExpirer{calls: make(chan time.Duration, 4)}
	s := New(exp, "@every 1h", 72*time.Hour, discard())

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Stop(context.Background()) })

	select {
	case got := <-exp.calls:
		assert.Equal(t, 72*time.Hour, got)
	case <-time.After(2 * time.Second):
		t.Fatal("expiry did not run on start")
	}
}

func TestStart_BadSpec(t *testing.T) {
	s := New(&stubExpirer{calls: make(chan time.Duration, 1)}, "every now and then", time.Hour, discard())
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every now and then")
}

func TestRunOnce_ErrorIsSwallowed(t *testing.T) {
	exp := &stubExpirer{calls: make(chan time.Duration, 1), err: errors.New("db down")}
	s := New(exp, "@every 1h", time.Hour, discard())
	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })
	assert.Len(t, exp.calls, 1)
}
