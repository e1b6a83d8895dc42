package emailimport

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
)

type memJobs struct {
	mu        sync.Mutex
	jobs      []job.Job
	platforms []job.ApplicationPlatform
	err       error
}

func (m *memJobs) Create(_ context.Context, j job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, j)
	return nil
}

func (m *memJobs) GetForOwner(_ context.Context, userID, id uuid.UUID) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id && j.UserID == userID {
			return j, nil
		}
	}
	return job.Job{}, job.ErrNotFound
}

func (m *memJobs) ListByOwner(_ context.Context, userID uuid.UUID, _, _ int) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []job.Job
	for _, j := range m.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memJobs) DeleteForOwner(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (m *memJobs) FindMatching(_ context.Context, userID uuid.UUID, title, company string) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []job.Job
	for _, j := range m.jobs {
		if j.UserID == userID &&
			strings.Contains(strings.ToLower(j.JobTitle), strings.ToLower(title)) &&
			strings.Contains(strings.ToLower(j.CompanyName), strings.ToLower(company)) {
			out = append(out, j)
		}
	}
	slices.SortFunc(out, func(a, b job.Job) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *memJobs) AttachPlatform(_ context.Context, p job.ApplicationPlatform) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, existing := range m.platforms {
		if existing.JobID == p.JobID && existing.PlatformName == p.PlatformName {
			return false, nil
		}
	}
	m.platforms = append(m.platforms, p)
	for i := range m.jobs {
		if m.jobs[i].ID == p.JobID {
			m.jobs[i].PlatformCount++
		}
	}
	return true, nil
}

func (m *memJobs) ListPlatforms(_ context.Context, _, jobID uuid.UUID) ([]job.ApplicationPlatform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []job.ApplicationPlatform
	for _, p := range m.platforms {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memJobs) get(id uuid.UUID) job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			return j
		}
	}
	return job.Job{}
}

type memPending struct {
	mu    sync.Mutex
	items map[uuid.UUID]PendingImport
	err   error
}

func newMemPending() *memPending {
	return &memPending{items: map[uuid.UUID]PendingImport{}}
}

func (m *memPending) Create(_ context.Context, p PendingImport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[p.ID] = p
	return nil
}

func (m *memPending) GetForOwner(_ context.Context, userID, id uuid.UUID) (PendingImport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.UserID != userID {
		return PendingImport{}, ErrNotFound
	}
	return p, nil
}

func (m *memPending) ListByOwner(_ context.Context, userID uuid.UUID, status PendingStatus, _, _ int) ([]PendingImport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PendingImport
	for _, p := range m.items {
		if p.UserID == userID && (status == "" || p.Status == status) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPending) Resolve(_ context.Context, userID, id uuid.UUID, status PendingStatus, jobID *uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	if p.Status != StatusPending {
		return ErrNotPending
	}
	p.Status, p.JobID, p.UpdatedAt = status, jobID, at
	m.items[id] = p
	return nil
}

func (m *memPending) LinkJob(_ context.Context, userID, id, jobID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.UserID != userID || p.Status != StatusConfirmed || p.JobID != nil {
		return ErrNotFound
	}
	p.JobID, p.UpdatedAt = &jobID, at
	m.items[id] = p
	return nil
}

func (m *memPending) Reopen(_ context.Context, userID, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if ok && p.UserID == userID && p.Status == StatusConfirmed && p.JobID == nil {
		p.Status, p.UpdatedAt = StatusPending, at
		m.items[id] = p
	}
	return nil
}

func (m *memPending) ExpireBefore(_ context.Context, cutoff, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, p := range m.items {
		if p.Status == StatusPending && p.CreatedAt.Before(cutoff) {
			p.Status, p.UpdatedAt = StatusExpired, at
			m.items[id] = p
			n++
		}
	}
	return n, nil
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, e Event) error {
	return m.Called(ctx, e).Error(0)
}
