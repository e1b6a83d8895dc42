package emailimport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
)

func stageOne(t *testing.T, f *fixture) PendingImport {
	t.Helper()
	res, err := f.svc.Parse(context.Background(), f.user, linkedInSent, ParseOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.PendingImport)
	return *res.PendingImport
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	p := stageOne(t, f)

	j, err := f.svc.Confirm(context.Background(), f.user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "CT Technologist", j.JobTitle)
	assert.Equal(t, "Jobot Consulting", j.CompanyName)
	require.NotNil(t, j.Location)
	assert.Equal(t, "New York, NY (On-site)", *j.Location)
	assert.Equal(t, 1, j.PlatformCount)

	stored, err := f.svc.GetPending(context.Background(), f.user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)
	require.NotNil(t, stored.JobID)
	assert.Equal(t, j.ID, *stored.JobID)

	platforms, err := f.jobs.ListPlatforms(context.Background(), f.user, j.ID)
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	assert.Equal(t, "linkedin", platforms[0].PlatformName)

	_, err = f.svc.Confirm(context.Background(), f.user, p.ID)
	assert.ErrorIs(t, err, ErrNotPending)

	f.pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e Event) bool {
		return e.Type == EventImportConfirmed && e.JobID != nil && *e.JobID == j.ID
	}))
}

func TestConfirm_LaterEmailMerges(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	p := stageOne(t, f)

	j, err := f.svc.Confirm(context.Background(), f.user, p.ID)
	require.NoError(t, err)

	res, err := f.svc.Parse(context.Background(), f.user, indeedSubmitted, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, ActionMerged, res.Action)
	assert.Equal(t, j.ID, *res.JobID)
	assert.Equal(t, 2, f.jobs.get(j.ID).PlatformCount)
}

func TestConfirm_MissingCompany(t *testing.T) {
	f := newFixture(t)
	title := "Data Engineer"
	p := PendingImport{ID: uuid.New(), UserID: f.user, Platform: "indeed", JobTitle: &title, Status: StatusPending, CreatedAt: f.clock}
	require.NoError(t, f.pending.Create(context.Background(), p))

	_, err := f.svc.Confirm(context.Background(), f.user, p.ID)
	var verr job.ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestConfirm_ConcurrentCreatesOneJob(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	p := stageOne(t, f)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			_, errs[i] = f.svc.Confirm(context.Background(), f.user, p.ID)
		})
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrNotPending)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, f.jobs.jobs, 1)

	stored, err := f.svc.GetPending(context.Background(), f.user, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.JobID)
	assert.Equal(t, f.jobs.jobs[0].ID, *stored.JobID)
}

func TestConfirm_StoreFailureReopens(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	p := stageOne(t, f)

	f.jobs.err = errors.New("connection reset")
	_, err := f.svc.Confirm(context.Background(), f.user, p.ID)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)

	stored, err := f.svc.GetPending(context.Background(), f.user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Nil(t, stored.JobID)

	f.jobs.err = nil
	j, err := f.svc.Confirm(context.Background(), f.user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, j.PlatformCount)
}

func TestConfirm_UnknownEmailType(t *testing.T) {
	f := newFixture(t)
	title, company := "Data Engineer", "Initech"
	p := PendingImport{ID: uuid.New(), UserID: f.user, Platform: "indeed", JobTitle: &title, Company: &company,
		EmailType: "newsletter", Status: StatusPending, CreatedAt: f.clock}
	require.NoError(t, f.pending.Create(context.Background(), p))

	_, err := f.svc.Confirm(context.Background(), f.user, p.ID)
	var verr job.ErrValidation
	assert.ErrorAs(t, err, &verr)

	stored, err := f.svc.GetPending(context.Background(), f.user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Empty(t, f.jobs.jobs)
}

func TestDismiss(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	p := stageOne(t, f)

	require.NoError(t, f.svc.Dismiss(context.Background(), f.user, p.ID))

	stored, err := f.svc.GetPending(context.Background(), f.user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDismissed, stored.Status)
	assert.Nil(t, stored.JobID)
	assert.Empty(t, f.jobs.jobs)

	assert.ErrorIs(t, f.svc.Dismiss(context.Background(), f.user, p.ID), ErrNotPending)
	_, err = f.svc.Confirm(context.Background(), f.user, p.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestPending_OtherUserCannotSee(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	p := stageOne(t, f)
	stranger := uuid.New()

	_, err := f.svc.GetPending(context.Background(), stranger, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Dismiss(context.Background(), stranger, p.ID), ErrNotFound)
	_, err = f.svc.Confirm(context.Background(), stranger, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPending(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	a := stageOne(t, f)
	stageOne(t, f)
	require.NoError(t, f.svc.Dismiss(context.Background(), f.user, a.ID))

	all, err := f.svc.ListPending(context.Background(), f.user, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := f.svc.ListPending(context.Background(), f.user, StatusPending, 50, 0)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	_, err = f.svc.ListPending(context.Background(), f.user, "archived", 50, 0)
	assert.Error(t, err)
}

func TestExpireStale(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	old := stageOne(t, f)
	f.clock = f.clock.Add(10 * 24 * time.Hour)
	fresh := stageOne(t, f)

	n, err := f.svc.ExpireStale(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := f.svc.GetPending(context.Background(), f.user, old.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)

	got, err = f.svc.GetPending(context.Background(), f.user, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	n, err = f.svc.ExpireStale(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
	f.pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e Event) bool {
		return e.Type == EventImportsExpired && e.Count == 1
	}))
}
