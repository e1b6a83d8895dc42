package emailimport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailtype"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/platform"
)

var (
	linkedInSent = Email{
		FromEmail: "jobs-noreply@linkedin.com",
		Subject:   "Matthew, your application was sent to Jobot Consulting",
		Body:      "Your application was sent to Jobot Consulting\n\nCT Technologist\nJobot Consulting · New York, NY (On-site)\n\nApplied on October 1",
	}
	indeedSubmitted = Email{
		FromEmail: "no-reply@indeed.com",
		Subject:   "Application Submitted: CT Technologist at Jobot Consulting",
		Body:      "Your application has been submitted.",
	}
)

type fixture struct {
	svc     *Service
	jobs    *memJobs
	pending *memPending
	pub     *mockPublisher
	user    uuid.UUID
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg, err := platform.Default()
	require.NoError(t, err)

	f := &fixture{
		jobs:    &memJobs{},
		pending: newMemPending(),
		pub:     &mockPublisher{},
		user:    uuid.New(),
		clock:   time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(reg, f.jobs, f.pending,
		WithPublisher(f.pub),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	now := func() time.Time { return f.clock }
	f.svc.now = now
	f.svc.resolver.now = now
	return f
}

func (f *fixture) seedJob(t *testing.T, title, company string, created time.Time, platforms ...string) job.Job {
	t.Helper()
	j, err := job.Prepare(job.Job{UserID: f.user, JobTitle: title, CompanyName: company}, created)
	require.NoError(t, err)
	require.NoError(t, f.jobs.Create(context.Background(), j))
	for _, p := range platforms {
		_, err := f.jobs.AttachPlatform(context.Background(), job.ApplicationPlatform{ID: uuid.New(), JobID: j.ID, PlatformName: p})
		require.NoError(t, err)
	}
	return f.jobs.get(j.ID)
}

func (f *fixture) expectEvent(eventType string, action Action) {
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(e Event) bool {
		return e.Type == eventType && e.Action == action
	})).Return(nil).Once()
}

func TestParse_NoMatchStagesPendingImport(t *testing.T) {
	f := newFixture(t)
	f.expectEvent(EventEmailImported, ActionPending)

	res, err := f.svc.Parse(context.Background(), f.user, linkedInSent, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, "linkedin", res.Platform)
	assert.Equal(t, emailtype.ApplicationConfirmation, res.EmailType)
	require.NotNil(t, res.Details.JobTitle)
	assert.Equal(t, "CT Technologist", *res.Details.JobTitle)
	assert.Equal(t, "Jobot Consulting", *res.Details.Company)
	assert.Equal(t, "New York, NY (On-site)", *res.Details.Location)

	assert.Equal(t, ActionPending, res.Action)
	assert.Nil(t, res.JobID)
	require.NotNil(t, res.PendingImport)
	assert.Equal(t, StatusPending, res.PendingImport.Status)
	assert.Equal(t, "linkedin", res.PendingImport.Platform)
	assert.Contains(t, res.PendingImport.Preview, "CT Technologist")

	stored, err := f.pending.GetForOwner(context.Background(), f.user, res.PendingImport.ID)
	require.NoError(t, err)
	assert.Equal(t, *res.PendingImport, stored)
	f.pub.AssertExpectations(t)
}

func TestParse_MergesIntoExistingJob(t *testing.T) {
	f := newFixture(t)
	existing := f.seedJob(t, "CT Technologist", "Jobot Consulting", f.clock.Add(-time.Hour), "linkedin")
	require.Equal(t, 1, existing.PlatformCount)

	f.expectEvent(EventEmailImported, ActionMerged)
	res, err := f.svc.Parse(context.Background(), f.user, indeedSubmitted, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, "indeed", res.Platform)
	assert.Equal(t, ActionMerged, res.Action)
	require.NotNil(t, res.JobID)
	assert.Equal(t, existing.ID, *res.JobID)
	assert.False(t, res.IsDuplicate)
	assert.Equal(t, 2, f.jobs.get(existing.ID).PlatformCount)
	f.pub.AssertExpectations(t)
}

func TestParse_SamePlatformTwiceIsDuplicate(t *testing.T) {
	f := newFixture(t)
	existing := f.seedJob(t, "CT Technologist", "Jobot Consulting", f.clock.Add(-time.Hour), "linkedin")

	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	for range 2 {
		res, err := f.svc.Parse(context.Background(), f.user, linkedInSent, ParseOptions{})
		require.NoError(t, err)
		assert.Equal(t, ActionMerged, res.Action)
		assert.True(t, res.IsDuplicate)
	}
	assert.Equal(t, 1, f.jobs.get(existing.ID).PlatformCount)
	assert.Len(t, f.jobs.platforms, 1)
}

func TestParse_MatchIsCaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t)
	existing := f.seedJob(t, "Senior CT TECHNOLOGIST II", "Jobot Consulting Group", f.clock.Add(-time.Hour))

	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	res, err := f.svc.Parse(context.Background(), f.user, indeedSubmitted, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, ActionMerged, res.Action)
	assert.Equal(t, existing.ID, *res.JobID)
}

func TestParse_PicksNewestMatch(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "CT Technologist", "Jobot Consulting", f.clock.Add(-48*time.Hour))
	newer := f.seedJob(t, "CT Technologist", "Jobot Consulting", f.clock.Add(-time.Hour))

	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	res, err := f.svc.Parse(context.Background(), f.user, indeedSubmitted, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, newer.ID, *res.JobID)
}

func TestParse_OtherUsersJobsAreIgnored(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "CT Technologist", "Jobot Consulting", f.clock.Add(-time.Hour))

	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	res, err := f.svc.Parse(context.Background(), uuid.New(), indeedSubmitted, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, ActionPending, res.Action)
}

func TestParse_AutoCreate(t *testing.T) {
	f := newFixture(t)
	f.expectEvent(EventEmailImported, ActionCreated)

	res, err := f.svc.Parse(context.Background(), f.user, indeedSubmitted, ParseOptions{AutoCreate: true})
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	require.NotNil(t, res.JobID)

	created := f.jobs.get(*res.JobID)
	assert.Equal(t, "CT Technologist", created.JobTitle)
	assert.Equal(t, "Jobot Consulting", created.CompanyName)
	assert.Equal(t, job.StatusApplied, created.Status)
	assert.Equal(t, 1, created.PlatformCount)
	assert.Empty(t, f.pending.items)
	f.pub.AssertExpectations(t)
}

func TestParse_TitleWithoutCompanyIsStaged(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Data Engineer", "Initech", f.clock.Add(-time.Hour))

	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	res, err := f.svc.Parse(context.Background(), f.user, Email{
		FromEmail: "no-reply@indeed.com",
		Subject:   "Indeed application update",
		Body:      "Job title: Data Engineer",
	}, ParseOptions{AutoCreate: true})
	require.NoError(t, err)
	assert.Equal(t, ActionPending, res.Action)
	assert.Nil(t, res.PendingImport.Company)
}

func TestParse_NoTitleIsNoOp(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Parse(context.Background(), f.user, Email{
		FromEmail: "jobs-noreply@linkedin.com",
		Subject:   "Your weekly job digest",
		Body:      "Nothing to report",
	}, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, "linkedin", res.Platform)
	assert.Equal(t, Action(""), res.Action)
	assert.Nil(t, res.JobID)
	assert.Nil(t, res.PendingImport)
	assert.True(t, res.Details.Empty())
	assert.Empty(t, f.pending.items)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestParse_UnsupportedPlatform(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Parse(context.Background(), f.user, Email{
		FromEmail: "friend@example.com",
		Subject:   "Lunch?",
		Body:      "Tacos at noon",
	}, ParseOptions{})
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Equal(t, "Could not detect job platform from email", err.Error())
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestParse_StoreFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection reset")
	f.pending.err = boom

	_, err := f.svc.Parse(context.Background(), f.user, linkedInSent, ParseOptions{})
	require.Error(t, err)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "create pending import", pe.Op)
	assert.ErrorIs(t, err, boom)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestParse_MatchLookupFailure(t *testing.T) {
	f := newFixture(t)
	f.jobs.err = errors.New("timeout")

	_, err := f.svc.Parse(context.Background(), f.user, indeedSubmitted, ParseOptions{})
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "find matching jobs", pe.Op)
}

func TestParse_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	res, err := f.svc.Parse(context.Background(), f.user, linkedInSent, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, ActionPending, res.Action)
	f.pub.AssertExpectations(t)
}

func TestParse_HTMLBody(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.Parse(context.Background(), f.user, Email{
		FromEmail: "jobs-noreply@linkedin.com",
		Subject:   "Matthew, your application was sent to Jobot Consulting",
		Body: `<html><body><p>Your application was sent to Jobot Consulting</p>
<div>CT Technologist</div><div>Jobot Consulting &middot; New York, NY (On-site)</div></body></html>`,
	}, ParseOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Details.JobTitle)
	assert.Equal(t, "CT Technologist", *res.Details.JobTitle)
	assert.Equal(t, "New York, NY (On-site)", *res.Details.Location)
}

func TestClassify(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, emailtype.Rejection, f.svc.Classify(Email{
		Subject: "Your application to Acme",
		Body:    "Unfortunately, we have decided not to move forward. We will not be moving forward with your application.",
	}))
	assert.Equal(t, emailtype.Other, f.svc.Classify(Email{Subject: "Lunch?", Body: "Tacos"}))
}
