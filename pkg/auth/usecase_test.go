package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byEmail map[string]User
	err     error
}

func (m *memUsers) Create(_ context.Context, u User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrUserAlreadyExists
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (User, error) {
	if m.err != nil {
		return User{}, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memUsers) TouchLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	for email, u := range m.byEmail {
		if u.ID == id {
			u.LastLoginAt = &at
			m.byEmail[email] = u
			return nil
		}
	}
	return ErrNotFound
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Generate(ctx context.Context, u User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func newTestService() (*authService, *memUsers, *mockTokens) {
	repo := &memUsers{byEmail: map[string]User{}}
	tokens := &mockTokens{}
	now := func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &authService{repo: repo, tokens: tokens, cost: bcrypt.MinCost, now: now}, repo, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo, tokens := newTestService()
	tokens.On("Generate", mock.Anything, mock.Anything).Return("tok", nil)

	res, err := svc.Register(context.Background(), "  Me@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", res.User.Email)
	assert.Equal(t, "tok", res.Token)
	assert.NotEqual(t, "correct horse", repo.byEmail["me@example.com"].PasswordHash)

	assert.Nil(t, res.User.LastLoginAt)
	id := res.User.ID

	res, err = svc.Login(context.Background(), "ME@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	require.NotNil(t, res.User.LastLoginAt)
	assert.Equal(t, svc.now(), *res.User.LastLoginAt)

	me, err := svc.Me(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", me.Email)
	require.NotNil(t, me.LastLoginAt)
	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Login(context.Background(), "me@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(context.Background(), "me@example.com", "another password")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	tokens.AssertNumberOfCalls(t, "Generate", 2)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []struct {
		email, password string
		want            error
	}{
		{"", "password123", ErrInvalidCredentials},
		{"me@example.com", "", ErrInvalidCredentials},
		{"not-an-email", "password123", ErrInvalidEmail},
		{"Me <me@example.com>", "password123", ErrInvalidEmail},
		{"me@example.com", "short", ErrWeakPassword},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.email, tc.password)
		assert.ErrorIs(t, err, tc.want, "email=%q", tc.email)
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	boom := errors.New("db down")
	repo.err = boom
	_, err := svc.Login(context.Background(), "me@example.com", "password123")
	assert.ErrorIs(t, err, boom)
}
