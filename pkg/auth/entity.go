// Package auth registers accounts and issues the bearer tokens the rest of
// the API is guarded by.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("email address is invalid")
)

// User is an account that forwards emails and owns tracked jobs.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// UserRepository stores accounts. Emails are stored lower-cased.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// TokenGenerator issues bearer tokens for authenticated users.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}
