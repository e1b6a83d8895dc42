package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/DanielMontoya72/490-The-Team-sub011/api/http/presenter"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/security/jwt"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

var errNoUser = errors.New("no authenticated user")

// currentUser reads the id the auth middleware stored in locals.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(jwt.LocalUserID).(string)
	if s == "" {
		return uuid.Nil, errNoUser
	}
	return uuid.Parse(s)
}

// userAndID resolves the caller and the :id path param. When ok is false the
// error response has already been written and err is what the handler
// should return.
func userAndID(c *fiber.Ctx) (uid, id uuid.UUID, ok bool, err error) {
	if uid, err = currentUser(c); err != nil {
		return uid, id, false, presenter.Error(c, http.StatusUnauthorized, "could not resolve user")
	}
	if id, err = uuid.Parse(c.Params("id")); err != nil {
		return uid, id, false, presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	return uid, id, true, nil
}

// page reads ?limit= and ?offset=. Limits above maxPageSize are clamped;
// anything unparsable falls back to the defaults.
func page(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	if n, err := strconv.Atoi(c.Query("offset")); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}
