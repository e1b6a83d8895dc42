package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/DanielMontoya72/490-The-Team-sub011/api/http/presenter"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/auth"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type credentialsRequest struct {
	Email    string `json:"email" example:"me@example.com"`
	Password string `json:"password" example:"correct horse"`
}

type authResponse struct {
	Success bool      `json:"success"`
	User    auth.User `json:"user"`
	Token   string    `json:"token"`
}

// parseCredentials writes a 400 and returns ok=false when the body is unusable.
func parseCredentials(c *fiber.Ctx) (req credentialsRequest, ok bool, err error) {
	if err := c.BodyParser(&req); err != nil {
		return req, false, presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return req, false, presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}
	return req, true, nil
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "registration payload"
// @Success 201 {object} authResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req, ok, err := parseCredentials(c)
	if !ok {
		return err
	}
	result, err := h.useCase.Register(c.UserContext(), req.Email, req.Password)
	switch {
	case err == nil:
		return presenter.JSON(c, http.StatusCreated, authResponse{Success: true, User: result.User, Token: result.Token})
	case errors.Is(err, auth.ErrUserAlreadyExists):
		return presenter.Error(c, http.StatusConflict, "user already exists")
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
	}
}

// Login exchanges credentials for a bearer token.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "login payload"
// @Success 200 {object} authResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req, ok, err := parseCredentials(c)
	if !ok {
		return err
	}
	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	switch {
	case err == nil:
		return presenter.JSON(c, http.StatusOK, authResponse{Success: true, User: result.User, Token: result.Token})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return presenter.Error(c, http.StatusUnauthorized, "invalid credentials")
	default:
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}
}

// Me returns the caller's account.
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} auth.User
// @Failure  401 {object} presenter.ErrorResponse
// @Router   /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "could not resolve user")
	}
	user, err := h.useCase.Me(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			// token outlived the account
			return presenter.Error(c, http.StatusUnauthorized, "user no longer exists")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load user")
	}
	return presenter.JSON(c, http.StatusOK, user)
}
