package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/DanielMontoya72/490-The-Team-sub011/api/http/presenter"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailimport"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
)

// ImportReviewer is the pending-import half of emailimport.Service.
type ImportReviewer interface {
	ListPending(ctx context.Context, userID uuid.UUID, status emailimport.PendingStatus, limit, offset int) ([]emailimport.PendingImport, error)
	GetPending(ctx context.Context, userID, id uuid.UUID) (emailimport.PendingImport, error)
	Confirm(ctx context.Context, userID, id uuid.UUID) (job.Job, error)
	Dismiss(ctx context.Context, userID, id uuid.UUID) error
}

type ImportHandler struct {
	svc ImportReviewer
}

func NewImportHandler(svc ImportReviewer) *ImportHandler { return &ImportHandler{svc: svc} }

// @Summary  List pending imports
// @Tags     imports
// @Produce  json
// @Param    status query string false "pending, confirmed, dismissed or expired; empty for all"
// @Param    limit  query int    false "page size (max 200)"
// @Param    offset query int    false "offset"
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /imports [get]
func (h *ImportHandler) List(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "could not resolve user")
	}
	status := emailimport.PendingStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	if status != "" && !status.Valid() {
		return presenter.Error(c, http.StatusBadRequest, "unknown status")
	}
	limit, offset := page(c)
	items, err := h.svc.ListPending(c.UserContext(), uid, status, limit, offset)
	if err != nil {
		return importError(c, err)
	}
	if items == nil {
		items = []emailimport.PendingImport{}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true, "imports": items})
}

// @Summary  Get a pending import
// @Tags     imports
// @Produce  json
// @Param    id path string true "import id (UUID)"
// @Security BearerAuth
// @Success  200 {object} emailimport.PendingImport
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /imports/{id} [get]
func (h *ImportHandler) Get(c *fiber.Ctx) error {
	uid, id, ok, err := userAndID(c)
	if !ok {
		return err
	}
	p, err := h.svc.GetPending(c.UserContext(), uid, id)
	if err != nil {
		return importError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// @Summary  Confirm a pending import
// @Description Creates a tracked job from the import and records its platform.
// @Tags     imports
// @Produce  json
// @Param    id path string true "import id (UUID)"
// @Security BearerAuth
// @Success  201 {object} map[string]any
// @Failure  404 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /imports/{id}/confirm [post]
func (h *ImportHandler) Confirm(c *fiber.Ctx) error {
	uid, id, ok, err := userAndID(c)
	if !ok {
		return err
	}
	j, err := h.svc.Confirm(c.UserContext(), uid, id)
	if err != nil {
		return importError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"success": true, "job": j})
}

// @Summary  Dismiss a pending import
// @Tags     imports
// @Param    id path string true "import id (UUID)"
// @Security BearerAuth
// @Success  204 {object} nil
// @Failure  404 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /imports/{id}/dismiss [post]
func (h *ImportHandler) Dismiss(c *fiber.Ctx) error {
	uid, id, ok, err := userAndID(c)
	if !ok {
		return err
	}
	if err := h.svc.Dismiss(c.UserContext(), uid, id); err != nil {
		return importError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func importError(c *fiber.Ctx, err error) error {
	var verr job.ErrValidation
	switch {
	case errors.Is(err, emailimport.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "pending import not found")
	case errors.Is(err, emailimport.ErrNotPending):
		return presenter.Error(c, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusUnprocessableEntity, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "failed to process pending import")
	}
}
