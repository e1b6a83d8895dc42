package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/DanielMontoya72/490-The-Team-sub011/api/http/presenter"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/job"
)

type JobHandler struct {
	uc job.UseCase
}

func NewJobHandler(uc job.UseCase) *JobHandler { return &JobHandler{uc: uc} }

type createJobRequest struct {
	JobTitle    string  `json:"jobTitle"`
	CompanyName string  `json:"companyName"`
	Location    *string `json:"location,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// @Summary  Track a job
// @Tags     jobs
// @Accept   json
// @Produce  json
// @Param    input body createJobRequest true "job"
// @Security BearerAuth
// @Success  201 {object} job.Job
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "could not resolve user")
	}
	var req createJobRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	j, err := h.uc.Create(c.UserContext(), job.Job{
		UserID:      uid,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		Status:      job.Status(req.Status),
	})
	if err != nil {
		var verr job.ErrValidation
		if errors.As(err, &verr) {
			return presenter.Error(c, http.StatusBadRequest, verr.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to create job")
	}
	return presenter.JSON(c, http.StatusCreated, j)
}

// @Summary  Get a tracked job
// @Tags     jobs
// @Produce  json
// @Param    id path string true "job id (UUID)"
// @Security BearerAuth
// @Success  200 {object} job.Job
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /jobs/{id} [get]
func (h *JobHandler) Get(c *fiber.Ctx) error {
	uid, id, ok, err := userAndID(c)
	if !ok {
		return err
	}
	j, err := h.uc.Get(c.UserContext(), uid, id)
	if err != nil {
		return jobError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, j)
}

// @Summary  List tracked jobs
// @Tags     jobs
// @Produce  json
// @Param    limit  query int false "page size (max 200)"
// @Param    offset query int false "offset"
// @Security BearerAuth
// @Success  200 {array} job.Job
// @Router   /jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "could not resolve user")
	}
	limit, offset := page(c)
	jobs, err := h.uc.List(c.UserContext(), uid, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list jobs")
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return presenter.JSON(c, http.StatusOK, jobs)
}

// @Summary  Stop tracking a job
// @Tags     jobs
// @Param    id path string true "job id (UUID)"
// @Security BearerAuth
// @Success  204 {object} nil
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /jobs/{id} [delete]
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	uid, id, ok, err := userAndID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), uid, id); err != nil {
		return jobError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// @Summary  Platforms a job was seen on
// @Tags     jobs
// @Produce  json
// @Param    id path string true "job id (UUID)"
// @Security BearerAuth
// @Success  200 {array} job.ApplicationPlatform
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /jobs/{id}/platforms [get]
func (h *JobHandler) Platforms(c *fiber.Ctx) error {
	uid, id, ok, err := userAndID(c)
	if !ok {
		return err
	}
	rows, err := h.uc.Platforms(c.UserContext(), uid, id)
	if err != nil {
		return jobError(c, err)
	}
	if rows == nil {
		rows = []job.ApplicationPlatform{}
	}
	return presenter.JSON(c, http.StatusOK, rows)
}

func jobError(c *fiber.Ctx, err error) error {
	if errors.Is(err, job.ErrNotFound) {
		return presenter.Error(c, http.StatusNotFound, "job not found")
	}
	return presenter.Error(c, http.StatusInternalServerError, "failed to load job")
}
