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
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailtype"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/platform"
)

// EmailImporter is the part of emailimport.Service the email routes use.
type EmailImporter interface {
	Parse(ctx context.Context, userID uuid.UUID, e emailimport.Email, opts emailimport.ParseOptions) (emailimport.Result, error)
	Classify(e emailimport.Email) emailtype.Type
	Platforms() []string
}

type EmailHandler struct {
	svc EmailImporter
}

func NewEmailHandler(svc EmailImporter) *EmailHandler { return &EmailHandler{svc: svc} }

type parseEmailRequest struct {
	FromEmail  string `json:"fromEmail"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	RawContent string `json:"rawContent,omitempty"`
	AutoCreate bool   `json:"autoCreate,omitempty"`
}

func (r parseEmailRequest) email() emailimport.Email {
	return emailimport.Email{FromEmail: strings.TrimSpace(r.FromEmail), Subject: r.Subject, Body: r.Body, RawContent: r.RawContent}
}

type parseEmailResponse struct {
	Success          bool                       `json:"success"`
	Action           emailimport.Action         `json:"action,omitempty"`
	JobID            *uuid.UUID                 `json:"jobId,omitempty"`
	PendingImport    *emailimport.PendingImport `json:"pendingImport,omitempty"`
	ExtractedDetails platform.JobDetails        `json:"extractedDetails"`
	Platform         string                     `json:"platform"`
	EmailType        emailtype.Type             `json:"emailType"`
	IsDuplicate      *bool                      `json:"isDuplicate,omitempty"`
}

// Parse handles a forwarded platform email.
// @Summary     Parse a job platform email
// @Description Detects the platform, extracts job details, classifies the email and merges it into a tracked job or stages it for review.
// @Tags        emails
// @Accept      json
// @Produce     json
// @Param       input body parseEmailRequest true "email payload"
// @Security    BearerAuth
// @Success     200 {object} parseEmailResponse
// @Failure     400 {object} presenter.ErrorResponse
// @Failure     401 {object} presenter.ErrorResponse
// @Failure     429 {object} presenter.ErrorResponse
// @Failure     500 {object} presenter.ErrorResponse
// @Router      /emails/parse [post]
func (h *EmailHandler) Parse(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "could not resolve user")
	}
	var req parseEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	res, err := h.svc.Parse(c.UserContext(), uid, req.email(), emailimport.ParseOptions{AutoCreate: req.AutoCreate})
	if err != nil {
		var pe *emailimport.PersistenceError
		switch {
		case errors.Is(err, emailimport.ErrUnsupportedPlatform):
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &pe):
			return presenter.Error(c, http.StatusInternalServerError, "failed to save email import")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to process email")
		}
	}

	out := parseEmailResponse{
		Success:          true,
		Action:           res.Action,
		JobID:            res.JobID,
		PendingImport:    res.PendingImport,
		ExtractedDetails: res.Details,
		Platform:         res.Platform,
		EmailType:        res.EmailType,
	}
	if res.Action == emailimport.ActionMerged {
		dup := res.IsDuplicate
		out.IsDuplicate = &dup
	}
	return presenter.JSON(c, http.StatusOK, out)
}

type classifyEmailRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Classify tags an arbitrary email.
// @Summary  Classify an email
// @Tags     emails
// @Accept   json
// @Produce  json
// @Param    input body classifyEmailRequest true "email payload"
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /emails/classify [post]
func (h *EmailHandler) Classify(c *fiber.Ctx) error {
	var req classifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	t := h.svc.Classify(emailimport.Email{Subject: req.Subject, Body: req.Body})
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true, "emailType": t})
}

// Platforms lists the detectable platforms.
// @Summary  List supported platforms
// @Tags     emails
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Router   /emails/platforms [get]
func (h *EmailHandler) Platforms(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true, "platforms": h.svc.Platforms()})
}
