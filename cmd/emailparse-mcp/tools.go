package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailimport"
)

const listLimit = 50

type tools struct {
	svc  *emailimport.Service
	user uuid.UUID
}

func (t *tools) register(s *server.MCPServer) {
	parseTool := mcp.NewTool("parse_platform_email",
		mcp.WithDescription("Detect the job platform of a forwarded email, extract job details and merge it into the tracked jobs or stage it for review"),
	)
	parseTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"from_email":  map[string]interface{}{"type": "string", "description": "Sender address"},
			"subject":     map[string]interface{}{"type": "string", "description": "Email subject"},
			"body":        map[string]interface{}{"type": "string", "description": "Plain text or HTML body"},
			"auto_create": map[string]interface{}{"type": "boolean", "description": "Create a job when nothing matches (default false)"},
		},
		Required: []string{"from_email", "subject"},
	}
	s.AddTool(parseTool, t.parse)

	classifyTool := mcp.NewTool("classify_email",
		mcp.WithDescription("Classify an email as application confirmation, interview, offer, rejection, status update or other"),
	)
	classifyTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"subject": map[string]interface{}{"type": "string", "description": "Email subject"},
			"body":    map[string]interface{}{"type": "string", "description": "Email body"},
		},
	}
	s.AddTool(classifyTool, t.classify)

	listTool := mcp.NewTool("list_pending_imports",
		mcp.WithDescription("List staged email imports (default status: pending)"),
	)
	listTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"status": map[string]interface{}{"type": "string", "description": "pending, confirmed, dismissed, expired or all"},
		},
	}
	s.AddTool(listTool, t.listPending)

	confirmTool := mcp.NewTool("confirm_pending_import",
		mcp.WithDescription("Create a tracked job from a pending import"),
	)
	confirmTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"id": map[string]interface{}{"type": "string", "description": "Pending import id"},
		},
		Required: []string{"id"},
	}
	s.AddTool(confirmTool, t.confirm)
}

func (t *tools) parse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	from, _ := args["from_email"].(string)
	subject, _ := args["subject"].(string)
	body, _ := args["body"].(string)
	autoCreate, _ := args["auto_create"].(bool)

	res, err := t.svc.Parse(ctx, t.user, emailimport.Email{FromEmail: strings.TrimSpace(from), Subject: subject, Body: body},
		emailimport.ParseOptions{AutoCreate: autoCreate})
	if err != nil {
		if errors.Is(err, emailimport.ErrUnsupportedPlatform) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse email: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"platform":         res.Platform,
		"emailType":        res.EmailType,
		"extractedDetails": res.Details,
		"action":           res.Action,
		"jobId":            res.JobID,
		"pendingImport":    res.PendingImport,
		"isDuplicate":      res.IsDuplicate,
	})
}

func (t *tools) classify(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	subject, _ := args["subject"].(string)
	body, _ := args["body"].(string)
	return mcp.NewToolResultText(string(t.svc.Classify(emailimport.Email{Subject: subject, Body: body}))), nil
}

func (t *tools) listPending(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	status := emailimport.StatusPending
	if v, ok := args["status"].(string); ok && strings.TrimSpace(v) != "" {
		status = emailimport.PendingStatus(strings.ToLower(strings.TrimSpace(v)))
	}
	if status == "all" {
		status = ""
	}
	items, err := t.svc.ListPending(ctx, t.user, status, listLimit, 0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list imports: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No imports found."), nil
	}
	return jsonResult(items)
}

func (t *tools) confirm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	raw, _ := args["id"].(string)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return mcp.NewToolResultError("id must be a UUID"), nil
	}
	j, err := t.svc.Confirm(ctx, t.user, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to confirm import: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tracking %s at %s (job %s).", j.JobTitle, j.CompanyName, j.ID)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
