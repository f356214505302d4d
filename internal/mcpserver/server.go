// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the template service as tools for LLM integration over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/blueprint/internal/apperr"
	"github.com/starford/blueprint/internal/models"
	"github.com/starford/blueprint/internal/templateservice"
)

// defaultToolOwner is recorded for templates registered through a tool call
// that names no owner.
const defaultToolOwner = "ai_assistant"

// Server wraps the MCP server with Blueprint template tools.
type Server struct {
	mcp *server.MCPServer
	svc *templateservice.Service
}

// New creates a new MCP server with all template tools registered.
func New(svc *templateservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Blueprint",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_template",
		mcp.WithDescription("Retrieve a process template by its unique title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the template to retrieve")),
	), s.getTemplate)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List registered templates, most recently updated first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of templates to return (default 20, max 100)")),
		mcp.WithNumber("offset", mcp.Description("Number of templates to skip")),
		mcp.WithString("owner", mcp.Description("Only return templates with exactly this owner")),
	), s.listTemplates)

	s.mcp.AddTool(mcp.NewTool("register_template",
		mcp.WithDescription("Register a new process template. The title must be unique; "+
			"titles that sanitize to the same storage key collide. Read the format first "+
			"via the get_template_contract tool or the blueprint://template-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Unique title of the template")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content of the template")),
		mcp.WithString("description", mcp.Description("Short description of the template")),
		mcp.WithString("owner", mcp.Description("Owner recorded for the template (default: ai_assistant)")),
	), s.registerTemplate)

	s.mcp.AddTool(mcp.NewTool("update_template",
		mcp.WithDescription("Update an existing template. Only the supplied fields are changed; "+
			"the title is immutable."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the template to update")),
		mcp.WithString("content", mcp.Description("New Markdown content")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("owner", mcp.Description("Owner recorded for the update")),
	), s.updateTemplate)

	s.mcp.AddTool(mcp.NewTool("delete_template",
		mcp.WithDescription("Delete a template by its title. Deletion is immediate and irreversible."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the template to delete")),
	), s.deleteTemplate)

	s.mcp.AddTool(mcp.NewTool("get_template_contract",
		mcp.WithDescription("Returns the canonical template storage format. "+
			"Call this before registering or updating templates."),
	), s.getTemplateContract)

	// Resource: template format contract.
	s.mcp.AddResource(
		mcp.NewResource("blueprint://template-format", "Template Format Contract",
			mcp.WithResourceDescription("Canonical on-disk template format and title keying rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTemplateFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.Get(ctx, title)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("template not found: %s", title)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return templateResult(t)
}

func (s *Server) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	offset := req.GetInt("offset", 0)
	owner := req.GetString("owner", "")

	items, err := s.svc.List(ctx, limit, offset, owner)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if items == nil {
		items = []models.Template{}
	}
	out, _ := json.MarshalIndent(map[string]any{
		"templates": items,
		"total":     len(items),
		"limit":     limit,
		"offset":    offset,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) registerTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t, err := s.svc.Create(ctx, models.TemplateDraft{
		Title:       title,
		Content:     content,
		Description: req.GetString("description", ""),
		Owner:       req.GetString("owner", defaultToolOwner),
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			return mcp.NewToolResultError(fmt.Sprintf("template already exists: %s", title)), nil
		case errors.Is(err, apperr.ErrValidation):
			return mcp.NewToolResultError(err.Error()), nil
		default:
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return templateResult(t)
}

func (s *Server) updateTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Absent arguments stay nil so the store keeps the stored values.
	args := req.GetArguments()
	var upd models.TemplateUpdate
	if v, ok := args["content"].(string); ok {
		upd.Content = &v
	}
	if v, ok := args["description"].(string); ok {
		upd.Description = &v
	}
	if v, ok := args["owner"].(string); ok {
		upd.Owner = &v
	}
	if upd.Empty() {
		return mcp.NewToolResultError("no fields provided to update"), nil
	}

	t, err := s.svc.Update(ctx, title, upd)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("template not found: %s", title)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return templateResult(t)
}

func (s *Server) deleteTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, title); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("template not found: %s", title)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", title)), nil
}

func (s *Server) getTemplateContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TemplateFormatContract), nil
}

func (s *Server) readTemplateFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "blueprint://template-format",
			MIMEType: "text/markdown",
			Text:     TemplateFormatContract,
		},
	}, nil
}

func templateResult(t *models.Template) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(t, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
