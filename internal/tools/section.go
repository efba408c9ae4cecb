package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// GetSectionTool handles the get_section MCP tool.
type GetSectionTool struct {
	svc *query.Service
}

// NewGetSectionTool creates a GetSectionTool.
func NewGetSectionTool(svc *query.Service) *GetSectionTool {
	return &GetSectionTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *GetSectionTool) Definition() mcp.Tool {
	return mcp.NewTool("get_section",
		mcp.WithDescription(
			"Retrieve one section by its dotted path, for example "+
				"'manual.introduction.overview'. The hash syntax "+
				"'manual.adoc#overview' is accepted as well. Returns the "+
				"section's content, source location and children.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Dotted section path or file.ext#section-id."),
		),
	)
}

// Handle processes the get_section tool call.
func (t *GetSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := strings.TrimSpace(req.GetString("path", ""))
	if p == "" {
		return mcp.NewToolResultError("'path' is required — provide a dotted section path"), nil
	}

	sec, err := t.svc.GetSection(p)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(sec)
}
