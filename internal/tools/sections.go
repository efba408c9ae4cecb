package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// GetSectionsTool handles the get_sections and get_sections_by_level
// MCP tools. Both list every section at one heading level; they are
// registered under two names for compatibility.
type GetSectionsTool struct {
	name string
	svc  *query.Service
}

// NewGetSectionsTool creates a GetSectionsTool registered under name,
// either "get_sections" or "get_sections_by_level".
func NewGetSectionsTool(name string, svc *query.Service) *GetSectionsTool {
	return &GetSectionsTool{name: name, svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *GetSectionsTool) Definition() mcp.Tool {
	return mcp.NewTool(t.name,
		mcp.WithDescription(
			"List every section at the given heading level (1..6) in "+
				"source order, with content.",
		),
		mcp.WithNumber("level",
			mcp.Required(),
			mcp.Description("Heading level to list, 1 through 6."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of sections to return. Omit or 0 for all."),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of sections to skip before the first returned one."),
		),
	)
}

// Handle processes the tool call.
func (t *GetSectionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := int(req.GetFloat("level", 0))
	limit := int(req.GetFloat("limit", 0))
	offset := int(req.GetFloat("offset", 0))

	secs, err := t.svc.GetSectionsByLevel(level)
	if err != nil {
		return errorResult(err)
	}
	window, pg := query.Paginate(secs, limit, offset)
	return jsonResult(page[query.SectionDetail]{Items: window, Pagination: pg})
}
