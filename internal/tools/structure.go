package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// GetStructureTool handles the get_structure MCP tool.
type GetStructureTool struct {
	svc *query.Service
}

// NewGetStructureTool creates a GetStructureTool.
func NewGetStructureTool(svc *query.Service) *GetStructureTool {
	return &GetStructureTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *GetStructureTool) Definition() mcp.Tool {
	return mcp.NewTool("get_structure",
		mcp.WithDescription(
			"List the section hierarchy of the indexed documentation in "+
				"depth-first source order. Each entry carries the section id, "+
				"title, level and child count.",
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Only include sections at this level or above. Omit or 0 for all levels."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return. Omit or 0 for all."),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of entries to skip before the first returned one."),
		),
	)
}

// Handle processes the get_structure tool call.
func (t *GetStructureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maxDepth := int(req.GetFloat("max_depth", 0))
	limit := int(req.GetFloat("limit", 0))
	offset := int(req.GetFloat("offset", 0))

	entries := t.svc.GetStructure(maxDepth)
	window, pg := query.Paginate(entries, limit, offset)
	return jsonResult(page[query.StructureEntry]{Items: window, Pagination: pg})
}
