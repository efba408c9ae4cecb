package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// GetDependenciesTool handles the get_dependencies MCP tool.
type GetDependenciesTool struct {
	svc *query.Service
}

// NewGetDependenciesTool creates a GetDependenciesTool.
func NewGetDependenciesTool(svc *query.Service) *GetDependenciesTool {
	return &GetDependenciesTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *GetDependenciesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_dependencies",
		mcp.WithDescription(
			"Report the project's file dependencies: which files include "+
				"which, cross-references between sections (<<anchor>> and "+
				"xref: syntax) with their resolution status, and sections "+
				"whose parent is missing from the index.",
		),
	)
}

// Handle processes the get_dependencies tool call.
func (t *GetDependenciesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.svc.GetDependencies())
}
