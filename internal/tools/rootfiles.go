package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// RootFilesStructureTool handles the get_root_files_structure MCP tool.
type RootFilesStructureTool struct {
	svc *query.Service
}

// NewRootFilesStructureTool creates a RootFilesStructureTool.
func NewRootFilesStructureTool(svc *query.Service) *RootFilesStructureTool {
	return &RootFilesStructureTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *RootFilesStructureTool) Definition() mcp.Tool {
	return mcp.NewTool("get_root_files_structure",
		mcp.WithDescription(
			"List every root documentation file with its full section "+
				"tree. Files pulled in via include directives do not appear "+
				"as entries; their sections show up under the including root.",
		),
	)
}

// Handle processes the get_root_files_structure tool call.
func (t *RootFilesStructureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"root_files": t.svc.GetRootFilesStructure(),
	})
}
