package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// ValidateStructureTool handles the validate_structure MCP tool.
type ValidateStructureTool struct {
	svc *query.Service
}

// NewValidateStructureTool creates a ValidateStructureTool.
func NewValidateStructureTool(svc *query.Service) *ValidateStructureTool {
	return &ValidateStructureTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateStructureTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_structure",
		mcp.WithDescription(
			"Check the indexed structure for consistency: parent/child "+
				"integrity, heading level ordering, line ranges, empty "+
				"sections, and parser warnings such as missing include "+
				"targets. Returns issues (structural problems) and warnings "+
				"(advisory findings).",
		),
	)
}

// Handle processes the validate_structure tool call.
func (t *ValidateStructureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.svc.ValidateStructure())
}
