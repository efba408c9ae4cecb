package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// GetMetadataTool handles the get_metadata MCP tool.
type GetMetadataTool struct {
	svc *query.Service
}

// NewGetMetadataTool creates a GetMetadataTool.
func NewGetMetadataTool(svc *query.Service) *GetMetadataTool {
	return &GetMetadataTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *GetMetadataTool) Definition() mcp.Tool {
	return mcp.NewTool("get_metadata",
		mcp.WithDescription(
			"Without arguments: project-wide metadata (section and word "+
				"totals, root files with size and modification time). With "+
				"'path': metadata of one section (word count, child count) "+
				"without its content.",
		),
		mcp.WithString("path",
			mcp.Description("Dotted section path. Omit for project-level metadata."),
		),
	)
}

// Handle processes the get_metadata tool call.
func (t *GetMetadataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := strings.TrimSpace(req.GetString("path", ""))
	if p == "" {
		return jsonResult(t.svc.GetProjectMetadata())
	}

	meta, err := t.svc.GetSectionMetadata(p)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(meta)
}
