package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/index"
	"docnav/internal/query"
)

// RefreshIndexTool handles the refresh_index MCP tool.
type RefreshIndexTool struct {
	ix  *index.Index
	svc *query.Service
}

// NewRefreshIndexTool creates a RefreshIndexTool.
func NewRefreshIndexTool(ix *index.Index, svc *query.Service) *RefreshIndexTool {
	return &RefreshIndexTool{ix: ix, svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *RefreshIndexTool) Definition() mcp.Tool {
	return mcp.NewTool("refresh_index",
		mcp.WithDescription(
			"Force a full rebuild of the documentation index from disk: "+
				"rediscover files, reclassify roots and re-parse everything. "+
				"Returns the section count delta and the new project "+
				"metadata. Normally unnecessary because the file watcher "+
				"keeps the index current, but useful after bulk changes.",
		),
	)
}

// Handle processes the refresh_index tool call.
func (t *RefreshIndexTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	before := len(t.ix.Snapshot().Sections)
	if err := t.ix.Rebuild(); err != nil {
		return errorResult(err)
	}
	after := len(t.ix.Snapshot().Sections)
	return jsonResult(map[string]any{
		"success":           true,
		"old_section_count": before,
		"new_section_count": after,
		"sections_added":    after - before,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"metadata":          t.svc.GetProjectMetadata(),
	})
}
