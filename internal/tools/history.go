package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/history"
)

// EditHistoryTool handles the get_edit_history MCP tool.
type EditHistoryTool struct {
	store *history.Store
}

// NewEditHistoryTool creates an EditHistoryTool.
func NewEditHistoryTool(store *history.Store) *EditHistoryTool {
	return &EditHistoryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *EditHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_edit_history",
		mcp.WithDescription(
			"List recent section edits made through this server, newest "+
				"first, with the operation and line-change counts of each.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return. Defaults to 20."),
		),
	)
}

// Handle processes the get_edit_history tool call.
func (t *EditHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", 0))
	entries, err := t.store.Recent(limit)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]any{
		"edits": entries,
		"count": len(entries),
	})
}
