package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// MainChaptersTool handles the get_main_chapters MCP tool.
type MainChaptersTool struct {
	svc *query.Service
}

// NewMainChaptersTool creates a MainChaptersTool.
func NewMainChaptersTool(svc *query.Service) *MainChaptersTool {
	return &MainChaptersTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *MainChaptersTool) Definition() mcp.Tool {
	return mcp.NewTool("get_main_chapters",
		mcp.WithDescription(
			"List the main chapters of the documentation: level-2 sections "+
				"with a numeric title prefix such as '1. Introduction', "+
				"ordered by that number, followed by unnumbered level-1 "+
				"sections ordered by title. Useful for arc42-style documents.",
		),
	)
}

// Handle processes the get_main_chapters tool call.
func (t *MainChaptersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"chapters": t.svc.GetMainChapters(),
	})
}
