package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// SearchContentTool handles the search_content MCP tool.
type SearchContentTool struct {
	svc *query.Service
}

// NewSearchContentTool creates a SearchContentTool.
func NewSearchContentTool(svc *query.Service) *SearchContentTool {
	return &SearchContentTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchContentTool) Definition() mcp.Tool {
	return mcp.NewTool("search_content",
		mcp.WithDescription(
			"Search section titles and content for a case-insensitive "+
				"substring. Results are ranked (title matches first, then "+
				"earlier matches, then higher-level sections) and carry a "+
				"snippet around the first hit.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return. Omit or 0 for all."),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of results to skip before the first returned one."),
		),
	)
}

// Handle processes the search_content tool call.
func (t *SearchContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := req.GetString("query", "")
	if strings.TrimSpace(q) == "" {
		return mcp.NewToolResultError("'query' is required — provide the text to search for"), nil
	}
	limit := int(req.GetFloat("limit", 0))
	offset := int(req.GetFloat("offset", 0))

	results := t.svc.SearchContent(q)
	window, pg := query.Paginate(results, limit, offset)
	return jsonResult(page[query.SearchResult]{Items: window, Pagination: pg})
}
