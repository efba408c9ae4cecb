package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/editor"
	"docnav/internal/query"
)

// UpdateSectionTool handles the update_section MCP tool.
type UpdateSectionTool struct {
	ed *editor.Editor
}

// NewUpdateSectionTool creates an UpdateSectionTool.
func NewUpdateSectionTool(ed *editor.Editor) *UpdateSectionTool {
	return &UpdateSectionTool{ed: ed}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateSectionTool) Definition() mcp.Tool {
	return mcp.NewTool("update_section",
		mcp.WithDescription(
			"Replace the body of one section, keeping its heading. The "+
				"source file is rewritten atomically and the index refreshed "+
				"before the call returns. The response carries a line diff "+
				"of the change. Fails with kind 'stale' if the section moved "+
				"on disk since the last index refresh.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Dotted path of the section to update."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("New body text. An empty string empties the section."),
		),
	)
}

// Handle processes the update_section tool call.
func (t *UpdateSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := strings.TrimSpace(req.GetString("path", ""))
	if p == "" {
		return mcp.NewToolResultError("'path' is required — provide the dotted path of the section"), nil
	}
	content, ok := req.GetArguments()["content"].(string)
	if !ok {
		return mcp.NewToolResultError("'content' is required — provide the new section body"), nil
	}

	res, err := t.ed.UpdateSection(query.NormalizePath(p), content)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}
