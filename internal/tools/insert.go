package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/editor"
	"docnav/internal/query"
)

// InsertSectionTool handles the insert_section MCP tool.
type InsertSectionTool struct {
	ed *editor.Editor
}

// NewInsertSectionTool creates an InsertSectionTool.
func NewInsertSectionTool(ed *editor.Editor) *InsertSectionTool {
	return &InsertSectionTool{ed: ed}
}

// Definition returns the MCP tool definition for registration.
func (t *InsertSectionTool) Definition() mcp.Tool {
	return mcp.NewTool("insert_section",
		mcp.WithDescription(
			"Insert a new section as a child of an existing one, one "+
				"heading level deeper, in the markup dialect of the parent's "+
				"source file. The file is rewritten atomically and the index "+
				"refreshed before the call returns.",
		),
		mcp.WithString("parent_path",
			mcp.Required(),
			mcp.Description("Dotted path of the parent section."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new section."),
		),
		mcp.WithString("content",
			mcp.Description("Body text of the new section. May be empty."),
		),
		mcp.WithString("position",
			mcp.Description("Where to place the new child relative to existing ones."),
			mcp.Enum("before", "after", "append"),
		),
	)
}

// Handle processes the insert_section tool call.
func (t *InsertSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent := strings.TrimSpace(req.GetString("parent_path", ""))
	if parent == "" {
		return mcp.NewToolResultError("'parent_path' is required — provide the dotted path of the parent section"), nil
	}
	title := strings.TrimSpace(req.GetString("title", ""))
	if title == "" {
		return mcp.NewToolResultError("'title' is required — provide a title for the new section"), nil
	}
	content := req.GetString("content", "")
	position := req.GetString("position", "append")

	res, err := t.ed.InsertSection(query.NormalizePath(parent), title, content, position)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}
