// Package tools implements the MCP tool handlers for the documentation
// server.
//
// Each tool is a struct that receives its dependencies at construction
// and exposes a Definition for registration plus a Handle compatible
// with mcp-go's CallToolRequest signature. One file per tool.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/document"
)

// jsonResult marshals v and wraps it as a text tool result. Every tool
// returns JSON so clients can parse responses uniformly.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts an operation error into a tool error payload
// carrying the machine-readable kind alongside the message. Operation
// failures are reported in-band, not as protocol errors.
func errorResult(err error) (*mcp.CallToolResult, error) {
	payload := map[string]any{
		"success": false,
		"kind":    string(document.KindOf(err)),
		"error":   err.Error(),
	}
	data, mErr := json.Marshal(payload)
	if mErr != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(data)), nil
}

// page wraps a result list with its pagination window for tools that
// accept limit/offset.
type page[T any] struct {
	Items      []T `json:"items"`
	Pagination any `json:"pagination"`
}
