// Package resources implements MCP resource handlers for the index.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (docnav://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"docnav/internal/query"
)

// Handler serves the docnav resource endpoints.
type Handler struct {
	svc *query.Service
}

// NewHandler creates a resource Handler.
func NewHandler(svc *query.Service) *Handler {
	return &Handler{svc: svc}
}

// StructureResource returns the MCP resource definition for the section
// hierarchy.
func (h *Handler) StructureResource() mcp.Resource {
	return mcp.NewResource(
		"docnav://project/structure",
		"Documentation Structure",
		mcp.WithResourceDescription("Section hierarchy of the indexed documentation in source order"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStructure serves the full structure listing as JSON.
func (h *Handler) HandleStructure(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, map[string]any{
		"sections": h.svc.GetStructure(0),
	})
}

// MetadataResource returns the MCP resource definition for project
// metadata.
func (h *Handler) MetadataResource() mcp.Resource {
	return mcp.NewResource(
		"docnav://project/metadata",
		"Project Metadata",
		mcp.WithResourceDescription("Section and word totals plus root file statistics"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleMetadata serves the project metadata as JSON.
func (h *Handler) HandleMetadata(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, h.svc.GetProjectMetadata())
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
