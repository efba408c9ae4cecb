// Package server wires all components and creates the MCP server
// instance.
//
// This is the composition root: it builds the index, editor, watcher
// and history store and injects them into the tools that depend on
// them. No business logic lives here, only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"docnav/internal/config"
	"docnav/internal/editor"
	"docnav/internal/history"
	"docnav/internal/index"
	"docnav/internal/query"
	"docnav/internal/resources"
	"docnav/internal/tools"
	"docnav/internal/watcher"
	"docnav/internal/web"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New builds the fully wired MCP server for one project root.
//
// The returned cleanup function stops the file watcher and the web
// server and closes the history database; it must be called on
// shutdown (typically via defer). It is always non-nil and safe to
// call even when a subsystem failed to initialize.
func New(projectRoot string, cfg config.Config) (*server.MCPServer, func(), error) {
	ix, err := index.New(projectRoot, cfg.MaxIncludeDepth)
	if err != nil {
		return nil, noop, fmt.Errorf("building index: %w", err)
	}
	svc := query.New(ix)

	w := watcher.New(ix, cfg.Debounce())
	if err := w.Start(); err != nil {
		return nil, noop, fmt.Errorf("starting file watcher: %w", err)
	}

	// History is an independent subsystem: if the database cannot be
	// opened the server still works, edits are just not journaled.
	hist, histErr := history.Open(ix.Root())
	if histErr != nil {
		log.Printf("WARNING: edit history disabled: %v", histErr)
		hist = nil
	}

	var journal editor.Journal
	if hist != nil {
		journal = hist
	}
	ed := editor.New(ix, w, journal)

	var websrv *web.Server
	if cfg.EnableWebserver {
		websrv = web.NewServer(svc, ix, hist)
		if _, err := websrv.Start(cfg.WebserverPortBase); err != nil {
			w.Stop()
			if hist != nil {
				hist.Close()
			}
			return nil, noop, fmt.Errorf("starting web server: %w", err)
		}
	}

	cleanup := func() {
		w.Stop()
		if websrv != nil {
			websrv.Stop()
		}
		if hist != nil {
			if err := hist.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}
	}

	s := server.NewMCPServer(
		"docnav",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// Read tools.

	structureTool := tools.NewGetStructureTool(svc)
	s.AddTool(structureTool.Definition(), structureTool.Handle)

	sectionTool := tools.NewGetSectionTool(svc)
	s.AddTool(sectionTool.Definition(), sectionTool.Handle)

	sectionsTool := tools.NewGetSectionsTool("get_sections", svc)
	s.AddTool(sectionsTool.Definition(), sectionsTool.Handle)

	sectionsByLevelTool := tools.NewGetSectionsTool("get_sections_by_level", svc)
	s.AddTool(sectionsByLevelTool.Definition(), sectionsByLevelTool.Handle)

	rootFilesTool := tools.NewRootFilesStructureTool(svc)
	s.AddTool(rootFilesTool.Definition(), rootFilesTool.Handle)

	chaptersTool := tools.NewMainChaptersTool(svc)
	s.AddTool(chaptersTool.Definition(), chaptersTool.Handle)

	searchTool := tools.NewSearchContentTool(svc)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	metadataTool := tools.NewGetMetadataTool(svc)
	s.AddTool(metadataTool.Definition(), metadataTool.Handle)

	dependenciesTool := tools.NewGetDependenciesTool(svc)
	s.AddTool(dependenciesTool.Definition(), dependenciesTool.Handle)

	validateTool := tools.NewValidateStructureTool(svc)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	// Index maintenance.

	refreshTool := tools.NewRefreshIndexTool(ix, svc)
	s.AddTool(refreshTool.Definition(), refreshTool.Handle)

	// Write tools.

	updateTool := tools.NewUpdateSectionTool(ed)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	insertTool := tools.NewInsertSectionTool(ed)
	s.AddTool(insertTool.Definition(), insertTool.Handle)

	if hist != nil {
		historyTool := tools.NewEditHistoryTool(hist)
		s.AddTool(historyTool.Definition(), historyTool.Handle)
	}

	// Resources.

	resourceHandler := resources.NewHandler(svc)
	s.AddResource(resourceHandler.StructureResource(), resourceHandler.HandleStructure)
	s.AddResource(resourceHandler.MetadataResource(), resourceHandler.HandleMetadata)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

// serverInstructions returns the usage notes shipped to MCP clients.
func serverInstructions() string {
	return `You have access to docnav, a documentation navigation MCP server.

docnav indexes a tree of AsciiDoc and Markdown files and keeps the
index current while files change on disk.

## Reading

- get_structure: the full section hierarchy. Start here.
- get_section: one section by dotted path, e.g. 'manual.introduction'.
- get_sections / get_sections_by_level: all sections at one level.
- get_root_files_structure: sections grouped by root file.
- get_main_chapters: numbered main chapters of arc42-style documents.
- search_content: substring search over titles and content.
- get_metadata: project totals, or one section's stats with 'path'.
- get_dependencies: include graph and cross-references.
- validate_structure: consistency report with issues and warnings.

## Writing

- update_section: replace one section's body. The heading stays.
- insert_section: add a new child section under an existing one.
- get_edit_history: recent edits made through this server.

Section paths are dotted: 'file.section.subsection'. The hash form
'file.adoc#section' works too. If an edit fails with kind 'stale',
the file changed on disk: re-read the section and retry.`
}
