// Package index owns the in-memory project model: discovery of markup
// files, root classification, the merged section map, and incremental
// refresh when files change on disk.
//
// The Index is the only shared mutable structure in the process. Writers
// (refresh, editor-triggered updates) rebuild the derived maps and swap
// them in under an exclusive lock; readers take an immutable Snapshot,
// so they observe either the pre- or post-refresh state, never a partial
// one.
package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"docnav/internal/document"
	"docnav/internal/markup"
)

// markupExts are the discoverable extensions, matched case-insensitively.
var markupExts = map[string]bool{
	".adoc":     true,
	".ad":       true,
	".asciidoc": true,
	".md":       true,
	".markdown": true,
}

// excludedDirs are never descended into during discovery. Directories
// whose name starts with "." are excluded as well.
var excludedDirs = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
}

// IgnoredDir reports whether a directory name is outside the project's
// interest, for both discovery and filesystem watching.
func IgnoredDir(name string) bool {
	return excludedDirs[name] || strings.HasPrefix(name, ".")
}

// MarkupFile reports whether a file name has a discoverable markup
// extension.
func MarkupFile(name string) bool {
	return markupExts[strings.ToLower(filepath.Ext(name))]
}

// parse caches one root file's full parse so a refresh touching other
// roots does not re-read it.
type parse struct {
	records  []document.Record
	includes map[string][]string
	files    []string // root first, then every contributing includee
	warnings []document.Warning
}

// Snapshot is an immutable view of the index. The maps and slices it
// holds are replaced wholesale on refresh and never mutated in place,
// so a Snapshot stays consistent for as long as the caller keeps it.
type Snapshot struct {
	Root          string // absolute project root
	Sections      map[string]*document.Section
	Order         []string // section ids in depth-first source order
	RootFiles     []string // project-relative, sorted
	IncludedFiles map[string]bool
	IncludeEdges  map[string][]string
	Warnings      []document.Warning

	// SectionsByRoot lists every section id contributed by one root
	// file's parse (its own sections plus those of its includees), in
	// source order. FileSections maps an origin file to the sections
	// that physically live in it.
	SectionsByRoot map[string][]string
	FileSections   map[string][]string
}

// Index maintains the live project model.
type Index struct {
	mu       sync.RWMutex
	root     string
	maxDepth int

	parses   map[string]*parse // keyed by root-file relative path
	snapshot *Snapshot
}

// New creates an Index rooted at the given directory and performs the
// initial full build. The directory must exist.
func New(root string, maxIncludeDepth int) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	ix := &Index{
		root:     abs,
		maxDepth: maxIncludeDepth,
		parses:   make(map[string]*parse),
	}
	if err := ix.Rebuild(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Root returns the absolute project root.
func (ix *Index) Root() string {
	return ix.root
}

// Snapshot returns the current immutable view.
func (ix *Index) Snapshot() *Snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snapshot
}

// Rebuild discards all cached parses and rebuilds the index from
// scratch: discovery, root classification, and a full parse of every
// root. Used at startup and by the refresh_index tool.
func (ix *Index) Rebuild() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.parses = make(map[string]*parse)
	return ix.refreshLocked(nil)
}

// Refresh re-indexes in response to a set of changed project-relative
// paths. Roots unaffected by the change keep their cached parse.
// Applying the same change set twice is a no-op the second time.
func (ix *Index) Refresh(changed []string) error {
	set := make(map[string]bool, len(changed))
	for _, p := range changed {
		set[filepath.ToSlash(p)] = true
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.refreshLocked(set)
}

// refreshLocked runs discovery and root classification, re-parses every
// affected root, and publishes a new snapshot. A nil changed set means
// "everything is affected". Caller holds the exclusive lock.
func (ix *Index) refreshLocked(changed map[string]bool) error {
	discovered, err := ix.discover()
	if err != nil {
		return err
	}

	// First pass: collect include targets of every discovered file in
	// isolation. Their union is the included set; a discovered file
	// that nobody includes is a root.
	parser := markup.New(ix.root, ix.maxDepth)
	included := make(map[string]bool)
	firstPassEdges := make(map[string][]string)
	for _, rel := range discovered {
		targets, err := parser.ScanIncludes(rel)
		if err != nil {
			// The file vanished between discovery and scan; the next
			// refresh will settle it.
			continue
		}
		if len(targets) > 0 {
			firstPassEdges[rel] = targets
		}
		for _, t := range targets {
			included[t] = true
		}
	}

	var roots []string
	for _, rel := range discovered {
		if !included[rel] {
			roots = append(roots, rel)
		}
	}
	sort.Strings(roots)

	// Second pass: full parse with include expansion, but only for
	// roots the change set touches (or whose parse we don't have yet).
	parses := make(map[string]*parse, len(roots))
	for _, rootFile := range roots {
		if prior, ok := ix.parses[rootFile]; ok && changed != nil && !affected(prior, rootFile, changed) {
			parses[rootFile] = prior
			continue
		}
		res, err := parser.ParseRoot(rootFile)
		if err != nil {
			// Root unreadable: drop it from this build and record the
			// problem as a warning rather than failing the refresh.
			parses[rootFile] = &parse{
				includes: map[string][]string{},
				files:    []string{rootFile},
				warnings: []document.Warning{{
					Kind: document.WarnIncludeReadError, File: rootFile, Target: rootFile,
				}},
			}
			continue
		}
		parses[rootFile] = &parse{
			records:  res.Records,
			includes: res.Includes,
			files:    res.Files,
			warnings: res.Warnings,
		}
	}

	ix.parses = parses
	ix.publishLocked(roots, included, firstPassEdges)
	return nil
}

// affected reports whether a cached root parse is invalidated by the
// change set: the root itself changed, or any file transitively
// reachable through its include edges did.
func affected(p *parse, rootFile string, changed map[string]bool) bool {
	if changed[rootFile] {
		return true
	}
	for _, f := range p.files {
		if changed[f] {
			return true
		}
	}
	// Include targets that were missing at parse time are not in
	// p.files; creating one must trigger a re-parse.
	for _, targets := range p.includes {
		for _, t := range targets {
			if changed[t] {
				return true
			}
		}
	}
	return false
}

// publishLocked merges all cached root parses into a fresh snapshot.
// Identifier assignment runs across roots in sorted order so two builds
// of the same tree produce identical ids.
func (ix *Index) publishLocked(roots []string, included map[string]bool, firstPassEdges map[string][]string) {
	builder := document.NewBuilder()
	sections := make(map[string]*document.Section)
	var order []string
	var warnings []document.Warning
	edges := make(map[string][]string)
	byRoot := make(map[string][]string)
	byFile := make(map[string][]string)

	for includer, targets := range firstPassEdges {
		edges[includer] = append([]string(nil), targets...)
	}

	for _, rootFile := range roots {
		p := ix.parses[rootFile]
		if p == nil {
			continue
		}
		for _, sec := range builder.Build(p.records) {
			sections[sec.ID] = sec
			order = append(order, sec.ID)
			byRoot[rootFile] = append(byRoot[rootFile], sec.ID)
			byFile[sec.SourceFile] = append(byFile[sec.SourceFile], sec.ID)
		}
		warnings = append(warnings, p.warnings...)
		for includer, targets := range p.includes {
			if _, seen := edges[includer]; !seen {
				edges[includer] = append([]string(nil), targets...)
			}
		}
	}

	ix.snapshot = &Snapshot{
		Root:           ix.root,
		Sections:       sections,
		Order:          order,
		RootFiles:      roots,
		IncludedFiles:  included,
		IncludeEdges:   edges,
		Warnings:       warnings,
		SectionsByRoot: byRoot,
		FileSections:   byFile,
	}
}

// discover walks the project tree and returns the project-relative
// paths of all candidate markup files, sorted. Files named with a
// leading underscore are partials and never discovered; they can still
// be pulled in through include directives.
func (ix *Index) discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(ix.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entry: skip, don't abort discovery
		}
		name := d.Name()
		if d.IsDir() {
			if p == ix.root {
				return nil
			}
			if excludedDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") {
			return nil
		}
		if !markupExts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		rel, err := filepath.Rel(ix.root, p)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking project root: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
