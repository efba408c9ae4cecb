// Package editor performs section-scoped rewrites of markup source
// files. Writes are atomic (temp file + rename in the same directory),
// staleness-checked against the heading the index last saw, and followed
// by a synchronous index refresh so the next read reflects the write.
package editor

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"docnav/internal/diffengine"
	"docnav/internal/document"
	"docnav/internal/index"
)

// Suppressor lets the editor announce its own writes so the file
// watcher can discard the echo events they cause.
type Suppressor interface {
	Suppress(rel string)
}

// Journal records successful edits. Implemented by the history store.
type Journal interface {
	Record(sectionID, sourceFile, op string, stats diffengine.Stats) error
}

// Result is the outcome of an editor operation.
type Result struct {
	Success   bool               `json:"success"`
	SectionID string             `json:"section_id"`
	Diff      *diffengine.Report `json:"diff,omitempty"`
}

// Editor mutates section bodies on disk.
type Editor struct {
	ix      *index.Index
	sup     Suppressor
	journal Journal
}

// New creates an Editor. Suppressor and Journal may be nil; the editor
// then skips echo suppression and history recording.
func New(ix *index.Index, sup Suppressor, journal Journal) *Editor {
	return &Editor{ix: ix, sup: sup, journal: journal}
}

// UpdateSection replaces the body of the section identified by id with
// content, preserving the heading line and a single blank separator
// after it. The file is replaced atomically; on any error the original
// bytes are untouched.
func (e *Editor) UpdateSection(id, content string) (*Result, error) {
	snap := e.ix.Snapshot()
	sec, ok := snap.Sections[id]
	if !ok {
		return nil, document.NewError(document.KindNotFound, "section %q not in index", id)
	}

	abs := filepath.Join(snap.Root, filepath.FromSlash(sec.SourceFile))
	lines, err := readLines(abs)
	if err != nil {
		return nil, document.WrapError(document.KindIOError, err, "reading %s", sec.SourceFile)
	}
	if err := checkFresh(lines, sec); err != nil {
		return nil, err
	}

	body := splitContent(content)
	if len(body) > 0 {
		// Blank separator between heading and body.
		body = append([]string{""}, body...)
	}
	after := lines[sec.LineEnd+1:]
	// Keep a blank separator when the section is immediately followed
	// by more text.
	if len(after) > 0 && strings.TrimSpace(after[0]) != "" {
		body = append(body, "")
	}

	updated := make([]string, 0, len(lines)+len(body))
	updated = append(updated, lines[:sec.LineStart+1]...)
	updated = append(updated, body...)
	updated = append(updated, after...)

	if err := writeAtomic(abs, updated); err != nil {
		return nil, document.WrapError(document.KindIOError, err, "writing %s", sec.SourceFile)
	}

	diff := diffengine.Compare(sec.Content, content)
	e.finish(sec.ID, sec.SourceFile, "update", diff)
	return &Result{Success: true, SectionID: sec.ID, Diff: diff}, nil
}

// InsertSection adds a new section as a child of parentID, one level
// deeper, using the markup dialect of the parent's source file.
// position is "before" (ahead of the first child), "after", or "append"
// (both: past the parent's last descendant).
func (e *Editor) InsertSection(parentID, title, content, position string) (*Result, error) {
	switch position {
	case "before", "after", "append":
	default:
		return nil, document.NewError(document.KindInvalidArgument,
			"position must be before, after or append, got %q", position)
	}

	snap := e.ix.Snapshot()
	parent, ok := snap.Sections[parentID]
	if !ok {
		return nil, document.NewError(document.KindNotFound, "section %q not in index", parentID)
	}
	if parent.Level >= 6 {
		return nil, document.NewError(document.KindInvalidArgument,
			"cannot nest below level-6 section %q", parentID)
	}

	abs := filepath.Join(snap.Root, filepath.FromSlash(parent.SourceFile))
	lines, err := readLines(abs)
	if err != nil {
		return nil, document.WrapError(document.KindIOError, err, "reading %s", parent.SourceFile)
	}
	if err := checkFresh(lines, parent); err != nil {
		return nil, err
	}

	insertAt := insertionPoint(snap, parent, position)
	if insertAt > len(lines) {
		insertAt = len(lines)
	}

	heading := strings.Repeat(headingMarker(parent.SourceFile), parent.Level+1) + " " + title
	block := []string{"", heading, ""}
	block = append(block, splitContent(content)...)
	if insertAt > 0 && strings.TrimSpace(lines[insertAt-1]) == "" {
		block = block[1:] // previous line already separates
	}
	if insertAt < len(lines) && strings.TrimSpace(lines[insertAt]) != "" {
		block = append(block, "")
	}

	updated := make([]string, 0, len(lines)+len(block))
	updated = append(updated, lines[:insertAt]...)
	updated = append(updated, block...)
	updated = append(updated, lines[insertAt:]...)

	if err := writeAtomic(abs, updated); err != nil {
		return nil, document.WrapError(document.KindIOError, err, "writing %s", parent.SourceFile)
	}

	diff := diffengine.Compare("", content)
	e.finish(parentID, parent.SourceFile, "insert", diff)
	return &Result{Success: true, SectionID: parentID, Diff: diff}, nil
}

// finish runs the post-write steps shared by both operations: suppress
// the watcher echo, journal the edit, and refresh the index so callers
// immediately see the new state.
func (e *Editor) finish(sectionID, sourceFile, op string, diff *diffengine.Report) {
	if e.sup != nil {
		e.sup.Suppress(sourceFile)
	}
	if e.journal != nil {
		// Journal failures must not fail the edit — the file write
		// already succeeded.
		_ = e.journal.Record(sectionID, sourceFile, op, diff.Stats)
	}
	if err := e.ix.Refresh([]string{sourceFile}); err != nil {
		// The write landed; the watcher will converge the index.
		return
	}
}

// insertionPoint picks the 0-based line index the new block goes in
// front of.
func insertionPoint(snap *index.Snapshot, parent *document.Section, position string) int {
	if position == "before" {
		for _, childID := range parent.Children {
			if child, ok := snap.Sections[childID]; ok && child.SourceFile == parent.SourceFile {
				return child.LineStart
			}
		}
	}
	return subtreeEnd(snap, parent) + 1
}

// subtreeEnd returns the last line (in the parent's source file) owned
// by the parent or any of its descendants.
func subtreeEnd(snap *index.Snapshot, parent *document.Section) int {
	end := parent.LineEnd
	var walk func(id string)
	walk = func(id string) {
		sec, ok := snap.Sections[id]
		if !ok {
			return
		}
		if sec.SourceFile == parent.SourceFile && sec.LineEnd > end {
			end = sec.LineEnd
		}
		for _, child := range sec.Children {
			walk(child)
		}
	}
	for _, child := range parent.Children {
		walk(child)
	}
	return end
}

// checkFresh verifies that the heading the index recorded is still at
// the expected line. A mismatch means the file changed under us; the
// caller should refresh and retry.
func checkFresh(lines []string, sec *document.Section) error {
	if sec.LineStart >= len(lines) || sec.LineEnd >= len(lines) {
		return document.NewError(document.KindStale,
			"section %q is beyond the end of %s", sec.ID, sec.SourceFile)
	}
	level, title, ok := parseHeading(lines[sec.LineStart], sec.SourceFile)
	if !ok || level != sec.Level || title != sec.Title {
		return document.NewError(document.KindStale,
			"heading of %q changed on disk; refresh the index and retry", sec.ID)
	}
	return nil
}

// parseHeading reads one heading line in the dialect of the given file.
func parseHeading(line, file string) (int, string, bool) {
	marker := headingMarker(file)
	n := 0
	for n < len(line) && line[n] == marker[0] {
		n++
	}
	if n == 0 || n > 6 || n >= len(line) || line[n] != ' ' {
		return 0, "", false
	}
	title := strings.TrimSpace(line[n+1:])
	if marker == "#" {
		title = strings.TrimRight(title, "# ")
	}
	if title == "" {
		return 0, "", false
	}
	return n, title, true
}

// headingMarker returns "=" for AsciiDoc-family files and "#" for
// Markdown.
func headingMarker(file string) string {
	switch strings.ToLower(path.Ext(file)) {
	case ".md", ".markdown":
		return "#"
	}
	return "="
}

func splitContent(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func readLines(abs string) ([]string, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}
