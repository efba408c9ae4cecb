// Package document defines the section model shared by the parser, the
// index, and the editor, plus the slug and identifier rules that turn a
// flat heading sequence into a stable tree.
package document

// Section is the central entity of the index: one heading and the text
// that follows it, up to the next heading of equal or shallower level.
//
// Sections never hold direct references to each other — ParentID and
// Children carry identifiers, and all navigation goes through the
// index's id→Section map. Direct pointers would form cycles across
// include boundaries.
type Section struct {
	// ID is a dotted path of lowercase slug segments, unique within
	// the project (e.g. "intro.overview").
	ID string `json:"id"`

	// Title is the exact heading text as it appears in the source.
	Title string `json:"title"`

	// Level is the heading depth, 1..6.
	Level int `json:"level"`

	// Content is the section body: heading line excluded, trimmed by
	// at most one blank line on each side. Inner blank lines and code
	// fences are preserved verbatim.
	Content string `json:"content"`

	// SourceFile is the project-relative path of the file the section
	// physically lives in. After include resolution this is the origin
	// file, not the including file.
	SourceFile string `json:"source_file"`

	// LineStart and LineEnd are 0-based line indices within SourceFile.
	// LineStart is the heading line; LineEnd is the last content line
	// (inclusive). For an empty section LineEnd == LineStart.
	LineStart int `json:"line_start"`
	LineEnd   int `json:"line_end"`

	// ParentID names the nearest ancestor section, or is empty for
	// top-level sections of a root file.
	ParentID string `json:"parent_id,omitempty"`

	// Children lists child section ids in source order.
	Children []string `json:"children"`
}

// WordCount returns the number of whitespace-separated words in the body.
func (s *Section) WordCount() int {
	n := 0
	inWord := false
	for _, r := range s.Content {
		switch r {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				n++
			}
			inWord = true
		}
	}
	return n
}

// HasContent reports whether the body is non-empty.
func (s *Section) HasContent() bool {
	return s.Content != ""
}
