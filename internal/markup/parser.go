// Package markup extracts sectional structure from AsciiDoc-family and
// Markdown sources. Its only jobs are heading recognition and include
// resolution — it never renders or converts markup.
//
// The parser is pure for a given filesystem snapshot: it reads files,
// produces flat heading records annotated with their origin file, and
// has no other side effects.
package markup

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"docnav/internal/document"
)

// DefaultMaxIncludeDepth caps include nesting. A chain of four includes
// succeeds; the fifth is skipped with a warning.
const DefaultMaxIncludeDepth = 4

var (
	mdHeadingRE   = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	adocHeadingRE = regexp.MustCompile(`^(=+)\s+(.+?)\s*$`)
	includeRE     = regexp.MustCompile(`^include::(.+?)\[.*?\]\s*$`)
)

// Dialect identifies the markup family of a file, by extension.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectAsciiDoc
	DialectMarkdown
)

// DialectOf maps a file path to its markup dialect (case-insensitive
// extension match).
func DialectOf(p string) Dialect {
	switch strings.ToLower(path.Ext(p)) {
	case ".adoc", ".ad", ".asciidoc":
		return DialectAsciiDoc
	case ".md", ".markdown":
		return DialectMarkdown
	}
	return DialectUnknown
}

// Result is the outcome of parsing one root file with include expansion.
type Result struct {
	// Records are the discovered headings in document order.
	Records []document.Record
	// Includes maps each includer (project-relative) to its direct
	// include targets, in textual order.
	Includes map[string][]string
	// Files lists every file whose content contributed lines, root
	// first, in depth-first left-to-right expansion order.
	Files []string
	// Warnings collects include problems (missing targets, cycles,
	// depth overflow). Never fatal.
	Warnings []document.Warning
}

// Parser reads markup files below a project root and sections them.
type Parser struct {
	root     string // absolute project root
	maxDepth int
}

// New creates a Parser for the given absolute project root. maxDepth <= 0
// selects DefaultMaxIncludeDepth.
func New(root string, maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxIncludeDepth
	}
	return &Parser{root: root, maxDepth: maxDepth}
}

// line is one expanded source line annotated with its physical origin.
type line struct {
	text    string
	origin  string // project-relative origin file
	num     int    // 0-based line number within origin
	literal bool   // inside a fenced/listing block in the origin
}

// ParseRoot expands includes starting at the given project-relative file
// and sections the expanded text. The returned records carry origin-file
// line numbers, so a section that physically lives in an included file
// reports the includee as its source.
func (p *Parser) ParseRoot(rel string) (*Result, error) {
	res := &Result{Includes: make(map[string][]string)}

	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	lines := p.expand(rel, string(data), []string{rel}, res)
	res.Files = append([]string{rel}, res.Files...)
	res.Records = sectionize(lines)
	return res, nil
}

// expand turns one file's content into annotated lines, splicing in
// include targets depth-first, left-to-right. stack holds the chain of
// currently-open files, root first; it drives cycle and depth control.
func (p *Parser) expand(rel, content string, stack []string, res *Result) []line {
	dialect := DialectOf(rel)
	var out []line
	var fence fenceState

	for i, text := range splitLines(content) {
		literal := fence.inBlock()
		fence.observe(text, dialect)

		if !literal && dialect == DialectAsciiDoc {
			if m := includeRE.FindStringSubmatch(text); m != nil {
				p.include(rel, i, m[1], stack, res, &out)
				continue
			}
		}
		out = append(out, line{text: text, origin: rel, num: i, literal: literal})
	}
	return out
}

// include resolves one include:: directive and splices the target's
// expanded lines into out. Problems are recorded as warnings and the
// directive is skipped — never fatal.
func (p *Parser) include(includer string, lineNum int, target string, stack []string, res *Result, out *[]line) {
	targetRel := path.Clean(path.Join(path.Dir(includer), strings.TrimSpace(target)))
	res.Includes[includer] = append(res.Includes[includer], targetRel)

	for _, open := range stack {
		if open == targetRel {
			res.Warnings = append(res.Warnings, document.Warning{
				Kind: document.WarnCycle, File: includer, Line: lineNum, Target: targetRel,
			})
			return
		}
	}
	if len(stack) > p.maxDepth {
		res.Warnings = append(res.Warnings, document.Warning{
			Kind: document.WarnDepthExceeded, File: includer, Line: lineNum, Target: targetRel,
		})
		return
	}

	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(targetRel)))
	if err != nil {
		kind := document.WarnIncludeReadError
		if os.IsNotExist(err) {
			kind = document.WarnMissingInclude
		}
		res.Warnings = append(res.Warnings, document.Warning{
			Kind: kind, File: includer, Line: lineNum, Target: targetRel,
		})
		return
	}

	res.Files = append(res.Files, targetRel)
	*out = append(*out, p.expand(targetRel, string(data), append(stack, targetRel), res)...)
}

// ScanIncludes collects the direct include targets of a single file
// without expanding them, resolved to project-relative paths. Used by
// the indexer's first pass to classify roots. Markdown files have no
// include mechanism and always yield nil.
func (p *Parser) ScanIncludes(rel string) ([]string, error) {
	if DialectOf(rel) != DialectAsciiDoc {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	var targets []string
	var fence fenceState
	for _, text := range splitLines(string(data)) {
		literal := fence.inBlock()
		fence.observe(text, DialectAsciiDoc)
		if literal {
			continue
		}
		if m := includeRE.FindStringSubmatch(text); m != nil {
			targets = append(targets, path.Clean(path.Join(path.Dir(rel), strings.TrimSpace(m[1]))))
		}
	}
	return targets, nil
}

// sectionize walks the expanded lines and cuts them into heading records.
// A record's body runs to the next heading of any level; its EndLine is
// the last non-blank body line that lives in the same origin file as the
// heading (the heading line itself when the body is empty).
func sectionize(lines []line) []document.Record {
	var records []document.Record
	var open *document.Record
	var body []line

	flush := func() {
		if open == nil {
			return
		}
		open.Content = joinBody(body)
		open.EndLine = open.Line
		for _, l := range body {
			if l.origin == open.Origin && strings.TrimSpace(l.text) != "" {
				open.EndLine = l.num
			}
		}
		records = append(records, *open)
	}

	for _, l := range lines {
		level, title, ok := heading(l)
		if !ok {
			if open != nil {
				body = append(body, l)
			}
			continue
		}
		flush()
		open = &document.Record{Level: level, Title: title, Origin: l.origin, Line: l.num}
		body = body[:0]
	}
	flush()
	return records
}

// heading recognizes a heading line in the dialect of its origin file.
// Lines inside fenced blocks are never headings.
func heading(l line) (int, string, bool) {
	if l.literal {
		return 0, "", false
	}
	switch DialectOf(l.origin) {
	case DialectMarkdown:
		if m := mdHeadingRE.FindStringSubmatch(l.text); m != nil {
			return len(m[1]), m[2], true
		}
	case DialectAsciiDoc:
		if m := adocHeadingRE.FindStringSubmatch(l.text); m != nil && len(m[1]) <= 6 {
			return len(m[1]), m[2], true
		}
	}
	return 0, "", false
}

// joinBody joins body lines and trims at most one blank line from each
// side. Inner blank lines and fenced content are preserved verbatim.
func joinBody(body []line) string {
	texts := make([]string, len(body))
	for i, l := range body {
		texts[i] = l.text
	}
	if len(texts) > 0 && strings.TrimSpace(texts[0]) == "" {
		texts = texts[1:]
	}
	if len(texts) > 0 && strings.TrimSpace(texts[len(texts)-1]) == "" {
		texts = texts[:len(texts)-1]
	}
	return strings.Join(texts, "\n")
}

// splitLines splits on "\n", tolerating CRLF and a trailing newline.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
