// Package query implements the read-only operations over the project
// index: structure listings, section lookup, search, metadata,
// dependency analysis, and validation. Every operation works on one
// immutable index snapshot and never mutates anything.
package query

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"docnav/internal/document"
	"docnav/internal/index"
)

// Service answers queries against the live index.
type Service struct {
	ix *index.Index
}

// New creates a query service bound to an index.
func New(ix *index.Index) *Service {
	return &Service{ix: ix}
}

// ─── Structure ───────────────────────────────────────────────────────────────

// StructureEntry is one row of a structure listing.
type StructureEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Level         int    `json:"level"`
	ChildrenCount int    `json:"children_count"`
}

// Pagination describes the window applied to a result list.
type Pagination struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate slices items to the requested window. limit <= 0 returns
// everything.
func Paginate[T any](items []T, limit, offset int) ([]T, Pagination) {
	total := len(items)
	if limit <= 0 {
		return items, Pagination{Total: total}
	}
	if offset < 0 {
		offset = 0
	}
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], Pagination{
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasNext:     end < total,
		HasPrevious: offset > 0,
	}
}

// GetStructure lists all sections with level <= maxDepth in depth-first
// source order. maxDepth <= 0 means unlimited.
func (s *Service) GetStructure(maxDepth int) []StructureEntry {
	snap := s.ix.Snapshot()
	entries := []StructureEntry{}
	for _, id := range snap.Order {
		sec := snap.Sections[id]
		if maxDepth > 0 && sec.Level > maxDepth {
			continue
		}
		entries = append(entries, StructureEntry{
			ID:            sec.ID,
			Title:         sec.Title,
			Level:         sec.Level,
			ChildrenCount: len(sec.Children),
		})
	}
	return entries
}

// ─── Section lookup ──────────────────────────────────────────────────────────

// SectionDetail is the full view of one section.
type SectionDetail struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Level      int      `json:"level"`
	Content    string   `json:"content"`
	SourceFile string   `json:"source_file"`
	LineStart  int      `json:"line_start"`
	LineEnd    int      `json:"line_end"`
	Children   []string `json:"children"`
}

// NormalizePath converts the hash syntax "file.adoc#section-id" into
// dotted notation "file.section-id". Paths without a hash pass through
// unchanged.
func NormalizePath(p string) string {
	file, frag, found := strings.Cut(p, "#")
	if !found {
		return p
	}
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))
	return base + "." + frag
}

// GetSection resolves a section by its dotted (or hash-syntax) path.
func (s *Service) GetSection(p string) (*SectionDetail, error) {
	snap := s.ix.Snapshot()
	sec, ok := snap.Sections[NormalizePath(p)]
	if !ok {
		return nil, document.NewError(document.KindNotFound, "section %q not in index", p)
	}
	return &SectionDetail{
		ID:         sec.ID,
		Title:      sec.Title,
		Level:      sec.Level,
		Content:    sec.Content,
		SourceFile: sec.SourceFile,
		LineStart:  sec.LineStart,
		LineEnd:    sec.LineEnd,
		Children:   append([]string{}, sec.Children...),
	}, nil
}

// GetSectionsByLevel returns every section at the given level in source
// order. get_sections and get_sections_by_level are both served by this
// one implementation.
func (s *Service) GetSectionsByLevel(level int) ([]SectionDetail, error) {
	if level < 1 || level > 6 {
		return nil, document.NewError(document.KindInvalidArgument, "level must be 1..6, got %d", level)
	}
	snap := s.ix.Snapshot()
	out := []SectionDetail{}
	for _, id := range snap.Order {
		sec := snap.Sections[id]
		if sec.Level != level {
			continue
		}
		out = append(out, SectionDetail{
			ID:         sec.ID,
			Title:      sec.Title,
			Level:      sec.Level,
			Content:    sec.Content,
			SourceFile: sec.SourceFile,
			LineStart:  sec.LineStart,
			LineEnd:    sec.LineEnd,
			Children:   append([]string{}, sec.Children...),
		})
	}
	return out, nil
}

// ─── Root files structure ────────────────────────────────────────────────────

// TreeNode is a section with its subtree, for file-based navigation.
type TreeNode struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Level         int        `json:"level"`
	ChildrenCount int        `json:"children_count"`
	LineStart     int        `json:"line_start"`
	LineEnd       int        `json:"line_end"`
	SourceFile    string     `json:"source_file"`
	Children      []TreeNode `json:"children"`
}

// FileStructure groups one root file with its section tree.
type FileStructure struct {
	Path         string     `json:"path"`
	Filename     string     `json:"filename"`
	SectionCount int        `json:"section_count"`
	Sections     []TreeNode `json:"sections"`
}

// GetRootFilesStructure lists every root file with its top-level
// sections, each carrying its full subtree. Included files never appear
// as entries — their sections show up under the root that includes them.
func (s *Service) GetRootFilesStructure() []FileStructure {
	snap := s.ix.Snapshot()
	out := []FileStructure{}
	for _, rootFile := range snap.RootFiles {
		ids := snap.SectionsByRoot[rootFile]
		if len(ids) == 0 {
			continue
		}
		var top []TreeNode
		for _, id := range ids {
			sec := snap.Sections[id]
			if sec.ParentID == "" {
				top = append(top, buildTree(snap, sec))
			}
		}
		out = append(out, FileStructure{
			Path:         rootFile,
			Filename:     path.Base(rootFile),
			SectionCount: len(ids),
			Sections:     top,
		})
	}
	return out
}

func buildTree(snap *index.Snapshot, sec *document.Section) TreeNode {
	node := TreeNode{
		ID:            sec.ID,
		Title:         sec.Title,
		Level:         sec.Level,
		ChildrenCount: len(sec.Children),
		LineStart:     sec.LineStart,
		LineEnd:       sec.LineEnd,
		SourceFile:    sec.SourceFile,
		Children:      []TreeNode{},
	}
	for _, childID := range sec.Children {
		if child, ok := snap.Sections[childID]; ok {
			node.Children = append(node.Children, buildTree(snap, child))
		}
	}
	return node
}

// ─── Main chapters ───────────────────────────────────────────────────────────

var chapterNumRE = regexp.MustCompile(`^(\d+)[.)]?\s`)

// Chapter is one main-chapter entry for arc42-style documents.
type Chapter struct {
	StructureEntry
	ChapterNumber int `json:"chapter_number"`
}

// GetMainChapters returns level-2 sections carrying a numeric title
// prefix ("1. Introduction", "01 Context"), ordered by that number,
// followed by level-1 sections without such a prefix, ordered by title.
func (s *Service) GetMainChapters() []Chapter {
	snap := s.ix.Snapshot()
	numbered := []Chapter{}
	plain := []Chapter{}
	for _, id := range snap.Order {
		sec := snap.Sections[id]
		entry := StructureEntry{ID: sec.ID, Title: sec.Title, Level: sec.Level, ChildrenCount: len(sec.Children)}
		m := chapterNumRE.FindStringSubmatch(sec.Title)
		switch {
		case sec.Level == 2 && m != nil:
			numbered = append(numbered, Chapter{StructureEntry: entry, ChapterNumber: atoi(m[1])})
		case sec.Level == 1 && m == nil:
			plain = append(plain, Chapter{StructureEntry: entry, ChapterNumber: 999})
		}
	}
	sort.SliceStable(numbered, func(i, j int) bool { return numbered[i].ChapterNumber < numbered[j].ChapterNumber })
	sort.SliceStable(plain, func(i, j int) bool {
		return strings.ToLower(plain[i].Title) < strings.ToLower(plain[j].Title)
	})
	return append(numbered, plain...)
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// ─── Metadata ────────────────────────────────────────────────────────────────

// SectionMetadata describes one section without its content.
type SectionMetadata struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Level         int    `json:"level"`
	WordCount     int    `json:"word_count"`
	ChildrenCount int    `json:"children_count"`
	HasContent    bool   `json:"has_content"`
}

// RootFileInfo describes one root file on disk.
type RootFileInfo struct {
	File         string `json:"file"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

// ProjectMetadata summarizes the whole index.
type ProjectMetadata struct {
	ProjectRoot   string         `json:"project_root"`
	TotalSections int            `json:"total_sections"`
	TotalWords    int            `json:"total_words"`
	RootFiles     []RootFileInfo `json:"root_files"`
}

// GetSectionMetadata returns the metadata view of one section.
func (s *Service) GetSectionMetadata(p string) (*SectionMetadata, error) {
	snap := s.ix.Snapshot()
	sec, ok := snap.Sections[NormalizePath(p)]
	if !ok {
		return nil, document.NewError(document.KindNotFound, "section %q not in index", p)
	}
	return &SectionMetadata{
		ID:            sec.ID,
		Title:         sec.Title,
		Level:         sec.Level,
		WordCount:     sec.WordCount(),
		ChildrenCount: len(sec.Children),
		HasContent:    sec.HasContent(),
	}, nil
}

// GetProjectMetadata returns project-wide totals and root-file stats.
func (s *Service) GetProjectMetadata() *ProjectMetadata {
	snap := s.ix.Snapshot()
	meta := &ProjectMetadata{
		ProjectRoot: snap.Root,
		RootFiles:   []RootFileInfo{},
	}
	meta.TotalSections = len(snap.Sections)
	for _, sec := range snap.Sections {
		meta.TotalWords += sec.WordCount()
	}
	for _, rootFile := range snap.RootFiles {
		info := RootFileInfo{File: rootFile}
		if st, err := os.Stat(filepath.Join(snap.Root, filepath.FromSlash(rootFile))); err == nil {
			info.Size = st.Size()
			info.LastModified = st.ModTime().Format(time.RFC3339)
		}
		meta.RootFiles = append(meta.RootFiles, info)
	}
	return meta
}
