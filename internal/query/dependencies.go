package query

import (
	"regexp"
	"strings"

	"docnav/internal/document"
)

var (
	// <<target>> or <<target,link text>>
	anchorRefRE = regexp.MustCompile(`<<([^>,\]]+)(?:,[^>]*)?>>`)
	// xref:target[] or xref:target[link text]
	xrefRE = regexp.MustCompile(`xref:([^\[\]]+)\[`)
)

// CrossReference is one <<>> or xref: reference found in section content.
type CrossReference struct {
	FromSection   string `json:"from_section"`
	ToSection     string `json:"to_section"`
	ReferenceType string `json:"reference_type"`
	Valid         bool   `json:"valid"`
}

// Dependencies is the include tree plus cross-reference analysis.
type Dependencies struct {
	Includes         map[string][]string `json:"includes"`
	CrossReferences  []CrossReference    `json:"cross_references"`
	OrphanedSections []string            `json:"orphaned_sections"`
}

// GetDependencies reports include edges, cross-references extracted
// from section bodies, and orphaned sections. The orphan list is a
// verification output: under the index invariants it is always empty.
func (s *Service) GetDependencies() *Dependencies {
	snap := s.ix.Snapshot()

	deps := &Dependencies{
		Includes:         make(map[string][]string, len(snap.IncludeEdges)),
		CrossReferences:  []CrossReference{},
		OrphanedSections: []string{},
	}
	for includer, targets := range snap.IncludeEdges {
		deps.Includes[includer] = append([]string{}, targets...)
	}

	for _, id := range snap.Order {
		sec := snap.Sections[id]
		if sec.Content == "" {
			continue
		}
		for _, m := range anchorRefRE.FindAllStringSubmatch(sec.Content, -1) {
			deps.CrossReferences = append(deps.CrossReferences,
				crossRef(snap.Sections, id, m[1], "<<>>"))
		}
		for _, m := range xrefRE.FindAllStringSubmatch(sec.Content, -1) {
			target := m[1]
			// Strip a file prefix: "file.adoc#section" refers to "section".
			if _, frag, found := strings.Cut(target, "#"); found {
				target = frag
			}
			deps.CrossReferences = append(deps.CrossReferences,
				crossRef(snap.Sections, id, target, "xref"))
		}
	}

	// A section is orphaned when it claims a parent that the index
	// does not contain. Top-level sections (no parent) are never
	// orphaned.
	for _, id := range snap.Order {
		sec := snap.Sections[id]
		if sec.ParentID != "" {
			if _, ok := snap.Sections[sec.ParentID]; !ok {
				deps.OrphanedSections = append(deps.OrphanedSections, id)
			}
		}
	}

	return deps
}

// crossRef normalizes a reference target with the slug rule and checks
// whether any section id resolves to it.
func crossRef(sections map[string]*document.Section, from, target, refType string) CrossReference {
	normalized := document.Slug(strings.TrimSpace(target))
	valid := false
	for id := range sections {
		if id == normalized || strings.HasSuffix(id, "."+normalized) {
			valid = true
			break
		}
	}
	return CrossReference{
		FromSection:   from,
		ToSection:     normalized,
		ReferenceType: refType,
		Valid:         valid,
	}
}
