package query

import (
	"fmt"
	"time"

	"docnav/internal/document"
)

// ValidationReport is the output of validate_structure: invariant
// violations as issues, parser problems as warnings.
type ValidationReport struct {
	Valid               bool     `json:"valid"`
	Issues              []string `json:"issues"`
	Warnings            []string `json:"warnings"`
	TotalSections       int      `json:"total_sections"`
	ValidationTimestamp string   `json:"validation_timestamp"`
}

// ValidateStructure checks every index invariant and folds in the
// warnings accumulated during the last build. Issues make the report
// invalid; warnings alone do not.
func (s *Service) ValidateStructure() *ValidationReport {
	snap := s.ix.Snapshot()
	rep := &ValidationReport{
		Issues:              []string{},
		Warnings:            []string{},
		TotalSections:       len(snap.Sections),
		ValidationTimestamp: time.Now().Format(time.RFC3339),
	}

	for _, id := range snap.Order {
		sec := snap.Sections[id]

		// Parent must exist and list the section as a child exactly once.
		if sec.ParentID != "" {
			parent, ok := snap.Sections[sec.ParentID]
			if !ok {
				rep.Issues = append(rep.Issues, fmt.Sprintf(
					"missing parent: %s references %s", id, sec.ParentID))
			} else {
				count := 0
				for _, child := range parent.Children {
					if child == id {
						count++
					}
				}
				if count != 1 {
					rep.Issues = append(rep.Issues, fmt.Sprintf(
						"parent %s lists child %s %d times", sec.ParentID, id, count))
				}
				if sec.Level <= parent.Level {
					rep.Warnings = append(rep.Warnings, fmt.Sprintf(
						"level hierarchy violation: %s (level %d) should be deeper than parent %s (level %d)",
						id, sec.Level, sec.ParentID, parent.Level))
				}
			}
		}

		// Children must exist and appear in source order per file.
		prevStart := -1
		prevFile := ""
		for _, childID := range sec.Children {
			child, ok := snap.Sections[childID]
			if !ok {
				rep.Issues = append(rep.Issues, fmt.Sprintf(
					"missing child section: %s (referenced by %s)", childID, id))
				continue
			}
			if child.SourceFile == prevFile && child.LineStart < prevStart {
				rep.Issues = append(rep.Issues, fmt.Sprintf(
					"children of %s out of source order at %s", id, childID))
			}
			prevStart = child.LineStart
			prevFile = child.SourceFile
		}

		if sec.LineStart > sec.LineEnd {
			rep.Issues = append(rep.Issues, fmt.Sprintf(
				"invalid line range for %s: %d..%d", id, sec.LineStart, sec.LineEnd))
		}

		if sec.Content == "" && len(sec.Children) == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("empty section: %s", id))
		}
	}

	// Included files must not double as roots.
	for _, rootFile := range snap.RootFiles {
		if snap.IncludedFiles[rootFile] {
			rep.Issues = append(rep.Issues, fmt.Sprintf(
				"file is both root and included: %s", rootFile))
		}
	}

	for _, w := range snap.Warnings {
		rep.Warnings = append(rep.Warnings, warningText(w))
	}

	rep.Valid = len(rep.Issues) == 0
	return rep
}

// warningText renders a parser warning for the report, with a 1-based
// line number for humans.
func warningText(w document.Warning) string {
	return fmt.Sprintf("%s: %s line %d target %s", w.Kind, w.File, w.Line+1, w.Target)
}
