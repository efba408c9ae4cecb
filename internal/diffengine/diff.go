// Package diffengine produces line-aligned change reports between two
// versions of a section body. It drives github.com/pmezard/go-difflib's
// sequence matcher at the line level; no intra-line diffing.
package diffengine

import (
	"math"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// LineType tags one record of a diff.
type LineType string

const (
	Equal   LineType = "equal"
	Removed LineType = "removed"
	Added   LineType = "added"
	Changed LineType = "changed"
)

// Line is one record of a line diff. OldLine/NewLine are 0-based line
// numbers in the respective inputs; -1 marks "not present on this side"
// (the new side of a removal, the old side of an addition).
type Line struct {
	Type    LineType `json:"type"`
	OldLine int      `json:"old_line"`
	NewLine int      `json:"new_line"`
	OldText string   `json:"old_text,omitempty"`
	NewText string   `json:"new_text,omitempty"`

	// OldCount/NewCount are set only on collapsed blank-run records,
	// where one changed record stands for N-vs-M blank lines.
	OldCount int `json:"old_count,omitempty"`
	NewCount int `json:"new_count,omitempty"`
}

// Stats counts the non-equal records of a report.
type Stats struct {
	AddedLines   int `json:"added_lines"`
	RemovedLines int `json:"removed_lines"`
	ChangedLines int `json:"changed_lines"`
}

// Report is the full diff output for one section body.
type Report struct {
	Lines            []Line  `json:"diff_lines"`
	Stats            Stats   `json:"changes"`
	ChangePercentage float64 `json:"change_percentage"`
	HasChanges       bool    `json:"has_changes"`
}

// Compare diffs oldText against newText line by line. Line equality is
// byte-exact after trimming trailing whitespace and normalizing line
// terminators. Blank-line runs are matched as single units, so N blank
// lines replaced by M blank lines yields one changed record, not N+M
// individual ones.
func Compare(oldText, newText string) *Report {
	oldLines := normalize(oldText)
	newLines := normalize(newText)
	oldToks := tokenize(oldLines)
	newToks := tokenize(newLines)

	rep := &Report{Lines: []Line{}}
	m := difflib.NewMatcher(oldToks.text, newToks.text)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'e':
			appendEqual(rep, oldLines, newLines, oldToks, newToks, op)
		case 'd':
			appendRemovals(rep, oldLines, oldToks.expand(op.I1, op.I2))
		case 'i':
			appendAdditions(rep, newLines, newToks.expand(op.J1, op.J2))
		case 'r':
			appendReplacement(rep, oldLines, newLines, oldToks, newToks, op)
		}
	}

	total := len(oldLines)
	if len(newLines) > total {
		total = len(newLines)
	}
	if total > 0 {
		pct := float64(rep.Stats.AddedLines+rep.Stats.RemovedLines+rep.Stats.ChangedLines) / float64(total) * 100
		rep.ChangePercentage = math.Round(pct*100) / 100
	}
	rep.HasChanges = rep.Stats.AddedLines > 0 || rep.Stats.RemovedLines > 0 || rep.Stats.ChangedLines > 0
	return rep
}

// tokens is one side's input with blank runs compressed: a run of k
// blank lines becomes a single synthetic token, so the matcher treats
// whole runs as units. start/count map each token back to its lines.
type tokens struct {
	text  []string
	start []int
	count []int
	blank []bool
}

func tokenize(lines []string) *tokens {
	t := &tokens{}
	for i := 0; i < len(lines); {
		if lines[i] == "" {
			j := i
			for j < len(lines) && lines[j] == "" {
				j++
			}
			t.text = append(t.text, "\x00blank\x00"+strconv.Itoa(j-i))
			t.start = append(t.start, i)
			t.count = append(t.count, j-i)
			t.blank = append(t.blank, true)
			i = j
			continue
		}
		t.text = append(t.text, lines[i])
		t.start = append(t.start, i)
		t.count = append(t.count, 1)
		t.blank = append(t.blank, false)
		i++
	}
	return t
}

// expand returns the line numbers covered by a token range.
func (t *tokens) expand(i1, i2 int) []int {
	var lines []int
	for i := i1; i < i2; i++ {
		for k := 0; k < t.count[i]; k++ {
			lines = append(lines, t.start[i]+k)
		}
	}
	return lines
}

// allBlank reports whether every token in the range is a blank run.
func (t *tokens) allBlank(i1, i2 int) bool {
	for i := i1; i < i2; i++ {
		if !t.blank[i] {
			return false
		}
	}
	return i2 > i1
}

// lineSpan sums the lines covered by a token range.
func (t *tokens) lineSpan(i1, i2 int) int {
	n := 0
	for i := i1; i < i2; i++ {
		n += t.count[i]
	}
	return n
}

func appendEqual(rep *Report, old, nw []string, ot, nt *tokens, op difflib.OpCode) {
	for k := 0; k < op.I2-op.I1; k++ {
		oi, ni := op.I1+k, op.J1+k
		// Equal tokens cover the same number of lines on both sides.
		for c := 0; c < ot.count[oi]; c++ {
			rep.Lines = append(rep.Lines, Line{
				Type:    Equal,
				OldLine: ot.start[oi] + c,
				NewLine: nt.start[ni] + c,
				OldText: old[ot.start[oi]+c],
				NewText: nw[nt.start[ni]+c],
			})
		}
	}
}

func appendRemovals(rep *Report, old []string, lines []int) {
	for _, i := range lines {
		rep.Lines = append(rep.Lines, Line{Type: Removed, OldLine: i, NewLine: -1, OldText: old[i]})
		rep.Stats.RemovedLines++
	}
}

func appendAdditions(rep *Report, nw []string, lines []int) {
	for _, j := range lines {
		rep.Lines = append(rep.Lines, Line{Type: Added, OldLine: -1, NewLine: j, NewText: nw[j]})
		rep.Stats.AddedLines++
	}
}

// appendReplacement emits a replace range. Two blank runs collapse into
// one changed record carrying the run lengths; otherwise lines are
// paired into changed records and the unpaired tail becomes removals or
// additions.
func appendReplacement(rep *Report, old, nw []string, ot, nt *tokens, op difflib.OpCode) {
	i1, i2 := op.I1, op.I2
	j1, j2 := op.J1, op.J2

	if ot.allBlank(i1, i2) && nt.allBlank(j1, j2) {
		rep.Lines = append(rep.Lines, Line{
			Type: Changed, OldLine: ot.start[i1], NewLine: nt.start[j1],
			OldCount: ot.lineSpan(i1, i2), NewCount: nt.lineSpan(j1, j2),
		})
		rep.Stats.ChangedLines++
		return
	}

	oldIdx := ot.expand(i1, i2)
	newIdx := nt.expand(j1, j2)
	n := len(oldIdx)
	if len(newIdx) < n {
		n = len(newIdx)
	}
	for k := 0; k < n; k++ {
		rep.Lines = append(rep.Lines, Line{
			Type: Changed, OldLine: oldIdx[k], NewLine: newIdx[k],
			OldText: old[oldIdx[k]], NewText: nw[newIdx[k]],
		})
		rep.Stats.ChangedLines++
	}
	appendRemovals(rep, old, oldIdx[n:])
	appendAdditions(rep, nw, newIdx[n:])
}

// Apply reconstructs the new text from the old text plus a report.
// Inverse of Compare: Apply(old, Compare(old, new)) == normalized new.
func Apply(oldText string, rep *Report) string {
	old := normalize(oldText)
	var out []string
	for _, l := range rep.Lines {
		switch l.Type {
		case Equal:
			out = append(out, old[l.OldLine])
		case Removed:
			// consumed, nothing emitted
		case Added:
			out = append(out, l.NewText)
		case Changed:
			if l.NewCount > 0 {
				for k := 0; k < l.NewCount; k++ {
					out = append(out, "")
				}
			} else {
				out = append(out, l.NewText)
			}
		}
	}
	return strings.Join(out, "\n")
}

// normalize splits text into lines with trailing whitespace and CR
// stripped. Empty input yields an empty slice, not one empty line.
func normalize(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
