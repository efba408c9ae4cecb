package query

import (
	"sort"
	"strings"
)

// snippetRadius is the number of characters shown on each side of the
// first content match.
const snippetRadius = 40

// SearchResult is one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Score   int    `json:"score"`
	Snippet string `json:"snippet"`
}

// SearchContent finds sections whose title or content contains the
// query (case-insensitive substring). Results are ranked: title matches
// before content-only matches, then earlier match position, then lower
// level.
func (s *Service) SearchContent(query string) []SearchResult {
	snap := s.ix.Snapshot()
	q := strings.ToLower(query)

	type hit struct {
		SearchResult
		titleMatch bool
		matchPos   int
		level      int
		order      int
	}

	hits := []hit{}
	for i, id := range snap.Order {
		sec := snap.Sections[id]
		titleLower := strings.ToLower(sec.Title)
		contentLower := strings.ToLower(sec.Content)

		titlePos := strings.Index(titleLower, q)
		contentPos := strings.Index(contentLower, q)
		if titlePos < 0 && contentPos < 0 {
			continue
		}

		pos := contentPos
		if titlePos >= 0 {
			pos = titlePos
		}

		hits = append(hits, hit{
			SearchResult: SearchResult{
				ID:      sec.ID,
				Title:   sec.Title,
				Score:   2*strings.Count(titleLower, q) + strings.Count(contentLower, q),
				Snippet: snippet(sec.Content, contentLower, q),
			},
			titleMatch: titlePos >= 0,
			matchPos:   pos,
			level:      sec.Level,
			order:      i,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.titleMatch != b.titleMatch {
			return a.titleMatch
		}
		if a.matchPos != b.matchPos {
			return a.matchPos < b.matchPos
		}
		if a.level != b.level {
			return a.level < b.level
		}
		return a.order < b.order
	})

	out := make([]SearchResult, len(hits))
	for i, h := range hits {
		out[i] = h.SearchResult
	}
	return out
}

// snippet cuts a window of ±snippetRadius characters around the first
// content match. Title-only hits fall back to the leading content.
func snippet(content, contentLower, q string) string {
	pos := strings.Index(contentLower, q)
	if pos < 0 {
		if len(content) <= 2*snippetRadius {
			return content
		}
		return content[:2*snippetRadius] + "..."
	}
	start := pos - snippetRadius
	if start < 0 {
		start = 0
	}
	end := pos + len(q) + snippetRadius
	if end > len(content) {
		end = len(content)
	}
	out := content[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out += "..."
	}
	return out
}
