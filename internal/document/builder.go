package document

import "strconv"

// Record is the parser's flat, identifier-free output: one heading plus
// its body extent, annotated with the origin file it physically lives in.
type Record struct {
	Level   int    // heading depth, 1..6
	Title   string // exact heading text
	Origin  string // project-relative origin file
	Line    int    // 0-based heading line within Origin
	EndLine int    // 0-based last content line within Origin (>= Line)
	Content string // trimmed body text
}

// Builder turns ordered Record sequences into Section trees with stable
// dotted identifiers. A single Builder is reused across every root file
// of one index build so that top-level identifier collisions between
// roots are disambiguated the same way as sibling collisions.
type Builder struct {
	taken map[string]bool
}

// NewBuilder returns a Builder with an empty identifier space.
func NewBuilder() *Builder {
	return &Builder{taken: make(map[string]bool)}
}

type stackEntry struct {
	level int
	id    string
}

// Build assigns identifiers and parent/child links to one root file's
// records, in order. Nesting follows the level stack rule: a record's
// parent is the nearest preceding record with a strictly smaller level.
func (b *Builder) Build(records []Record) []*Section {
	sections := make([]*Section, 0, len(records))
	byID := make(map[string]*Section, len(records))
	var stack []stackEntry

	for _, rec := range records {
		for len(stack) > 0 && stack[len(stack)-1].level >= rec.Level {
			stack = stack[:len(stack)-1]
		}

		parentID := ""
		if len(stack) > 0 {
			parentID = stack[len(stack)-1].id
		}

		id := b.assign(parentID, Slug(rec.Title))

		sec := &Section{
			ID:         id,
			Title:      rec.Title,
			Level:      rec.Level,
			Content:    rec.Content,
			SourceFile: rec.Origin,
			LineStart:  rec.Line,
			LineEnd:    rec.EndLine,
			ParentID:   parentID,
			Children:   []string{},
		}
		sections = append(sections, sec)
		byID[id] = sec

		if parentID != "" {
			parent := byID[parentID]
			parent.Children = append(parent.Children, id)
		}

		stack = append(stack, stackEntry{level: rec.Level, id: id})
	}
	return sections
}

// assign reserves a unique identifier under parentID. The first
// duplicate of a slug becomes slug-2, the next slug-3, and so on;
// the counter is scoped to the parent, not global.
func (b *Builder) assign(parentID, slug string) string {
	candidate := slug
	if parentID != "" {
		candidate = parentID + "." + slug
	}
	if !b.taken[candidate] {
		b.taken[candidate] = true
		return candidate
	}
	for n := 2; ; n++ {
		next := candidate + "-" + strconv.Itoa(n)
		if !b.taken[next] {
			b.taken[next] = true
			return next
		}
	}
}
