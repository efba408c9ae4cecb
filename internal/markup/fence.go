package markup

import "strings"

// fenceState tracks whether the cursor is inside a fenced region:
// backtick code fences in Markdown, ----/.... listing and literal block
// delimiters in AsciiDoc. Headings and include directives inside a fence
// are literal text.
type fenceState struct {
	open    bool
	char    byte
	length  int
	dialect Dialect
}

func (f *fenceState) inBlock() bool {
	return f.open
}

// observe updates the state for one source line. A fence closes on a
// delimiter line of the same character whose length is at least the
// opening run's length; everything else inside the fence is ignored.
func (f *fenceState) observe(text string, dialect Dialect) {
	trimmed := strings.TrimRight(text, " \t")

	if f.open {
		ch, n, ok := delimiter(trimmed, f.dialect)
		// A closing Markdown fence is a bare backtick run — an info
		// string only appears on the opening line.
		pure := n == len(trimmed)
		if ok && ch == f.char && n >= f.length && (f.dialect != DialectMarkdown || pure) {
			f.open = false
		}
		return
	}

	if ch, n, ok := delimiter(trimmed, dialect); ok {
		f.open = true
		f.char = ch
		f.length = n
		f.dialect = dialect
	}
}

// delimiter recognizes a fence delimiter line for the given dialect and
// returns its character and run length. Markdown opening fences may
// carry an info string after the backticks; AsciiDoc delimiters must be
// the whole line.
func delimiter(trimmed string, dialect Dialect) (byte, int, bool) {
	if trimmed == "" {
		return 0, 0, false
	}
	switch dialect {
	case DialectMarkdown:
		n := runLen(trimmed, '`')
		if n >= 3 {
			return '`', n, true
		}
	case DialectAsciiDoc:
		for _, ch := range []byte{'-', '.'} {
			n := runLen(trimmed, ch)
			if n >= 4 && n == len(trimmed) {
				return ch, n, true
			}
		}
	}
	return 0, 0, false
}

// runLen counts the leading run of ch in s.
func runLen(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}
