package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Introduction", "introduction"},
		{"Getting Started", "getting-started"},
		{"API & CLI  --  Reference", "api-cli-reference"},
		{"  Spaces  ", "spaces"},
		{"1. Numbered Chapter", "1-numbered-chapter"},
		{"CamelCase", "camelcase"},
		{"Überblick", "berblick"},
		{"!!!", "section"},
		{"", "section"},
		{"---", "section"},
		{"a", "a"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slug(c.title), "Slug(%q)", c.title)
	}
}
