package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructure_CleanProject(t *testing.T) {
	svc := newService(t, map[string]string{"manual.adoc": manualSrc})

	rep := svc.ValidateStructure()
	assert.True(t, rep.Valid)
	assert.Empty(t, rep.Issues)
	assert.Equal(t, 4, rep.TotalSections)
	assert.NotEmpty(t, rep.ValidationTimestamp)
}

func TestValidateStructure_EmptySectionWarning(t *testing.T) {
	svc := newService(t, map[string]string{
		"a.md": "# Top\n\nbody\n\n## Hollow\n",
	})

	rep := svc.ValidateStructure()
	assert.True(t, rep.Valid, "warnings alone must not invalidate")

	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "empty section: top.hollow") {
			found = true
		}
	}
	assert.True(t, found, "expected empty-section warning, got %v", rep.Warnings)
}

func TestValidateStructure_ParserWarningsSurface(t *testing.T) {
	svc := newService(t, map[string]string{
		"book.adoc": "= Book\n\ninclude::missing.adoc[]\n\nbody\n",
	})

	rep := svc.ValidateStructure()
	assert.True(t, rep.Valid)
	require.NotEmpty(t, rep.Warnings)

	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "missing_include") && strings.Contains(w, "missing.adoc") {
			found = true
			// Line numbers are reported 1-based.
			assert.Contains(t, w, "line 3")
		}
	}
	assert.True(t, found, "expected missing-include warning, got %v", rep.Warnings)
}
