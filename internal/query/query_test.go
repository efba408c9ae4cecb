package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnav/internal/document"
	"docnav/internal/index"
)

// newService builds an index over the given files and wraps it in a
// query service.
func newService(t *testing.T, files map[string]string) *Service {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	ix, err := index.New(root, 0)
	require.NoError(t, err)
	return New(ix)
}

const manualSrc = "= Manual\n" +
	"\n" +
	"About the tool.\n" +
	"\n" +
	"== Install\n" +
	"\n" +
	"Installation steps.\n" +
	"\n" +
	"=== Linux\n" +
	"\n" +
	"apt story.\n" +
	"\n" +
	"== Usage\n" +
	"\n" +
	"Run it.\n"

func TestGetStructure(t *testing.T) {
	svc := newService(t, map[string]string{"manual.adoc": manualSrc})

	all := svc.GetStructure(0)
	require.Len(t, all, 4)
	assert.Equal(t, "manual", all[0].ID)
	assert.Equal(t, "manual.install", all[1].ID)
	assert.Equal(t, "manual.install.linux", all[2].ID)
	assert.Equal(t, "manual.usage", all[3].ID)
	assert.Equal(t, 2, all[0].ChildrenCount)

	shallow := svc.GetStructure(2)
	require.Len(t, shallow, 3)
	for _, e := range shallow {
		assert.LessOrEqual(t, e.Level, 2)
	}
}

func TestGetStructure_EmptyProject(t *testing.T) {
	svc := newService(t, nil)
	assert.Empty(t, svc.GetStructure(0))

	meta := svc.GetProjectMetadata()
	assert.Zero(t, meta.TotalSections)
	assert.Zero(t, meta.TotalWords)
	assert.Empty(t, meta.RootFiles)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	window, pg := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, window)
	assert.Equal(t, Pagination{Total: 5, Limit: 2, Offset: 2, HasNext: true, HasPrevious: true}, pg)

	window, pg = Paginate(items, 0, 0)
	assert.Equal(t, items, window)
	assert.Equal(t, 5, pg.Total)
	assert.False(t, pg.HasNext)

	window, pg = Paginate(items, 10, 10)
	assert.Empty(t, window)
	assert.False(t, pg.HasNext)
	assert.True(t, pg.HasPrevious)
}

func TestGetSection(t *testing.T) {
	svc := newService(t, map[string]string{"manual.adoc": manualSrc})

	sec, err := svc.GetSection("manual.install")
	require.NoError(t, err)
	assert.Equal(t, "Install", sec.Title)
	assert.Equal(t, 2, sec.Level)
	assert.Equal(t, "Installation steps.", sec.Content)
	assert.Equal(t, "manual.adoc", sec.SourceFile)
	assert.Equal(t, []string{"manual.install.linux"}, sec.Children)

	_, err = svc.GetSection("manual.missing")
	require.Error(t, err)
	assert.Equal(t, document.KindNotFound, document.KindOf(err))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "manual.install", NormalizePath("manual.adoc#install"))
	assert.Equal(t, "manual.install", NormalizePath("docs/manual.adoc#install"))
	assert.Equal(t, "manual.install", NormalizePath("manual.install"))
	assert.Equal(t, "readme.setup", NormalizePath("readme.md#setup"))
}

func TestGetSectionsByLevel(t *testing.T) {
	svc := newService(t, map[string]string{"manual.adoc": manualSrc})

	secs, err := svc.GetSectionsByLevel(2)
	require.NoError(t, err)
	require.Len(t, secs, 2)
	assert.Equal(t, "Install", secs[0].Title)
	assert.Equal(t, "Usage", secs[1].Title)

	for _, bad := range []int{0, 7, -1} {
		_, err := svc.GetSectionsByLevel(bad)
		require.Error(t, err)
		assert.Equal(t, document.KindInvalidArgument, document.KindOf(err))
	}
}

func TestGetRootFilesStructure(t *testing.T) {
	svc := newService(t, map[string]string{
		"book.adoc": "= Book\n\ninclude::part.adoc[]\n",
		"part.adoc": "== Part\n\nbody\n",
		"notes.md":  "# Notes\n\ntext\n",
	})

	files := svc.GetRootFilesStructure()
	require.Len(t, files, 2)

	assert.Equal(t, "book.adoc", files[0].Path)
	assert.Equal(t, "book.adoc", files[0].Filename)
	assert.Equal(t, 2, files[0].SectionCount)
	require.Len(t, files[0].Sections, 1)
	book := files[0].Sections[0]
	assert.Equal(t, "book", book.ID)
	require.Len(t, book.Children, 1)
	// The included file's section nests inside the root's tree.
	assert.Equal(t, "book.part", book.Children[0].ID)
	assert.Equal(t, "part.adoc", book.Children[0].SourceFile)

	assert.Equal(t, "notes.md", files[1].Path)
}

func TestGetMainChapters(t *testing.T) {
	svc := newService(t, map[string]string{
		"arc.adoc": "= Architecture\n\n== 3. Context\n\nc\n\n== 1. Introduction\n\ni\n\n== 10) Decisions\n\nd\n",
		"plain.md": "# Zebra Guide\n\nz\n",
	})

	chapters := svc.GetMainChapters()
	require.Len(t, chapters, 5)

	// Numbered level-2 chapters first, by number.
	assert.Equal(t, "1. Introduction", chapters[0].Title)
	assert.Equal(t, 1, chapters[0].ChapterNumber)
	assert.Equal(t, "3. Context", chapters[1].Title)
	assert.Equal(t, "10) Decisions", chapters[2].Title)
	assert.Equal(t, 10, chapters[2].ChapterNumber)

	// Then unnumbered level-1 sections by title.
	assert.Equal(t, "Architecture", chapters[3].Title)
	assert.Equal(t, "Zebra Guide", chapters[4].Title)
}

func TestGetSectionMetadata(t *testing.T) {
	svc := newService(t, map[string]string{"manual.adoc": manualSrc})

	meta, err := svc.GetSectionMetadata("manual.install")
	require.NoError(t, err)
	assert.Equal(t, 2, meta.WordCount)
	assert.Equal(t, 1, meta.ChildrenCount)
	assert.True(t, meta.HasContent)

	_, err = svc.GetSectionMetadata("nope")
	assert.Error(t, err)
}

func TestGetProjectMetadata(t *testing.T) {
	svc := newService(t, map[string]string{
		"a.md": "# A\n\none two three\n",
		"b.md": "# B\n\nfour five\n",
	})

	meta := svc.GetProjectMetadata()
	assert.Equal(t, 2, meta.TotalSections)
	assert.Equal(t, 5, meta.TotalWords)
	require.Len(t, meta.RootFiles, 2)
	assert.Equal(t, "a.md", meta.RootFiles[0].File)
	assert.Positive(t, meta.RootFiles[0].Size)
	assert.NotEmpty(t, meta.RootFiles[0].LastModified)
}
