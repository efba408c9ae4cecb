package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnav/internal/diffengine"
	"docnav/internal/history"
	"docnav/internal/index"
	"docnav/internal/query"
)

const guideSrc = "# Guide\n\nintro\n\n## Install\n\nsteps here\n\n## Usage\n\nrun it\n"

func newTestServer(t *testing.T, hist *history.Store) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "guide.md"), []byte(guideSrc), 0o644))

	ix, err := index.New(root, 0)
	require.NoError(t, err)
	return NewServer(query.New(ix), ix, hist), root
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestStart_NoFreePortFails(t *testing.T) {
	const base = 39160
	for p := base; p < base+portProbeRange; p++ {
		if ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p)); err == nil {
			defer ln.Close()
		}
	}

	s, _ := newTestServer(t, nil)
	_, err := s.Start(base)
	assert.Error(t, err)
}

func TestStart_SkipsBusyPort(t *testing.T) {
	const base = 39200
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", base))
	require.NoError(t, err)
	defer ln.Close()

	s, _ := newTestServer(t, nil)
	port, err := s.Start(base)
	require.NoError(t, err)
	defer s.Stop()
	assert.Greater(t, port, base)
	assert.Less(t, port, base+portProbeRange)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	decode(t, rec, &out)
	assert.Equal(t, "ok", out["status"])
	assert.EqualValues(t, 3, out["sections"])
	assert.EqualValues(t, 1, out["roots"])
}

func TestStructureEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/structure")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		RootFiles []query.FileStructure `json:"root_files"`
	}
	decode(t, rec, &out)
	require.Len(t, out.RootFiles, 1)
	assert.Equal(t, "guide.md", out.RootFiles[0].Path)
	assert.Equal(t, 3, out.RootFiles[0].SectionCount)

	// Per-file entries carry the recursive section tree, not a flat list.
	require.Len(t, out.RootFiles[0].Sections, 1)
	top := out.RootFiles[0].Sections[0]
	assert.Equal(t, "guide", top.ID)
	require.Len(t, top.Children, 2)
	assert.Equal(t, "guide.install", top.Children[0].ID)
	assert.Equal(t, "guide.usage", top.Children[1].ID)
}

func TestSectionEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/section/guide.install")
	require.Equal(t, http.StatusOK, rec.Code)

	var sec query.SectionDetail
	decode(t, rec, &sec)
	assert.Equal(t, "Install", sec.Title)
	assert.Equal(t, "steps here", sec.Content)
}

func TestSectionEndpoint_NotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/section/guide.nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var out map[string]any
	decode(t, rec, &out)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "not_found", out["kind"])
}

func TestSectionEndpoint_MissingPath(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s, "/api/section/")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSectionEndpoint_FullContext(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/section/guide.install?context=full")
	require.Equal(t, http.StatusOK, rec.Code)

	// The flat section fields stay in place; context=full only adds keys.
	var out struct {
		query.SectionDetail
		FullContent     string         `json:"full_content"`
		SectionPosition map[string]int `json:"section_position"`
	}
	decode(t, rec, &out)
	assert.Equal(t, "guide.install", out.ID)
	assert.Equal(t, "Install", out.Title)
	assert.Equal(t, "steps here", out.Content)
	assert.Equal(t, guideSrc, out.FullContent)
	assert.Equal(t, out.LineStart, out.SectionPosition["line_start"])
	assert.Equal(t, out.LineEnd, out.SectionPosition["line_end"])
}

func TestMetadataEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/metadata")
	require.Equal(t, http.StatusOK, rec.Code)
	var project query.ProjectMetadata
	decode(t, rec, &project)
	assert.Equal(t, 3, project.TotalSections)
	require.Len(t, project.RootFiles, 1)
	assert.Equal(t, "guide.md", project.RootFiles[0].File)

	rec = get(t, s, "/api/metadata?path=guide.usage")
	require.Equal(t, http.StatusOK, rec.Code)
	var sec query.SectionMetadata
	decode(t, rec, &sec)
	assert.Equal(t, "guide.usage", sec.ID)
	assert.Equal(t, 2, sec.WordCount)

	rec = get(t, s, "/api/metadata?path=guide.nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/validate")
	require.Equal(t, http.StatusOK, rec.Code)

	var out query.ValidationReport
	decode(t, rec, &out)
	assert.True(t, out.Valid)
}

func TestHistoryEndpoint_NilStore(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Edits []history.Entry `json:"edits"`
		Count int             `json:"count"`
	}
	decode(t, rec, &out)
	assert.Empty(t, out.Edits)
	assert.Equal(t, 0, out.Count)
}

func TestHistoryEndpoint(t *testing.T) {
	histRoot := t.TempDir()
	store, err := history.Open(histRoot)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s, _ := newTestServer(t, store)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record("guide.install", "guide.md", "update",
			diffengine.Stats{AddedLines: i + 1}))
	}

	rec := get(t, s, "/api/history?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Edits []history.Entry `json:"edits"`
		Count int             `json:"count"`
	}
	decode(t, rec, &out)
	require.Len(t, out.Edits, 2)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, 3, out.Edits[0].AddedLines)
}
