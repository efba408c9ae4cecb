package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnav/internal/index"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, files map[string]string) (*Watcher, *index.Index, string) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	ix, err := index.New(root, 0)
	require.NoError(t, err)

	w := New(ix, 50*time.Millisecond)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w, ix, root
}

func TestWatcher_ExternalEditReflected(t *testing.T) {
	_, ix, root := startWatcher(t, map[string]string{
		"doc.md": "# Doc\n\nold\n",
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.md"),
		[]byte("# Doc\n\nnew\n"), 0o644))

	ok := waitFor(t, 3*time.Second, func() bool {
		sec := ix.Snapshot().Sections["doc"]
		return sec != nil && sec.Content == "new"
	})
	assert.True(t, ok, "index did not pick up the external edit")
}

func TestWatcher_NewFileIndexed(t *testing.T) {
	_, ix, root := startWatcher(t, map[string]string{
		"doc.md": "# Doc\n\nbody\n",
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "fresh.md"),
		[]byte("# Fresh\n\nhello\n"), 0o644))

	ok := waitFor(t, 3*time.Second, func() bool {
		return ix.Snapshot().Sections["fresh"] != nil
	})
	assert.True(t, ok, "new file never appeared in the index")
}

func TestWatcher_RemovedFileDropped(t *testing.T) {
	_, ix, root := startWatcher(t, map[string]string{
		"a.md": "# A\n\na\n",
		"b.md": "# B\n\nb\n",
	})
	require.NotNil(t, ix.Snapshot().Sections["b"])

	require.NoError(t, os.Remove(filepath.Join(root, "b.md")))

	ok := waitFor(t, 3*time.Second, func() bool {
		return ix.Snapshot().Sections["b"] == nil
	})
	assert.True(t, ok, "removed file still indexed")
}

func TestWatcher_SuppressedEchoIgnored(t *testing.T) {
	w, ix, root := startWatcher(t, map[string]string{
		"doc.md": "# Doc\n\nold\n",
	})

	// Announce the write first, the way the editor does.
	w.Suppress("doc.md")
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.md"),
		[]byte("# Doc\n\nedited\n"), 0o644))

	// The suppressed event must not reach the index.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, "old", ix.Snapshot().Sections["doc"].Content)

	// After the shield expires, a genuine edit is seen again.
	w.supMu.Lock()
	w.suppressTTL = 0
	w.supMu.Unlock()
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.md"),
		[]byte("# Doc\n\nfinal\n"), 0o644))
	ok := waitFor(t, 3*time.Second, func() bool {
		return ix.Snapshot().Sections["doc"].Content == "final"
	})
	assert.True(t, ok)
}

func TestWatcher_NonMarkupIgnored(t *testing.T) {
	_, ix, root := startWatcher(t, map[string]string{
		"doc.md": "# Doc\n\nbody\n",
	})
	before := len(ix.Snapshot().Sections)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"),
		[]byte("# Not Markup\n"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, before, len(ix.Snapshot().Sections))
}

func TestWatcher_StopDuringEvents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.md"),
		[]byte("# Doc\n\nbody\n"), 0o644))
	ix, err := index.New(root, 0)
	require.NoError(t, err)

	w := New(ix, 50*time.Millisecond)
	require.NoError(t, w.Start())

	// Stop while events are still arriving; the loop and the caller
	// both touch the underlying watch handle.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			_ = os.WriteFile(filepath.Join(root, "doc.md"),
				[]byte(fmt.Sprintf("# Doc\n\nrev %d\n", i)), 0o644)
		}
	}()
	w.Stop()
	<-done
}

func TestWatcher_NewDirectoryWatched(t *testing.T) {
	_, ix, root := startWatcher(t, map[string]string{
		"doc.md": "# Doc\n\nbody\n",
	})

	sub := filepath.Join(root, "chapter")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "one.md"),
		[]byte("# One\n\nin subdir\n"), 0o644))

	ok := waitFor(t, 3*time.Second, func() bool {
		return ix.Snapshot().Sections["one"] != nil
	})
	assert.True(t, ok, "file in new directory never indexed")
}
