package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnav/internal/diffengine"
)

func TestStore_RecordAndRecent(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record("guide.intro", "guide.md", "update",
		diffengine.Stats{AddedLines: 2, RemovedLines: 1}))
	require.NoError(t, store.Record("guide", "guide.md", "insert",
		diffengine.Stats{AddedLines: 4}))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "insert", entries[0].Operation)
	assert.Equal(t, "guide", entries[0].SectionID)
	assert.Equal(t, 4, entries[0].AddedLines)
	assert.Equal(t, "update", entries[1].Operation)
	assert.Equal(t, 1, entries[1].RemovedLines)
	assert.NotEmpty(t, entries[0].CreatedAt)
}

func TestStore_RecentLimit(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 25; i++ {
		require.NoError(t, store.Record("s", "f.md", "update", diffengine.Stats{}))
	}

	entries, err := store.Recent(5)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	// limit <= 0 falls back to the default of 20.
	entries, err = store.Recent(0)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestOpen_CreatesDotDirectory(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(filepath.Join(root, ".docnav", "history.db"))
	assert.NoError(t, err)
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	root := t.TempDir()

	store, err := Open(root)
	require.NoError(t, err)
	require.NoError(t, store.Record("s", "f.md", "update", diffengine.Stats{ChangedLines: 3}))
	require.NoError(t, store.Close())

	store, err = Open(root)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].ChangedLines)
}
