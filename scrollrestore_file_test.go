package vlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileScrollStoreMissingFileLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileScrollStore(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	defer store.Close()

	_, _, ok := store.Load()
	assert.False(t, ok)
}

func TestFileScrollStoreSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileScrollStore(filepath.Join(dir, "scroll.json"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(42, "item-7"))

	position, selectID, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, 42, position)
	assert.Equal(t, "item-7", selectID)
}

func TestFileScrollStorePicksUpExistingFileOnOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scroll.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"position":9,"selectId":"x"}`), 0o644))

	store, err := NewFileScrollStore(path)
	require.NoError(t, err)
	defer store.Close()

	position, selectID, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, 9, position)
	assert.Equal(t, "x", selectID)
}

func TestFileScrollStoreInvalidatesCacheOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scroll.json")
	store, err := NewFileScrollStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(1, "a"))

	require.NoError(t, os.WriteFile(path, []byte(`{"position":99,"selectId":"b"}`), 0o644))

	var position int
	var selectID string
	var ok bool
	for i := 0; i < 50; i++ {
		position, selectID, ok = store.Load()
		if ok && position == 99 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, ok)
	assert.Equal(t, 99, position)
	assert.Equal(t, "b", selectID)
}

func TestFileScrollStoreCloseStopsWatching(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileScrollStore(filepath.Join(dir, "scroll.json"))
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
