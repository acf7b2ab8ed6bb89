package vlist

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLAdapter(t *testing.T, rows int) *SQLAdapter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.db")

	setup, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = setup.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		_, err := setup.Exec(`INSERT INTO items (id, name) VALUES (?, ?)`, i, "item")
		require.NoError(t, err)
	}
	require.NoError(t, setup.Close())

	adapter, err := OpenSQLAdapter(path, "items", []string{"id", "name"})
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return adapter
}

func TestSQLAdapterReadsOffsetWindow(t *testing.T) {
	adapter := newTestSQLAdapter(t, 25)

	result, err := adapter.Read(context.Background(), PageParams{Strategy: StrategyOffset, Offset: 10, Limit: 5})
	require.NoError(t, err)

	assert.Len(t, result.Items, 5)
	assert.Equal(t, 25, result.Meta.Total)
	assert.True(t, result.Meta.HasMore)
}

func TestSQLAdapterReadsPageWindow(t *testing.T) {
	adapter := newTestSQLAdapter(t, 25)

	result, err := adapter.Read(context.Background(), PageParams{Strategy: StrategyPage, Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, result.Items, 5)
	assert.False(t, result.Meta.HasMore)
}

func TestSQLAdapterRejectsCursorStrategy(t *testing.T) {
	adapter := newTestSQLAdapter(t, 5)

	_, err := adapter.Read(context.Background(), PageParams{Strategy: StrategyCursor, Limit: 5})
	assert.ErrorIs(t, err, ErrAdapterFailed)
}

func TestSQLAdapterSelectsOnlyConfiguredColumns(t *testing.T) {
	adapter := newTestSQLAdapter(t, 3)

	result, err := adapter.Read(context.Background(), PageParams{Strategy: StrategyOffset, Limit: 3})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	item := result.Items[0]
	assert.Contains(t, item, "id")
	assert.Contains(t, item, "name")
	assert.Len(t, item, 2)
}

func TestSQLAdapterOrdersBySortSpec(t *testing.T) {
	adapter := newTestSQLAdapter(t, 5)

	result, err := adapter.Read(context.Background(), PageParams{
		Strategy: StrategyOffset,
		Limit:    5,
		Sort:     []SortSpec{{Field: "id", Descending: true}},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	assert.EqualValues(t, 4, result.Items[0]["id"])
}
