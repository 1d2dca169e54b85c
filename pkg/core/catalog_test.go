package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volmand/volmand/pkg/core/status"
	"github.com/volmand/volmand/pkg/model"
)

func TestCatalogAppendAndHistory(t *testing.T) {
	c := NewCatalog()
	fs := model.NewFilesystem("hpool", "data")

	require.NoError(t, c.Append(fs, model.Snapshot{Name: "s1"}))
	require.NoError(t, c.Append(fs, model.Snapshot{Name: "s2"}))

	assert.Equal(t, snaps("s1", "s2"), c.History(fs))

	latest, ok := c.Latest(fs)
	require.True(t, ok)
	assert.Equal(t, "s2", latest.Name)
}

func TestCatalogRejectsDuplicate(t *testing.T) {
	c := NewCatalog()
	fs := model.NewFilesystem("hpool", "data")

	require.NoError(t, c.Append(fs, model.Snapshot{Name: "s1"}))
	require.ErrorIs(t, c.Append(fs, model.Snapshot{Name: "s1"}), status.ErrSnapshotExists)
	assert.Equal(t, snaps("s1"), c.History(fs))
}

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog()
	fs := model.NewFilesystem("hpool", "data")
	other := model.NewFilesystem("hpool", "other")

	require.NoError(t, c.Append(fs, model.Snapshot{Name: "s1"}))

	snap, ok := c.Lookup(fs, "s1")
	require.True(t, ok)
	assert.Equal(t, "s1", snap.Name)

	_, ok = c.Lookup(fs, "s2")
	assert.False(t, ok)
	_, ok = c.Lookup(other, "s1")
	assert.False(t, ok)
}

func TestCatalogHistoriesAreIndependent(t *testing.T) {
	c := NewCatalog()
	a := model.NewFilesystem("hpool", "a")
	b := model.NewFilesystem("hpool", "b")

	require.NoError(t, c.Append(a, model.Snapshot{Name: "s1"}))
	require.NoError(t, c.Append(b, model.Snapshot{Name: "s1"}))

	assert.Len(t, c.History(a), 1)
	assert.Len(t, c.History(b), 1)
	assert.ElementsMatch(t, []string{"hpool/a", "hpool/b"}, c.Filesystems())
}

func TestCatalogHistoryIsACopy(t *testing.T) {
	c := NewCatalog()
	fs := model.NewFilesystem("hpool", "data")
	require.NoError(t, c.Append(fs, model.Snapshot{Name: "s1"}))

	history := c.History(fs)
	history[0] = model.Snapshot{Name: "tampered"}

	fresh := c.History(fs)
	assert.Equal(t, "s1", fresh[0].Name)
}

func TestCatalogExportImport(t *testing.T) {
	c := NewCatalog()
	fs := model.NewFilesystem("hpool", "data")
	require.NoError(t, c.Append(fs, model.Snapshot{Name: "s1"}))
	require.NoError(t, c.Append(fs, model.Snapshot{Name: "s2"}))

	restored := NewCatalog()
	restored.Import(c.Export())

	assert.Equal(t, c.History(fs), restored.History(fs))
	snap, ok := restored.Lookup(fs, "s2")
	require.True(t, ok)
	assert.Equal(t, "s2", snap.Name)
}
