package mapdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gridmap/cellmap"
)

type terrainLayer int

const (
	layerElevation terrainLayer = iota
	layerVariance
)

func (l terrainLayer) Index() int { return int(l) }

func (l terrainLayer) String() string {
	switch l {
	case layerElevation:
		return "Elevation"
	case layerVariance:
		return "Variance"
	}
	return "Unknown"
}

func terrainLayers() []terrainLayer { return []terrainLayer{layerElevation, layerVariance} }

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTerrainMap(t *testing.T) *cellmap.CellMap[terrainLayer, float64] {
	t.Helper()
	m, err := cellmap.New[terrainLayer, float64](cellmap.Params{
		CellSize: cellmap.CellSize{X: 0.25, Y: 0.25},
		NumCells: cellmap.GridSize{Rows: 8, Cols: 8},
	}, terrainLayers())
	require.NoError(t, err)

	it := m.IterMut().Filter(layerElevation)
	for it.Next() {
		idx := it.Index()
		it.Set(float64(idx.Row) * 0.1)
	}
	return m
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an already-migrated database is a no-op.
	db, err = Open(path)
	require.NoError(t, err)
	db.Close()
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	m := newTerrainMap(t)
	require.NoError(t, m.Set(layerVariance, cellmap.GridIndex{Row: 5, Col: 3}, 2.5))

	snap, err := SnapshotFromMap(m, "yard", "settle")
	require.NoError(t, err)
	assert.Equal(t, 8, snap.GridRows)
	assert.Equal(t, 8, snap.GridCols)
	assert.Equal(t, 2, snap.LayerCount)

	id, err := db.InsertSnapshot(snap)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := db.GetSnapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "yard", stored.Name)
	assert.Equal(t, "settle", stored.Reason)
	assert.NotZero(t, stored.TakenUnixNanos)

	back, err := RestoreMap[terrainLayer, float64](stored, terrainLayers())
	require.NoError(t, err)
	assert.Equal(t, m.Params(), back.Params())

	v, err := back.Get(layerVariance, cellmap.GridIndex{Row: 5, Col: 3})
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
	v, err = back.Get(layerElevation, cellmap.GridIndex{Row: 7, Col: 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, v, 1e-12)
}

func TestListSnapshots(t *testing.T) {
	db := openTestDB(t)
	m := newTerrainMap(t)

	for i, reason := range []string{"first", "second", "third"} {
		snap, err := SnapshotFromMap(m, "yard", reason)
		require.NoError(t, err)
		snap.TakenUnixNanos = int64(1000 + i)
		_, err = db.InsertSnapshot(snap)
		require.NoError(t, err)
	}
	other, err := SnapshotFromMap(m, "depot", "other site")
	require.NoError(t, err)
	_, err = db.InsertSnapshot(other)
	require.NoError(t, err)

	snaps, err := db.ListSnapshots("yard", 0)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "third", snaps[0].Reason, "newest first")
	assert.Equal(t, "first", snaps[2].Reason)
	assert.Nil(t, snaps[0].GridBlob, "listing omits blobs")

	snaps, err = db.ListSnapshots("yard", 1)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "third", snaps[0].Reason)

	snaps, err = db.ListSnapshots("nowhere", 0)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestGetSnapshot_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetSnapshot("no-such-id")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	err = db.DeleteSnapshot("no-such-id")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestDeleteSnapshot(t *testing.T) {
	db := openTestDB(t)
	m := newTerrainMap(t)

	snap, err := SnapshotFromMap(m, "yard", "to delete")
	require.NoError(t, err)
	id, err := db.InsertSnapshot(snap)
	require.NoError(t, err)

	require.NoError(t, db.DeleteSnapshot(id))
	_, err = db.GetSnapshot(id)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestRestoreMap_LayerMismatch(t *testing.T) {
	m := newTerrainMap(t)
	snap, err := SnapshotFromMap(m, "yard", "")
	require.NoError(t, err)

	_, err = RestoreMap[terrainLayer, float64](snap, []terrainLayer{layerElevation})
	assert.ErrorIs(t, err, cellmap.ErrInvalidLayer)
}
