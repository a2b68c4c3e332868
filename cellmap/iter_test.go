package cellmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCells[L Layer, T any](it *CellIter[L, T]) int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}

func TestIter_Counts(t *testing.T) {
	m := newTestMap(t, 1.0)

	assert.Equal(t, 75, countCells(m.Iter()), "5x5 cells x 3 layers")
	assert.Equal(t, 25, countCells(m.Iter().Filter(layerHeight)))
	assert.Equal(t, 50, countCells(m.Iter().Filter(layerHeight, layerRoughness)))

	n := 0
	mit := m.IterMut()
	for mit.Next() {
		n++
	}
	assert.Equal(t, 75, n)
}

func TestIter_Order(t *testing.T) {
	m := newTestMap(t, 0.0)

	// Layers visit in declared index order; within a layer the traversal is
	// row-major with Col increasing fastest.
	it := m.Iter()
	for want := 0; want < 75; want++ {
		require.True(t, it.Next(), "item %d", want)
		wantLayer := testLayer(want / 25)
		pos := want % 25
		assert.Equal(t, wantLayer, it.Layer())
		assert.Equal(t, GridIndex{Row: pos / 5, Col: pos % 5}, it.Index())
	}
	assert.False(t, it.Next())
}

func TestIter_FilterOrder(t *testing.T) {
	m := newTestMap(t, 0.0)

	// An explicit layer set is visited in the order given.
	it := m.Iter().Filter(layerRoughness, layerHeight)
	require.True(t, it.Next())
	assert.Equal(t, layerRoughness, it.Layer())
	for i := 0; i < 24; i++ {
		require.True(t, it.Next())
	}
	require.True(t, it.Next())
	assert.Equal(t, layerHeight, it.Layer())
	it.Close()
}

func TestIter_InvalidFilterLayer(t *testing.T) {
	m := newTestMap(t, 0.0)

	it := m.Iter().Filter(testLayer(9))
	assert.False(t, it.Next(), "invalid filter layer yields nothing")
	assert.ErrorIs(t, it.Err(), ErrInvalidLayer)

	// The borrow was released on exhaustion; a mutable iterator may start.
	mit := m.IterMut()
	mit.Close()
}

func TestIterMut_LayerIsolation(t *testing.T) {
	m := newTestMap(t, 1.0)

	// Zero the Roughness layer through a filtered mutable iterator.
	it := m.IterMut().Filter(layerRoughness)
	for it.Next() {
		it.Set(0.0)
	}

	check := m.Iter()
	for check.Next() {
		want := 1.0
		if check.Layer() == layerRoughness {
			want = 0.0
		}
		if check.Value() != want {
			t.Fatalf("layer %v cell %v = %v, want %v", check.Layer(), check.Index(), check.Value(), want)
		}
	}
}

func TestIterMut_PtrWritesThrough(t *testing.T) {
	m := newTestMap(t, 0.0)

	it := m.IterMut().Filter(layerHeight)
	for it.Next() {
		idx := it.Index()
		*it.Ptr() = float64(idx.Row*5 + idx.Col)
	}

	v, err := m.Get(layerHeight, GridIndex{Row: 3, Col: 4})
	require.NoError(t, err)
	assert.Equal(t, 19.0, v)
}

func TestIndexedDecorator(t *testing.T) {
	m := newTestMap(t, 0.0)
	require.NoError(t, m.Set(layerGradient, GridIndex{Row: 1, Col: 2}, 4.5))

	it := NewIndexed[testLayer, float64](m.Iter().Filter(layerGradient))
	n := 0
	var hit bool
	for it.Next() {
		item := it.Item()
		assert.Equal(t, layerGradient, item.Layer)
		if item.Index == (GridIndex{Row: 1, Col: 2}) {
			assert.Equal(t, 4.5, item.Value)
			hit = true
		}
		n++
	}
	assert.Equal(t, 25, n, "indexed zip preserves finiteness")
	assert.True(t, hit)
}

func TestPositionedDecorator(t *testing.T) {
	m := newTestMap(t, 0.0)

	base := m.Iter().Filter(layerHeight)
	it := NewPositioned[testLayer, float64](base, m.Geometry())
	require.True(t, it.Next())
	item := it.Item()
	assert.Equal(t, layerHeight, item.Layer)
	assert.InDelta(t, -2.0, item.Position.X, 1e-12, "cell (0,0) centre X")
	assert.InDelta(t, 2.0, item.Position.Y, 1e-12, "cell (0,0) centre Y")
	base.Close()
}

func TestBorrowGuard(t *testing.T) {
	m := newTestMap(t, 0.0)

	// A live read iterator blocks mutable iteration.
	rd := m.Iter()
	assert.Panics(t, func() { m.IterMut() })
	// Readers may coexist.
	rd2 := m.Iter()
	rd.Close()
	rd2.Close()

	// A live mutable iterator blocks everything.
	wr := m.IterMut()
	assert.Panics(t, func() { m.Iter() })
	assert.Panics(t, func() { m.IterMut() })
	wr.Close()

	// Exhaustion releases the borrow without an explicit Close.
	it := m.IterMut()
	for it.Next() {
	}
	m.IterMut().Close()
}
