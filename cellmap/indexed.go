package cellmap

// Cursor is the common surface of every iterator in the family: full,
// window and line, mutable or not. V is the per-item value type — T for
// cell iterators, Window[T] for window iterators.
type Cursor[L Layer, V any] interface {
	Next() bool
	Layer() L
	Index() GridIndex
	Value() V
	Err() error
}

// Indexed is one item of an IndexedIter: the originating layer tag and grid
// index zipped with the value.
type Indexed[L Layer, V any] struct {
	Layer L
	Index GridIndex
	Value V
}

// IndexedIter decorates any iterator to yield the layer tag and grid index
// alongside each value. A pure zip: order and finiteness of the wrapped
// iterator are preserved exactly.
type IndexedIter[L Layer, V any] struct {
	c Cursor[L, V]
}

// NewIndexed wraps an iterator in an IndexedIter.
func NewIndexed[L Layer, V any](c Cursor[L, V]) *IndexedIter[L, V] {
	return &IndexedIter[L, V]{c: c}
}

// Next advances the wrapped iterator.
func (it *IndexedIter[L, V]) Next() bool { return it.c.Next() }

// Item returns the current (layer, index, value) triple.
func (it *IndexedIter[L, V]) Item() Indexed[L, V] {
	return Indexed[L, V]{Layer: it.c.Layer(), Index: it.c.Index(), Value: it.c.Value()}
}

// Err returns the wrapped iterator's configuration error, if any.
func (it *IndexedIter[L, V]) Err() error { return it.c.Err() }

// Positioned is one item of a PositionedIter: the originating layer tag and
// the world-space position of the cell centre zipped with the value.
type Positioned[L Layer, V any] struct {
	Layer    L
	Position WorldPoint
	Value    V
}

// PositionedIter decorates any iterator to yield the world-space position
// of each item's cell (window items use the anchor cell) alongside the
// value. Like IndexedIter it adds no traversal logic of its own.
type PositionedIter[L Layer, V any] struct {
	c    Cursor[L, V]
	geom Geometry
}

// NewPositioned wraps an iterator in a PositionedIter using the given
// geometry for the index-to-world transform.
func NewPositioned[L Layer, V any](c Cursor[L, V], geom Geometry) *PositionedIter[L, V] {
	return &PositionedIter[L, V]{c: c, geom: geom}
}

// Next advances the wrapped iterator.
func (it *PositionedIter[L, V]) Next() bool { return it.c.Next() }

// Item returns the current (layer, position, value) triple.
func (it *PositionedIter[L, V]) Item() Positioned[L, V] {
	return Positioned[L, V]{
		Layer:    it.c.Layer(),
		Position: it.geom.gridToWorldUnchecked(it.c.Index()),
		Value:    it.c.Value(),
	}
}

// Err returns the wrapped iterator's configuration error, if any.
func (it *PositionedIter[L, V]) Err() error { return it.c.Err() }
