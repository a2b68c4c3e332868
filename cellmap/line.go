package cellmap

// Line iteration policy: the world-space segment is clipped to the map's
// extent (Liang-Barsky) before rasterisation, so endpoints outside the map
// are caller-friendly: the visited cells are those the segment actually
// crosses, and a segment that wholly misses the map yields an empty
// sequence rather than an error.
//
// Rasterisation is 8-connected Bresenham in grid-index space: each cell on
// the path is visited exactly once, consecutive cells differ by at most one
// row and one column, and visiting order runs from the first endpoint to
// the second.

// clipSegment clips the segment a->b to the axis-aligned rectangle
// [min, max] and reports whether any part of it remains.
func clipSegment(a, b, min, max WorldPoint) (WorldPoint, WorldPoint, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - min.X},
		{dx, max.X - a.X},
		{-dy, a.Y - min.Y},
		{dy, max.Y - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return WorldPoint{}, WorldPoint{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return WorldPoint{}, WorldPoint{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return WorldPoint{}, WorldPoint{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	ca := WorldPoint{X: a.X + t0*dx, Y: a.Y + t0*dy}
	cb := WorldPoint{X: a.X + t1*dx, Y: a.Y + t1*dy}
	return ca, cb, true
}

// clampToGrid converts a clipped world point to a grid index, clamping into
// the valid range so points landing exactly on the max boundary address the
// last cell.
func (g Geometry) clampToGrid(p WorldPoint) GridIndex {
	idx := g.worldToGridUnchecked(p)
	if idx.Row < 0 {
		idx.Row = 0
	}
	if idx.Row >= g.numCells.Rows {
		idx.Row = g.numCells.Rows - 1
	}
	if idx.Col < 0 {
		idx.Col = 0
	}
	if idx.Col >= g.numCells.Cols {
		idx.Col = g.numCells.Cols - 1
	}
	return idx
}

// lineWalk rasterises the clipped segment once per selected layer.
type lineWalk[L Layer, T any] struct {
	m   *CellMap[L, T]
	sel []L

	hasPath    bool
	start, end GridIndex

	li      int
	started bool
	cur     GridIndex
	acc     int // Bresenham error accumulator

	dCol, dRow int // abs deltas (dRow negated per convention)
	sCol, sRow int // step directions

	err       error
	done      bool
	released  bool
	exclusive bool
}

func newLineWalk[L Layer, T any](m *CellMap[L, T], a, b WorldPoint, exclusive bool) lineWalk[L, T] {
	w := lineWalk[L, T]{m: m, sel: m.layers, exclusive: exclusive}
	min, max := m.geom.Bounds()
	ca, cb, ok := clipSegment(a, b, min, max)
	if !ok {
		return w
	}
	w.hasPath = true
	w.start = m.geom.clampToGrid(ca)
	w.end = m.geom.clampToGrid(cb)
	w.resetRaster()
	return w
}

func (w *lineWalk[L, T]) resetRaster() {
	w.started = false
	w.cur = w.start
	w.dCol = abs(w.end.Col - w.start.Col)
	w.dRow = -abs(w.end.Row - w.start.Row)
	w.sCol = sign(w.end.Col - w.start.Col)
	w.sRow = sign(w.end.Row - w.start.Row)
	w.acc = w.dCol + w.dRow
}

func (w *lineWalk[L, T]) filter(layers []L) {
	if w.started || w.li > 0 {
		panic("cellmap: layer filter applied after iteration started")
	}
	sel := make([]L, 0, len(layers))
	for _, l := range layers {
		if _, err := w.m.layerIndex(l); err != nil {
			w.err = err
			w.sel = nil
			return
		}
		sel = append(sel, l)
	}
	w.sel = sel
}

func (w *lineWalk[L, T]) next() bool {
	if w.done {
		return false
	}
	if w.err != nil || !w.hasPath || len(w.sel) == 0 {
		w.finish()
		return false
	}
	if !w.started {
		w.started = true
		return true
	}
	if w.cur == w.end {
		w.li++
		if w.li >= len(w.sel) {
			w.finish()
			return false
		}
		w.resetRaster()
		w.started = true
		return true
	}
	e2 := 2 * w.acc
	if e2 >= w.dRow {
		w.acc += w.dRow
		w.cur.Col += w.sCol
	}
	if e2 <= w.dCol {
		w.acc += w.dCol
		w.cur.Row += w.sRow
	}
	return true
}

func (w *lineWalk[L, T]) finish() {
	w.done = true
	w.releaseOnce()
}

func (w *lineWalk[L, T]) releaseOnce() {
	if !w.released {
		w.m.release(w.exclusive)
		w.released = true
	}
}

func (w *lineWalk[L, T]) layer() L { return w.sel[w.li] }

func (w *lineWalk[L, T]) index() GridIndex { return w.cur }

func (w *lineWalk[L, T]) ptr() *T {
	return &w.m.store.layers[w.sel[w.li].Index()][w.cur.Row*w.m.params.NumCells.Cols+w.cur.Col]
}

// LineIter is a read-only iterator over the cells intersected by a
// world-space line segment, in visiting order from the first point to the
// second, repeated per selected layer. Obtain one from CellMap.LineIter.
type LineIter[L Layer, T any] struct {
	w lineWalk[L, T]
}

// LineIter returns an iterator over the cells crossed by the segment from a
// to b. The segment is clipped to the map extent; a segment that misses the
// map entirely yields an empty iteration.
func (m *CellMap[L, T]) LineIter(a, b WorldPoint) *LineIter[L, T] {
	m.acquireRead()
	return &LineIter[L, T]{w: newLineWalk(m, a, b, false)}
}

// Filter narrows the iteration to the given layers, visited in the order
// given. Must be called before the first Next.
func (it *LineIter[L, T]) Filter(layers ...L) *LineIter[L, T] {
	it.w.filter(layers)
	return it
}

// Next advances to the next cell on the path, reporting false when
// exhausted.
func (it *LineIter[L, T]) Next() bool { return it.w.next() }

// Layer returns the layer tag of the current cell.
func (it *LineIter[L, T]) Layer() L { return it.w.layer() }

// Index returns the grid index of the current cell.
func (it *LineIter[L, T]) Index() GridIndex { return it.w.index() }

// Value returns the value of the current cell.
func (it *LineIter[L, T]) Value() T { return *it.w.ptr() }

// Err returns the first error encountered while configuring the iterator.
func (it *LineIter[L, T]) Err() error { return it.w.err }

// Close releases the map borrow early. Safe to call multiple times.
func (it *LineIter[L, T]) Close() {
	it.w.done = true
	it.w.releaseOnce()
}

// LineIterMut is the mutable counterpart of LineIter, visiting the same
// cells in the same stable order. Obtain one from CellMap.LineIterMut.
type LineIterMut[L Layer, T any] struct {
	w lineWalk[L, T]
}

// LineIterMut returns a mutable iterator over the cells crossed by the
// segment from a to b, holding an exclusive borrow of the map.
func (m *CellMap[L, T]) LineIterMut(a, b WorldPoint) *LineIterMut[L, T] {
	m.acquireWrite()
	return &LineIterMut[L, T]{w: newLineWalk(m, a, b, true)}
}

// Filter narrows the iteration to the given layers, visited in the order
// given. Must be called before the first Next.
func (it *LineIterMut[L, T]) Filter(layers ...L) *LineIterMut[L, T] {
	it.w.filter(layers)
	return it
}

// Next advances to the next cell on the path, reporting false when
// exhausted.
func (it *LineIterMut[L, T]) Next() bool { return it.w.next() }

// Layer returns the layer tag of the current cell.
func (it *LineIterMut[L, T]) Layer() L { return it.w.layer() }

// Index returns the grid index of the current cell.
func (it *LineIterMut[L, T]) Index() GridIndex { return it.w.index() }

// Value returns the value of the current cell.
func (it *LineIterMut[L, T]) Value() T { return *it.w.ptr() }

// Ptr returns a pointer to the current cell. Must not be retained past the
// next call to Next.
func (it *LineIterMut[L, T]) Ptr() *T { return it.w.ptr() }

// Set stores a value into the current cell.
func (it *LineIterMut[L, T]) Set(value T) { *it.w.ptr() = value }

// Err returns the first error encountered while configuring the iterator.
func (it *LineIterMut[L, T]) Err() error { return it.w.err }

// Close releases the exclusive borrow early. Safe to call multiple times.
func (it *LineIterMut[L, T]) Close() {
	it.w.done = true
	it.w.releaseOnce()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
