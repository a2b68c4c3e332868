package cellmap

// The iterator family is lazy, finite and single-pass: each iterator is
// consumed once via Next and is not restartable. Iterators borrow the map
// for their lifetime; the borrow is released when the iterator is exhausted
// or closed early. Dropping an iterator early requires an explicit Close.
//
// Traversal order is deterministic and documented: layers in declared index
// order (or filter order), and within each layer row-major with Col
// increasing fastest.

// cellWalk is the shared traversal state for full and layer-filtered cell
// iteration.
type cellWalk[L Layer, T any] struct {
	m   *CellMap[L, T]
	sel []L // layers to visit, in visit order

	li  int // position in sel
	pos int // flat cell position within current layer, -1 before first Next
	n   int // cells per layer

	err       error
	done      bool
	released  bool
	exclusive bool
}

func newCellWalk[L Layer, T any](m *CellMap[L, T], exclusive bool) cellWalk[L, T] {
	return cellWalk[L, T]{
		m:         m,
		sel:       m.layers,
		pos:       -1,
		n:         m.params.NumCells.Rows * m.params.NumCells.Cols,
		exclusive: exclusive,
	}
}

func (w *cellWalk[L, T]) filter(layers []L) {
	if w.pos >= 0 || w.li > 0 {
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

func (w *cellWalk[L, T]) next() bool {
	if w.done {
		return false
	}
	if w.err != nil || len(w.sel) == 0 {
		w.finish()
		return false
	}
	w.pos++
	if w.pos >= w.n {
		w.li++
		w.pos = 0
		if w.li >= len(w.sel) {
			w.finish()
			return false
		}
	}
	return true
}

func (w *cellWalk[L, T]) finish() {
	w.done = true
	w.releaseOnce()
}

func (w *cellWalk[L, T]) releaseOnce() {
	if !w.released {
		w.m.release(w.exclusive)
		w.released = true
	}
}

func (w *cellWalk[L, T]) layer() L { return w.sel[w.li] }

func (w *cellWalk[L, T]) index() GridIndex {
	cols := w.m.params.NumCells.Cols
	return GridIndex{Row: w.pos / cols, Col: w.pos % cols}
}

func (w *cellWalk[L, T]) ptr() *T {
	return &w.m.store.layers[w.sel[w.li].Index()][w.pos]
}

// CellIter is a read-only iterator over every cell of the selected layers.
// Obtain one from CellMap.Iter.
type CellIter[L Layer, T any] struct {
	w cellWalk[L, T]
}

// Iter returns an iterator over each cell in all layers of the map. The
// iterator holds a shared borrow of the map until exhausted or closed.
func (m *CellMap[L, T]) Iter() *CellIter[L, T] {
	m.acquireRead()
	return &CellIter[L, T]{w: newCellWalk(m, false)}
}

// Filter narrows the iteration to the given layers, visited in the order
// given. Must be called before the first Next. An undeclared layer is
// surfaced via Err, not silently skipped.
func (it *CellIter[L, T]) Filter(layers ...L) *CellIter[L, T] {
	it.w.filter(layers)
	return it
}

// Next advances to the next cell, reporting false when the iteration is
// exhausted. Exhaustion releases the map borrow.
func (it *CellIter[L, T]) Next() bool { return it.w.next() }

// Layer returns the layer tag of the current cell.
func (it *CellIter[L, T]) Layer() L { return it.w.layer() }

// Index returns the grid index of the current cell.
func (it *CellIter[L, T]) Index() GridIndex { return it.w.index() }

// Value returns the value of the current cell.
func (it *CellIter[L, T]) Value() T { return *it.w.ptr() }

// Err returns the first error encountered while configuring the iterator,
// if any.
func (it *CellIter[L, T]) Err() error { return it.w.err }

// Close releases the map borrow without consuming the rest of the
// iteration. Safe to call multiple times.
func (it *CellIter[L, T]) Close() {
	it.w.done = true
	it.w.releaseOnce()
}

// CellIterMut is a mutable iterator over every cell of the selected layers.
// Obtain one from CellMap.IterMut.
type CellIterMut[L Layer, T any] struct {
	w cellWalk[L, T]
}

// IterMut returns a mutable iterator over each cell in all layers of the
// map. The iterator holds an exclusive borrow: starting it while any other
// traversal is live panics, as does starting any traversal before it is
// exhausted or closed.
func (m *CellMap[L, T]) IterMut() *CellIterMut[L, T] {
	m.acquireWrite()
	return &CellIterMut[L, T]{w: newCellWalk(m, true)}
}

// Filter narrows the iteration to the given layers, visited in the order
// given. Must be called before the first Next.
func (it *CellIterMut[L, T]) Filter(layers ...L) *CellIterMut[L, T] {
	it.w.filter(layers)
	return it
}

// Next advances to the next cell, reporting false when the iteration is
// exhausted.
func (it *CellIterMut[L, T]) Next() bool { return it.w.next() }

// Layer returns the layer tag of the current cell.
func (it *CellIterMut[L, T]) Layer() L { return it.w.layer() }

// Index returns the grid index of the current cell.
func (it *CellIterMut[L, T]) Index() GridIndex { return it.w.index() }

// Value returns the value of the current cell.
func (it *CellIterMut[L, T]) Value() T { return *it.w.ptr() }

// Ptr returns a pointer to the current cell. Successive cells never alias:
// each call addresses a distinct cell of a distinct (layer, index) pair.
// The pointer must not be retained past the next call to Next.
func (it *CellIterMut[L, T]) Ptr() *T { return it.w.ptr() }

// Set stores a value into the current cell.
func (it *CellIterMut[L, T]) Set(value T) { *it.w.ptr() = value }

// Err returns the first error encountered while configuring the iterator,
// if any.
func (it *CellIterMut[L, T]) Err() error { return it.w.err }

// Close releases the exclusive borrow without consuming the rest of the
// iteration. Safe to call multiple times.
func (it *CellIterMut[L, T]) Close() {
	it.w.done = true
	it.w.releaseOnce()
}
