package cellmap

import "fmt"

// Window is a rectangular view into one layer, centred on an anchor cell.
// Local coordinates (i, j) run over [0, 2*semi+1) per axis with the anchor
// at (semi.Rows, semi.Cols), so the anchor cell of a half-size (1, 1)
// window is addressed as (1, 1). Views from a mutable iterator write
// through to the underlying storage.
type Window[T any] struct {
	data    []T // full layer slice
	stride  int // columns in the full grid
	anchor  GridIndex
	semi    GridSize
	mutable bool
}

// Anchor returns the grid index of the window's central cell.
func (w Window[T]) Anchor() GridIndex { return w.anchor }

// Semi returns the window half-size.
func (w Window[T]) Semi() GridSize { return w.semi }

// Size returns the full window extent, 2*semi+1 per axis.
func (w Window[T]) Size() GridSize {
	return GridSize{Rows: 2*w.semi.Rows + 1, Cols: 2*w.semi.Cols + 1}
}

func (w Window[T]) flatLocal(i, j int) (int, error) {
	size := w.Size()
	if i < 0 || i >= size.Rows || j < 0 || j >= size.Cols {
		return 0, fmt.Errorf("local index (%d, %d) outside %dx%d window: %w", i, j, size.Rows, size.Cols, ErrOutOfBounds)
	}
	row := w.anchor.Row + i - w.semi.Rows
	col := w.anchor.Col + j - w.semi.Cols
	return row*w.stride + col, nil
}

// Get returns the value at local window coordinates (i, j).
func (w Window[T]) Get(i, j int) (T, error) {
	var zero T
	fi, err := w.flatLocal(i, j)
	if err != nil {
		return zero, err
	}
	return w.data[fi], nil
}

// Set stores a value at local window coordinates (i, j). Only valid for
// windows yielded by a mutable iterator.
func (w Window[T]) Set(i, j int, value T) error {
	if !w.mutable {
		return fmt.Errorf("window from read-only iterator: %w", ErrReadOnlyWindow)
	}
	fi, err := w.flatLocal(i, j)
	if err != nil {
		return err
	}
	w.data[fi] = value
	return nil
}

// windowWalk sweeps every anchor for which the full window fits inside the
// map: rows [semi.Rows, rows-semi.Rows), cols [semi.Cols, cols-semi.Cols).
// Windows are never clipped at map edges; anchors too close to an edge are
// not visited.
type windowWalk[L Layer, T any] struct {
	m    *CellMap[L, T]
	sel  []L
	semi GridSize

	li      int
	row     int // current anchor row
	col     int // current anchor col
	started bool

	err       error
	done      bool
	released  bool
	exclusive bool
}

// checkWindowSemi validates a half-size eagerly at construction: a window
// larger than the map (no valid anchor on some axis) is a configuration
// error, distinct from a valid configuration that happens to visit nothing.
func checkWindowSemi(semi, cells GridSize) error {
	if semi.Rows < 0 || semi.Cols < 0 {
		return fmt.Errorf("negative half-size (%d, %d): %w", semi.Rows, semi.Cols, ErrInvalidWindow)
	}
	if 2*semi.Rows+1 > cells.Rows || 2*semi.Cols+1 > cells.Cols {
		return fmt.Errorf("window %dx%d larger than %dx%d map: %w",
			2*semi.Rows+1, 2*semi.Cols+1, cells.Rows, cells.Cols, ErrInvalidWindow)
	}
	return nil
}

func (w *windowWalk[L, T]) filter(layers []L) {
	if w.started {
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

func (w *windowWalk[L, T]) next() bool {
	if w.done {
		return false
	}
	if w.err != nil || len(w.sel) == 0 {
		w.finish()
		return false
	}
	cells := w.m.params.NumCells
	if !w.started {
		w.started = true
		w.row = w.semi.Rows
		w.col = w.semi.Cols
		return true
	}
	w.col++
	if w.col >= cells.Cols-w.semi.Cols {
		w.col = w.semi.Cols
		w.row++
		if w.row >= cells.Rows-w.semi.Rows {
			w.row = w.semi.Rows
			w.li++
			if w.li >= len(w.sel) {
				w.finish()
				return false
			}
		}
	}
	return true
}

func (w *windowWalk[L, T]) finish() {
	w.done = true
	w.releaseOnce()
}

func (w *windowWalk[L, T]) releaseOnce() {
	if !w.released {
		w.m.release(w.exclusive)
		w.released = true
	}
}

func (w *windowWalk[L, T]) layer() L { return w.sel[w.li] }

func (w *windowWalk[L, T]) index() GridIndex { return GridIndex{Row: w.row, Col: w.col} }

func (w *windowWalk[L, T]) window() Window[T] {
	return Window[T]{
		data:    w.m.store.layers[w.sel[w.li].Index()],
		stride:  w.m.params.NumCells.Cols,
		anchor:  GridIndex{Row: w.row, Col: w.col},
		semi:    w.semi,
		mutable: w.exclusive,
	}
}

// WindowIter is a read-only iterator over rectangular sub-views of the
// selected layers, one per valid anchor position. Obtain one from
// CellMap.WindowIter.
type WindowIter[L Layer, T any] struct {
	w windowWalk[L, T]
}

// WindowIter returns an iterator over windows of half-size semi (full
// extent 2*semi+1 per axis, odd by construction). Anchors sweep every
// position where the full window fits inside the map. A half-size for which
// no anchor exists fails eagerly with ErrInvalidWindow.
func (m *CellMap[L, T]) WindowIter(semi GridSize) (*WindowIter[L, T], error) {
	if err := checkWindowSemi(semi, m.params.NumCells); err != nil {
		return nil, err
	}
	m.acquireRead()
	return &WindowIter[L, T]{w: windowWalk[L, T]{m: m, sel: m.layers, semi: semi}}, nil
}

// Filter narrows the iteration to the given layers, visited in the order
// given. Must be called before the first Next.
func (it *WindowIter[L, T]) Filter(layers ...L) *WindowIter[L, T] {
	it.w.filter(layers)
	return it
}

// Next advances to the next window, reporting false when exhausted.
func (it *WindowIter[L, T]) Next() bool { return it.w.next() }

// Layer returns the layer tag of the current window.
func (it *WindowIter[L, T]) Layer() L { return it.w.layer() }

// Index returns the grid index of the current window's anchor.
func (it *WindowIter[L, T]) Index() GridIndex { return it.w.index() }

// Value returns the current window view.
func (it *WindowIter[L, T]) Value() Window[T] { return it.w.window() }

// Err returns the first error encountered while configuring the iterator.
func (it *WindowIter[L, T]) Err() error { return it.w.err }

// Close releases the map borrow early. Safe to call multiple times.
func (it *WindowIter[L, T]) Close() {
	it.w.done = true
	it.w.releaseOnce()
}

// WindowIterMut is a mutable iterator over rectangular sub-views. Only one
// window is live at a time; the iterator holds an exclusive borrow of the
// map so no other traversal can observe partial mutation.
type WindowIterMut[L Layer, T any] struct {
	w windowWalk[L, T]
}

// WindowIterMut returns a mutable iterator over windows of half-size semi.
// Configuration errors are reported eagerly, before the exclusive borrow is
// taken.
func (m *CellMap[L, T]) WindowIterMut(semi GridSize) (*WindowIterMut[L, T], error) {
	if err := checkWindowSemi(semi, m.params.NumCells); err != nil {
		return nil, err
	}
	m.acquireWrite()
	return &WindowIterMut[L, T]{w: windowWalk[L, T]{m: m, sel: m.layers, semi: semi, exclusive: true}}, nil
}

// Filter narrows the iteration to the given layers, visited in the order
// given. Must be called before the first Next.
func (it *WindowIterMut[L, T]) Filter(layers ...L) *WindowIterMut[L, T] {
	it.w.filter(layers)
	return it
}

// Next advances to the next window, reporting false when exhausted.
func (it *WindowIterMut[L, T]) Next() bool { return it.w.next() }

// Layer returns the layer tag of the current window.
func (it *WindowIterMut[L, T]) Layer() L { return it.w.layer() }

// Index returns the grid index of the current window's anchor.
func (it *WindowIterMut[L, T]) Index() GridIndex { return it.w.index() }

// Value returns the current window view. The view writes through to the
// map and must not be retained past the next call to Next.
func (it *WindowIterMut[L, T]) Value() Window[T] { return it.w.window() }

// Err returns the first error encountered while configuring the iterator.
func (it *WindowIterMut[L, T]) Err() error { return it.w.err }

// Close releases the exclusive borrow early. Safe to call multiple times.
func (it *WindowIterMut[L, T]) Close() {
	it.w.done = true
	it.w.releaseOnce()
}
