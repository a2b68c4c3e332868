package cellmap

import "fmt"

// CellMap is a many-layer 2D map of cellular data. All layers share one
// geometry; each holds one value of type T per cell. The map exclusively
// owns its layer arrays; shape is fixed at construction.
//
// The zero value is not usable; construct with New, NewFromElem or
// NewFromData.
type CellMap[L Layer, T any] struct {
	params Params
	geom   Geometry
	layers []L
	store  *layeredStorage[T]

	// Runtime borrow accounting for the iterator family. readers counts live
	// shared traversals; writer marks a live exclusive traversal. Guarded by
	// the package's single-threaded access contract, not a mutex.
	readers int
	writer  bool
}

// New creates a map from the given params, filling every cell of every layer
// with the zero value of T. The layer list must be the complete declared
// enumeration, in index order.
func New[L Layer, T any](params Params, layers []L) (*CellMap[L, T], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateLayers(layers); err != nil {
		return nil, err
	}
	return &CellMap[L, T]{
		params: params,
		geom:   newGeometry(params),
		layers: append([]L(nil), layers...),
		store:  newLayeredStorage[T](len(layers), params.NumCells),
	}, nil
}

// NewFromElem creates a map from the given params, filling every cell of
// every layer with elem.
func NewFromElem[L Layer, T any](params Params, layers []L, elem T) (*CellMap[L, T], error) {
	m, err := New[L, T](params, layers)
	if err != nil {
		return nil, err
	}
	m.store = newLayeredStorageFromElem(len(layers), params.NumCells, elem)
	return m, nil
}

// NewFromData creates a map from per-layer row-major data. data must hold
// one slice per declared layer, each of length NumCells.Rows*NumCells.Cols.
// The data is copied; the map does not retain the input slices.
func NewFromData[L Layer, T any](params Params, layers []L, data [][]T) (*CellMap[L, T], error) {
	m, err := New[L, T](params, layers)
	if err != nil {
		return nil, err
	}
	if len(data) != len(layers) {
		return nil, fmt.Errorf("%d data layers for %d declared layers: %w", len(data), len(layers), ErrShapeMismatch)
	}
	want := params.NumCells.Rows * params.NumCells.Cols
	for i, d := range data {
		if len(d) != want {
			return nil, fmt.Errorf("layer %v has %d cells, want %d: %w", layers[i], len(d), want, ErrShapeMismatch)
		}
		copy(m.store.layers[i], d)
	}
	return m, nil
}

// Params returns the construction parameters.
func (m *CellMap[L, T]) Params() Params { return m.params }

// Geometry returns the map's coordinate transform.
func (m *CellMap[L, T]) Geometry() Geometry { return m.geom }

// Layers returns the declared layer enumeration in index order.
func (m *CellMap[L, T]) Layers() []L { return append([]L(nil), m.layers...) }

// NumLayers returns the number of declared layers.
func (m *CellMap[L, T]) NumLayers() int { return len(m.layers) }

// Size returns the cell counts per axis.
func (m *CellMap[L, T]) Size() GridSize { return m.params.NumCells }

// layerIndex resolves a layer tag to its dense index, defensively checking
// it belongs to the declared set.
func (m *CellMap[L, T]) layerIndex(layer L) (int, error) {
	i := layer.Index()
	if i < 0 || i >= len(m.layers) || m.layers[i] != layer {
		return 0, fmt.Errorf("layer %v: %w", layer, ErrInvalidLayer)
	}
	return i, nil
}

// Get returns the value at the given layer and index.
func (m *CellMap[L, T]) Get(layer L, i GridIndex) (T, error) {
	var zero T
	li, err := m.layerIndex(layer)
	if err != nil {
		return zero, err
	}
	p, err := m.store.cell(li, i)
	if err != nil {
		return zero, err
	}
	return *p, nil
}

// Set stores a value at the given layer and index.
func (m *CellMap[L, T]) Set(layer L, i GridIndex, value T) error {
	li, err := m.layerIndex(layer)
	if err != nil {
		return err
	}
	p, err := m.store.cell(li, i)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// GetAtWorld returns the value at the cell containing the given world point.
func (m *CellMap[L, T]) GetAtWorld(layer L, p WorldPoint) (T, error) {
	idx, err := m.geom.WorldToGrid(p)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Get(layer, idx)
}

// SetAtWorld stores a value at the cell containing the given world point.
func (m *CellMap[L, T]) SetAtWorld(layer L, p WorldPoint, value T) error {
	idx, err := m.geom.WorldToGrid(p)
	if err != nil {
		return err
	}
	return m.Set(layer, idx, value)
}

// LayerValues returns a row-major copy of one layer's cells. Together with
// Geometry and Layers this is sufficient read access for an external
// serializer to capture a full snapshot.
func (m *CellMap[L, T]) LayerValues(layer L) ([]T, error) {
	li, err := m.layerIndex(layer)
	if err != nil {
		return nil, err
	}
	data, err := m.store.layer(li)
	if err != nil {
		return nil, err
	}
	return append([]T(nil), data...), nil
}

// SetLayerValues replaces one layer's cells from a row-major slice of length
// Rows*Cols. The inverse of LayerValues, sufficient for a deserializer to
// rebuild an identical map.
func (m *CellMap[L, T]) SetLayerValues(layer L, values []T) error {
	li, err := m.layerIndex(layer)
	if err != nil {
		return err
	}
	data, err := m.store.layer(li)
	if err != nil {
		return err
	}
	if len(values) != len(data) {
		return fmt.Errorf("%d values for %d cells: %w", len(values), len(data), ErrShapeMismatch)
	}
	copy(data, values)
	return nil
}

// acquireRead registers a shared traversal. Panics if an exclusive traversal
// is live: overlapping a reader with a live mutable iterator is a caller
// bug, not a recoverable condition.
func (m *CellMap[L, T]) acquireRead() {
	if m.writer {
		panic("cellmap: read iterator started while a mutable iterator is live")
	}
	m.readers++
}

// acquireWrite registers an exclusive traversal. Panics if any traversal is
// live.
func (m *CellMap[L, T]) acquireWrite() {
	if m.writer {
		panic("cellmap: mutable iterator started while another mutable iterator is live")
	}
	if m.readers > 0 {
		panic(fmt.Sprintf("cellmap: mutable iterator started while %d read iterators are live", m.readers))
	}
	m.writer = true
}

func (m *CellMap[L, T]) release(exclusive bool) {
	if exclusive {
		m.writer = false
		return
	}
	m.readers--
}
