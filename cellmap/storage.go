package cellmap

import "fmt"

// layeredStorage owns one flat row-major slice per layer, all of identical
// shape. Layers are addressed by dense integer index; cells by GridIndex.
// All access is bounds-checked.
type layeredStorage[T any] struct {
	// layers[i] has len = size.Rows * size.Cols; cell (r, c) lives at
	// r*size.Cols + c.
	layers [][]T
	size   GridSize
}

func newLayeredStorage[T any](numLayers int, size GridSize) *layeredStorage[T] {
	layers := make([][]T, numLayers)
	for i := range layers {
		layers[i] = make([]T, size.Rows*size.Cols)
	}
	return &layeredStorage[T]{layers: layers, size: size}
}

func newLayeredStorageFromElem[T any](numLayers int, size GridSize, elem T) *layeredStorage[T] {
	s := newLayeredStorage[T](numLayers, size)
	for _, data := range s.layers {
		for i := range data {
			data[i] = elem
		}
	}
	return s
}

// flatIndex converts a GridIndex to a position in a layer slice. Callers
// must have bounds-checked the index.
func (s *layeredStorage[T]) flatIndex(i GridIndex) int {
	return i.Row*s.size.Cols + i.Col
}

func (s *layeredStorage[T]) contains(i GridIndex) bool {
	return i.Row >= 0 && i.Row < s.size.Rows && i.Col >= 0 && i.Col < s.size.Cols
}

// layer returns the backing slice for the given dense layer index.
func (s *layeredStorage[T]) layer(index int) ([]T, error) {
	if index < 0 || index >= len(s.layers) {
		return nil, fmt.Errorf("layer index %d outside 0..%d: %w", index, len(s.layers)-1, ErrInvalidLayer)
	}
	return s.layers[index], nil
}

// cell returns a pointer to the addressed cell.
func (s *layeredStorage[T]) cell(layerIndex int, i GridIndex) (*T, error) {
	data, err := s.layer(layerIndex)
	if err != nil {
		return nil, err
	}
	if !s.contains(i) {
		return nil, fmt.Errorf("index (%d, %d) outside %dx%d grid: %w", i.Row, i.Col, s.size.Rows, s.size.Cols, ErrOutOfBounds)
	}
	return &data[s.flatIndex(i)], nil
}
