package cellmap

import "fmt"

// Layer is the contract a layer tag type must satisfy. Layer tags form a
// closed, user-declared enumeration with a total, injective mapping to the
// dense range 0..N; the mapping must be stable for the map's lifetime.
//
// The canonical implementation is a defined integer type with consecutive
// iota constants, as emitted by cmd/tools/layergen:
//
//	type TerrainLayer int
//
//	const (
//		Height TerrainLayer = iota
//		Gradient
//		Roughness
//	)
//
//	func (l TerrainLayer) Index() int { return int(l) }
type Layer interface {
	comparable
	// Index returns the dense 0..N index of this layer variant.
	Index() int
	// String returns the declared name of this layer variant.
	String() string
}

// validateLayers checks that the declared layer list is a dense, ordered
// enumeration: non-empty, with layers[i].Index() == i for all i.
func validateLayers[L Layer](layers []L) error {
	if len(layers) == 0 {
		return fmt.Errorf("no layers declared: %w", ErrInvalidLayer)
	}
	for i, l := range layers {
		if l.Index() != i {
			return fmt.Errorf("layer %v has index %d, want %d: %w", l, l.Index(), i, ErrInvalidLayer)
		}
	}
	return nil
}
