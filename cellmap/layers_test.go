package cellmap

import "testing"

// testLayer is the closed layer enumeration used across the package tests,
// written the way cmd/tools/layergen emits layer types.
type testLayer int

const (
	layerHeight testLayer = iota
	layerGradient
	layerRoughness
)

func (l testLayer) Index() int { return int(l) }

func (l testLayer) String() string {
	switch l {
	case layerHeight:
		return "Height"
	case layerGradient:
		return "Gradient"
	case layerRoughness:
		return "Roughness"
	}
	return "Unknown"
}

func testLayers() []testLayer {
	return []testLayer{layerHeight, layerGradient, layerRoughness}
}

// newTestMap builds the canonical 5x5 map used in iterator tests: cell size
// (1, 1), centred on (0, 0), every cell of every layer filled with fill.
func newTestMap(t *testing.T, fill float64) *CellMap[testLayer, float64] {
	t.Helper()
	m, err := NewFromElem(Params{
		CellSize: CellSize{X: 1, Y: 1},
		NumCells: GridSize{Rows: 5, Cols: 5},
		Centre:   WorldPoint{X: 0, Y: 0},
	}, testLayers(), fill)
	if err != nil {
		t.Fatalf("NewFromElem: %v", err)
	}
	return m
}
