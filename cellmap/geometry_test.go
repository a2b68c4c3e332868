package cellmap

import (
	"errors"
	"math"
	"testing"
)

func TestGeometry_RoundTrip(t *testing.T) {
	maps := []Params{
		{CellSize: CellSize{X: 1, Y: 1}, NumCells: GridSize{Rows: 5, Cols: 5}},
		{CellSize: CellSize{X: 0.1, Y: 0.1}, NumCells: GridSize{Rows: 10, Cols: 10}},
		{CellSize: CellSize{X: 0.25, Y: 0.5}, NumCells: GridSize{Rows: 7, Cols: 3}, Centre: WorldPoint{X: -4.5, Y: 12.25}},
	}
	for _, params := range maps {
		g := newGeometry(params)
		for row := 0; row < params.NumCells.Rows; row++ {
			for col := 0; col < params.NumCells.Cols; col++ {
				idx := GridIndex{Row: row, Col: col}
				p, err := g.GridToWorld(idx)
				if err != nil {
					t.Fatalf("GridToWorld(%v): %v", idx, err)
				}
				back, err := g.WorldToGrid(p)
				if err != nil {
					t.Fatalf("WorldToGrid(%v): %v", p, err)
				}
				if back != idx {
					t.Errorf("round trip %v -> %v -> %v", idx, p, back)
				}
			}
		}
	}
}

func TestGeometry_CellCentres(t *testing.T) {
	// 5x5 map with unit cells centred on the origin: cell (0,0) is the
	// top-left corner, cell (2,2) sits on the centre.
	g := newGeometry(Params{
		CellSize: CellSize{X: 1, Y: 1},
		NumCells: GridSize{Rows: 5, Cols: 5},
	})

	cases := []struct {
		idx  GridIndex
		want WorldPoint
	}{
		{GridIndex{Row: 0, Col: 0}, WorldPoint{X: -2, Y: 2}},
		{GridIndex{Row: 2, Col: 2}, WorldPoint{X: 0, Y: 0}},
		{GridIndex{Row: 4, Col: 4}, WorldPoint{X: 2, Y: -2}},
		{GridIndex{Row: 0, Col: 4}, WorldPoint{X: 2, Y: 2}},
		{GridIndex{Row: 4, Col: 0}, WorldPoint{X: -2, Y: -2}},
	}
	for _, tc := range cases {
		got, err := g.GridToWorld(tc.idx)
		if err != nil {
			t.Fatalf("GridToWorld(%v): %v", tc.idx, err)
		}
		if math.Abs(got.X-tc.want.X) > 1e-12 || math.Abs(got.Y-tc.want.Y) > 1e-12 {
			t.Errorf("GridToWorld(%v) = %v, want %v", tc.idx, got, tc.want)
		}
	}
}

func TestGeometry_BoundaryPrecision(t *testing.T) {
	// 10x10 map with 0.1 cells spanning [0,1]x[0,1]. The floating point
	// division 0.7/0.1 yields 6.999..., which must still land in cell 7.
	g := newGeometry(Params{
		CellSize: CellSize{X: 0.1, Y: 0.1},
		NumCells: GridSize{Rows: 10, Cols: 10},
		Centre:   WorldPoint{X: 0.5, Y: 0.5},
	})

	cases := []struct {
		p    WorldPoint
		want GridIndex
	}{
		{WorldPoint{X: 0.7, Y: 0.95}, GridIndex{Row: 0, Col: 7}},
		{WorldPoint{X: 0.05, Y: 0.3}, GridIndex{Row: 7, Col: 0}},
		{WorldPoint{X: 0.26, Y: 0.55}, GridIndex{Row: 4, Col: 2}},
		// A point a hair below a boundary stays in the lower cell; exactly
		// on the boundary moves to the next.
		{WorldPoint{X: 0.3999999, Y: 0.95}, GridIndex{Row: 0, Col: 3}},
		{WorldPoint{X: 0.4, Y: 0.95}, GridIndex{Row: 0, Col: 4}},
	}
	for _, tc := range cases {
		got, err := g.WorldToGrid(tc.p)
		if err != nil {
			t.Fatalf("WorldToGrid(%v): %v", tc.p, err)
		}
		if got != tc.want {
			t.Errorf("WorldToGrid(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestGeometry_OutOfBounds(t *testing.T) {
	g := newGeometry(Params{
		CellSize: CellSize{X: 1, Y: 1},
		NumCells: GridSize{Rows: 5, Cols: 5},
	})

	outside := []WorldPoint{
		{X: 2.6, Y: 0},
		{X: -2.6, Y: 0},
		{X: 0, Y: 2.6},
		{X: 0, Y: -2.6},
		{X: 100, Y: 100},
	}
	for _, p := range outside {
		if _, err := g.WorldToGrid(p); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("WorldToGrid(%v) err = %v, want ErrOutOfBounds", p, err)
		}
	}

	if _, err := g.GridToWorld(GridIndex{Row: 5, Col: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GridToWorld row 5 err = %v, want ErrOutOfBounds", err)
	}
	if _, err := g.GridToWorld(GridIndex{Row: 0, Col: -1}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GridToWorld col -1 err = %v, want ErrOutOfBounds", err)
	}
}

func TestGeometry_Bounds(t *testing.T) {
	g := newGeometry(Params{
		CellSize: CellSize{X: 1, Y: 1},
		NumCells: GridSize{Rows: 5, Cols: 5},
	})
	min, max := g.Bounds()
	if min.X != -2.5 || min.Y != -2.5 || max.X != 2.5 || max.Y != 2.5 {
		t.Errorf("Bounds() = %v, %v, want (-2.5,-2.5), (2.5,2.5)", min, max)
	}
}
