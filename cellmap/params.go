package cellmap

import "fmt"

// DefaultCellBoundaryPrecision is the default precision factor used when
// deciding which cell a world point falls into. See Params.
const DefaultCellBoundaryPrecision = 1e-10

// WorldPoint is a continuous 2D coordinate in the map's physical reference
// frame (the same frame as Params.Centre).
type WorldPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridIndex is an integer (row, column) address into the shared cell grid.
// Row 0, Col 0 is the top-left cell (minimum X, maximum Y corner).
type GridIndex struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CellSize is the world-space width (X) and height (Y) of one cell.
type CellSize struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridSize counts cells per axis. It doubles as a window half-size, where
// Rows/Cols are the half-extents either side of the anchor.
type GridSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Params is the immutable configuration of a CellMap. The map's world-space
// extent is NumCells * CellSize, centred on Centre.
type Params struct {
	// CellSize is the world-space size of each cell. Both components must be
	// positive.
	CellSize CellSize `json:"cell_size"`

	// NumCells is the number of cells per axis. Both counts must be >= 1.
	NumCells GridSize `json:"num_cells"`

	// Centre is the world-space point occupied by the map's geometric centre.
	Centre WorldPoint `json:"centre"`

	// CellBoundaryPrecision compensates for floating point rounding when a
	// world point sits on a cell boundary. A point within
	// CellSize*CellBoundaryPrecision below a boundary is bumped into the next
	// cell, so e.g. with CellSize 0.1 the point 0.7 lands in cell 7 even when
	// the division yields 6.999999999999998. Zero selects
	// DefaultCellBoundaryPrecision.
	CellBoundaryPrecision float64 `json:"cell_boundary_precision,omitempty"`
}

// Validate checks the construction parameters. Zero or negative cell size or
// cell counts are configuration errors.
func (p Params) Validate() error {
	if p.CellSize.X <= 0 || p.CellSize.Y <= 0 {
		return fmt.Errorf("cell_size (%g, %g) must be positive: %w", p.CellSize.X, p.CellSize.Y, ErrInvalidParams)
	}
	if p.NumCells.Rows < 1 || p.NumCells.Cols < 1 {
		return fmt.Errorf("num_cells (%d, %d) must be >= 1: %w", p.NumCells.Rows, p.NumCells.Cols, ErrInvalidParams)
	}
	if p.CellBoundaryPrecision < 0 {
		return fmt.Errorf("cell_boundary_precision %g must be >= 0: %w", p.CellBoundaryPrecision, ErrInvalidParams)
	}
	return nil
}
