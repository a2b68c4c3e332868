package cellmap

import (
	"fmt"
	"math"
)

// Geometry is the pure coordinate transform between world space (continuous,
// centred on an arbitrary origin) and grid-index space (row/column, origin at
// the top-left map corner). It is computed once from Params and never
// mutated.
//
// Axis convention: increasing Col is increasing world X; increasing Row is
// decreasing world Y. All iterators and accessors in this package share this
// convention.
type Geometry struct {
	cellSize CellSize
	numCells GridSize
	centre   WorldPoint

	// World coordinates of the top-left corner of cell (0,0).
	originX float64
	topY    float64

	boundaryPrecision float64
}

func newGeometry(p Params) Geometry {
	prec := p.CellBoundaryPrecision
	if prec == 0 {
		prec = DefaultCellBoundaryPrecision
	}
	halfW := float64(p.NumCells.Cols) * p.CellSize.X / 2
	halfH := float64(p.NumCells.Rows) * p.CellSize.Y / 2
	return Geometry{
		cellSize:          p.CellSize,
		numCells:          p.NumCells,
		centre:            p.Centre,
		originX:           p.Centre.X - halfW,
		topY:              p.Centre.Y + halfH,
		boundaryPrecision: prec,
	}
}

// CellSize returns the world-space size of one cell.
func (g Geometry) CellSize() CellSize { return g.cellSize }

// NumCells returns the cell counts per axis.
func (g Geometry) NumCells() GridSize { return g.numCells }

// Centre returns the world-space centre of the map.
func (g Geometry) Centre() WorldPoint { return g.centre }

// Bounds returns the world-space extent of the map as its minimum and
// maximum corners.
func (g Geometry) Bounds() (min, max WorldPoint) {
	w := float64(g.numCells.Cols) * g.cellSize.X
	h := float64(g.numCells.Rows) * g.cellSize.Y
	min = WorldPoint{X: g.originX, Y: g.topY - h}
	max = WorldPoint{X: g.originX + w, Y: g.topY}
	return min, max
}

// Contains reports whether the grid index addresses a cell inside the map.
func (g Geometry) Contains(i GridIndex) bool {
	return i.Row >= 0 && i.Row < g.numCells.Rows && i.Col >= 0 && i.Col < g.numCells.Cols
}

// floorCell converts a continuous cell-unit coordinate to a cell index,
// bumping values that sit within cellSize*boundaryPrecision below a cell
// boundary up into the next cell.
func (g Geometry) floorCell(v, cellSize float64) int {
	floor := math.Floor(v)
	bumped := math.Floor(v + cellSize*g.boundaryPrecision)
	if bumped != floor {
		return int(bumped)
	}
	return int(floor)
}

// WorldToGrid returns the index of the cell containing the given world
// point, or ErrOutOfBounds if the point lies outside the map extent.
func (g Geometry) WorldToGrid(p WorldPoint) (GridIndex, error) {
	idx := g.worldToGridUnchecked(p)
	if !g.Contains(idx) {
		return GridIndex{}, fmt.Errorf("point (%g, %g): %w", p.X, p.Y, ErrOutOfBounds)
	}
	return idx, nil
}

// worldToGridUnchecked computes the cell index without bounds checking. The
// result may be negative or past the last cell for points outside the map.
func (g Geometry) worldToGridUnchecked(p WorldPoint) GridIndex {
	col := g.floorCell((p.X-g.originX)/g.cellSize.X, g.cellSize.X)
	row := g.floorCell((g.topY-p.Y)/g.cellSize.Y, g.cellSize.Y)
	return GridIndex{Row: row, Col: col}
}

// GridToWorld returns the world-space centre (not corner) of the addressed
// cell, or ErrOutOfBounds for an index outside the map. Round-tripping
// through WorldToGrid returns the original index for every valid index.
func (g Geometry) GridToWorld(i GridIndex) (WorldPoint, error) {
	if !g.Contains(i) {
		return WorldPoint{}, fmt.Errorf("index (%d, %d): %w", i.Row, i.Col, ErrOutOfBounds)
	}
	return g.gridToWorldUnchecked(i), nil
}

func (g Geometry) gridToWorldUnchecked(i GridIndex) WorldPoint {
	return WorldPoint{
		X: g.originX + (float64(i.Col)+0.5)*g.cellSize.X,
		Y: g.topY - (float64(i.Row)+0.5)*g.cellSize.Y,
	}
}
