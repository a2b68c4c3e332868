// Package mapops derives layers from existing ones: slope, roughness and
// summary statistics over float64-valued maps.
//
// Derived values are computed into a scratch buffer during traversal and
// written back in one pass, so a source layer may double as its own
// destination. Operations that need a neighbourhood only touch cells whose
// window fits entirely on the map; border cells keep their previous values.
package mapops

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/gridmap/cellmap"
)

// Gradient writes the central-difference gradient magnitude of the src layer
// into the dst layer. Interior cells only; the one-cell border is untouched.
func Gradient[L cellmap.Layer](m *cellmap.CellMap[L, float64], src, dst L) error {
	out, err := m.LayerValues(dst)
	if err != nil {
		return err
	}

	it, err := m.WindowIter(cellmap.GridSize{Rows: 1, Cols: 1})
	if err != nil {
		return err
	}
	it.Filter(src)
	if err := it.Err(); err != nil {
		it.Close()
		return err
	}

	cs := m.Params().CellSize
	cols := m.Size().Cols
	for it.Next() {
		w := it.Value()
		right, err := w.Get(1, 2)
		if err != nil {
			it.Close()
			return err
		}
		left, err := w.Get(1, 0)
		if err != nil {
			it.Close()
			return err
		}
		above, err := w.Get(0, 1)
		if err != nil {
			it.Close()
			return err
		}
		below, err := w.Get(2, 1)
		if err != nil {
			it.Close()
			return err
		}

		// Row 0 is the maximum-Y edge, so the world-space Y derivative runs
		// from the lower local row to the upper one.
		gx := (right - left) / (2 * cs.X)
		gy := (above - below) / (2 * cs.Y)

		a := it.Index()
		out[a.Row*cols+a.Col] = math.Hypot(gx, gy)
	}
	if err := it.Err(); err != nil {
		return err
	}
	return m.SetLayerValues(dst, out)
}

// Roughness writes the sample standard deviation of each cell's (2*semi+1)
// square neighbourhood of the src layer into the dst layer. Cells whose
// window does not fit entirely on the map are untouched. The half-size must
// span more than one cell: a (0, 0) window holds a single sample, whose
// standard deviation is undefined.
func Roughness[L cellmap.Layer](m *cellmap.CellMap[L, float64], src, dst L, semi cellmap.GridSize) error {
	if semi.Rows == 0 && semi.Cols == 0 {
		return fmt.Errorf("half-size (0, 0) windows hold a single sample: %w", cellmap.ErrInvalidWindow)
	}
	out, err := m.LayerValues(dst)
	if err != nil {
		return err
	}

	it, err := m.WindowIter(semi)
	if err != nil {
		return err
	}
	it.Filter(src)
	if err := it.Err(); err != nil {
		it.Close()
		return err
	}

	cols := m.Size().Cols
	size := cellmap.GridSize{Rows: 2*semi.Rows + 1, Cols: 2*semi.Cols + 1}
	vals := make([]float64, 0, size.Rows*size.Cols)
	for it.Next() {
		w := it.Value()
		vals = vals[:0]
		for i := 0; i < size.Rows; i++ {
			for j := 0; j < size.Cols; j++ {
				v, err := w.Get(i, j)
				if err != nil {
					it.Close()
					return err
				}
				vals = append(vals, v)
			}
		}
		a := it.Index()
		out[a.Row*cols+a.Col] = stat.StdDev(vals, nil)
	}
	if err := it.Err(); err != nil {
		return err
	}
	return m.SetLayerValues(dst, out)
}

// Stats summarises one layer.
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// LayerStats computes summary statistics over every cell of one layer.
func LayerStats[L cellmap.Layer](m *cellmap.CellMap[L, float64], layer L) (Stats, error) {
	vals, err := m.LayerValues(layer)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
		Mean:   stat.Mean(vals, nil),
		StdDev: stat.StdDev(vals, nil),
	}, nil
}
