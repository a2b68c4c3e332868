// Command line-check rasterises a world-space segment over a synthetic map
// and prints the visited cells, both as a list and as an ASCII grid. Useful
// for eyeballing the line traversal's clipping and connectivity.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/gridmap/cellmap"
)

type probeLayer int

func (probeLayer) Index() int { return 0 }

func (probeLayer) String() string { return "Probe" }

func run(out io.Writer, rows, cols int, cell, cx, cy, x1, y1, x2, y2 float64) error {
	m, err := cellmap.New[probeLayer, float64](cellmap.Params{
		CellSize: cellmap.CellSize{X: cell, Y: cell},
		NumCells: cellmap.GridSize{Rows: rows, Cols: cols},
		Centre:   cellmap.WorldPoint{X: cx, Y: cy},
	}, []probeLayer{0})
	if err != nil {
		return err
	}

	a := cellmap.WorldPoint{X: x1, Y: y1}
	b := cellmap.WorldPoint{X: x2, Y: y2}

	visited := make(map[cellmap.GridIndex]int)
	var order []cellmap.GridIndex
	it := m.LineIter(a, b)
	for it.Next() {
		idx := it.Index()
		visited[idx] = len(order)
		order = append(order, idx)
	}
	if err := it.Err(); err != nil {
		return err
	}

	min, max := m.Geometry().Bounds()
	fmt.Fprintf(out, "map %dx%d, cell %g, world [%g, %g] x [%g, %g]\n",
		rows, cols, cell, min.X, max.X, min.Y, max.Y)
	fmt.Fprintf(out, "segment (%g, %g) -> (%g, %g): %d cells\n", x1, y1, x2, y2, len(order))
	for i, idx := range order {
		p, err := m.Geometry().GridToWorld(idx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%3d: (%d, %d) centre (%g, %g)\n", i, idx.Row, idx.Col, p.X, p.Y)
	}

	fmt.Fprintln(out)
	for r := 0; r < rows; r++ {
		var sb strings.Builder
		for c := 0; c < cols; c++ {
			if _, ok := visited[cellmap.GridIndex{Row: r, Col: c}]; ok {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		fmt.Fprintln(out, sb.String())
	}
	return nil
}

func main() {
	rows := flag.Int("rows", 21, "cell rows")
	cols := flag.Int("cols", 21, "cell columns")
	cell := flag.Float64("cell", 1.0, "cell size (square)")
	cx := flag.Float64("cx", 0, "map centre X")
	cy := flag.Float64("cy", 0, "map centre Y")
	x1 := flag.Float64("x1", -10, "segment start X")
	y1 := flag.Float64("y1", -10, "segment start Y")
	x2 := flag.Float64("x2", 10, "segment end X")
	y2 := flag.Float64("y2", 10, "segment end Y")
	flag.Parse()

	if err := run(os.Stdout, *rows, *cols, *cell, *cx, *cy, *x1, *y1, *x2, *y2); err != nil {
		log.Fatalf("line-check: %v", err)
	}
}
