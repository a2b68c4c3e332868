// Package mapviz renders float64-valued map layers for debugging: static PNG
// heat maps, interactive go-echarts HTML and CloudCompare-compatible ASC
// point dumps. None of it is needed to operate a map; it exists so a layer
// can be eyeballed without the full UI.
package mapviz

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/gridmap/cellmap"
	"github.com/banshee-data/gridmap/internal/logutil"
	"github.com/banshee-data/gridmap/mapops"
)

// viridis-style ramp shared by the HTML visual map.
var heatColours = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// layerGrid adapts one captured layer to plotter.GridXYZ. gonum draws row 0
// at the bottom of the canvas while grid row 0 is the maximum-Y edge, so
// rows are flipped here.
type layerGrid struct {
	vals []float64
	geom cellmap.Geometry
	size cellmap.GridSize
}

func (g layerGrid) Dims() (int, int) { return g.size.Cols, g.size.Rows }

func (g layerGrid) Z(c, r int) float64 {
	return g.vals[(g.size.Rows-1-r)*g.size.Cols+c]
}

func (g layerGrid) X(c int) float64 {
	p, _ := g.geom.GridToWorld(cellmap.GridIndex{Row: 0, Col: c})
	return p.X
}

func (g layerGrid) Y(r int) float64 {
	p, _ := g.geom.GridToWorld(cellmap.GridIndex{Row: g.size.Rows - 1 - r, Col: 0})
	return p.Y
}

// HeatmapPNG renders one layer as a heat map in world coordinates and saves
// it to path.
func HeatmapPNG[L cellmap.Layer](m *cellmap.CellMap[L, float64], layer L, title, path string) error {
	vals, err := m.LayerValues(layer)
	if err != nil {
		return err
	}

	grid := layerGrid{vals: vals, geom: m.Geometry(), size: m.Size()}
	h := plotter.NewHeatMap(grid, palette.Heat(12, 1))

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(h)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	logutil.Logf("[mapviz] rendered layer %v heatmap to %s", layer, path)
	return nil
}

// HeatmapHTML renders one layer as an interactive go-echarts heat map.
// Cells are addressed by grid index with row 0 at the top, matching the
// map's axis convention.
func HeatmapHTML[L cellmap.Layer](m *cellmap.CellMap[L, float64], layer L, title string, w io.Writer) error {
	stats, err := mapops.LayerStats(m, layer)
	if err != nil {
		return err
	}

	size := m.Size()
	cols := make([]string, size.Cols)
	for c := range cols {
		cols[c] = fmt.Sprintf("c%d", c)
	}
	rows := make([]string, size.Rows)
	for r := range rows {
		// echarts category axes run bottom-up; list rows in reverse so row 0
		// renders at the top.
		rows[r] = fmt.Sprintf("r%d", size.Rows-1-r)
	}

	data := make([]opts.HeatMapData, 0, size.Rows*size.Cols)
	it := m.Iter().Filter(layer)
	for it.Next() {
		idx := it.Index()
		data = append(data, opts.HeatMapData{
			Value: []interface{}{idx.Col, size.Rows - 1 - idx.Row, it.Value()},
		})
	}
	if err := it.Err(); err != nil {
		return err
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("layer=%v shape=%dx%d", layer, size.Rows, size.Cols)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: cols}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(stats.Min),
			Max:        float32(stats.Max),
			InRange:    &opts.VisualMapInRange{Color: heatColours},
		}),
	)
	hm.AddSeries(fmt.Sprintf("%v", layer), data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("render heatmap chart: %w", err)
	}
	return nil
}

// ExportASC writes one layer as "X Y value" lines, one per cell, with the
// cell's world-space centre as its coordinates.
func ExportASC[L cellmap.Layer](m *cellmap.CellMap[L, float64], layer L, w io.Writer) error {
	fmt.Fprintf(w, "# Exported map layer %v\n", layer)
	fmt.Fprintf(w, "# Format: X Y Value\n")

	base := m.Iter().Filter(layer)
	it := cellmap.NewPositioned[L, float64](base, m.Geometry())
	n := 0
	for it.Next() {
		item := it.Item()
		fmt.Fprintf(w, "%.6f %.6f %.6f\n", item.Position.X, item.Position.Y, item.Value)
		n++
	}
	if err := it.Err(); err != nil {
		return err
	}
	logutil.Logf("[mapviz] exported %d cells of layer %v", n, layer)
	return nil
}

// ExportASCFile is ExportASC writing to a freshly created file.
func ExportASCFile[L cellmap.Layer](m *cellmap.CellMap[L, float64], layer L, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := ExportASC(m, layer, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
