package mapviz

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gridmap/cellmap"
	"github.com/banshee-data/gridmap/internal/logutil"
)

type vizLayer int

const layerElevation vizLayer = 0

func (l vizLayer) Index() int { return int(l) }

func (l vizLayer) String() string { return "Elevation" }

func newVizMap(t *testing.T) *cellmap.CellMap[vizLayer, float64] {
	t.Helper()
	m, err := cellmap.New[vizLayer, float64](cellmap.Params{
		CellSize: cellmap.CellSize{X: 1, Y: 1},
		NumCells: cellmap.GridSize{Rows: 4, Cols: 4},
	}, []vizLayer{layerElevation})
	require.NoError(t, err)

	it := m.IterMut()
	for it.Next() {
		idx := it.Index()
		it.Set(float64(idx.Row*4 + idx.Col))
	}
	return m
}

func TestMain(m *testing.M) {
	logutil.SetLogger(nil)
	os.Exit(m.Run())
}

func TestHeatmapPNG(t *testing.T) {
	m := newVizMap(t)
	path := filepath.Join(t.TempDir(), "elevation.png")

	require.NoError(t, HeatmapPNG(m, layerElevation, "Elevation", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestLayerGrid_Orientation(t *testing.T) {
	m := newVizMap(t)
	vals, err := m.LayerValues(layerElevation)
	require.NoError(t, err)
	grid := layerGrid{vals: vals, geom: m.Geometry(), size: m.Size()}

	c, r := grid.Dims()
	assert.Equal(t, 4, c)
	assert.Equal(t, 4, r)

	// Plot row 0 is the bottom of the canvas, which is grid row 3.
	assert.Equal(t, 12.0, grid.Z(0, 0))
	assert.Equal(t, 0.0, grid.Z(0, 3))
	assert.InDelta(t, -1.5, grid.X(0), 1e-12)
	assert.InDelta(t, -1.5, grid.Y(0), 1e-12)
	assert.InDelta(t, 1.5, grid.Y(3), 1e-12)
}

func TestHeatmapHTML(t *testing.T) {
	m := newVizMap(t)

	var buf bytes.Buffer
	require.NoError(t, HeatmapHTML(m, layerElevation, "Elevation debug", &buf))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Elevation debug")
}

func TestExportASC(t *testing.T) {
	m := newVizMap(t)

	var buf bytes.Buffer
	require.NoError(t, ExportASC(m, layerElevation, &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 18, "two header lines plus one per cell")
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	// Cell (0,0): centre (-1.5, 1.5), value 0.
	assert.Equal(t, "-1.500000 1.500000 0.000000", lines[2])
	// Cell (3,3): centre (1.5, -1.5), value 15.
	assert.Equal(t, "1.500000 -1.500000 15.000000", lines[17])
}

func TestExportASCFile(t *testing.T) {
	m := newVizMap(t)
	path := filepath.Join(t.TempDir(), "elevation.asc")

	require.NoError(t, ExportASCFile(m, layerElevation, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Format: X Y Value")
}
