// Command mapviz renders a mapfile snapshot to PNG, HTML or ASC output
// without needing the snapshot's original layer type: layers are rebuilt
// dynamically from the names stored in the file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/gridmap/mapfile"
	"github.com/banshee-data/gridmap/mapviz"
)

// fileLayer is a layer tag reconstructed from a snapshot's layer name list.
type fileLayer struct {
	name string
	idx  int
}

func (l fileLayer) Index() int { return l.idx }

func (l fileLayer) String() string { return l.name }

func layersFromFile(f *mapfile.File[float64]) []fileLayer {
	layers := make([]fileLayer, len(f.Layers))
	for i, name := range f.Layers {
		layers[i] = fileLayer{name: name, idx: i}
	}
	return layers
}

func findLayer(layers []fileLayer, name string) (fileLayer, error) {
	if name == "" && len(layers) > 0 {
		return layers[0], nil
	}
	for _, l := range layers {
		if l.name == name {
			return l, nil
		}
	}
	return fileLayer{}, fmt.Errorf("layer %q not in snapshot (have %v)", name, layerNames(layers))
}

func layerNames(layers []fileLayer) []string {
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.name
	}
	return names
}

func run(in, layerName, title, pngOut, htmlOut, ascOut string) error {
	f, err := mapfile.ReadFile[float64](in)
	if err != nil {
		return err
	}
	layers := layersFromFile(f)
	m, err := mapfile.ToMap(f, layers)
	if err != nil {
		return err
	}
	layer, err := findLayer(layers, layerName)
	if err != nil {
		return err
	}
	if title == "" {
		title = fmt.Sprintf("%s (%s)", layer.name, in)
	}

	size := m.Size()
	log.Printf("loaded %s: %dx%d cells, layers %v", in, size.Rows, size.Cols, layerNames(layers))

	if pngOut != "" {
		if err := mapviz.HeatmapPNG(m, layer, title, pngOut); err != nil {
			return err
		}
	}
	if htmlOut != "" {
		out, err := os.Create(htmlOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", htmlOut, err)
		}
		if err := mapviz.HeatmapHTML(m, layer, title, out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	}
	if ascOut != "" {
		if err := mapviz.ExportASCFile(m, layer, ascOut); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	in := flag.String("in", "", "mapfile snapshot to load (.json or .json.gz, required)")
	layerName := flag.String("layer", "", "layer name to render (default: first layer)")
	title := flag.String("title", "", "plot title (default derived from layer and file)")
	pngOut := flag.String("png", "", "write a PNG heatmap to this path")
	htmlOut := flag.String("html", "", "write an interactive HTML heatmap to this path")
	ascOut := flag.String("asc", "", "write an ASC point dump to this path")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *pngOut == "" && *htmlOut == "" && *ascOut == "" {
		log.Fatal("mapviz: at least one of -png, -html, -asc is required")
	}

	if err := run(*in, *layerName, *title, *pngOut, *htmlOut, *ascOut); err != nil {
		log.Fatalf("mapviz: %v", err)
	}
}
