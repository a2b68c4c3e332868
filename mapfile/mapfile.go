// Package mapfile captures and restores CellMap snapshots as JSON documents.
//
// A File holds everything needed to rebuild an identical map: the layer
// names in index order, the construction parameters and one row-major value
// slice per layer. Paths ending in ".gz" are transparently gzip-compressed
// on write and decompressed on read.
package mapfile

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/banshee-data/gridmap/cellmap"
)

// File is the on-disk snapshot of a CellMap.
type File[T any] struct {
	// Layers holds the layer names in declared index order.
	Layers []string `json:"layers"`

	// Params are the map's construction parameters.
	Params cellmap.Params `json:"params"`

	// Data holds one row-major value slice per layer, parallel to Layers.
	Data [][]T `json:"data"`
}

// New captures a snapshot of the given map.
func New[L cellmap.Layer, T any](m *cellmap.CellMap[L, T]) (*File[T], error) {
	layers := m.Layers()
	f := &File[T]{
		Layers: make([]string, 0, len(layers)),
		Params: m.Params(),
		Data:   make([][]T, 0, len(layers)),
	}
	for _, l := range layers {
		vals, err := m.LayerValues(l)
		if err != nil {
			return nil, fmt.Errorf("capturing layer %v: %w", l, err)
		}
		f.Layers = append(f.Layers, l.String())
		f.Data = append(f.Data, vals)
	}
	return f, nil
}

// ToMap rebuilds the map captured in f. layers must be the same declared
// enumeration the snapshot was taken with: the names must match in order.
func ToMap[L cellmap.Layer, T any](f *File[T], layers []L) (*cellmap.CellMap[L, T], error) {
	if len(layers) != len(f.Layers) {
		return nil, fmt.Errorf("snapshot has %d layers, declared enumeration has %d: %w",
			len(f.Layers), len(layers), cellmap.ErrInvalidLayer)
	}
	for i, l := range layers {
		if l.String() != f.Layers[i] {
			return nil, fmt.Errorf("snapshot layer %d is %q, declared enumeration has %q: %w",
				i, f.Layers[i], l.String(), cellmap.ErrInvalidLayer)
		}
	}
	return cellmap.NewFromData(f.Params, layers, f.Data)
}

// Write serialises the snapshot as indented JSON.
func (f *File[T]) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding map snapshot: %w", err)
	}
	return nil
}

// Read deserialises a snapshot written by Write.
func Read[T any](r io.Reader) (*File[T], error) {
	var f File[T]
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding map snapshot: %w", err)
	}
	if len(f.Data) != len(f.Layers) {
		return nil, fmt.Errorf("snapshot has %d layer names but %d data layers: %w",
			len(f.Layers), len(f.Data), cellmap.ErrShapeMismatch)
	}
	return &f, nil
}

// WriteFile writes the snapshot to path, gzip-compressing when the path ends
// in ".gz".
func (f *File[T]) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(out)
		if err := f.Write(gz); err != nil {
			gz.Close()
			out.Close()
			return err
		}
		if err := gz.Close(); err != nil {
			out.Close()
			return fmt.Errorf("closing gzip stream for %s: %w", path, err)
		}
	} else if err := f.Write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ReadFile reads a snapshot from path, decompressing when the path ends in
// ".gz".
func ReadFile[T any](path string) (*File[T], error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	var r io.Reader = in
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(in)
		if err != nil {
			return nil, fmt.Errorf("reading gzip stream from %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return Read[T](r)
}
