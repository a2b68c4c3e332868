package mapdb

import (
	"bytes"
	"fmt"

	"github.com/banshee-data/gridmap/cellmap"
	"github.com/banshee-data/gridmap/mapfile"
)

// SnapshotFromMap captures a map into a Snapshot row ready for
// InsertSnapshot. The blob is the gzip-compressed mapfile JSON document.
func SnapshotFromMap[L cellmap.Layer, T any](m *cellmap.CellMap[L, T], name, reason string) (*Snapshot, error) {
	f, err := mapfile.New(m)
	if err != nil {
		return nil, err
	}

	var doc bytes.Buffer
	if err := f.Write(&doc); err != nil {
		return nil, err
	}
	blob, err := compressBlob(doc.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compressing snapshot blob: %w", err)
	}

	paramsJSON, err := marshalParams(m.Params())
	if err != nil {
		return nil, err
	}

	size := m.Size()
	return &Snapshot{
		Name:       name,
		GridRows:   size.Rows,
		GridCols:   size.Cols,
		LayerCount: m.NumLayers(),
		ParamsJSON: paramsJSON,
		GridBlob:   blob,
		Reason:     reason,
	}, nil
}

// RestoreMap rebuilds the map stored in a Snapshot. layers must be the same
// declared enumeration the snapshot was taken with.
func RestoreMap[L cellmap.Layer, T any](s *Snapshot, layers []L) (*cellmap.CellMap[L, T], error) {
	doc, err := decompressBlob(s.GridBlob)
	if err != nil {
		return nil, err
	}
	f, err := mapfile.Read[T](bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	return mapfile.ToMap(f, layers)
}
