// Package cellmap provides a multi-layer 2D grid store for
// elevation/occupancy-style maps: one spatial geometry shared by many
// semantically distinct layers (height, gradient, roughness, ...), each
// holding one value per cell.
//
// Responsibilities: world/grid coordinate transforms, bounds-checked
// per-layer storage, and the iterator family (full, window, line, plus the
// layer-filter, indexed and positioned decorators).
// Key types: CellMap, Params, Geometry, GridIndex, WorldPoint, Window.
//
// The package is single-threaded: iterators borrow the map for
// their lifetime and mutable traversals require exclusive access. See the
// borrow notes on Iter and IterMut.
//
// No I/O, logging or persistence code is allowed in this package; see
// mapfile and mapdb for snapshots.
package cellmap
