package cellmap

import "errors"

// Error kinds returned by the cellmap package. All are local, recoverable
// conditions; callers match them with errors.Is. Returned errors wrap these
// sentinels with positional context via fmt.Errorf("...: %w", ...).
var (
	// ErrOutOfBounds reports a world point or grid index outside the map
	// extent.
	ErrOutOfBounds = errors.New("out of map bounds")

	// ErrInvalidLayer reports a layer tag whose index is not among the
	// declared set. Unreachable with a correct layer enumeration, but checked
	// defensively wherever external data crosses into the map.
	ErrInvalidLayer = errors.New("invalid layer")

	// ErrInvalidWindow reports a window half-size for which no valid anchor
	// exists (window larger than the map, or negative half-size).
	ErrInvalidWindow = errors.New("invalid window configuration")

	// ErrReadOnlyWindow reports a write attempted through a window view
	// yielded by a read-only iterator.
	ErrReadOnlyWindow = errors.New("write through read-only window")

	// ErrInvalidParams reports construction parameters that fail validation.
	ErrInvalidParams = errors.New("invalid map parameters")

	// ErrShapeMismatch reports per-layer data whose shape does not match the
	// map's cell counts.
	ErrShapeMismatch = errors.New("layer data shape mismatch")
)
