package blob

import "errors"

// ============================================================================
// Standard Store Errors
// ============================================================================

// These sentinels give every Store implementation a consistent way to signal
// common failure conditions. Callers check them with errors.Is; the layer
// above maps them onto its own error taxonomy.
//
// Implementations wrap the sentinels with context:
//
//	return nil, fmt.Errorf("object %s: %w", id, blob.ErrObjectNotFound)

var (
	// ErrObjectNotFound indicates the requested object does not exist.
	//
	// Returned by FindOne with a non-matching filter, and by OpenObject and
	// DeleteObject with an unknown id.
	ErrObjectNotFound = errors.New("object not found")

	// ErrStoreClosed indicates an operation was attempted after Close.
	ErrStoreClosed = errors.New("store is closed")
)
