package blob

import (
	"context"
	"io"
	"time"
)

// ============================================================================
// Store Interface
// ============================================================================

// ObjectID is an opaque, store-generated identifier for a stored object.
//
// The ID is the only stable identity of an object: it is assigned by the
// store at creation time and never changes. The format is
// implementation-specific (UUID for memory and BadgerDB, S3 key suffix for
// S3) and must be treated as opaque by callers.
type ObjectID string

// Object is the unit a Store persists: a blob of bytes plus a filename and
// free-form metadata.
//
// The store has no directory concept. Filename is a flat string that callers
// may shape like a path ("reports/2024/q1.pdf"); the filesystem layer on top
// derives hierarchy from it. Filename is not unique-enforced: two objects may
// share a filename, and overwriting a filename does not remove the previous
// object.
type Object struct {
	// ID is the store-generated identity, immutable once assigned.
	ID ObjectID

	// Filename is the name the object was stored under. Mutable only by
	// delete-and-recreate.
	Filename string

	// Size is the byte length of the content, computed by the store.
	Size int64

	// UploadedAt is assigned by the store at creation and never changes.
	UploadedAt time.Time

	// Metadata is a free-form string mapping attached at store time.
	Metadata map[string]string
}

// Filter selects objects for FindOne, Find, and RemoveByPrefix.
//
// Exactly one field should be set. ID selects a single object by identity.
// Filename selects objects stored under that exact name. Prefix selects all
// objects whose filename begins with the given string; stores implement this
// with their native prefix-scan primitive (map scan, BadgerDB iterator, S3
// list), never with regular expressions.
type Filter struct {
	ID       ObjectID
	Filename string
	Prefix   string
}

// IndexInfo describes one entry of a store's index catalogue.
type IndexInfo struct {
	Name      string
	Field     string
	Ascending bool
}

// IndexSpec requests creation of a named index on a single field.
type IndexSpec struct {
	Name      string
	Field     string
	Ascending bool
}

// Store is a flat, metadata-bearing blob store: content keyed by a generated
// id, with an attached filename, size, upload timestamp, and metadata.
//
// Implementations must be safe for concurrent use. None of the operations
// are transactional with each other: callers composing multiple calls
// (lookup then delete, store then re-read) get no isolation from concurrent
// writers and must treat the composition as best-effort.
//
// All blocking operations take a context and respect its cancellation.
type Store interface {
	// FindOne returns the first object matching the filter, or
	// ErrObjectNotFound if nothing matches. When several objects share a
	// filename the choice is implementation-defined but deterministic, so
	// repeated lookups against an unchanged store agree.
	FindOne(ctx context.Context, filter Filter) (*Object, error)

	// Find returns all objects matching the filter. No matches is a normal
	// empty result, not an error.
	Find(ctx context.Context, filter Filter) ([]*Object, error)

	// StoreBytes persists data under the given filename with the given
	// metadata and returns the new object's id. The upload timestamp is
	// assigned by the store.
	StoreBytes(ctx context.Context, filename string, data []byte, metadata map[string]string) (ObjectID, error)

	// StoreStream persists the reader's content under the given filename.
	// Implementations stream where the backend allows it; they must not
	// require the caller to know the content length up front.
	StoreStream(ctx context.Context, filename string, r io.Reader, metadata map[string]string) (ObjectID, error)

	// OpenObject returns a reader over the full content of the object.
	// The caller must close the reader. Returns ErrObjectNotFound if the
	// id is unknown.
	OpenObject(ctx context.Context, id ObjectID) (io.ReadCloser, error)

	// DeleteObject removes the object with the given id. Returns
	// ErrObjectNotFound if the id is unknown; a concurrent delete between a
	// caller's lookup and this call therefore surfaces as not-found.
	DeleteObject(ctx context.Context, id ObjectID) error

	// RemoveByPrefix bulk-removes every object whose filename begins with
	// prefix. The operation reports only unconditional success; partial
	// outcomes are not distinguished. Removing a prefix that matches
	// nothing succeeds.
	RemoveByPrefix(ctx context.Context, prefix string) error

	// ListIndexes returns the store's index catalogue. Stores that maintain
	// no catalogue return an empty list.
	ListIndexes(ctx context.Context) ([]IndexInfo, error)

	// Close releases resources held by the store. The store must not be
	// used after Close.
	Close() error
}

// ============================================================================
// Capability Interfaces
// ============================================================================

// IndexCreator is an optional capability for stores that support creating
// secondary indexes.
//
// Callers resolve the capability once (a type assertion at construction) and
// skip index management entirely when it is absent; older or restricted
// backends are tolerated, not treated as an error.
//
// CreateIndex must be idempotent: concurrent or repeated creation of the
// same named index succeeds without duplicating catalogue entries.
type IndexCreator interface {
	CreateIndex(ctx context.Context, spec IndexSpec) error
}
