// Package fs exposes a flat, metadata-bearing blob store through a
// hierarchical filesystem contract.
//
// The store knows nothing about directories: it keeps objects keyed by a
// generated id, each carrying a filename, size, upload timestamp and
// free-form metadata. This package supplies the translation layer on top of
// that flat namespace:
//
//   - paths map onto object filenames
//   - directories are synthesized from shared path prefixes during listing
//   - copy and rename are orchestrated as multi-step operations over the
//     store's single-object primitives
//   - a lookup index on the filename field is maintained lazily, tolerating
//     backends that cannot create indexes
//
// Concurrency model:
// The adapter holds no state beyond the injected store, so it is safe for
// concurrent use if the store is. It provides NO cross-call consistency:
// filename uniqueness, the lookup-then-delete window in Delete, the
// check-then-create window of index management, and the copy-then-delete
// window in Rename are all unguarded. Callers needing serialization must
// wrap the adapter with their own per-path locking.
package fs

import (
	"time"

	"github.com/gridmount/gridmount/internal/logger"
	"github.com/gridmount/gridmount/pkg/blob"
	"github.com/gridmount/gridmount/pkg/metrics"
)

// Adapter implements the filesystem contract over an injected blob.Store.
//
// Construct with New. The zero value is not usable.
type Adapter struct {
	store blob.Store

	// indexCreator is the store's index-creation capability, resolved once
	// at construction. Nil means the backend cannot create indexes and
	// index management is silently skipped.
	indexCreator blob.IndexCreator

	metrics metrics.FSMetrics
}

// New creates an Adapter over the given store.
//
// The store's optional index-creation capability is probed here, once, by
// type assertion; per-call probing is deliberately avoided.
//
// Parameters:
//   - store: the blob store to adapt. Must not be nil.
//   - fsMetrics: operation metrics, or nil for no-op instrumentation.
func New(store blob.Store, fsMetrics metrics.FSMetrics) *Adapter {
	a := &Adapter{
		store:   store,
		metrics: fsMetrics,
	}

	if creator, ok := store.(blob.IndexCreator); ok {
		a.indexCreator = creator
	} else {
		logger.Debug("Store does not support index creation, index management disabled")
	}

	if a.metrics == nil {
		a.metrics = metrics.NewFSMetrics()
	}

	return a
}

// Client returns the underlying blob store for advanced callers that need
// primitives the filesystem contract does not expose.
func (a *Adapter) Client() blob.Store {
	return a.store
}

// observe records one completed operation. Call as:
//
//	defer a.observe("write", time.Now(), &err)
func (a *Adapter) observe(operation string, start time.Time, errp *error) {
	a.metrics.RecordOperation(operation, time.Since(start), *errp)
}
