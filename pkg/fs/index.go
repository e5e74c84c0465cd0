package fs

import (
	"context"

	"github.com/gridmount/gridmount/internal/logger"
	"github.com/gridmount/gridmount/pkg/blob"
)

// filenameIndexName is the conventional name of the filename lookup index.
// Existence is checked by this name only, never by key definition.
const filenameIndexName = "filename_1"

// ensureFilenameIndex lazily creates the ascending filename index after a
// successful write. Best effort on every axis:
//
//   - backends without blob.IndexCreator are skipped silently
//   - an index already named filename_1 is trusted without inspecting keys
//   - failures are logged, never propagated; the write already succeeded
//     and the index is an optimization, not a correctness requirement
//
// The check-then-create is not atomic. Concurrent writers may both request
// creation, which stores are expected to absorb idempotently.
func (a *Adapter) ensureFilenameIndex(ctx context.Context) {
	if a.indexCreator == nil {
		return
	}

	indexes, err := a.store.ListIndexes(ctx)
	if err != nil {
		logger.Warn("Failed to list indexes, skipping index management: %v", err)
		return
	}

	for _, idx := range indexes {
		if idx.Name == filenameIndexName {
			return
		}
	}

	err = a.indexCreator.CreateIndex(ctx, blob.IndexSpec{
		Name:      filenameIndexName,
		Field:     "filename",
		Ascending: true,
	})
	if err != nil {
		logger.Warn("Failed to create filename index: %v", err)
		return
	}

	logger.Debug("Created filename index %s", filenameIndexName)
}
