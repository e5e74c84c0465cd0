package fs

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gridmount/gridmount/pkg/blob"
)

// WriteConfig carries per-write options.
type WriteConfig struct {
	// Mimetype, when non-empty, is stored with the object and overrides
	// any store-inferred content type. When empty no mimetype key is
	// written at all.
	Mimetype string
}

// metadata builds the store-level metadata mapping. The mimetype key is
// present iff the caller supplied one.
func (c WriteConfig) metadata() map[string]string {
	if c.Mimetype == "" {
		return nil
	}
	return map[string]string{"mimetype": c.Mimetype}
}

// Write stores content at path and returns its normalized record.
//
// The store assigns a fresh object id on every call: writing an existing
// path does NOT replace the prior object, it adds a second object with the
// same filename. Callers wanting overwrite semantics must Delete first.
//
// After a successful store call the filename index is ensured (best
// effort), then the object is re-read by its new id so the returned record
// reflects what the store actually persisted. The record's path is forced
// to the caller's path argument, not the store's reported filename.
//
// On store failure nothing is returned and index management is not
// attempted.
func (a *Adapter) Write(ctx context.Context, path string, content []byte, cfg WriteConfig) (rec *FileRecord, err error) {
	defer a.observe("write", time.Now(), &err)

	normalized := normalizePath(path)

	id, err := a.store.StoreBytes(ctx, normalized, content, cfg.metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to write %q: %w", normalized, err)
	}

	a.metrics.RecordBytesTransferred("write", int64(len(content)))

	return a.finishWrite(ctx, normalized, id)
}

// WriteStream stores streamed content at path and returns its normalized
// record. The payload is handed to the store's streaming primitive without
// being buffered by this layer; whether the backend buffers is its own
// concern. Semantics otherwise match Write.
func (a *Adapter) WriteStream(ctx context.Context, path string, content io.Reader, cfg WriteConfig) (rec *FileRecord, err error) {
	defer a.observe("write_stream", time.Now(), &err)

	normalized := normalizePath(path)

	id, err := a.store.StoreStream(ctx, normalized, content, cfg.metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to write stream %q: %w", normalized, err)
	}

	return a.finishWrite(ctx, normalized, id)
}

// Update stores new content at an existing path. The store has no
// versioning, so update IS write: the prior object stays in place under the
// same filename unless the caller deletes it separately.
func (a *Adapter) Update(ctx context.Context, path string, content []byte, cfg WriteConfig) (*FileRecord, error) {
	return a.Write(ctx, path, content, cfg)
}

// UpdateStream is Update for streamed content. See Update.
func (a *Adapter) UpdateStream(ctx context.Context, path string, content io.Reader, cfg WriteConfig) (*FileRecord, error) {
	return a.WriteStream(ctx, path, content, cfg)
}

// finishWrite runs the post-store half of a write: ensure the filename
// index, then re-read the stored object and normalize it with the caller's
// path forced.
func (a *Adapter) finishWrite(ctx context.Context, path string, id blob.ObjectID) (*FileRecord, error) {
	a.ensureFilenameIndex(ctx)

	obj, err := a.store.FindOne(ctx, blob.Filter{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to read back %q after write: %w", path, err)
	}

	record := newFileRecord(obj, path)
	return &record, nil
}
