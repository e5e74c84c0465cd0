package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gridmount/gridmount/pkg/blob"
)

// Has reports whether any object exists at path. Absence is a normal false,
// never an error.
func (a *Adapter) Has(ctx context.Context, path string) (ok bool, err error) {
	defer a.observe("has", time.Now(), &err)

	_, err = a.lookup(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Read returns the full content at path, eagerly buffered.
// Returns ErrNotFound if no object exists there.
func (a *Adapter) Read(ctx context.Context, path string) (content []byte, err error) {
	defer a.observe("read", time.Now(), &err)

	reader, err := a.openPath(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	content, err = io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of %q: %w", path, err)
	}

	a.metrics.RecordBytesTransferred("read", int64(len(content)))

	return content, nil
}

// ReadStream returns the content at path as a stream. The caller owns the
// returned reader and must close it. Returns ErrNotFound if no object
// exists there.
func (a *Adapter) ReadStream(ctx context.Context, path string) (r io.ReadCloser, err error) {
	defer a.observe("read_stream", time.Now(), &err)

	return a.openPath(ctx, path)
}

// GetMetadata returns the normalized record for the object at path.
// Returns ErrNotFound if no object exists there, symmetric with Read.
func (a *Adapter) GetMetadata(ctx context.Context, path string) (rec *FileRecord, err error) {
	defer a.observe("get_metadata", time.Now(), &err)

	obj, err := a.lookup(ctx, path)
	if err != nil {
		return nil, err
	}

	record := newFileRecord(obj, path)
	return &record, nil
}

// GetMimetype returns the full record for path; callers wanting only the
// mimetype project it themselves. Equivalent to GetMetadata.
func (a *Adapter) GetMimetype(ctx context.Context, path string) (*FileRecord, error) {
	return a.GetMetadata(ctx, path)
}

// GetSize returns the full record for path. Equivalent to GetMetadata.
func (a *Adapter) GetSize(ctx context.Context, path string) (*FileRecord, error) {
	return a.GetMetadata(ctx, path)
}

// GetTimestamp returns the full record for path. Equivalent to GetMetadata.
func (a *Adapter) GetTimestamp(ctx context.Context, path string) (*FileRecord, error) {
	return a.GetMetadata(ctx, path)
}

// lookup finds the object stored under path, translating the store's
// not-found into ErrNotFound so blob errors never leak past this layer.
func (a *Adapter) lookup(ctx context.Context, path string) (*blob.Object, error) {
	normalized := normalizePath(path)

	// The root is not an object. Without this guard an empty filename
	// becomes a zero-value filter, which stores treat as match-everything.
	if normalized == "" {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}

	obj, err := a.store.FindOne(ctx, blob.Filter{Filename: normalized})
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return nil, fmt.Errorf("%q: %w", normalized, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up %q: %w", normalized, err)
	}

	return obj, nil
}

// openPath resolves path to an object and opens its content.
func (a *Adapter) openPath(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := a.lookup(ctx, path)
	if err != nil {
		return nil, err
	}

	reader, err := a.store.OpenObject(ctx, obj.ID)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			// Deleted between lookup and open.
			return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open content of %q: %w", path, err)
	}

	return reader, nil
}
