package fs

import (
	"context"
	"fmt"
	"time"

	"github.com/gridmount/gridmount/pkg/blob"
)

// ListContents lists the direct children of dirname: file records for
// objects stored exactly one level below it, plus synthesized directory
// entries for deeper objects' first path segments. Pass "" for the root.
//
// recursive=true is unsupported by the flat store and fails fast with
// ErrRecursiveListing; a flattened approximation is never returned.
func (a *Adapter) ListContents(ctx context.Context, dirname string, recursive bool) (records []FileRecord, err error) {
	defer a.observe("list_contents", time.Now(), &err)

	if recursive {
		return nil, ErrRecursiveListing
	}

	normalized := normalizePath(dirname)

	objects, err := a.store.Find(ctx, blob.Filter{Prefix: dirPrefix(normalized)})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", dirname, err)
	}

	// Unlike writes, listing takes each path from the object's own
	// filename: there is no caller-supplied path to force.
	flat := make([]FileRecord, 0, len(objects))
	for _, obj := range objects {
		flat = append(flat, newFileRecord(obj, ""))
	}

	return emulateDirectories(normalized, flat), nil
}
