package fs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridmount/gridmount/pkg/blob"
)

// Delete removes the object at path. Returns ErrNotFound if no object
// exists there.
//
// Lookup and deletion are two separate store round-trips; a concurrent
// delete can win the race between them, in which case ErrNotFound is
// returned and the outcome (object gone) still holds.
func (a *Adapter) Delete(ctx context.Context, path string) (err error) {
	defer a.observe("delete", time.Now(), &err)

	obj, err := a.lookup(ctx, path)
	if err != nil {
		return err
	}

	if err := a.store.DeleteObject(ctx, obj.ID); err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return fmt.Errorf("%q: %w", path, ErrNotFound)
		}
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}

	return nil
}

// DeleteDir removes every object whose filename starts with path plus a
// separator, in one bulk store call. "dir" removes "dir/a" and "dir/b/c"
// but never "dir2/x".
//
// There are no per-object semantics: the store's bulk primitive reports
// unconditional success or failure, and removing an empty prefix succeeds.
func (a *Adapter) DeleteDir(ctx context.Context, path string) (err error) {
	defer a.observe("delete_dir", time.Now(), &err)

	dirname := normalizePath(path)

	// The root is not a deletable directory; an empty prefix would sweep
	// the whole store. Matching nothing is a success, same as below.
	if dirname == "" {
		return nil
	}

	if err := a.store.RemoveByPrefix(ctx, dirPrefix(dirname)); err != nil {
		return fmt.Errorf("failed to delete directory %q: %w", path, err)
	}

	return nil
}
