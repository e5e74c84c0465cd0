package fs

import (
	"context"
	"time"
)

// Copy duplicates the content at path to newpath and returns the new
// record. Copy is not a store primitive: the content is streamed out of the
// source object and written back as a fresh object, round-tripping through
// this process. The source is left unmodified.
//
// Only content travels; write-time options such as mimetype are not carried
// over unless the caller re-supplies them through a separate write.
func (a *Adapter) Copy(ctx context.Context, path, newpath string) (rec *FileRecord, err error) {
	defer a.observe("copy", time.Now(), &err)

	return a.copyObject(ctx, path, newpath)
}

// Rename moves the content at path to newpath as copy-then-delete, in that
// order. Rename is NOT atomic:
//
//   - if the copy fails, the delete is never attempted and the original is
//     preserved; the returned *RenameError has Step RenameStepCopy
//   - if the copy succeeds but the delete fails, live objects exist at BOTH
//     paths and the returned *RenameError has Step RenameStepDelete; this
//     partial state is reported, not repaired
func (a *Adapter) Rename(ctx context.Context, path, newpath string) (err error) {
	defer a.observe("rename", time.Now(), &err)

	if _, err := a.copyObject(ctx, path, newpath); err != nil {
		return &RenameError{Step: RenameStepCopy, Err: err}
	}

	if err := a.Delete(ctx, path); err != nil {
		return &RenameError{Step: RenameStepDelete, Err: err}
	}

	return nil
}

// copyObject is the shared copy step: stream the source content into a
// fresh write at the destination.
func (a *Adapter) copyObject(ctx context.Context, path, newpath string) (*FileRecord, error) {
	reader, err := a.openPath(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return a.WriteStream(ctx, newpath, reader, WriteConfig{})
}
