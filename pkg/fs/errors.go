package fs

import (
	"errors"
	"fmt"
)

// Common errors returned by the adapter.
//
// Errors are wrapped with additional context using fmt.Errorf with %w,
// so use errors.Is() to check error types.
var (
	// ErrNotFound indicates no object exists at the requested path.
	// Returned by Read, ReadStream, Delete and the metadata accessors.
	// Has reports absence as (false, nil) instead.
	ErrNotFound = errors.New("path not found")

	// ErrRecursiveListing indicates ListContents was called with
	// recursive=true, which the flat store cannot serve. This is a fixed
	// limitation, never a transient failure.
	ErrRecursiveListing = errors.New("recursive listing not supported")
)

// CapabilityError indicates an operation the underlying store has no
// primitive for: directories and visibility. It is distinct from ErrNotFound
// so callers can tell "feature absent" from "target absent".
type CapabilityError struct {
	// Op is the operation that was attempted, such as "create_dir".
	Op string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("operation %q not supported by the underlying store", e.Op)
}

// RenameStep identifies which phase of a compound rename failed.
type RenameStep string

const (
	// RenameStepCopy means the initial copy failed; the original is intact
	// and nothing was written to the destination.
	RenameStepCopy RenameStep = "copy"

	// RenameStepDelete means the copy succeeded but deleting the original
	// failed, leaving live copies at BOTH paths.
	RenameStepDelete RenameStep = "delete"
)

// RenameError reports a failed rename together with the step that failed,
// so callers can observe the partial outcome: a copy-step failure left the
// store untouched, a delete-step failure left a duplicate behind.
type RenameError struct {
	Step RenameStep
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename failed during %s step: %v", e.Step, e.Err)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}
