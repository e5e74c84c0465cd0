package fs

import "context"

// CreateDir always fails with *CapabilityError: the store has no directory
// primitive. Directories exist only implicitly, as shared path prefixes of
// stored objects.
func (a *Adapter) CreateDir(ctx context.Context, path string) (*FileRecord, error) {
	return nil, &CapabilityError{Op: "create_dir"}
}

// SetVisibility always fails with *CapabilityError: the store has no
// access-control primitive. This is a fixed limitation, not a transient
// failure.
func (a *Adapter) SetVisibility(ctx context.Context, path, visibility string) error {
	return &CapabilityError{Op: "set_visibility"}
}

// GetVisibility always fails with *CapabilityError. See SetVisibility.
func (a *Adapter) GetVisibility(ctx context.Context, path string) (string, error) {
	return "", &CapabilityError{Op: "get_visibility"}
}
