package fs

import (
	"context"
	"errors"
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
	"github.com/gridmount/gridmount/pkg/blob/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Copy(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	original := []byte("copy me")
	_, err := adapter.Write(ctx, "src.txt", original, WriteConfig{})
	require.NoError(t, err)

	rec, err := adapter.Copy(ctx, "src.txt", "dst.txt")
	require.NoError(t, err)
	assert.Equal(t, "dst.txt", rec.Path)

	// Destination matches the source content.
	got, err := adapter.Read(ctx, "dst.txt")
	require.NoError(t, err)
	assert.Equal(t, original, got)

	// Source is left unmodified.
	got, err = adapter.Read(ctx, "src.txt")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestAdapter_CopyMissingSource(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	_, err := adapter.Copy(ctx, "ghost.txt", "dst.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := adapter.Has(ctx, "dst.txt")
	require.NoError(t, err)
	assert.False(t, ok, "Failed copy must not create the destination")
}

func TestAdapter_Rename(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	content := []byte("move me")
	_, err := adapter.Write(ctx, "old.txt", content, WriteConfig{})
	require.NoError(t, err)

	err = adapter.Rename(ctx, "old.txt", "new.txt")
	require.NoError(t, err)

	ok, err := adapter.Has(ctx, "old.txt")
	require.NoError(t, err)
	assert.False(t, ok, "Source must be gone after rename")

	got, err := adapter.Read(ctx, "new.txt")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestAdapter_RenameCopyFailure(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	err := adapter.Rename(ctx, "ghost.txt", "new.txt")

	var renameErr *RenameError
	require.ErrorAs(t, err, &renameErr)
	assert.Equal(t, RenameStepCopy, renameErr.Step)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := adapter.Has(ctx, "new.txt")
	require.NoError(t, err)
	assert.False(t, ok, "Failed copy step must not create the destination")
}

func TestAdapter_RenameDeleteFailure(t *testing.T) {
	ctx := context.Background()

	inner, err := memory.NewMemoryStore(ctx)
	require.NoError(t, err)
	defer inner.Close()

	faulty := &deleteFailingStore{Store: inner}
	adapter := New(faulty, nil)

	content := []byte("stuck")
	_, err = adapter.Write(ctx, "old.txt", content, WriteConfig{})
	require.NoError(t, err)

	faulty.failDeletes = true

	err = adapter.Rename(ctx, "old.txt", "new.txt")

	var renameErr *RenameError
	require.ErrorAs(t, err, &renameErr)
	assert.Equal(t, RenameStepDelete, renameErr.Step)

	// The accepted partial state: live copies at BOTH paths.
	ok, err := adapter.Has(ctx, "old.txt")
	require.NoError(t, err)
	assert.True(t, ok, "Source must survive a failed delete step")

	ok, err = adapter.Has(ctx, "new.txt")
	require.NoError(t, err)
	assert.True(t, ok, "Destination copy exists despite overall failure")
}

// deleteFailingStore forwards to an inner store but fails DeleteObject on
// demand, to exercise the rename partial-failure path.
type deleteFailingStore struct {
	blob.Store
	failDeletes bool
}

func (s *deleteFailingStore) DeleteObject(ctx context.Context, id blob.ObjectID) error {
	if s.failDeletes {
		return errors.New("injected delete failure")
	}
	return s.Store.DeleteObject(ctx, id)
}
