package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	_, err := adapter.Write(ctx, "victim.txt", []byte("bye"), WriteConfig{})
	require.NoError(t, err)

	err = adapter.Delete(ctx, "victim.txt")
	require.NoError(t, err)

	ok, err := adapter.Has(ctx, "victim.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	// A second delete finds nothing.
	err = adapter.Delete(ctx, "victim.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdapter_DeleteDir(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	for _, path := range []string{"dir/a.txt", "dir/sub/b.txt", "dir2/c.txt", "dirfile.txt"} {
		_, err := adapter.Write(ctx, path, []byte("x"), WriteConfig{})
		require.NoError(t, err)
	}

	err := adapter.DeleteDir(ctx, "dir")
	require.NoError(t, err)

	// All of dir/ is gone, nested objects included.
	for _, path := range []string{"dir/a.txt", "dir/sub/b.txt"} {
		ok, err := adapter.Has(ctx, path)
		require.NoError(t, err)
		assert.False(t, ok, "%s should be removed", path)
	}

	// Prefix siblings survive: "dir" must not sweep "dir2/" or "dirfile.txt".
	for _, path := range []string{"dir2/c.txt", "dirfile.txt"} {
		ok, err := adapter.Has(ctx, path)
		require.NoError(t, err)
		assert.True(t, ok, "%s should survive", path)
	}
}

func TestAdapter_DeleteDirRoot(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	for _, path := range []string{"a.txt", "dir/b.txt"} {
		_, err := adapter.Write(ctx, path, []byte("x"), WriteConfig{})
		require.NoError(t, err)
	}

	// The root is not a deletable directory; an empty prefix must not
	// sweep the store.
	for _, root := range []string{"", "/"} {
		err := adapter.DeleteDir(ctx, root)
		require.NoError(t, err)
	}

	for _, path := range []string{"a.txt", "dir/b.txt"} {
		ok, err := adapter.Has(ctx, path)
		require.NoError(t, err)
		assert.True(t, ok, "%s should survive a root DeleteDir", path)
	}
}

func TestAdapter_DeleteDirEmpty(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	// Removing a prefix that matches nothing is still success.
	err := adapter.DeleteDir(ctx, "nothing/here")
	assert.NoError(t, err)
}
