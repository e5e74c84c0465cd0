package fs

import (
	"bytes"
	"context"
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
	"github.com/gridmount/gridmount/pkg/blob/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAdapter returns an adapter over a fresh in-memory store.
func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	store, err := memory.NewMemoryStore(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return New(store, nil)
}

func TestAdapter_MissingPaths(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	ok, err := adapter.Has(ctx, "no/such/file.txt")
	require.NoError(t, err, "Has should not error on missing paths")
	assert.False(t, ok)

	_, err = adapter.Read(ctx, "no/such/file.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = adapter.ReadStream(ctx, "no/such/file.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	err = adapter.Delete(ctx, "no/such/file.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = adapter.GetMetadata(ctx, "no/such/file.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdapter_RootPath(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	// The root is not an object even when the store holds data; a root
	// lookup must never resolve to some stored object.
	_, err := adapter.Write(ctx, "keep.txt", []byte("keep"), WriteConfig{})
	require.NoError(t, err)

	for _, root := range []string{"", "/", "//", "."} {
		ok, err := adapter.Has(ctx, root)
		require.NoError(t, err, "Has(%q) should not error", root)
		assert.False(t, ok, "Has(%q) should be false", root)

		_, err = adapter.Read(ctx, root)
		assert.ErrorIs(t, err, ErrNotFound, "Read(%q)", root)

		err = adapter.Delete(ctx, root)
		assert.ErrorIs(t, err, ErrNotFound, "Delete(%q)", root)

		_, err = adapter.GetMetadata(ctx, root)
		assert.ErrorIs(t, err, ErrNotFound, "GetMetadata(%q)", root)
	}

	content, err := adapter.Read(ctx, "keep.txt")
	require.NoError(t, err, "Root lookups must not touch stored objects")
	assert.Equal(t, []byte("keep"), content)
}

func TestAdapter_WriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	tests := []struct {
		name    string
		path    string
		content []byte
	}{
		{"Basic", "file.txt", []byte("content")},
		{"Empty", "empty.txt", []byte{}},
		{"Nested", "a/b/c/deep.bin", []byte{0x00, 0xff, 0x42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := adapter.Write(ctx, tt.path, tt.content, WriteConfig{})
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, tt.path, rec.Path)
			assert.Equal(t, TypeFile, rec.Type)
			assert.Equal(t, int64(len(tt.content)), rec.Size)

			ok, err := adapter.Has(ctx, tt.path)
			require.NoError(t, err)
			assert.True(t, ok)

			got, err := adapter.Read(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got)
		})
	}
}

func TestAdapter_WriteStream(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	data := []byte("streamed bytes")
	rec, err := adapter.WriteStream(ctx, "stream.txt", bytes.NewReader(data), WriteConfig{})
	require.NoError(t, err)
	assert.Equal(t, "stream.txt", rec.Path)
	assert.Equal(t, int64(len(data)), rec.Size)

	got, err := adapter.Read(ctx, "stream.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestAdapter_WriteRecord(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	// Without a configured mimetype the record carries none.
	rec, err := adapter.Write(ctx, "file.txt", []byte("content"), WriteConfig{})
	require.NoError(t, err)
	assert.Empty(t, rec.Mimetype)
	assert.Equal(t, "", rec.Dirname)
	assert.NotZero(t, rec.Timestamp, "Timestamp should be the store-assigned upload time")

	// With a configured mimetype the record always carries it.
	rec, err = adapter.Write(ctx, "file.txt", []byte("content"), WriteConfig{Mimetype: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", rec.Mimetype)
}

func TestAdapter_PathNormalization(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	_, err := adapter.Write(ctx, "/dir//file.txt/", []byte("x"), WriteConfig{})
	require.NoError(t, err)

	// Lookups normalize too, so the messy and clean spellings agree.
	ok, err := adapter.Has(ctx, "dir/file.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := adapter.GetMetadata(ctx, "/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "dir/file.txt", rec.Path)
	assert.Equal(t, "dir", rec.Dirname)
}

func TestAdapter_UpdateIsWrite(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	_, err := adapter.Write(ctx, "file.txt", []byte("v1"), WriteConfig{})
	require.NoError(t, err)

	_, err = adapter.Update(ctx, "file.txt", []byte("v2"), WriteConfig{})
	require.NoError(t, err)

	// Update does not replace: both objects share the filename.
	objects, err := adapter.Client().Find(ctx, blob.Filter{Filename: "file.txt"})
	require.NoError(t, err)
	assert.Len(t, objects, 2, "Update should add an object, not replace")
}

func TestAdapter_MetadataAccessorsEquivalent(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	_, err := adapter.Write(ctx, "file.txt", []byte("content"), WriteConfig{Mimetype: "text/plain"})
	require.NoError(t, err)

	meta, err := adapter.GetMetadata(ctx, "file.txt")
	require.NoError(t, err)

	mime, err := adapter.GetMimetype(ctx, "file.txt")
	require.NoError(t, err)
	assert.Equal(t, meta, mime)

	size, err := adapter.GetSize(ctx, "file.txt")
	require.NoError(t, err)
	assert.Equal(t, meta, size)

	ts, err := adapter.GetTimestamp(ctx, "file.txt")
	require.NoError(t, err)
	assert.Equal(t, meta, ts)
}

func TestAdapter_IndexCreatedOnce(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	_, err := adapter.Write(ctx, "a.txt", []byte("a"), WriteConfig{})
	require.NoError(t, err)

	_, err = adapter.Write(ctx, "b.txt", []byte("b"), WriteConfig{})
	require.NoError(t, err)

	indexes, err := adapter.Client().ListIndexes(ctx)
	require.NoError(t, err)
	require.Len(t, indexes, 1, "Repeated writes must not duplicate the filename index")
	assert.Equal(t, "filename_1", indexes[0].Name)
	assert.Equal(t, "filename", indexes[0].Field)
	assert.True(t, indexes[0].Ascending)
}

func TestAdapter_IndexCapabilityAbsent(t *testing.T) {
	ctx := context.Background()

	inner, err := memory.NewMemoryStore(ctx)
	require.NoError(t, err)
	defer inner.Close()

	// Wrapping in a plain blob.Store hides the IndexCreator capability;
	// writes must still succeed with index management silently skipped.
	adapter := New(&storeWithoutIndexes{inner}, nil)

	_, err = adapter.Write(ctx, "a.txt", []byte("a"), WriteConfig{})
	require.NoError(t, err)

	indexes, err := adapter.Client().ListIndexes(ctx)
	require.NoError(t, err)
	assert.Empty(t, indexes, "No index should be created without the capability")
}

func TestAdapter_UnsupportedOperations(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	var capErr *CapabilityError

	_, err := adapter.CreateDir(ctx, "somedir")
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "create_dir", capErr.Op)

	err = adapter.SetVisibility(ctx, "file.txt", "public")
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "set_visibility", capErr.Op)

	_, err = adapter.GetVisibility(ctx, "file.txt")
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "get_visibility", capErr.Op)

	// Capability errors are distinguishable from ordinary not-found.
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestAdapter_Client(t *testing.T) {
	store, err := memory.NewMemoryStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	adapter := New(store, nil)
	assert.Same(t, blob.Store(store), adapter.Client())
}

// storeWithoutIndexes forwards everything to an inner store but does not
// implement blob.IndexCreator.
type storeWithoutIndexes struct {
	blob.Store
}
