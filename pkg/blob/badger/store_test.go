package badger

import (
	"context"
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
	blobtesting "github.com/gridmount/gridmount/pkg/blob/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBadgerStore_Suite runs the complete blob store test suite against the
// Badger implementation, each subtest on its own temporary database.
func TestBadgerStore_Suite(t *testing.T) {
	suite := &blobtesting.StoreTestSuite{
		NewStore: func() blob.Store {
			store, err := NewBadgerStore(context.Background(), BadgerStoreConfig{
				DBPath: t.TempDir(),
			})
			require.NoError(t, err)
			return store
		},
	}
	suite.Run(t)
}

// TestBadgerStore_Reopen verifies data and index catalogue survive a restart.
func TestBadgerStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dbPath := t.TempDir()

	store, err := NewBadgerStore(ctx, BadgerStoreConfig{DBPath: dbPath})
	require.NoError(t, err)

	id, err := store.StoreBytes(ctx, "persist.txt", []byte("still here"), map[string]string{"mimetype": "text/plain"})
	require.NoError(t, err)

	err = store.CreateIndex(ctx, blob.IndexSpec{Name: "filename_1", Field: "filename", Ascending: true})
	require.NoError(t, err)

	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(ctx, BadgerStoreConfig{DBPath: dbPath})
	require.NoError(t, err)
	defer reopened.Close()

	obj, err := reopened.FindOne(ctx, blob.Filter{ID: id})
	require.NoError(t, err)
	assert.Equal(t, "persist.txt", obj.Filename)
	assert.Equal(t, "text/plain", obj.Metadata["mimetype"])

	indexes, err := reopened.ListIndexes(ctx)
	require.NoError(t, err)
	require.Len(t, indexes, 1)
	assert.Equal(t, "filename_1", indexes[0].Name)
}

// TestBadgerStore_MissingPath verifies construction fails without a path.
func TestBadgerStore_MissingPath(t *testing.T) {
	_, err := NewBadgerStore(context.Background(), BadgerStoreConfig{})
	assert.Error(t, err)
}
