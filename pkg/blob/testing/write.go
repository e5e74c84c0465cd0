package testing

import (
	"bytes"
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunWriteTests executes store, stream and delete operation tests.
func (suite *StoreTestSuite) RunWriteTests(t *testing.T) {
	t.Run("StoreBytes_Basic", suite.testStoreBytesBasic)
	t.Run("StoreBytes_Metadata", suite.testStoreBytesMetadata)
	t.Run("StoreStream_Basic", suite.testStoreStreamBasic)
	t.Run("StoreStream_Large", suite.testStoreStreamLarge)
	t.Run("DeleteObject_Basic", suite.testDeleteObjectBasic)
	t.Run("DeleteObject_NotFound", suite.testDeleteObjectNotFound)
	t.Run("DeleteObject_OneOfDuplicates", suite.testDeleteObjectOneOfDuplicates)
	t.Run("RemoveByPrefix_Basic", suite.testRemoveByPrefixBasic)
	t.Run("RemoveByPrefix_NoMatch", suite.testRemoveByPrefixNoMatch)
	t.Run("RemoveByPrefix_ExactBoundary", suite.testRemoveByPrefixExactBoundary)
}

func (suite *StoreTestSuite) testStoreBytesBasic(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	data := []byte("Hello, World!")
	id := mustStore(t, store, "hello.txt", data, nil)

	assertObjectContent(t, store, id, data)

	obj := mustFindOne(t, store, blob.Filter{ID: id})
	assert.Equal(t, int64(len(data)), obj.Size)
}

func (suite *StoreTestSuite) testStoreBytesMetadata(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	meta := map[string]string{"mimetype": "application/json", "origin": "import"}
	id := mustStore(t, store, "data.json", []byte("{}"), meta)

	obj := mustFindOne(t, store, blob.Filter{ID: id})
	assert.Equal(t, "application/json", obj.Metadata["mimetype"])
	assert.Equal(t, "import", obj.Metadata["origin"])
}

func (suite *StoreTestSuite) testStoreStreamBasic(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	data := []byte("streamed content")
	id, err := store.StoreStream(testContext(), "stream.txt", bytes.NewReader(data), nil)
	require.NoError(t, err, "StoreStream should succeed")

	assertObjectContent(t, store, id, data)

	obj := mustFindOne(t, store, blob.Filter{Filename: "stream.txt"})
	assert.Equal(t, id, obj.ID)
	assert.Equal(t, int64(len(data)), obj.Size)
}

func (suite *StoreTestSuite) testStoreStreamLarge(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	data := generateTestData(256 * 1024)
	id, err := store.StoreStream(testContext(), "large.bin", bytes.NewReader(data), nil)
	require.NoError(t, err, "StoreStream should succeed")

	assertObjectContent(t, store, id, data)
}

func (suite *StoreTestSuite) testDeleteObjectBasic(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	id := mustStore(t, store, "victim.txt", []byte("bye"), nil)

	err := store.DeleteObject(testContext(), id)
	require.NoError(t, err, "DeleteObject should succeed")

	_, err = store.FindOne(testContext(), blob.Filter{ID: id})
	AssertErrorIs(t, blob.ErrObjectNotFound, err)

	// The filename lookup must be gone too.
	_, err = store.FindOne(testContext(), blob.Filter{Filename: "victim.txt"})
	AssertErrorIs(t, blob.ErrObjectNotFound, err)
}

func (suite *StoreTestSuite) testDeleteObjectNotFound(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	err := store.DeleteObject(testContext(), "no-such-id")
	AssertErrorIs(t, blob.ErrObjectNotFound, err)
}

func (suite *StoreTestSuite) testDeleteObjectOneOfDuplicates(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	first := mustStore(t, store, "dup.txt", []byte("one"), nil)
	second := mustStore(t, store, "dup.txt", []byte("two"), nil)

	err := store.DeleteObject(testContext(), first)
	require.NoError(t, err)

	// The surviving duplicate is still reachable by filename.
	obj := mustFindOne(t, store, blob.Filter{Filename: "dup.txt"})
	assert.Equal(t, second, obj.ID)
}

func (suite *StoreTestSuite) testRemoveByPrefixBasic(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	mustStore(t, store, "tmp/a.txt", []byte("a"), nil)
	mustStore(t, store, "tmp/deep/b.txt", []byte("b"), nil)
	survivor := mustStore(t, store, "keep/c.txt", []byte("c"), nil)

	err := store.RemoveByPrefix(testContext(), "tmp/")
	require.NoError(t, err, "RemoveByPrefix should succeed")

	assertObjectCount(t, store, blob.Filter{Prefix: "tmp/"}, 0)
	assertObjectContent(t, store, survivor, []byte("c"))
}

func (suite *StoreTestSuite) testRemoveByPrefixNoMatch(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	mustStore(t, store, "keep/c.txt", []byte("c"), nil)

	// Matching nothing is still success.
	err := store.RemoveByPrefix(testContext(), "ghost/")
	require.NoError(t, err, "RemoveByPrefix on empty prefix should succeed")

	assertObjectCount(t, store, blob.Filter{Prefix: "keep/"}, 1)
}

func (suite *StoreTestSuite) testRemoveByPrefixExactBoundary(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	// "dir/" must not sweep "dir2/".
	mustStore(t, store, "dir/a.txt", []byte("a"), nil)
	sibling := mustStore(t, store, "dir2/b.txt", []byte("b"), nil)

	err := store.RemoveByPrefix(testContext(), "dir/")
	require.NoError(t, err)

	assertObjectCount(t, store, blob.Filter{Prefix: "dir/"}, 0)
	assertObjectContent(t, store, sibling, []byte("b"))
}
