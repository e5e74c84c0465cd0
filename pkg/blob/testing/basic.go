package testing

import (
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBasicTests executes lookup and read operation tests.
func (suite *StoreTestSuite) RunBasicTests(t *testing.T) {
	t.Run("FindOne_ByID", suite.testFindOneByID)
	t.Run("FindOne_ByFilename", suite.testFindOneByFilename)
	t.Run("FindOne_NotFound", suite.testFindOneNotFound)
	t.Run("FindOne_ExactFilenameMatch", suite.testFindOneExactFilenameMatch)
	t.Run("Find_ByPrefix", suite.testFindByPrefix)
	t.Run("Find_PrefixNoMatch", suite.testFindPrefixNoMatch)
	t.Run("Find_PrefixExactBoundary", suite.testFindPrefixExactBoundary)
	t.Run("Find_DuplicateFilenames", suite.testFindDuplicateFilenames)
	t.Run("OpenObject_Basic", suite.testOpenObjectBasic)
	t.Run("OpenObject_NotFound", suite.testOpenObjectNotFound)
	t.Run("OpenObject_Empty", suite.testOpenObjectEmpty)
}

func (suite *StoreTestSuite) testFindOneByID(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	id := mustStore(t, store, "docs/readme.md", []byte("# Hello"), nil)

	obj := mustFindOne(t, store, blob.Filter{ID: id})
	assert.Equal(t, id, obj.ID)
	assert.Equal(t, "docs/readme.md", obj.Filename)
	assert.Equal(t, int64(7), obj.Size)
	assert.False(t, obj.UploadedAt.IsZero(), "UploadedAt should be set")
}

func (suite *StoreTestSuite) testFindOneByFilename(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	id := mustStore(t, store, "a/b/c.txt", []byte("content"), map[string]string{"mimetype": "text/plain"})

	obj := mustFindOne(t, store, blob.Filter{Filename: "a/b/c.txt"})
	assert.Equal(t, id, obj.ID)
	assert.Equal(t, "text/plain", obj.Metadata["mimetype"])
}

func (suite *StoreTestSuite) testFindOneNotFound(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	_, err := store.FindOne(testContext(), blob.Filter{Filename: "does/not/exist"})
	AssertErrorIs(t, blob.ErrObjectNotFound, err)

	_, err = store.FindOne(testContext(), blob.Filter{ID: "no-such-id"})
	AssertErrorIs(t, blob.ErrObjectNotFound, err)
}

func (suite *StoreTestSuite) testFindOneExactFilenameMatch(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	// A filename lookup must not match longer names sharing the prefix.
	mustStore(t, store, "a.txt", []byte("short"), nil)
	mustStore(t, store, "a.txt2", []byte("long"), nil)

	obj := mustFindOne(t, store, blob.Filter{Filename: "a.txt"})
	assert.Equal(t, "a.txt", obj.Filename)
	assertObjectContent(t, store, obj.ID, []byte("short"))
}

func (suite *StoreTestSuite) testFindByPrefix(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	mustStore(t, store, "photos/2024/a.jpg", []byte("aa"), nil)
	mustStore(t, store, "photos/2024/b.jpg", []byte("bb"), nil)
	mustStore(t, store, "photos/2025/c.jpg", []byte("cc"), nil)
	mustStore(t, store, "docs/readme.md", []byte("dd"), nil)

	assertObjectCount(t, store, blob.Filter{Prefix: "photos/"}, 3)
	assertObjectCount(t, store, blob.Filter{Prefix: "photos/2024/"}, 2)

	objects, err := store.Find(testContext(), blob.Filter{Prefix: "photos/2024/"})
	require.NoError(t, err)
	for _, obj := range objects {
		assert.Contains(t, obj.Filename, "photos/2024/")
	}
}

func (suite *StoreTestSuite) testFindPrefixNoMatch(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	mustStore(t, store, "docs/readme.md", []byte("dd"), nil)

	// No match is an empty result, not an error.
	objects, err := store.Find(testContext(), blob.Filter{Prefix: "nothing/"})
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func (suite *StoreTestSuite) testFindPrefixExactBoundary(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	// An object named exactly like the prefix minus its separator must not
	// match: "dir/" selects members of dir, not an object called "dir".
	mustStore(t, store, "dir", []byte("plain"), nil)
	mustStore(t, store, "dir/a.txt", []byte("aa"), nil)

	objects, err := store.Find(testContext(), blob.Filter{Prefix: "dir/"})
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "dir/a.txt", objects[0].Filename)
}

func (suite *StoreTestSuite) testFindDuplicateFilenames(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	// Filenames are not unique keys; each write creates a new object.
	first := mustStore(t, store, "dup.txt", []byte("one"), nil)
	second := mustStore(t, store, "dup.txt", []byte("two"), nil)
	assert.NotEqual(t, first, second, "Writes should create distinct objects")

	assertObjectCount(t, store, blob.Filter{Filename: "dup.txt"}, 2)

	// FindOne picks deterministically among duplicates.
	a := mustFindOne(t, store, blob.Filter{Filename: "dup.txt"})
	b := mustFindOne(t, store, blob.Filter{Filename: "dup.txt"})
	assert.Equal(t, a.ID, b.ID, "FindOne should be deterministic for duplicates")
}

func (suite *StoreTestSuite) testOpenObjectBasic(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	data := generateTestData(4096)
	id := mustStore(t, store, "big.bin", data, nil)

	assertObjectContent(t, store, id, data)
}

func (suite *StoreTestSuite) testOpenObjectNotFound(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	_, err := store.OpenObject(testContext(), "no-such-id")
	AssertErrorIs(t, blob.ErrObjectNotFound, err)
}

func (suite *StoreTestSuite) testOpenObjectEmpty(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	id := mustStore(t, store, "empty.txt", []byte{}, nil)

	content := mustReadObject(t, store, id)
	assert.Empty(t, content, "Empty object should read back empty")

	obj := mustFindOne(t, store, blob.Filter{ID: id})
	assert.Equal(t, int64(0), obj.Size)
}
