package testing

import (
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunIndexTests executes index catalogue tests. Stores that do not implement
// blob.IndexCreator only get the ListIndexes contract checked.
func (suite *StoreTestSuite) RunIndexTests(t *testing.T) {
	t.Run("ListIndexes_Empty", suite.testListIndexesEmpty)
	t.Run("CreateIndex_Basic", suite.testCreateIndexBasic)
	t.Run("CreateIndex_Idempotent", suite.testCreateIndexIdempotent)
}

func (suite *StoreTestSuite) testListIndexesEmpty(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	indexes, err := store.ListIndexes(testContext())
	require.NoError(t, err, "ListIndexes should succeed on a fresh store")
	assert.Empty(t, indexes, "Fresh store should have no indexes")
}

func (suite *StoreTestSuite) testCreateIndexBasic(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	creator, ok := store.(blob.IndexCreator)
	if !ok {
		t.Skip("Store does not implement IndexCreator")
	}

	err := creator.CreateIndex(testContext(), blob.IndexSpec{
		Name:      "filename_1",
		Field:     "filename",
		Ascending: true,
	})
	require.NoError(t, err, "CreateIndex should succeed")

	indexes, err := store.ListIndexes(testContext())
	require.NoError(t, err)
	require.Len(t, indexes, 1)
	assert.Equal(t, "filename_1", indexes[0].Name)
	assert.Equal(t, "filename", indexes[0].Field)
}

func (suite *StoreTestSuite) testCreateIndexIdempotent(t *testing.T) {
	store := suite.NewStore()
	defer store.Close()

	creator, ok := store.(blob.IndexCreator)
	if !ok {
		t.Skip("Store does not implement IndexCreator")
	}

	spec := blob.IndexSpec{Name: "filename_1", Field: "filename", Ascending: true}

	require.NoError(t, creator.CreateIndex(testContext(), spec))
	require.NoError(t, creator.CreateIndex(testContext(), spec))

	indexes, err := store.ListIndexes(testContext())
	require.NoError(t, err)
	assert.Len(t, indexes, 1, "Repeated CreateIndex should not duplicate the catalogue entry")
}
