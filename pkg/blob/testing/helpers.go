package testing

import (
	"errors"
	"io"
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorIs checks if the error matches the expected error using errors.Is.
func AssertErrorIs(t *testing.T, expected error, actual error) {
	t.Helper()
	if !errors.Is(actual, expected) {
		t.Errorf("Expected error %v, got %v", expected, actual)
	}
}

// mustStore uploads content and fails the test if it errors.
func mustStore(t *testing.T, store blob.Store, filename string, data []byte, metadata map[string]string) blob.ObjectID {
	t.Helper()
	id, err := store.StoreBytes(testContext(), filename, data, metadata)
	require.NoError(t, err, "StoreBytes should succeed")
	require.NotEmpty(t, id, "StoreBytes should return a non-empty id")
	return id
}

// mustFindOne looks up a single object and fails the test if it errors.
func mustFindOne(t *testing.T, store blob.Store, filter blob.Filter) *blob.Object {
	t.Helper()
	obj, err := store.FindOne(testContext(), filter)
	require.NoError(t, err, "FindOne should succeed")
	require.NotNil(t, obj, "FindOne should return an object")
	return obj
}

// mustReadObject streams an object's content and fails the test if it errors.
func mustReadObject(t *testing.T, store blob.Store, id blob.ObjectID) []byte {
	t.Helper()
	reader, err := store.OpenObject(testContext(), id)
	require.NoError(t, err, "OpenObject should succeed")
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err, "Reading object content should succeed")
	return data
}

// assertObjectContent checks that stored content matches expected data.
func assertObjectContent(t *testing.T, store blob.Store, id blob.ObjectID, expected []byte) {
	t.Helper()
	actual := mustReadObject(t, store, id)
	assert.Equal(t, expected, actual, "Object content mismatch")
}

// assertObjectCount checks how many objects a filter matches.
func assertObjectCount(t *testing.T, store blob.Store, filter blob.Filter, expected int) {
	t.Helper()
	objects, err := store.Find(testContext(), filter)
	require.NoError(t, err, "Find should not error")
	assert.Len(t, objects, expected, "Object count mismatch for filter %+v", filter)
}

// generateTestData creates test data of specified size.
func generateTestData(size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = byte(i % 256)
	}
	return data
}
