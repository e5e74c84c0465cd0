package testing

import (
	"context"
	"testing"

	"github.com/gridmount/gridmount/pkg/blob"
)

// StoreTestSuite is a comprehensive test suite for blob.Store implementations.
// It tests the interface contract, not implementation details, making it
// reusable across different implementations (memory, badger, S3, etc.).
//
// Usage:
//
//	func TestMyBlobStore(t *testing.T) {
//	    suite := &testing.StoreTestSuite{
//	        NewStore: func() blob.Store {
//	            return mystore.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore is a factory function that creates a fresh Store instance
	// for each test. This ensures test isolation.
	NewStore func() blob.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("BasicOperations", suite.RunBasicTests)
	t.Run("WriteOperations", suite.RunWriteTests)
	t.Run("Indexes", suite.RunIndexTests)
}

// testContext returns a standard test context.
func testContext() context.Context {
	return context.Background()
}
