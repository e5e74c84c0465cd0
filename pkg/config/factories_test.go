package config

import (
	"context"
	"strings"
	"testing"
)

func TestCreateBlobStore_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &StoreConfig{Type: "memory"}

	store, err := CreateBlobStore(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create memory blob store: %v", err)
	}
	defer store.Close()

	if store == nil {
		t.Fatal("Expected non-nil store")
	}
}

func TestCreateBlobStore_Badger(t *testing.T) {
	ctx := context.Background()
	cfg := &StoreConfig{
		Type: "badger",
		Badger: map[string]any{
			"db_path": t.TempDir(),
		},
	}

	store, err := CreateBlobStore(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create badger blob store: %v", err)
	}
	defer store.Close()

	if store == nil {
		t.Fatal("Expected non-nil store")
	}
}

func TestCreateBlobStore_BadgerMissingPath(t *testing.T) {
	ctx := context.Background()
	cfg := &StoreConfig{
		Type:   "badger",
		Badger: map[string]any{},
	}

	_, err := CreateBlobStore(ctx, cfg)
	if err == nil {
		t.Fatal("Expected error for missing db_path")
	}
	if !strings.Contains(err.Error(), "db_path is required") {
		t.Errorf("Expected 'db_path is required' error, got: %v", err)
	}
}

func TestCreateBlobStore_S3MissingBucket(t *testing.T) {
	ctx := context.Background()
	cfg := &StoreConfig{
		Type: "s3",
		S3:   map[string]any{"region": "us-east-1"},
	}

	_, err := CreateBlobStore(ctx, cfg)
	if err == nil {
		t.Fatal("Expected error for missing bucket")
	}
	if !strings.Contains(err.Error(), "bucket is required") {
		t.Errorf("Expected 'bucket is required' error, got: %v", err)
	}
}

func TestCreateBlobStore_UnknownType(t *testing.T) {
	ctx := context.Background()
	cfg := &StoreConfig{Type: "mongodb"}

	_, err := CreateBlobStore(ctx, cfg)
	if err == nil {
		t.Fatal("Expected error for unknown store type")
	}
	if !strings.Contains(err.Error(), "unknown blob store type") {
		t.Errorf("Expected 'unknown blob store type' error, got: %v", err)
	}
}
