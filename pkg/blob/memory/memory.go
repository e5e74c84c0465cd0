package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gridmount/gridmount/pkg/blob"
)

// MemoryStore implements blob.Store using in-memory storage.
//
// All objects live in a map protected by a sync.RWMutex. The store is
// designed for:
//   - Testing and development
//   - Ephemeral deployments where persistence is not needed
//
// Characteristics:
//   - Fast: all operations are memory-speed
//   - Volatile: data is lost on process exit
//   - Thread-safe: RWMutex, with copies on read/write to prevent data races
//     with caller-owned buffers
//
// Implemented Interfaces:
//   - blob.Store
//   - blob.IndexCreator (index specs are recorded in an in-memory catalogue;
//     filename lookups are map scans regardless, so the catalogue is purely
//     declarative, matching how the contract treats indexes)
type MemoryStore struct {
	// objects holds the stored records and their content, keyed by id
	objects map[blob.ObjectID]*storedObject

	// indexes is the declarative index catalogue, keyed by index name
	indexes map[string]blob.IndexInfo

	// mu protects objects and indexes
	mu sync.RWMutex

	closed bool
}

// storedObject pairs an object record with its content bytes.
type storedObject struct {
	object blob.Object
	data   []byte
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore(ctx context.Context) (*MemoryStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &MemoryStore{
		objects: make(map[blob.ObjectID]*storedObject),
		indexes: make(map[string]blob.IndexInfo),
	}, nil
}

// ============================================================================
// Store Interface Implementation
// ============================================================================

// FindOne returns the first object matching the filter.
//
// When several objects share a filename, the one with the earliest upload
// time wins so repeated lookups are deterministic.
func (s *MemoryStore) FindOne(ctx context.Context, filter blob.Filter) (*blob.Object, error) {
	matches, err := s.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("filter %+v: %w", filter, blob.ErrObjectNotFound)
	}

	return matches[0], nil
}

// Find returns all objects matching the filter, sorted by upload time then id
// for deterministic results.
func (s *MemoryStore) Find(ctx context.Context, filter blob.Filter) ([]*blob.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blob.ErrStoreClosed
	}

	var matches []*blob.Object
	for _, stored := range s.objects {
		if !matchesFilter(&stored.object, filter) {
			continue
		}
		obj := copyObject(&stored.object)
		matches = append(matches, obj)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].UploadedAt.Equal(matches[j].UploadedAt) {
			return matches[i].UploadedAt.Before(matches[j].UploadedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	return matches, nil
}

// StoreBytes persists data under the given filename and returns a fresh id.
//
// The data is copied so later caller-side mutation cannot corrupt the store.
func (s *MemoryStore) StoreBytes(ctx context.Context, filename string, data []byte, metadata map[string]string) (blob.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", blob.ErrStoreClosed
	}

	id := blob.ObjectID(uuid.NewString())

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	s.objects[id] = &storedObject{
		object: blob.Object{
			ID:         id,
			Filename:   filename,
			Size:       int64(len(dataCopy)),
			UploadedAt: time.Now(),
			Metadata:   copyMetadata(metadata),
		},
		data: dataCopy,
	}

	return id, nil
}

// StoreStream drains the reader into memory and stores the result.
//
// There is nothing to stream to here, so the content is buffered; callers
// needing bounded memory should use a persistent backend.
func (s *MemoryStore) StoreStream(ctx context.Context, filename string, r io.Reader, metadata map[string]string) (blob.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content stream: %w", err)
	}

	return s.StoreBytes(ctx, filename, data, metadata)
}

// OpenObject returns a reader over a copy of the object's content.
func (s *MemoryStore) OpenObject(ctx context.Context, id blob.ObjectID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blob.ErrStoreClosed
	}

	stored, exists := s.objects[id]
	if !exists {
		return nil, fmt.Errorf("object %s: %w", id, blob.ErrObjectNotFound)
	}

	dataCopy := make([]byte, len(stored.data))
	copy(dataCopy, stored.data)

	return io.NopCloser(bytes.NewReader(dataCopy)), nil
}

// DeleteObject removes the object with the given id.
func (s *MemoryStore) DeleteObject(ctx context.Context, id blob.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	if _, exists := s.objects[id]; !exists {
		return fmt.Errorf("object %s: %w", id, blob.ErrObjectNotFound)
	}

	delete(s.objects, id)
	return nil
}

// RemoveByPrefix removes every object whose filename begins with prefix.
// Matching nothing is a success.
func (s *MemoryStore) RemoveByPrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	for id, stored := range s.objects {
		if strings.HasPrefix(stored.object.Filename, prefix) {
			delete(s.objects, id)
		}
	}

	return nil
}

// ListIndexes returns the declarative index catalogue, sorted by name.
func (s *MemoryStore) ListIndexes(ctx context.Context) ([]blob.IndexInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blob.ErrStoreClosed
	}

	infos := make([]blob.IndexInfo, 0, len(s.indexes))
	for _, info := range s.indexes {
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos, nil
}

// Close marks the store closed. Further operations fail with ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.objects = nil
	s.indexes = nil

	return nil
}

// ============================================================================
// IndexCreator Implementation
// ============================================================================

// CreateIndex records the spec in the catalogue. Creating the same named
// index twice is a no-op, so concurrent writers racing on check-then-create
// converge on a single entry.
func (s *MemoryStore) CreateIndex(ctx context.Context, spec blob.IndexSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	if _, exists := s.indexes[spec.Name]; exists {
		return nil
	}

	s.indexes[spec.Name] = blob.IndexInfo{
		Name:      spec.Name,
		Field:     spec.Field,
		Ascending: spec.Ascending,
	}

	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func matchesFilter(obj *blob.Object, filter blob.Filter) bool {
	switch {
	case filter.ID != "":
		return obj.ID == filter.ID
	case filter.Filename != "":
		return obj.Filename == filter.Filename
	case filter.Prefix != "":
		return strings.HasPrefix(obj.Filename, filter.Prefix)
	default:
		return true
	}
}

func copyObject(obj *blob.Object) *blob.Object {
	out := *obj
	out.Metadata = copyMetadata(obj.Metadata)
	return &out
}

func copyMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
