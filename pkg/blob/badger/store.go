package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/google/uuid"
	"github.com/gridmount/gridmount/pkg/blob"
)

// BadgerStore implements blob.Store using BadgerDB for persistence.
//
// This implementation provides a persistent blob store backed by BadgerDB,
// a fast embedded key-value store. It is suitable for:
//   - Single-node deployments that must survive restarts
//   - Local development against a realistic persistent backend
//
// Storage Model:
// Objects are split across namespaced keys (see keys.go): the record and the
// content bytes live under separate prefixes, and a denormalized filename
// index key per object makes filename lookups and prefix queries efficient
// range scans instead of full table sweeps.
//
// Thread Safety:
// BadgerDB transactions provide isolation per operation; the store itself
// adds no locking. Compound operations performed by callers (lookup then
// delete) are not serialized, per the Store contract.
//
// Implemented Interfaces:
//   - blob.Store
//   - blob.IndexCreator (catalogue entries under the index prefix)
type BadgerStore struct {
	db *badger.DB
}

// BadgerStoreConfig contains configuration for creating a BadgerDB blob store.
type BadgerStoreConfig struct {
	// DBPath is the directory where BadgerDB stores its files
	DBPath string `mapstructure:"db_path"`

	// BadgerOptions allows full customization of BadgerDB behavior.
	// If nil, sensible defaults are used.
	BadgerOptions *badger.Options

	// BlockCacheSizeMB is BadgerDB's block cache size in MB (default: 64)
	BlockCacheSizeMB int64 `mapstructure:"block_cache_mb"`
}

// NewBadgerStore opens (or creates) a BadgerDB-backed blob store at the
// configured path. The returned store is immediately ready for use.
func NewBadgerStore(ctx context.Context, config BadgerStoreConfig) (*BadgerStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts badger.Options
	if config.BadgerOptions != nil {
		opts = *config.BadgerOptions
	} else {
		opts = badger.DefaultOptions(config.DBPath)
		opts = opts.WithLoggingLevel(badger.WARNING) // Reduce log noise
		opts = opts.WithCompression(options.None)    // Content is opaque, compression is the caller's call

		blockCacheMB := config.BlockCacheSizeMB
		if blockCacheMB == 0 {
			blockCacheMB = 64
		}
		opts = opts.WithBlockCacheSize(blockCacheMB << 20)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", config.DBPath, err)
	}

	return &BadgerStore{db: db}, nil
}

// objectRecord is the persisted JSON form of a blob.Object.
type objectRecord struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	Size       int64             `json:"size"`
	UploadedAt int64             `json:"uploaded_at"` // unix seconds
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func encodeRecord(obj *blob.Object) ([]byte, error) {
	return json.Marshal(objectRecord{
		ID:         string(obj.ID),
		Filename:   obj.Filename,
		Size:       obj.Size,
		UploadedAt: obj.UploadedAt.Unix(),
		Metadata:   obj.Metadata,
	})
}

func decodeRecord(data []byte) (*blob.Object, error) {
	var rec objectRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode object record: %w", err)
	}

	return &blob.Object{
		ID:         blob.ObjectID(rec.ID),
		Filename:   rec.Filename,
		Size:       rec.Size,
		UploadedAt: time.Unix(rec.UploadedAt, 0),
		Metadata:   rec.Metadata,
	}, nil
}

// ============================================================================
// Store Interface Implementation
// ============================================================================

// FindOne returns the first object matching the filter. Filename and prefix
// lookups scan the filename index in key order, so among objects sharing a
// filename the smallest id wins deterministically.
func (s *BadgerStore) FindOne(ctx context.Context, filter blob.Filter) (*blob.Object, error) {
	objects, err := s.find(ctx, filter, true)
	if err != nil {
		return nil, err
	}

	if len(objects) == 0 {
		return nil, fmt.Errorf("filter %+v: %w", filter, blob.ErrObjectNotFound)
	}

	return objects[0], nil
}

// Find returns all objects matching the filter.
func (s *BadgerStore) Find(ctx context.Context, filter blob.Filter) ([]*blob.Object, error) {
	return s.find(ctx, filter, false)
}

func (s *BadgerStore) find(ctx context.Context, filter blob.Filter, firstOnly bool) ([]*blob.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var objects []*blob.Object

	err := s.db.View(func(txn *badger.Txn) error {
		// Point lookup by id needs no index scan
		if filter.ID != "" {
			obj, err := getRecord(txn, filter.ID)
			if err != nil {
				if errors.Is(err, blob.ErrObjectNotFound) {
					return nil
				}
				return err
			}
			objects = append(objects, obj)
			return nil
		}

		scanPrefix := namePrefix + filter.Prefix
		if filter.Filename != "" {
			// Exact-match scans still use the filename index; the trailing
			// separator in the key keeps "a.txt" from matching "a.txt2"
			scanPrefix = namePrefix + filter.Filename + "/"
		}

		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(scanPrefix)})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			filename, id, ok := splitNameKey(it.Item().Key())
			if !ok {
				continue
			}
			if filter.Filename != "" && filename != filter.Filename {
				continue
			}
			// The key separator means the raw key scan over "n:dir/" also
			// visits an object named exactly "dir"; re-check the filename
			if filter.Prefix != "" && !strings.HasPrefix(filename, filter.Prefix) {
				continue
			}

			obj, err := getRecord(txn, id)
			if err != nil {
				if errors.Is(err, blob.ErrObjectNotFound) {
					// Dangling index entry, skip
					continue
				}
				return err
			}

			objects = append(objects, obj)
			if firstOnly {
				return nil
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return objects, nil
}

func getRecord(txn *badger.Txn, id blob.ObjectID) (*blob.Object, error) {
	item, err := txn.Get(keyRecord(id))
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("object %s: %w", id, blob.ErrObjectNotFound)
	}
	if err != nil {
		return nil, err
	}

	var obj *blob.Object
	err = item.Value(func(val []byte) error {
		obj, err = decodeRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	return obj, nil
}

// StoreBytes persists data and its record in a single transaction.
func (s *BadgerStore) StoreBytes(ctx context.Context, filename string, data []byte, metadata map[string]string) (blob.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := blob.ObjectID(uuid.NewString())

	obj := &blob.Object{
		ID:         id,
		Filename:   filename,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Metadata:   metadata,
	}

	recordBytes, err := encodeRecord(obj)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyRecord(id), recordBytes); err != nil {
			return err
		}
		if err := txn.Set(keyContent(id), data); err != nil {
			return err
		}
		return txn.Set(keyName(filename, id), nil)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %q: %w", filename, err)
	}

	return id, nil
}

// StoreStream drains the reader and stores the result. BadgerDB values are
// written whole per transaction, so the content is buffered first.
func (s *BadgerStore) StoreStream(ctx context.Context, filename string, r io.Reader, metadata map[string]string) (blob.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content stream: %w", err)
	}

	return s.StoreBytes(ctx, filename, data, metadata)
}

// OpenObject returns a reader over a copy of the content bytes.
func (s *BadgerStore) OpenObject(ctx context.Context, id blob.ObjectID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyContent(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("object %s: %w", id, blob.ErrObjectNotFound)
		}
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// DeleteObject removes the record, content, and filename index entry.
func (s *BadgerStore) DeleteObject(ctx context.Context, id blob.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		obj, err := getRecord(txn, id)
		if err != nil {
			return err
		}

		if err := txn.Delete(keyRecord(id)); err != nil {
			return err
		}
		if err := txn.Delete(keyContent(id)); err != nil {
			return err
		}
		return txn.Delete(keyName(obj.Filename, id))
	})
}

// RemoveByPrefix bulk-removes every object whose filename begins with prefix
// in one transaction: a range scan over the filename index collects the ids,
// then all keys are deleted together.
func (s *BadgerStore) RemoveByPrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		type victim struct {
			filename string
			id       blob.ObjectID
		}
		var victims []victim

		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(namePrefix + prefix)})
		for it.Rewind(); it.Valid(); it.Next() {
			filename, id, ok := splitNameKey(it.Item().Key())
			if !ok || !strings.HasPrefix(filename, prefix) {
				continue
			}
			victims = append(victims, victim{filename: filename, id: id})
		}
		it.Close()

		for _, v := range victims {
			if err := txn.Delete(keyRecord(v.id)); err != nil {
				return err
			}
			if err := txn.Delete(keyContent(v.id)); err != nil {
				return err
			}
			if err := txn.Delete(keyName(v.filename, v.id)); err != nil {
				return err
			}
		}

		return nil
	})
}

// ListIndexes returns the persisted index catalogue, sorted by name.
func (s *BadgerStore) ListIndexes(ctx context.Context) ([]blob.IndexInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var infos []blob.IndexInfo

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(indexPrefix)})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var spec blob.IndexSpec
				if err := json.Unmarshal(val, &spec); err != nil {
					return fmt.Errorf("failed to decode index spec: %w", err)
				}
				infos = append(infos, blob.IndexInfo{
					Name:      spec.Name,
					Field:     spec.Field,
					Ascending: spec.Ascending,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos, nil
}

// Close closes the BadgerDB database, flushing pending writes to disk.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close BadgerDB: %w", err)
	}

	return nil
}

// ============================================================================
// IndexCreator Implementation
// ============================================================================

// CreateIndex persists the spec in the catalogue. Badger transactions make
// redundant concurrent creation converge on a single entry.
func (s *BadgerStore) CreateIndex(ctx context.Context, spec blob.IndexSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	specBytes, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keyIndex(spec.Name))
		if err == nil {
			return nil // already declared
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(keyIndex(spec.Name), specBytes)
	})
}
