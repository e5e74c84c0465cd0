// Package s3 implements an S3-backed blob store for gridmount.
//
// Objects are laid out across two key spaces inside the bucket:
//
//	objects/<id>              content bytes + user metadata (incl. filename)
//	names/<filename>/<id>     zero-byte pointer keys
//
// The pointer keys make filename lookups and prefix queries native
// ListObjectsV2 prefix scans, so no server-side filtering or regular
// expressions are needed. The object id rides at the end of the pointer key;
// since ids are UUIDs, the last "/" always separates id from filename.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/gridmount/gridmount/pkg/blob"
)

const (
	objectKeyspace = "objects/"
	nameKeyspace   = "names/"

	// filenameMetaKey is the S3 user-metadata key carrying the object's
	// filename; adapter-level metadata entries are stored as-is beside it.
	filenameMetaKey = "gridmount-filename"
)

// S3Store implements blob.Store using Amazon S3 or S3-compatible storage.
//
// S3 Characteristics:
//   - No secondary index support: the store does NOT implement
//     blob.IndexCreator, and ListIndexes always returns an empty catalogue.
//     Callers that manage indexes are expected to tolerate this.
//   - Prefix listing is native, so filename queries cost one LIST plus one
//     HEAD per match.
//   - Eventual consistency applies to overwrites and deletes depending on
//     the backend.
//
// Thread Safety:
// The AWS SDK client is safe for concurrent use; the store adds no state
// beyond it.
type S3Store struct {
	client    *awss3.Client
	bucket    string
	keyPrefix string // optional prefix for all keys
}

// S3StoreConfig contains configuration for the S3 blob store.
type S3StoreConfig struct {
	// Client is the configured S3 client
	Client *awss3.Client

	// Bucket is the S3 bucket name. Must already exist.
	Bucket string

	// KeyPrefix is an optional prefix for all object keys.
	// Example: "gridmount/" results in keys like "gridmount/objects/abc123".
	KeyPrefix string
}

// NewS3Store creates a new S3-backed blob store.
//
// The bucket must already exist; this constructor verifies access with a
// HeadBucket call so misconfiguration fails at startup rather than on the
// first write.
func NewS3Store(ctx context.Context, cfg S3StoreConfig) (*S3Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, "/") {
		keyPrefix += "/"
	}

	store := &S3Store{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		keyPrefix: keyPrefix,
	}

	_, err := cfg.Client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return store, nil
}

func (s *S3Store) objectKey(id blob.ObjectID) string {
	return s.keyPrefix + objectKeyspace + string(id)
}

func (s *S3Store) nameKey(filename string, id blob.ObjectID) string {
	return s.keyPrefix + nameKeyspace + filename + "/" + string(id)
}

// splitNameKey recovers (filename, id) from a pointer key.
func (s *S3Store) splitNameKey(key string) (filename string, id blob.ObjectID, ok bool) {
	prefix := s.keyPrefix + nameKeyspace
	if !strings.HasPrefix(key, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(key, prefix)

	i := strings.LastIndex(rest, "/")
	if i < 0 {
		return "", "", false
	}
	return rest[:i], blob.ObjectID(rest[i+1:]), true
}

// ============================================================================
// Store Interface Implementation
// ============================================================================

// FindOne returns the first object matching the filter. Pointer keys list in
// lexicographic order, so among objects sharing a filename the smallest id
// wins deterministically.
func (s *S3Store) FindOne(ctx context.Context, filter blob.Filter) (*blob.Object, error) {
	if filter.ID != "" {
		return s.headObject(ctx, filter.ID)
	}

	ids, err := s.scanNames(ctx, filter, true)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("filter %+v: %w", filter, blob.ErrObjectNotFound)
	}

	return s.headObject(ctx, ids[0])
}

// Find returns all objects matching the filter, one HEAD request per match.
func (s *S3Store) Find(ctx context.Context, filter blob.Filter) ([]*blob.Object, error) {
	if filter.ID != "" {
		obj, err := s.headObject(ctx, filter.ID)
		if err != nil {
			if errors.Is(err, blob.ErrObjectNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []*blob.Object{obj}, nil
	}

	ids, err := s.scanNames(ctx, filter, false)
	if err != nil {
		return nil, err
	}

	objects := make([]*blob.Object, 0, len(ids))
	for _, id := range ids {
		obj, err := s.headObject(ctx, id)
		if err != nil {
			if errors.Is(err, blob.ErrObjectNotFound) {
				// Pointer without object: a write or delete raced us
				continue
			}
			return nil, err
		}
		objects = append(objects, obj)
	}

	return objects, nil
}

// scanNames lists pointer keys matching the filter and returns their ids.
func (s *S3Store) scanNames(ctx context.Context, filter blob.Filter, firstOnly bool) ([]blob.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// An exact filename narrows the LIST with a trailing separator so
	// "a.txt" never matches "a.txt2"; a prefix filter lists as-is and the
	// parsed filename is re-checked below.
	listPrefix := s.keyPrefix + nameKeyspace + filter.Prefix
	if filter.Filename != "" {
		listPrefix = s.keyPrefix + nameKeyspace + filter.Filename + "/"
	}

	var ids []blob.ObjectID

	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, item := range page.Contents {
			filename, id, ok := s.splitNameKey(aws.ToString(item.Key))
			if !ok {
				continue
			}
			if filter.Filename != "" && filename != filter.Filename {
				continue
			}
			if filter.Prefix != "" && !strings.HasPrefix(filename, filter.Prefix) {
				continue
			}

			ids = append(ids, id)
			if firstOnly {
				return ids, nil
			}
		}
	}

	return ids, nil
}

// headObject builds an Object record from a HEAD request.
func (s *S3Store) headObject(ctx context.Context, id blob.ObjectID) (*blob.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	head, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("object %s: %w", id, blob.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to head object %s: %w", id, err)
	}

	obj := &blob.Object{
		ID:       id,
		Filename: head.Metadata[filenameMetaKey],
		Size:     aws.ToInt64(head.ContentLength),
	}
	if head.LastModified != nil {
		obj.UploadedAt = *head.LastModified
	}

	for k, v := range head.Metadata {
		if k == filenameMetaKey {
			continue
		}
		if obj.Metadata == nil {
			obj.Metadata = make(map[string]string)
		}
		obj.Metadata[k] = v
	}

	return obj, nil
}

// StoreBytes uploads the content object, then its pointer key. A failure
// between the two leaves an unpointed object behind; the store makes no
// cleanup promises beyond reporting the error.
func (s *S3Store) StoreBytes(ctx context.Context, filename string, data []byte, metadata map[string]string) (blob.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := blob.ObjectID(uuid.NewString())

	userMeta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		userMeta[k] = v
	}
	userMeta[filenameMetaKey] = filename

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.objectKey(id)),
		Body:     bytes.NewReader(data),
		Metadata: userMeta,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %q: %w", filename, err)
	}

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.nameKey(filename, id)),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store name pointer for %q: %w", filename, err)
	}

	return id, nil
}

// StoreStream buffers the reader and delegates to StoreBytes. PutObject
// needs a known content length, so unbounded streams cannot be passed
// through directly.
//
// TODO: use multipart upload to stream large payloads without buffering.
func (s *S3Store) StoreStream(ctx context.Context, filename string, r io.Reader, metadata map[string]string) (blob.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content stream: %w", err)
	}

	return s.StoreBytes(ctx, filename, data, metadata)
}

// OpenObject streams the content directly from the GetObject response body.
func (s *S3Store) OpenObject(ctx context.Context, id blob.ObjectID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("object %s: %w", id, blob.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get object %s: %w", id, err)
	}

	return out.Body, nil
}

// DeleteObject removes the content object and its pointer key.
func (s *S3Store) DeleteObject(ctx context.Context, id blob.ObjectID) error {
	// HEAD first: we need the filename to locate the pointer key, and it
	// gives delete-of-missing the not-found semantics the contract requires
	// (S3's own DeleteObject succeeds on missing keys).
	obj, err := s.headObject(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: []types.ObjectIdentifier{
				{Key: aws.String(s.objectKey(id))},
				{Key: aws.String(s.nameKey(obj.Filename, id))},
			},
			Quiet: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", id, err)
	}

	return nil
}

// RemoveByPrefix lists all pointer keys under the prefix and batch-deletes
// pointers and objects together, 1000 keys per request (the S3 limit).
func (s *S3Store) RemoveByPrefix(ctx context.Context, prefix string) error {
	ids, err := s.scanNames(ctx, blob.Filter{Prefix: prefix}, false)
	if err != nil {
		return err
	}

	var keys []types.ObjectIdentifier
	for _, id := range ids {
		obj, err := s.headObject(ctx, id)
		if err != nil {
			if errors.Is(err, blob.ErrObjectNotFound) {
				continue
			}
			return err
		}
		keys = append(keys,
			types.ObjectIdentifier{Key: aws.String(s.objectKey(id))},
			types.ObjectIdentifier{Key: aws.String(s.nameKey(obj.Filename, id))},
		)
	}

	const batchSize = 1000
	for start := 0; start < len(keys); start += batchSize {
		end := start + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		_, err := s.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: keys[start:end],
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to bulk delete prefix %q: %w", prefix, err)
		}
	}

	return nil
}

// ListIndexes returns an empty catalogue: S3 maintains no secondary indexes
// and the store does not implement blob.IndexCreator.
func (s *S3Store) ListIndexes(ctx context.Context) ([]blob.IndexInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return nil, nil
}

// Close is a no-op; the AWS SDK client holds no resources needing release.
func (s *S3Store) Close() error {
	return nil
}

// isNotFound reports whether an S3 error means the key does not exist.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
