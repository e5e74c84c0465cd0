package fs

import "github.com/gridmount/gridmount/pkg/blob"

// Entry types reported in FileRecord.Type.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// FileRecord is the normalized, path-oriented view of a stored object.
// It is never persisted; every read reconstructs it from the store's record.
type FileRecord struct {
	// Path is the object's location with leading and trailing slashes trimmed.
	Path string

	// Type is TypeFile for stored objects, TypeDir for synthesized
	// directory entries.
	Type string

	// Size is the content length in bytes as reported by the store.
	Size int64

	// Timestamp is the store-assigned upload time in seconds since epoch.
	Timestamp int64

	// Dirname is the parent directory of Path, "" for top-level entries.
	Dirname string

	// Mimetype is the stored content type. Empty means no mimetype was
	// recorded with the object.
	Mimetype string
}

// newFileRecord normalizes a stored object into a FileRecord.
//
// pathOverride, when non-empty, replaces the object's own filename as the
// record's path. Write paths pass the caller's path here so normalization
// stays correct even if the store's filename field diverges; listing passes
// "" to take each object's filename as-is.
func newFileRecord(obj *blob.Object, pathOverride string) FileRecord {
	path := pathOverride
	if path == "" {
		path = obj.Filename
	}
	path = normalizePath(path)

	return FileRecord{
		Path:      path,
		Type:      TypeFile,
		Size:      obj.Size,
		Timestamp: obj.UploadedAt.Unix(),
		Dirname:   dirOf(path),
		Mimetype:  obj.Metadata["mimetype"],
	}
}

// newDirRecord synthesizes a directory entry for a path no object backs.
func newDirRecord(path string) FileRecord {
	path = normalizePath(path)

	return FileRecord{
		Path:    path,
		Type:    TypeDir,
		Dirname: dirOf(path),
	}
}
