package badger

import "github.com/gridmount/gridmount/pkg/blob"

// Database Key Namespace Design
// ==============================
//
// BadgerDB is a key-value store, so we use prefixed keys to organize the
// different data types into logical namespaces. This design:
//   - Prevents key collisions between data types
//   - Enables efficient range scans (filename prefix queries)
//   - Makes the database structure self-documenting
//
// Key Namespace Prefixes:
//
// Data Type         Prefix   Key Format                Value Type
// =========================================================================
// Object Record     "r:"     r:<uuid>                  objectRecord (JSON)
// Object Content    "b:"     b:<uuid>                  raw bytes
// Filename Index    "n:"     n:<filename>/<uuid>       empty
// Index Catalogue   "x:"     x:<indexName>             blob.IndexSpec (JSON)
//
// Key Design Rationale:
//
// 1. Object Records (r:)
//    - One entry per object, complete record as JSON
//    - UUID v4 ids, so no collisions; point lookup O(1)
//
// 2. Object Content (b:)
//    - Raw content bytes, separate from the record so metadata reads do not
//      drag the content through the value log
//
// 3. Filename Index (n:)
//    - Denormalized: one entry per object, keyed by filename then id
//    - Filename lookups and prefix queries are range scans over "n:<prefix>"
//    - The id rides in the key because filenames are not unique; the last
//      "/" separates it from the filename
//
// 4. Index Catalogue (x:)
//    - One entry per declared index; what ListIndexes reports
//    - The filename index above is maintained unconditionally, so catalogue
//      entries are declarative, matching the store contract

const (
	recordPrefix  = "r:"
	contentPrefix = "b:"
	namePrefix    = "n:"
	indexPrefix   = "x:"
)

func keyRecord(id blob.ObjectID) []byte {
	return []byte(recordPrefix + string(id))
}

func keyContent(id blob.ObjectID) []byte {
	return []byte(contentPrefix + string(id))
}

func keyName(filename string, id blob.ObjectID) []byte {
	return []byte(namePrefix + filename + "/" + string(id))
}

func keyIndex(name string) []byte {
	return []byte(indexPrefix + name)
}

// splitNameKey recovers (filename, id) from a filename-index key. The id is
// everything after the last "/", which is safe because UUIDs contain none.
func splitNameKey(key []byte) (filename string, id blob.ObjectID, ok bool) {
	s := string(key)
	if len(s) < len(namePrefix) || s[:len(namePrefix)] != namePrefix {
		return "", "", false
	}
	s = s[len(namePrefix):]

	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[:i], blob.ObjectID(s[i+1:]), true
		}
	}
	return "", "", false
}
