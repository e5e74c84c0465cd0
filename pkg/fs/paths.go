package fs

import "strings"

// normalizePath canonicalizes a caller-supplied path: slashes are trimmed
// from both ends and empty segments are collapsed, so "/a//b/" becomes
// "a/b". The empty string denotes the root.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")

	cleaned := segments[:0]
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		cleaned = append(cleaned, seg)
	}

	return strings.Join(cleaned, "/")
}

// dirOf returns the parent directory of a normalized path, "" for
// top-level entries.
func dirOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

// dirPrefix converts a normalized directory path into the filename prefix
// its members share: "photos" becomes "photos/", the root becomes "".
func dirPrefix(dirname string) string {
	if dirname == "" {
		return ""
	}
	return dirname + "/"
}
