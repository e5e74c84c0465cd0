package fs

import (
	"sort"
	"strings"
)

// emulateDirectories reduces a flat listing under dirname to its direct
// children. Objects nested deeper than one level are folded into a single
// synthesized directory entry per first path segment, since the store keeps
// no directory objects of its own.
//
// Records whose path falls outside dirname are dropped. The result is
// sorted by path with directories and files interleaved.
func emulateDirectories(dirname string, records []FileRecord) []FileRecord {
	prefix := dirPrefix(dirname)

	var out []FileRecord
	seenDirs := make(map[string]bool)

	for _, rec := range records {
		if len(rec.Path) <= len(prefix) || rec.Path[:len(prefix)] != prefix {
			continue
		}
		rest := rec.Path[len(prefix):]

		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			// Direct child file.
			out = append(out, rec)
			continue
		}

		// Nested object: surface its first segment as a directory once.
		dir := prefix + rest[:slash]
		if !seenDirs[dir] {
			seenDirs[dir] = true
			out = append(out, newDirRecord(dir))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}
