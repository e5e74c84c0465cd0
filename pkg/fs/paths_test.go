package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"file.txt", "file.txt"},
		{"/file.txt", "file.txt"},
		{"file.txt/", "file.txt"},
		{"//a///b//", "a/b"},
		{"./a/./b", "a/b"},
		{"a/b/c", "a/b/c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePath(tt.in), "normalizePath(%q)", tt.in)
	}
}

func TestDirOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"file.txt", ""},
		{"a/file.txt", "a"},
		{"a/b/file.txt", "a/b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, dirOf(tt.in), "dirOf(%q)", tt.in)
	}
}

func TestDirPrefix(t *testing.T) {
	assert.Equal(t, "", dirPrefix(""))
	assert.Equal(t, "a/", dirPrefix("a"))
	assert.Equal(t, "a/b/", dirPrefix("a/b"))
}

func TestEmulateDirectories(t *testing.T) {
	records := []FileRecord{
		{Path: "docs/a.md", Type: TypeFile},
		{Path: "docs/sub/b.md", Type: TypeFile},
		{Path: "docs/sub/c.md", Type: TypeFile},
		{Path: "other/d.md", Type: TypeFile},
	}

	out := emulateDirectories("docs", records)

	// One direct file, one directory for the two nested objects; the
	// out-of-prefix record is dropped.
	assert.Equal(t, []FileRecord{
		{Path: "docs/a.md", Type: TypeFile},
		{Path: "docs/sub", Type: TypeDir, Dirname: "docs"},
	}, out)
}
