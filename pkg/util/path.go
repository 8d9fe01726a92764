package util

import (
	"path/filepath"
	"strings"
)

// ResolveUnder joins rel onto root and reports whether the result is root
// itself or a path beneath it. root should be absolute; rel is treated as
// relative even when it starts with a separator. The joined path is
// returned cleaned.
func ResolveUnder(root, rel string) (string, bool) {
	root = filepath.Clean(root)
	joined := filepath.Join(root, rel)
	if joined == root {
		return joined, true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(joined, prefix) {
		return "", false
	}
	return joined, true
}
