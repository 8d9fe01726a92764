package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileNames are the project file names Discover looks for, in order.
var DefaultFileNames = []string{"devhttp.yaml", "devhttp.yml", "devhttp.json"}

// Discover returns the first of DefaultFileNames present in dir.
func Discover(dir string) (string, error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v in %s", ErrFileNotFound, DefaultFileNames, dir)
}
