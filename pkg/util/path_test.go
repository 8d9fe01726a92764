package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveUnder(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/srv/site")

	tests := []struct {
		name     string
		rel      string
		wantPath string
		wantOK   bool
	}{
		{"simple file", "index.html", "/srv/site/index.html", true},
		{"nested file", "css/app.css", "/srv/site/css/app.css", true},
		{"leading slash stays relative", "/index.html", "/srv/site/index.html", true},
		{"empty is root", "", "/srv/site", true},
		{"dot is root", ".", "/srv/site", true},
		{"resolves inside", "a/b/../c.txt", "/srv/site/a/c.txt", true},
		{"double slash", "a//b.txt", "/srv/site/a/b.txt", true},

		{"parent", "..", "", false},
		{"traversal", "../../etc/passwd", "", false},
		{"slash traversal", "/../../etc/passwd", "", false},
		{"nested traversal", "a/../../etc/passwd", "", false},
		{"sibling with shared prefix", "../site2/secret", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ResolveUnder(root, tt.rel)
			assert.Equal(t, tt.wantOK, ok, "ResolveUnder(%q) ok", tt.rel)
			want := tt.wantPath
			if want != "" {
				want = filepath.FromSlash(want)
			}
			assert.Equal(t, want, got, "ResolveUnder(%q) path", tt.rel)
		})
	}
}

func TestResolveUnder_RootDirectory(t *testing.T) {
	t.Parallel()

	got, ok := ResolveUnder(string(filepath.Separator), "etc/hosts")
	assert.True(t, ok)
	assert.Equal(t, filepath.FromSlash("/etc/hosts"), got)
}
