package matching

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob returns a predicate pattern matching paths against a doublestar glob.
// Supports:
//   - "*" within one segment: "/api/*/items"
//   - "**" across segments: "/assets/**"
//   - alternatives and classes: "/img/*.{png,jpg}", "/v[12]/*"
func Glob(glob string) (Pattern, error) {
	if !doublestar.ValidatePattern(glob) {
		return Pattern{}, fmt.Errorf("invalid path glob %q", glob)
	}
	p := Predicate(func(path string) bool {
		// Match only fails on a bad pattern, which was ruled out above.
		ok, _ := doublestar.Match(glob, path)
		return ok
	})
	p.desc = "glob:" + glob
	return p, nil
}
