package server

import (
	"regexp"

	"github.com/getmockd/devhttp/internal/matching"
)

// Pattern selects request paths for routes and filters.
type Pattern = matching.Pattern

// Exact matches one path exactly.
func Exact(path string) Pattern { return matching.Exact(path) }

// Regexp matches paths the expression finds a match in.
func Regexp(re *regexp.Regexp) Pattern { return matching.Regexp(re) }

// CompileRegexp compiles expr into a regexp pattern.
func CompileRegexp(expr string) (Pattern, error) { return matching.CompileRegexp(expr) }

// MustRegexp compiles expr and panics if it is invalid.
func MustRegexp(expr string) Pattern { return matching.MustRegexp(expr) }

// Predicate matches paths for which fn returns true.
func Predicate(fn func(path string) bool) Pattern { return matching.Predicate(fn) }

// Prefix matches paths starting with prefix.
func Prefix(prefix string) Pattern { return matching.Prefix(prefix) }

// Glob matches paths against a doublestar glob such as "/api/**/*.json".
func Glob(glob string) (Pattern, error) { return matching.Glob(glob) }

// Expr matches paths for which the boolean expression over `path` holds,
// for example `path startsWith "/api" && len(path) < 32`.
func Expr(source string) (Pattern, error) { return matching.Expr(source) }

// Template matches paths against a template with {name} segments.
func Template(template string) Pattern { return matching.Template(template) }
