// Package matching decides whether a route or filter pattern applies to a
// request path and ranks competing route patterns.
//
// A Pattern is a closed union with three cases:
//
//   - Exact: the path must equal the pattern string
//   - Regexp: the compiled expression must match the path
//   - Predicate: an arbitrary func(path string) bool must return true
//
// Prefix, Glob and Expr build the common derived forms on top of those cases.
//
// When several routes match the same request the one with the highest Weight
// wins. Exact patterns always outrank expressions and predicates; among exact
// patterns the longer string wins, among expressions the longer source wins.
// Weight constants are defined in scores.go.
package matching
