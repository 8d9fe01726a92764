package matching

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Expr returns a predicate pattern that evaluates a boolean expr-lang
// expression with the request path bound to `path`.
//
//	path startsWith "/api/" && len(path) < 64
//	path matches "^/v[0-9]+/"
//
// The expression is compiled once. An evaluation error counts as no match.
func Expr(source string) (Pattern, error) {
	program, err := expr.Compile(source, expr.Env(map[string]any{"path": ""}), expr.AsBool())
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid path expression %q: %w", source, err)
	}
	p := Predicate(func(path string) bool {
		out, err := expr.Run(program, map[string]any{"path": path})
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	})
	p.desc = "expr:" + source
	return p, nil
}
