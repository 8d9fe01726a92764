package matching

import (
	"fmt"
	"regexp"
)

// Kind identifies which representation a Pattern carries.
type Kind int

// Pattern kinds.
const (
	KindNone Kind = iota
	KindExact
	KindRegexp
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindRegexp:
		return "regexp"
	case KindPredicate:
		return "predicate"
	default:
		return "none"
	}
}

// Pattern tests request paths. Exactly one representation is active,
// selected by the constructor. The zero value matches nothing.
type Pattern struct {
	kind  Kind
	exact string
	re    *regexp.Regexp
	pred  func(path string) bool
	// desc describes predicates built from a source (glob, expr) for listings.
	desc string
}

// Exact returns a pattern that matches only the given path.
func Exact(path string) Pattern {
	return Pattern{kind: KindExact, exact: path}
}

// Regexp returns a pattern that matches paths accepted by re.
// A nil expression yields the empty pattern.
func Regexp(re *regexp.Regexp) Pattern {
	if re == nil {
		return Pattern{}
	}
	return Pattern{kind: KindRegexp, re: re}
}

// CompileRegexp compiles expr and returns it as a pattern.
func CompileRegexp(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid path regexp %q: %w", expr, err)
	}
	return Regexp(re), nil
}

// MustRegexp is like CompileRegexp but panics on an invalid expression.
func MustRegexp(expr string) Pattern {
	return Regexp(regexp.MustCompile(expr))
}

// Predicate returns a pattern that delegates the decision to fn.
// A nil function yields the empty pattern.
func Predicate(fn func(path string) bool) Pattern {
	if fn == nil {
		return Pattern{}
	}
	return Pattern{kind: KindPredicate, pred: fn}
}

// Prefix returns a regexp pattern anchored at the start of the path.
// The prefix is quoted, so it is matched literally.
func Prefix(prefix string) Pattern {
	return Regexp(regexp.MustCompile("^" + regexp.QuoteMeta(prefix)))
}

// Kind returns the active representation.
func (p Pattern) Kind() Kind {
	return p.kind
}

// Regexp returns the compiled expression of a regexp pattern, or nil.
func (p Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// IsZero reports whether p is the empty pattern.
func (p Pattern) IsZero() bool {
	return p.kind == KindNone
}

// Matches reports whether the path is handled by this pattern.
func (p Pattern) Matches(path string) bool {
	switch p.kind {
	case KindExact:
		return p.exact == path
	case KindRegexp:
		return p.re.MatchString(path)
	case KindPredicate:
		return p.pred(path)
	default:
		return false
	}
}

// Weight returns the specificity of the pattern, used to rank several
// matching routes. The highest weight wins.
func (p Pattern) Weight() int {
	switch p.kind {
	case KindExact:
		return WeightExactBase + len(p.exact)
	case KindRegexp:
		return min(WeightRegexpBase+len(p.re.String()), WeightRegexpMax)
	case KindPredicate:
		return WeightPredicate
	default:
		return WeightNone
	}
}

// String returns a human readable form of the pattern for listings and logs.
func (p Pattern) String() string {
	switch p.kind {
	case KindExact:
		return p.exact
	case KindRegexp:
		return "~" + p.re.String()
	case KindPredicate:
		if p.desc != "" {
			return p.desc
		}
		return "<predicate>"
	default:
		return "<none>"
	}
}
