// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"strings"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to ':'.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Mapping parses "prefix=target[:option]" as used by --static and --json.
// The prefix must start with '/' and target must not be empty.
func Mapping(s string) (prefix, target, option string, err error) {
	prefix, rest, ok := KeyValue(s, '=')
	if !ok {
		return "", "", "", fmt.Errorf("invalid mapping %q: want prefix=path[:option]", s)
	}
	prefix = strings.TrimSpace(prefix)
	if !strings.HasPrefix(prefix, "/") {
		return "", "", "", fmt.Errorf("invalid mapping %q: prefix must start with '/'", s)
	}

	target, option, _ = strings.Cut(rest, ":")
	target = strings.TrimSpace(target)
	if target == "" {
		return "", "", "", fmt.Errorf("invalid mapping %q: path is empty", s)
	}
	return prefix, target, strings.TrimSpace(option), nil
}
