package matching

import (
	"regexp"
	"strconv"
	"strings"
)

// Template returns a predicate pattern for path templates.
// Supports:
//   - Named params: "/api/todos/{id}" matches "/api/todos/123"
//   - Trailing wildcard: "/api/todos/*" matches "/api/todos/123" and "/api/todos"
//   - Inline wildcard: "/api/*/items" matches "/api/todos/items"
//
// Use PathVars to extract the captured values inside a handler.
func Template(template string) Pattern {
	p := Predicate(func(path string) bool {
		return matchTemplate(template, path)
	})
	p.desc = "template:" + template
	return p
}

func matchTemplate(template, path string) bool {
	if template == path {
		return true
	}

	if strings.Contains(template, "{") && strings.Contains(template, "}") {
		if matchNamedParams(template, path) {
			return true
		}
	}

	if strings.HasSuffix(template, "/*") {
		prefix := strings.TrimSuffix(template, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.Contains(template, "*") {
		return matchWildcard(template, path)
	}

	return false
}

// matchNamedParams checks if path matches a template with named parameters.
// Example: "/users/{id}" matches "/users/123"
func matchNamedParams(template, path string) bool {
	templateParts := strings.Split(strings.Trim(template, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(templateParts) != len(pathParts) {
		return false
	}

	for i, part := range templateParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}

	return true
}

// matchWildcard performs simple wildcard matching.
// * matches any sequence of characters.
func matchWildcard(template, path string) bool {
	parts := strings.Split(template, "*")
	if len(parts) == 1 {
		return template == path
	}

	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}

		// First part must be a prefix
		if i == 0 {
			if !strings.HasPrefix(path, part) {
				return false
			}
			pos = len(part)
			continue
		}

		idx := strings.Index(path[pos:], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}

	// A template ending in a literal must consume the whole path.
	if last := parts[len(parts)-1]; last != "" && !strings.HasSuffix(path, last) {
		return false
	}

	return true
}

// PathVars extracts variables from a path template.
// Examples:
//   - template "/users/{id}" with path "/users/123" returns {"id": "123"}
//   - template "/api/users/*" with path "/api/users/456" returns {"0": "456"}
//   - template "/api/*/items/*" with path "/api/users/items/789" returns {"0": "users", "1": "789"}
func PathVars(template, path string) map[string]string {
	result := make(map[string]string)

	templateParts := strings.Split(strings.Trim(template, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	wildcardIndex := 0

	for i, part := range templateParts {
		if i >= len(pathParts) {
			break
		}

		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			result[part[1:len(part)-1]] = pathParts[i]
			continue
		}

		if part == "*" {
			// A trailing wildcard captures the rest of the path
			if i == len(templateParts)-1 {
				result[strconv.Itoa(wildcardIndex)] = strings.Join(pathParts[i:], "/")
			} else {
				result[strconv.Itoa(wildcardIndex)] = pathParts[i]
			}
			wildcardIndex++
		}
	}

	return result
}

// RegexpCaptures returns the named capture groups of re applied to path,
// or nil when the expression does not match.
func RegexpCaptures(re *regexp.Regexp, path string) map[string]string {
	match := re.FindStringSubmatch(path)
	if match == nil {
		return nil
	}
	captures := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" && i < len(match) {
			captures[name] = match[i]
		}
	}
	return captures
}
