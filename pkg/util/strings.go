package util

import "unicode/utf8"

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// truncatedSuffix marks a body cut by TruncateBody.
const truncatedSuffix = "...(truncated)"

// TruncateBody returns body as a string of at most maxSize bytes plus a
// marker. The cut never splits a UTF-8 sequence. If maxSize <= 0,
// MaxLogBodySize is used.
func TruncateBody(body []byte, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(body) <= maxSize {
		return string(body)
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + truncatedSuffix
}
