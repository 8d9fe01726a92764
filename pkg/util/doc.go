// Package util provides shared helpers for path containment and log-body
// truncation used across devhttp packages.
//
//   - ResolveUnder rejects request paths that escape a served folder
//   - TruncateBody caps request/response bodies for safe logging
package util
