// Package id provides identifier generation for devhttp.
//
// Request ids correlate the log lines of one dispatched request and are echoed
// to the client in the X-Request-Id header. They are UUID v4 values generated
// with github.com/google/uuid.
package id
