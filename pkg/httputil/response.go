// Package httputil provides the canonical responses devhttp sends: plain-text
// 404 and 500 pages, JSON bodies and raw file content with a MIME type.
package httputil

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Content types used across devhttp.
const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// NotFoundBody is the body of the default not-found response.
const NotFoundBody = "404 Not Found"

// ender is implemented by responses with an explicit end, such as
// chain.Response. Plain ResponseWriters finish when the handler returns.
type ender interface {
	End(body ...[]byte)
}

func finish(w http.ResponseWriter) {
	if e, ok := w.(ender); ok {
		e.End()
	}
}

// WriteText writes a plain-text response and ends it.
func WriteText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", ContentTypeText)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
	finish(w)
}

// WriteJSON writes a JSON response with the given status code and ends it.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
	finish(w)
}

// WriteError writes a JSON error response with the given status code.
// The error response includes an error code and a human-readable message.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, map[string]string{
		"error":   errCode,
		"message": message,
	})
}

// WriteOK writes a 200 OK JSON response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// NotFound writes the default 404 response.
func NotFound(w http.ResponseWriter) {
	WriteText(w, http.StatusNotFound, NotFoundBody)
}

// InternalError writes a 500 response carrying the error text.
func InternalError(w http.ResponseWriter, err error) {
	WriteText(w, http.StatusInternalServerError, fmt.Sprintf("Error 500 Internal server error: %v", err))
}

// WriteContent writes a 200 response with content typed after name and ends
// it. See ContentType.
func WriteContent(w http.ResponseWriter, name string, content []byte) {
	w.Header().Set("Content-Type", ContentType(name, content))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
	finish(w)
}

// ContentType returns the MIME type for a file name or bare extension
// ("json", ".txt", "site.css"). Unknown extensions fall back to sniffing
// the content.
func ContentType(name string, content []byte) string {
	ext := filepath.Ext(name)
	if ext == "" && !strings.ContainsAny(name, "/\\") {
		ext = "." + strings.TrimPrefix(name, ".")
	}
	if ext != "" && ext != "." {
		if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
			return ct
		}
	}
	return mimetype.Detect(content).String()
}
