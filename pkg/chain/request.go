package chain

import (
	"context"
	"net/http"
	"net/url"
)

// Request is the dispatched view of an incoming HTTP request.
type Request struct {
	// ID correlates log lines of one request.
	ID string

	// Method is the upper-cased request method.
	Method string

	// Path is the decoded URL path without the query string.
	Path string

	// URL is the raw request URI (path and query).
	URL string

	// Params holds the query parameters for HEAD/GET/DELETE and the
	// form-decoded body for POST/PUT.
	Params url.Values

	// Body is the complete raw body of POST/PUT requests.
	Body []byte

	// HTTP is the underlying transport request.
	HTTP *http.Request
}

// NewRequest wraps r. Params and Body are filled in by the dispatcher.
func NewRequest(r *http.Request) *Request {
	return &Request{
		Method: r.Method,
		Path:   r.URL.Path,
		URL:    r.URL.RequestURI(),
		Params: url.Values{},
		HTTP:   r,
	}
}

// Context returns the transport request context.
func (r *Request) Context() context.Context {
	if r.HTTP == nil {
		return context.Background()
	}
	return r.HTTP.Context()
}

// Header returns the request headers.
func (r *Request) Header() http.Header {
	if r.HTTP == nil {
		return http.Header{}
	}
	return r.HTTP.Header
}
