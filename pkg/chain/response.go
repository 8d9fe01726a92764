package chain

import (
	"errors"
	"net/http"
	"sync"
)

// ErrResponseEnded is returned by writes after the response was ended or
// detached from the transport.
var ErrResponseEnded = errors.New("response already ended")

// Response wraps an http.ResponseWriter with an explicit end of response.
// It implements http.ResponseWriter, so the httputil helpers write to it
// directly. All methods are safe for concurrent use.
type Response struct {
	mu          sync.Mutex
	w           http.ResponseWriter
	status      int
	wroteHeader bool
	written     int64
	ended       bool
	detached    bool
	done        chan struct{}
}

// NewResponse wraps w.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{
		w:      w,
		status: http.StatusOK,
		done:   make(chan struct{}),
	}
}

// Header returns the header map that will be sent with WriteHeader.
func (r *Response) Header() http.Header {
	return r.w.Header()
}

// WriteHeader sends the status line and headers. Only the first call has
// an effect.
func (r *Response) WriteHeader(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeHeaderLocked(status)
}

func (r *Response) writeHeaderLocked(status int) {
	if r.wroteHeader || r.ended || r.detached {
		return
	}
	r.wroteHeader = true
	r.status = status
	r.w.WriteHeader(status)
}

// WriteHead sets the given headers and sends the status line.
func (r *Response) WriteHead(status int, headers map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wroteHeader || r.ended || r.detached {
		return
	}
	h := r.w.Header()
	for k, v := range headers {
		h.Set(k, v)
	}
	r.writeHeaderLocked(status)
}

// Write sends body bytes, sending a 200 status line first if needed.
func (r *Response) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeLocked(b)
}

func (r *Response) writeLocked(b []byte) (int, error) {
	if r.ended || r.detached {
		return 0, ErrResponseEnded
	}
	r.writeHeaderLocked(http.StatusOK)
	n, err := r.w.Write(b)
	r.written += int64(n)
	return n, err
}

// End writes the optional final body and completes the response.
// Further writes fail with ErrResponseEnded. Calling End twice is a no-op.
func (r *Response) End(body ...[]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return
	}
	for _, b := range body {
		if _, err := r.writeLocked(b); err != nil {
			break
		}
	}
	r.writeHeaderLocked(http.StatusOK)
	r.ended = true
	close(r.done)
}

// Detach cuts the response off from the transport. The dispatcher calls it
// when it stops waiting for a pending chain; later writes are dropped.
func (r *Response) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detached = true
}

// Done is closed when the response has ended.
func (r *Response) Done() <-chan struct{} {
	return r.done
}

// Ended reports whether End was called.
func (r *Response) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

// Status returns the status code sent, or 200 if none was sent yet.
func (r *Response) Status() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Written returns the number of body bytes written.
func (r *Response) Written() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Flush flushes buffered data to the client if the transport supports it.
func (r *Response) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detached {
		return
	}
	if f, ok := r.w.(http.Flusher); ok {
		f.Flush()
	}
}
