package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getmockd/devhttp/internal/id"
	"github.com/getmockd/devhttp/pkg/chain"
	"github.com/getmockd/devhttp/pkg/httputil"
	"github.com/getmockd/devhttp/pkg/router"
	"github.com/getmockd/devhttp/pkg/util"
)

// HeaderRequestID carries the request id. An incoming value is kept when it
// is printable; otherwise a new id is generated.
const HeaderRequestID = "X-Request-Id"

// ServeHTTP dispatches one request: it builds the chain of before filters,
// the resolved handler and after filters, reads the body for POST and PUT,
// runs the chain and waits until the response is ended.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stopping := s.stoppingCh()

	path := r.URL.Path
	method := strings.ToUpper(r.Method)
	reqID := id.Request(r.Header.Get(HeaderRequestID))
	w.Header().Set(HeaderRequestID, reqID)

	req := chain.NewRequest(r)
	req.ID = reqID
	req.Method = method
	res := chain.NewResponse(w)

	c := chain.New()
	c.AddAll(s.registry.ResolveFilters(path, router.Before))
	c.Add(chain.Decorate(s.registry.ResolveHandler(path, method)))
	c.AddAll(s.registry.ResolveFilters(path, router.After))

	log := s.log.With("id", reqID, "method", method, "path", path)

	if method == http.MethodPost || method == http.MethodPut {
		body, err := s.readBody(w, r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httputil.WriteText(res, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body too large: max %d bytes allowed", tooLarge.Limit))
			} else {
				httputil.WriteText(res, http.StatusBadRequest, "failed to read request body")
			}
			log.Debug("request body rejected", "error", err)
			return
		}
		req.Body = body
		// Malformed pairs are skipped; the raw body stays available.
		req.Params, _ = url.ParseQuery(string(body))
		log.Debug("request body", "body", util.TruncateBody(body, 0))
	} else {
		req.Params = r.URL.Query()
	}

	c.Next(res, req)

	select {
	case <-res.Done():
	case <-r.Context().Done():
		res.Detach()
		log.Debug("client went away before the response ended", "pending", c.Len())
	case <-stopping:
		res.Detach()
		log.Debug("server stopping with the response pending", "pending", c.Len())
	}

	log.Debug("request completed",
		"status", res.Status(),
		"bytes", res.Written(),
		"duration", time.Since(start))
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body := r.Body
	if s.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	}
	return io.ReadAll(body)
}
