package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getmockd/devhttp/pkg/chain"
	"github.com/getmockd/devhttp/pkg/httputil"
	"github.com/getmockd/devhttp/pkg/store"
	"github.com/getmockd/devhttp/pkg/store/file"
)

// DoneBody is the body of a successful JSON mutation.
const DoneBody = "done"

// errNotObject is returned for request bodies that are not a JSON object.
var errNotObject = errors.New("request body must be a JSON object")

type jsonMapping struct {
	prefix   string
	readOnly bool
	db       *file.Store
	metrics  *store.MetricsObserver
}

// key is the request path after the prefix with every "/" removed.
func (m *jsonMapping) key(req *chain.Request) string {
	return strings.ReplaceAll(strings.TrimPrefix(req.Path, m.prefix), "/", "")
}

// SetJSON maps the JSON array in path to CRUD verbs below prefix, keyed by
// lookupField. GET reads a record or, without a key, the whole collection.
// Unless readOnly, POST inserts, PUT updates and DELETE removes. Extra
// options are passed to the store.
func (s *Server) SetJSON(prefix, path, lookupField string, readOnly bool, opts ...file.Option) error {
	metrics := store.NewMetricsObserver()
	var observer store.Observer = metrics
	if s.observerFactory != nil {
		if extra := s.observerFactory(prefix); extra != nil {
			observer = store.MultiObserver{metrics, extra}
		}
	}

	base := []file.Option{
		file.WithLogger(s.log),
		file.WithObserver(observer),
		file.WithName(prefix),
	}
	db, err := file.New(path, lookupField, append(base, opts...)...)
	if err != nil {
		return fmt.Errorf("json mapping %s: %w", prefix, err)
	}
	if err := db.Open(context.Background()); err != nil {
		return fmt.Errorf("json mapping %s: %w", prefix, err)
	}

	m := &jsonMapping{prefix: prefix, readOnly: readOnly, db: db, metrics: metrics}
	s.mu.Lock()
	s.mappings = append(s.mappings, m)
	s.mu.Unlock()

	pattern := Prefix(prefix)
	s.OnGet(pattern, s.jsonGet(m))
	if !readOnly {
		s.OnPost(pattern, s.jsonWrite(m, db.Insert))
		s.OnPut(pattern, s.jsonWrite(m, db.Update))
		s.OnDelete(pattern, s.jsonDelete(m))
	}

	s.log.Debug("json mapping registered", "prefix", prefix, "file", db.Path(), "lookup", lookupField, "readOnly", readOnly)
	return nil
}

func (s *Server) jsonGet(m *jsonMapping) chain.Handler {
	return func(res *chain.Response, req *chain.Request) {
		result, err := m.db.Get(m.key(req))
		if err != nil {
			s.fail(res, req)
			return
		}
		httputil.WriteJSON(res, http.StatusOK, result)
	}
}

func (s *Server) jsonWrite(m *jsonMapping, write func(context.Context, store.Record) error) chain.Handler {
	return func(res *chain.Response, req *chain.Request) {
		rec, err := decodeRecord(req.Body)
		if err == nil {
			if key := m.key(req); key != "" {
				err = m.db.SetKey(rec, key)
			}
		}
		if err == nil {
			err = write(req.Context(), rec)
		}
		s.mutationDone(res, req, err)
	}
}

func (s *Server) jsonDelete(m *jsonMapping) chain.Handler {
	return func(res *chain.Response, req *chain.Request) {
		_, err := m.db.Remove(req.Context(), m.key(req))
		s.mutationDone(res, req, err)
	}
}

func (s *Server) mutationDone(res *chain.Response, req *chain.Request, err error) {
	if err != nil {
		s.log.Warn("json mutation failed", "id", req.ID, "method", req.Method, "path", req.Path, "error", err)
		httputil.InternalError(res, err)
		return
	}
	httputil.WriteText(res, http.StatusOK, DoneBody)
}

func decodeRecord(body []byte) (store.Record, error) {
	var rec store.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if rec == nil {
		return nil, errNotObject
	}
	return rec, nil
}
