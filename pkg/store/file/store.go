// Package file implements store.RecordStore on top of a single JSON file
// holding a top-level array of objects.
//
// Reads are served from an immutable in-memory snapshot. Every mutation
// rewrites the whole file (4-space indented, temp file plus rename) before it
// returns, and only then publishes the new snapshot. The file's directory is
// watched with fsnotify so edits made by hand are picked up without a restart.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ohler55/ojg/jp"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/singleflight"

	"github.com/getmockd/devhttp/pkg/store"
)

type snapshot struct {
	records []store.Record
}

// Store is a JSON-file-backed record store.
type Store struct {
	path     string
	field    string
	lookup   jp.Expr
	name     string
	readOnly bool
	noWatch  bool
	debounce time.Duration

	schemaFile string
	schema     *jsonschema.Schema

	log      *slog.Logger
	observer store.Observer

	snap  atomic.Pointer[snapshot]
	state atomic.Int32

	mu      sync.Mutex // serialises mutations and reloads
	reloads singleflight.Group

	watcher   *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ store.RecordStore = (*Store)(nil)

// New creates a store for the JSON file at path keyed by lookupField, which
// is either a top-level field name or a JSONPath such as "$.meta.id".
// Call Open before use.
func New(path, lookupField string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	lookup, err := compileLookup(lookupField)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:     abs,
		field:    lookupField,
		lookup:   lookup,
		name:     filepath.Base(abs),
		debounce: DefaultDebounce,
		log:      slog.Default(),
		observer: store.NoopObserver{},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("store", s.name)

	if s.schemaFile != "" {
		if s.schema, err = compileSchema(s.schemaFile); err != nil {
			return nil, err
		}
	}

	s.snap.Store(&snapshot{records: []store.Record{}})
	s.state.Store(int32(store.StateLoading))
	return s, nil
}

// Open reads the backing file and starts watching it. A missing file is not
// an error: the store stays in StateLoading with an empty collection until
// the file appears or the first mutation creates it.
func (s *Store) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	err := s.load()
	s.mu.Unlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info("backing file does not exist yet", "path", s.path)
	case err != nil:
		return err
	}

	if s.noWatch {
		return nil
	}
	return s.watch()
}

// Close stops the watcher. Safe to call multiple times.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.state.Store(int32(store.StateClosed))
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		s.wg.Wait()
	})
	return err
}

// Path returns the absolute path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// LookupField returns the lookup field as configured.
func (s *Store) LookupField() string {
	return s.field
}

// State returns the current load state.
func (s *Store) State() store.State {
	return store.State(s.state.Load())
}

// SetKey writes key into rec's lookup field, creating intermediate objects
// for nested paths.
func (s *Store) SetKey(rec store.Record, key string) error {
	if err := s.lookup.Set(rec, key); err != nil {
		return fmt.Errorf("failed to set %s: %w", s.field, err)
	}
	return nil
}

// All returns a copy of the collection.
func (s *Store) All() []store.Record {
	records := s.snap.Load().records
	out := make([]store.Record, len(records))
	for i, rec := range records {
		out[i] = cloneRecord(rec)
	}
	return out
}

// Get returns the whole collection for an empty key, otherwise the first
// record whose lookup value equals key.
func (s *Store) Get(key string) (any, error) {
	if key == "" {
		start := time.Now()
		all := s.All()
		s.observer.OnGet(s.name, key, time.Since(start))
		return all, nil
	}
	return s.Find(key)
}

// Find returns a copy of the first record whose lookup value equals key.
func (s *Store) Find(key string) (store.Record, error) {
	start := time.Now()
	for _, rec := range s.snap.Load().records {
		if k, ok := s.keyOf(rec); ok && k == key {
			s.observer.OnGet(s.name, key, time.Since(start))
			return cloneRecord(rec), nil
		}
	}
	return nil, &store.KeyError{Op: "get", Field: s.field, Key: key, Err: store.ErrNotFound}
}

// Insert appends rec and persists the collection.
func (s *Store) Insert(ctx context.Context, rec store.Record) error {
	start := time.Now()
	rec, key, err := s.prepare("insert", rec)
	if err != nil {
		return s.fail("insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(ctx, "insert", key); err != nil {
		return s.fail("insert", err)
	}

	cur := s.snap.Load().records
	if s.indexOf(cur, key) >= 0 {
		return s.fail("insert", &store.KeyError{Op: "insert", Field: s.field, Key: key, Err: store.ErrAlreadyExists})
	}

	next := make([]store.Record, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, rec)
	if err := s.commit(next); err != nil {
		return s.fail("insert", fmt.Errorf("insert %s=%s: %w", s.field, key, err))
	}

	s.observer.OnInsert(s.name, key, time.Since(start))
	return nil
}

// Update replaces the record sharing rec's lookup value and persists the
// collection.
func (s *Store) Update(ctx context.Context, rec store.Record) error {
	start := time.Now()
	rec, key, err := s.prepare("update", rec)
	if err != nil {
		return s.fail("update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(ctx, "update", key); err != nil {
		return s.fail("update", err)
	}

	cur := s.snap.Load().records
	i := s.indexOf(cur, key)
	if i < 0 {
		return s.fail("update", &store.KeyError{Op: "update", Field: s.field, Key: key, Err: store.ErrNotFound})
	}

	next := make([]store.Record, len(cur))
	copy(next, cur)
	next[i] = rec
	if err := s.commit(next); err != nil {
		return s.fail("update", fmt.Errorf("update %s=%s: %w", s.field, key, err))
	}

	s.observer.OnUpdate(s.name, key, time.Since(start))
	return nil
}

// Remove deletes every record whose lookup value equals key and returns how
// many were removed. Nothing is written when no record matches.
func (s *Store) Remove(ctx context.Context, key string) (int, error) {
	start := time.Now()
	if key == "" {
		return 0, s.fail("remove", &store.KeyError{Op: "remove", Field: s.field, Err: store.ErrMissingKey})
	}
	if s.readOnly {
		return 0, s.fail("remove", &store.KeyError{Op: "remove", Field: s.field, Key: key, Err: store.ErrReadOnly})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(ctx, "remove", key); err != nil {
		return 0, s.fail("remove", err)
	}

	cur := s.snap.Load().records
	next := make([]store.Record, 0, len(cur))
	for _, rec := range cur {
		if k, ok := s.keyOf(rec); ok && k == key {
			continue
		}
		next = append(next, rec)
	}

	removed := len(cur) - len(next)
	if removed > 0 {
		if err := s.commit(next); err != nil {
			return 0, s.fail("remove", fmt.Errorf("remove %s=%s: %w", s.field, key, err))
		}
	}

	s.observer.OnRemove(s.name, key, removed, time.Since(start))
	return removed, nil
}

// prepare normalizes rec, extracts its key and validates it.
func (s *Store) prepare(op string, rec store.Record) (store.Record, string, error) {
	if s.readOnly {
		return nil, "", &store.KeyError{Op: op, Field: s.field, Err: store.ErrReadOnly}
	}
	norm, err := normalize(rec)
	if err != nil {
		return nil, "", &store.KeyError{Op: op, Field: s.field, Err: store.ErrInvalidRecord, Cause: err}
	}
	key, ok := s.keyOf(norm)
	if !ok {
		return nil, "", &store.KeyError{Op: op, Field: s.field, Err: store.ErrMissingKey}
	}
	if s.schema != nil {
		if err := s.schema.Validate(norm); err != nil {
			return nil, "", &store.KeyError{Op: op, Field: s.field, Key: key, Err: store.ErrInvalidRecord, Cause: err}
		}
	}
	return norm, key, nil
}

func (s *Store) usable(ctx context.Context, op, key string) error {
	if s.State() == store.StateClosed {
		return &store.KeyError{Op: op, Field: s.field, Key: key, Err: store.ErrClosed}
	}
	return ctx.Err()
}

func (s *Store) indexOf(records []store.Record, key string) int {
	for i, rec := range records {
		if k, ok := s.keyOf(rec); ok && k == key {
			return i
		}
	}
	return -1
}

func (s *Store) fail(op string, err error) error {
	s.observer.OnError(s.name, op, err)
	return err
}

// commit writes records to disk and, on success, publishes them.
// Caller holds s.mu.
func (s *Store) commit(records []store.Record) error {
	if err := s.write(records); err != nil {
		return err
	}
	s.snap.Store(&snapshot{records: records})
	s.state.Store(int32(store.StateReady))
	return nil
}

func (s *Store) write(records []store.Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	// Atomic write: write to temp file, then rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// read parses the backing file. Whitespace-only content is an empty
// collection.
func (s *Store) read() ([]store.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []store.Record{}, nil
	}
	var records []store.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if records == nil {
		records = []store.Record{}
	}
	return records, nil
}

// load replaces the snapshot with the file content. Caller holds s.mu.
func (s *Store) load() error {
	start := time.Now()
	records, err := s.read()
	if err != nil {
		s.observer.OnError(s.name, "reload", err)
		return err
	}
	s.snap.Store(&snapshot{records: records})
	s.state.CompareAndSwap(int32(store.StateLoading), int32(store.StateReady))
	s.observer.OnReload(s.name, len(records), time.Since(start))
	s.log.Debug("loaded collection", "records", len(records))
	return nil
}

// Reload re-reads the backing file. Concurrent calls share one read. On
// failure the previous collection is kept.
func (s *Store) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err, _ := s.reloads.Do(s.path, func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.State() == store.StateClosed {
			return nil, store.ErrClosed
		}
		return nil, s.load()
	})
	return err
}
