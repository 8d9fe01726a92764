package file

import (
	"log/slog"
	"time"

	"github.com/getmockd/devhttp/pkg/store"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 50 * time.Millisecond

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver sets the observer notified of every operation.
func WithObserver(o store.Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithName sets the resource name passed to the observer. Defaults to the
// backing file's base name.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// WithSchemaFile validates inserted and updated records against the JSON
// Schema (draft 2020-12) stored at path.
func WithSchemaFile(path string) Option {
	return func(s *Store) {
		s.schemaFile = path
	}
}

// WithReadOnly rejects every mutation with store.ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(s *Store) {
		s.readOnly = readOnly
	}
}

// WithDebounce sets the settle delay for file events.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithoutWatch disables reloading on file changes.
func WithoutWatch() Option {
	return func(s *Store) {
		s.noWatch = true
	}
}
