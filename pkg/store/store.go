// Package store defines the record store behind devhttp's JSON CRUD
// mappings: the RecordStore contract, its sentinel errors and the Observer
// hooks used for stats.
//
// A record store holds one flat collection of JSON objects. One field of each
// object, the lookup field, is the record's key; at most one record carries
// a given key value. The file subpackage implements RecordStore on top of a
// single JSON file holding a top-level array.
package store

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrMissingKey    = errors.New("missing lookup key")
	ErrInvalidRecord = errors.New("invalid record")
	ErrReadOnly      = errors.New("store is read-only")
	ErrClosed        = errors.New("store is closed")
)

// Record is one JSON object of a collection.
type Record = map[string]any

// State is the load state of a store.
type State int

const (
	// StateLoading means no successful read has happened yet; the store
	// serves an empty collection.
	StateLoading State = iota
	// StateReady means the collection reflects the last good read or write.
	StateReady
	// StateClosed means Close was called.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// RecordStore is a keyed collection of records.
//
// Reads are served from memory. Mutations persist the whole collection
// before they return; on a failed write the in-memory collection is left
// unchanged.
type RecordStore interface {
	// Get returns the whole collection ([]Record) when key is empty,
	// otherwise the first record whose lookup value equals key.
	Get(key string) (any, error)

	// All returns a copy of the collection.
	All() []Record

	// Find returns the first record whose lookup value equals key.
	Find(key string) (Record, error)

	// Insert appends rec. The lookup value must be present and unused.
	Insert(ctx context.Context, rec Record) error

	// Update replaces the record sharing rec's lookup value.
	Update(ctx context.Context, rec Record) error

	// Remove deletes every record whose lookup value equals key and returns
	// how many were removed.
	Remove(ctx context.Context, key string) (int, error)

	// LookupField returns the name of the key field.
	LookupField() string

	// State returns the current load state.
	State() State

	// Close stops watching the backing storage.
	Close() error
}
