package store

import (
	"fmt"
)

// KeyError describes a rejected store operation on one key. It matches its
// sentinel through errors.Is, and the underlying cause (a schema violation
// or an I/O error) when there is one.
type KeyError struct {
	Op    string // "get", "insert", "update" or "remove"
	Field string
	Key   string
	Err   error // one of the package sentinels
	Cause error
}

func (e *KeyError) Error() string {
	switch e.Err {
	case ErrAlreadyExists:
		return fmt.Sprintf("Item with %s=%s field already exists in database", e.Field, e.Key)
	case ErrNotFound:
		if e.Op == "get" {
			return fmt.Sprintf("Item with %s=%s not found", e.Field, e.Key)
		}
		return fmt.Sprintf("Item with %s=%s field doesn't exist in database", e.Field, e.Key)
	case ErrMissingKey:
		return fmt.Sprintf("%s: record has no %s field", e.Op, e.Field)
	}
	msg := fmt.Sprintf("%s %s=%s: %v", e.Op, e.Field, e.Key, e.Err)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *KeyError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
