// Package storage defines the named-record persistence abstraction.
package storage

import (
	"context"
	"fmt"
)

// Record keys used by the note store.
const (
	KeyNotes = "notes"
	KeyAuth  = "auth"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Provider stores opaque records by name. Each Put replaces the whole record.
type Provider interface {
	// Get returns the record stored under key, or an error wrapping apperr.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put atomically replaces the record stored under key.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes the record; a missing record is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the Provider for driver rooted at path.
func Open(driver, path string) (Provider, error) {
	switch driver {
	case DriverFile, "":
		return NewFS(path)
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverBadger:
		return OpenBadger(path)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
