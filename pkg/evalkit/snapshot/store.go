// Package snapshot persists the variable bindings of evaluation contexts so
// that a host can restore them in a later process.
package snapshot

import (
	"errors"
	"time"
)

// Store persists named snapshots.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data under name, replacing any previous snapshot of that
	// name and bumping its revision.
	Save(name string, data []byte) error

	// Load retrieves a snapshot.
	// Returns ErrNotFound if the name was never saved or was deleted.
	Load(name string) ([]byte, error)

	// List returns metadata for every stored snapshot, ordered by name.
	// Returns an empty slice (not an error) if the store is empty.
	List() ([]Info, error)

	// Delete removes a snapshot.
	// Returns nil if it doesn't exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the snapshot.
type Info struct {
	Name string
	// Revision counts saves under Name, starting at 1.
	Revision  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound indicates a snapshot doesn't exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")
)
