// Package blob defines the opaque persistence boundary for Openlatch.
// The core persists its whole state as a single versioned blob keyed by an
// integration-scoped name; backends only move bytes and have no knowledge
// of the payload shape.
package blob

import (
	"context"
	"errors"
)

// ErrNotExist indicates no blob has ever been saved under the store's key.
// Callers initialize from empty state; it is not a failure.
var ErrNotExist = errors.New("blob does not exist")

// Store moves the state blob to and from a backend. Load and Save are the
// only suspension points in the system and honor context cancellation where
// the backend supports it.
type Store interface {
	// Load returns the stored blob, or ErrNotExist when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored blob.
	Save(ctx context.Context, payload []byte) error
}
