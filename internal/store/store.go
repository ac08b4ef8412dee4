// Package store implements the persistence gateway: the whole state
// tree is serialized as JSON into one versioned key-value slot inside a
// local SQLite database.
package store

import (
	"context"

	"github.com/mvidal/gymbuddy/internal/state"
)

// StateKey is the durable slot name. Bumped (v1 → v2) when the blob
// schema breaks; the old slot is abandoned, not migrated.
const StateKey = "gymbuddy_state_v2"

// Store is the durable storage surface used by the core.
type Store interface {
	state.Gateway

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
