package driven

import (
	"context"
	"time"
)

// KVStore is an expiring key-value store used as short-lived scratch
// storage for authorization state and credential handoff. It is the only
// shared mutable resource in the system: the authorize and callback steps
// run in different request contexts (possibly different processes), so
// every flow round-trips through it rather than process memory.
//
// Implementations must provide atomic per-key put/get/delete with TTL.
// No cross-key transactions are required.
type KVStore interface {
	// Set stores value under key, replacing any existing entry, with the
	// given time-to-live.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get retrieves the value for key.
	// Returns domain.ErrNotFound if the entry is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the entry for key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
