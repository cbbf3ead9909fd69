// Package cache provides the response cache used by the HTTP layer.
// Entries are opaque serialized strings with a fixed absolute TTL.
package cache

import (
	"context"
	"time"
)

// Store is a get/set/expire key-value store. A failed Get must be treated
// as a miss by callers; a failed Set is logged and ignored.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
