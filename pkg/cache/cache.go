// Package cache stores small, expiring blobs between featurehack runs.
//
// Its only consumer is the cargo version probe: running `cargo --version`
// means spawning rustup's proxy and often the toolchain itself, so the probed
// version is remembered per binary (keyed by path, size and modification time).
//
// Two implementations are provided:
//   - [FileCache]: JSON entries under the user's cache directory
//   - [NullCache]: never stores anything (tests, FEATUREHACK_NO_CACHE)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired and corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
