// Package cache stores finished layouts keyed by the hash of their input.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for --no-cache
//
// [Instrument] wraps any backend so hits, misses and writes reach the
// registered observability.CacheHooks.
//
// Keys come from a [Keyer]. The default keyer hashes the input graph and
// the layout options into a fixed-size key; [NewScopedKeyer] prefixes keys
// so several deployments can share one Redis.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long layouts are kept when the caller does not say.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}
