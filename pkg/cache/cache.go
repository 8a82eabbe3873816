// Package cache stores intermediate pipeline results.
//
// Distance tables and search results are pure functions of their inputs, so
// they are keyed by a hash of the canonical network encoding plus the options
// that influence them. Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (API server)
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are produced by a [Keyer]. [ScopedKeyer] prepends a namespace so that
// several deployments can share one Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache TTLs. Entries never go stale since their inputs are part of the
// key; the TTLs only bound disk and memory use.
const (
	TTLDistances = 30 * 24 * time.Hour
	TTLResult    = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
//
// Get reports a miss as (nil, false, nil); an error is returned only when the
// backend itself fails. A ttl of zero means no expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
// Clear returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// DistanceKey returns the key of the filtered distance table of a network.
	DistanceKey(networkHash string) string

	// ResultKey returns the key of a search result.
	ResultKey(networkHash string, opts ResultKeyOpts) string
}

// ResultKeyOpts holds the options that change a search result.
// Worker count is deliberately absent: it never changes the answer.
type ResultKeyOpts struct {
	Origin string `json:"origin"`
	Budget int    `json:"budget"`
	TopK   int    `json:"top_k"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DistanceKey returns "distances:<hash>".
func (DefaultKeyer) DistanceKey(networkHash string) string {
	return "distances:" + networkHash
}

// ResultKey returns "result:<sha256 of hash and opts>".
func (DefaultKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return hashKey("result", networkHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data. Networks are identified by the hash
// of their canonical encoding.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:" followed by the hash of the JSON encoding of
// parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// =============================================================================
// NullCache
// =============================================================================

// NullCache stores nothing. It backs --no-cache and the "none" backend.
type NullCache struct{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *NullCache) Delete(context.Context, string) error                     { return nil }
func (c *NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
