// Package cache stores encoded view models and source query results.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for the HTTP server, and [NullCache] when caching is disabled.
// Keys are produced by a [Keyer] so that every entry point addresses the same
// content the same way.
//
// Cache failures are never fatal: callers log them and recompute.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLViewModel = 7 * 24 * time.Hour
	TTLSource    = time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// ViewModelKey addresses a view model built from the dataset with the
	// given content hash under opts. It fails if opts cannot be encoded.
	ViewModelKey(datasetHash string, opts any) (string, error)
	// SourceKey addresses the rows returned by a source query.
	SourceKey(kind, location string) (string, error)
}

// DefaultKeyer builds namespaced, hashed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ViewModelKey(datasetHash string, opts any) (string, error) {
	return hashKey("viewmodel", datasetHash, opts)
}

func (DefaultKeyer) SourceKey(kind, location string) (string, error) {
	return hashKey("source", kind, location)
}
