// Package cache provides the caching layer for pipeline artifacts.
//
// Three backends are available:
//   - FileCache: file-based, for CLI usage (XDG cache directory)
//   - RedisCache: shared cache for server deployments
//   - NullCache: disables caching
//
// Keys are produced by a Keyer so every stage (measurements, grids, rendered
// artifacts) has a stable, content-addressed key scheme. Values are opaque
// byte slices; callers serialize before storing.
package cache

import (
	"context"
	"errors"
	"time"
)

// TTLs per artifact class. Measurements are cheap to recompute, so they
// expire first; rendered artifacts are the most expensive and keep longest.
const (
	TTLMeasurements = 6 * time.Hour
	TTLGrid         = 24 * time.Hour
	TTLArtifact     = 7 * 24 * time.Hour
)

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned by helpers that treat a miss as an error.
	ErrCacheMiss = errors.New("cache miss")
)

// Cache is the backend interface. Get reports a miss via its second return
// value rather than an error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
