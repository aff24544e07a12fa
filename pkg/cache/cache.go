package cache

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// DefaultTTL is the expiry applied to query results at write time.
// There is no refresh-on-read.
const DefaultTTL = 5 * time.Minute

// Cache is a keyed store of serialized query results. Implementations must
// degrade gracefully: a failing cache costs latency, never correctness.
type Cache interface {
	// Get returns the value stored under key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores val under key with the given expiry.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error

	// Del removes the given keys. Absent keys are not an error.
	Del(ctx context.Context, keys ...string) error

	// DelPattern removes every key matching a glob pattern. Used for
	// list-style namespaces whose keys cannot be enumerated from the
	// mutated entity alone.
	DelPattern(ctx context.Context, pattern string) error

	io.Closer
}
