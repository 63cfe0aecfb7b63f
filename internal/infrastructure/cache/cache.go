package cache

import (
	"context"
	"time"
)

// Well-known cache keys and prefixes
const (
	KeyConstants     = "storefront:constants"
	PrefixProducts   = "storefront:products:"
	PrefixCategories = "storefront:categories:"
)

// Cache is a string cache with TTL semantics. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the cached value and true when present and unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes the given keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Close releases any resources held by the cache.
	Close() error
}
