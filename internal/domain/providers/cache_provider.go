package providers

import (
	"context"
)

// CacheProvider is the byte-oriented store backing the resolution cache.
// Entries expire after the given TTL; expiry may be lazy.
type CacheProvider interface {
	// Get retrieves a value. A missing or expired key is an error.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an expiration in seconds.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error
}
