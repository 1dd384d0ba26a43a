// Package cache provides the TTL key/value store the resolver caches
// canonical records in, with in-memory and Redis backends.
package cache

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"
)

// Cache is the contract both backends satisfy. A Get hit is returned
// verbatim; the resolver never re-normalizes cached values. A TTL of zero on
// the call site disables caching entirely (the resolver simply skips the
// cache), so backends never see it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds the cache key for a resolution: capability kind, provider slug
// and a hash of the coordinate or station ID.
func Key(kind, slug, locKey string) string {
	h := fnv.New64a()
	h.Write([]byte(locKey))
	return fmt.Sprintf("geofacts:%s:%s:%x", kind, slug, h.Sum64())
}
