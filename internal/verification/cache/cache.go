// Package cache provides a response cache for external registry lookups.
// Registry data changes slowly; a short TTL saves the bulk of repeat traffic
// during application review without risking stale decisions.
package cache

import (
	"context"
	"time"
)

// SourceCache stores serialized responses keyed by source and lookup key.
// A miss is not an error.
type SourceCache interface {
	// Get unmarshals a cached payload into out. Returns false on miss.
	Get(ctx context.Context, source, key string, out any) (bool, error)

	// Set stores a payload under source+key for the given TTL.
	Set(ctx context.Context, source, key string, value any, ttl time.Duration) error
}

func cacheKey(source, key string) string {
	return "eduvet:source:" + source + ":" + key
}
