package repository

import (
	"context"
	"time"
)

// Cache stores serialized snapshots of derived read results keyed by tenant
// or project scope. Results are never keyed per actor; authorization is
// re-evaluated on every read over whatever the cache returns.
//
// The cache is an optimization only. Implementations must degrade to a miss
// or a no-op on any backend failure instead of returning an error, so a
// cache outage can slow requests down but never fail them.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
	// InvalidatePrefix removes every key sharing the prefix. Used when one
	// mutation affects an unbounded set of derived keys.
	InvalidatePrefix(ctx context.Context, prefix string)
}

// Cache key layout. Keys embed their scoping ids so invalidation can target
// an exact key, or a project-scoped prefix where the fan-out is unbounded.

func ProjectsCacheKey(workspaceID string) string {
	return "projects:workspace:" + workspaceID
}

func TasksCacheKey(projectID string) string {
	return "tasks:project:" + projectID
}

func CommentsCacheKey(projectID, taskID string) string {
	return "comments:project:" + projectID + ":task:" + taskID
}

func CommentsCachePrefix(projectID string) string {
	return "comments:project:" + projectID + ":"
}

type nopCache struct{}

// NewNopCache returns a cache that always misses. Used when Redis is not
// configured and as a default in tests.
func NewNopCache() Cache {
	return nopCache{}
}

func (nopCache) Get(context.Context, string) ([]byte, bool)       { return nil, false }
func (nopCache) Set(context.Context, string, []byte, time.Duration) {}
func (nopCache) Invalidate(context.Context, ...string)            {}
func (nopCache) InvalidatePrefix(context.Context, string)         {}
