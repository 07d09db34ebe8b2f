// Package store caches inference results across runs so a photo is
// analyzed at most once per content identity.
package store

import (
	"context"
	"fmt"

	"github.com/gembakit/photopair/internal/photo"
)

// Cache stores analyses keyed by photo identity. Get returns (nil, nil)
// on a miss; an error means the cache itself failed.
type Cache interface {
	Get(ctx context.Context, key string) (*photo.Analysis, error)
	Put(ctx context.Context, key string, analysis *photo.Analysis) error
	Close() error
}

// Key builds the cache key for a photo. Name, size and modification
// time together identify the content; a re-edited file gets a fresh
// analysis.
func Key(name string, size, mtimeMillis int64) string {
	return fmt.Sprintf("%s|%d|%d", name, size, mtimeMillis)
}
