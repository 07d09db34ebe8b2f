// Package mock provides an in-memory Cache for tests.
package mock

import (
	"context"
	"sync"

	"github.com/gembakit/photopair/internal/photo"
	"github.com/gembakit/photopair/internal/store"
)

// Cache is an in-memory store.Cache with error injection.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*photo.Analysis

	// Error injection for testing failure paths.
	GetError   error
	PutError   error
	CloseError error

	GetCalls int
	PutCalls int
}

var _ store.Cache = (*Cache)(nil)

func New() *Cache {
	return &Cache{entries: make(map[string]*photo.Analysis)}
}

func (c *Cache) Get(ctx context.Context, key string) (*photo.Analysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	if c.GetError != nil {
		return nil, c.GetError
	}
	return c.entries[key], nil
}

func (c *Cache) Put(ctx context.Context, key string, analysis *photo.Analysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PutCalls++
	if c.PutError != nil {
		return c.PutError
	}
	c.entries[key] = analysis
	return nil
}

func (c *Cache) Close() error {
	return c.CloseError
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
