package ordering

import (
	"context"
	"sync"
)

// Classifier suggests an order for filenames that carry no sequence signal.
// Hints carry set context such as the set name and folder.
type Classifier interface {
	SuggestOrder(ctx context.Context, filenames []string, hints map[string]string) ([]string, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, filenames []string, hints map[string]string) ([]string, error)

// SuggestOrder calls f.
func (f ClassifierFunc) SuggestOrder(ctx context.Context, filenames []string, hints map[string]string) ([]string, error) {
	return f(ctx, filenames, hints)
}

// OrderCache memoizes validated classifier answers.
type OrderCache interface {
	GetOrder(ctx context.Context, key string) ([]string, bool, error)
	PutOrder(ctx context.Context, key string, order []string) error
}

// MemoryCache is a process-local OrderCache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]string
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]string)}
}

// GetOrder returns a copy of the cached order for key.
func (c *MemoryCache) GetOrder(_ context.Context, key string) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	order, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), order...), true, nil
}

// PutOrder stores a copy of order under key.
func (c *MemoryCache) PutOrder(_ context.Context, key string, order []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string][]string)
	}
	c.entries[key] = append([]string(nil), order...)
	return nil
}
