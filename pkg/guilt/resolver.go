package guilt

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TreeResolver lists and caches the blob paths of revisions.
// Concurrent requests for the same revision share one backend call.
type TreeResolver struct {
	backend Backend
	group   singleflight.Group

	mu    sync.RWMutex
	cache map[string]Tree
}

// NewTreeResolver creates a resolver over backend.
func NewTreeResolver(backend Backend) *TreeResolver {
	return &TreeResolver{
		backend: backend,
		cache:   make(map[string]Tree),
	}
}

// Resolve returns the tree of rev, listing it on first use.
func (r *TreeResolver) Resolve(ctx context.Context, rev string) (Tree, error) {
	r.mu.RLock()
	tree, ok := r.cache[rev]
	r.mu.RUnlock()

	if ok {
		return tree, nil
	}

	v, err, _ := r.group.Do(rev, func() (any, error) {
		r.mu.RLock()
		cached, hit := r.cache[rev]
		r.mu.RUnlock()

		if hit {
			return cached, nil
		}

		paths, listErr := r.backend.ListTree(ctx, rev)
		if listErr != nil {
			return nil, fmt.Errorf("list tree %s: %w", rev, listErr)
		}

		resolved := NewTree(paths)

		r.mu.Lock()
		r.cache[rev] = resolved
		r.mu.Unlock()

		return resolved, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // already wrapped inside the flight.
	}

	tree, _ = v.(Tree)

	return tree, nil
}
