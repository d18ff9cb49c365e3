package guilt_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
)

func TestTreeResolver_CachesPerRevision(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.trees["HEAD"] = []string{"a", "b/c"}

	resolver := guilt.NewTreeResolver(backend)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tree, err := resolver.Resolve(context.Background(), "HEAD")
			assert.NoError(t, err)
			assert.True(t, tree.Contains("b/c"))
		}()
	}

	wg.Wait()

	tree, err := resolver.Resolve(context.Background(), "HEAD")
	require.NoError(t, err)
	assert.False(t, tree.Contains("b"))
	assert.Equal(t, int32(1), backend.listCalls.Load())
}

func TestTreeResolver_Error(t *testing.T) {
	t.Parallel()

	resolver := guilt.NewTreeResolver(newFakeBackend())

	_, err := resolver.Resolve(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list tree nope")
}
