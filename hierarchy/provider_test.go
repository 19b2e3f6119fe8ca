package hierarchy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/q2ls/errors"
)

func TestCachedProviderBuildsOnce(t *testing.T) {
	var builds atomic.Int32
	provider := NewCachedProvider(func() (Hierarchy, error) {
		builds.Add(1)
		return testHierarchy(), nil
	})

	first, err := provider()
	require.NoError(t, err)
	second, err := provider()
	require.NoError(t, err)

	assert.Equal(t, int32(1), builds.Load())
	// Reference-identical, not merely equal.
	assert.True(t, equalsPointerwise(first["qiime"], second["qiime"]))
}

func TestCachedProviderRacingFirstCallersShareValue(t *testing.T) {
	var builds atomic.Int32
	provider := NewCachedProvider(func() (Hierarchy, error) {
		builds.Add(1)
		return testHierarchy(), nil
	})

	const callers = 16
	results := make([]Hierarchy, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := provider()
			assert.NoError(t, err)
			results[i] = h
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	root := results[0]["qiime"]
	for _, h := range results[1:] {
		// All callers see the identical underlying node, not a copy.
		assert.True(t, equalsPointerwise(root, h["qiime"]))
	}
}

// equalsPointerwise checks two values are the same map instance.
func equalsPointerwise(a, b any) bool {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if !aok || !bok {
		return false
	}
	if len(am) != len(bm) {
		return false
	}
	// Mutating one must be visible through the other.
	am["__probe__"] = true
	_, visible := bm["__probe__"]
	delete(am, "__probe__")
	return visible
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	var builds atomic.Int32
	provider := NewCachedProvider(func() (Hierarchy, error) {
		if builds.Add(1) == 1 {
			return nil, errors.New("introspection unavailable")
		}
		return testHierarchy(), nil
	})

	_, err := provider()
	require.Error(t, err)

	h, err := provider()
	require.NoError(t, err)
	assert.NotNil(t, RootNode(h))
	assert.Equal(t, int32(2), builds.Load())
}

func TestStaticProvider(t *testing.T) {
	h := testHierarchy()
	provider := StaticProvider(h)

	got, err := provider()
	require.NoError(t, err)
	assert.Equal(t, h, got)
}
