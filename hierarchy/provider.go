package hierarchy

import "sync"

// Builder produces the command hierarchy. Building is expensive (it
// introspects the target CLI), so production code wraps a Builder in
// NewCachedProvider.
type Builder func() (Hierarchy, error)

// Provider hands out the command hierarchy. The core takes a Provider
// rather than reaching into global state, so tests can inject isolated
// fixtures.
type Provider func() (Hierarchy, error)

// NewCachedProvider memoizes builder's first successful result for process
// lifetime. All racing first callers block on the build and receive the
// identical value. Failed builds are not cached; the next caller retries.
// There is no invalidation path.
func NewCachedProvider(builder Builder) Provider {
	var (
		mu     sync.RWMutex
		cached Hierarchy
	)

	return func() (Hierarchy, error) {
		mu.RLock()
		h := cached
		mu.RUnlock()
		if h != nil {
			return h, nil
		}

		mu.Lock()
		defer mu.Unlock()
		if cached != nil {
			return cached, nil
		}

		built, err := builder()
		if err != nil {
			return nil, err
		}
		cached = built
		return cached, nil
	}
}

// StaticProvider returns a Provider that always hands out h. Test helper.
func StaticProvider(h Hierarchy) Provider {
	return func() (Hierarchy, error) {
		return h, nil
	}
}
