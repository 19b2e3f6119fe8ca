package diagnostics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounceDelay is the quiet period between an edit and validation.
const DefaultDebounceDelay = 400 * time.Millisecond

// Debouncer runs at most one delayed action per key. Scheduling a key
// cancels and awaits any pending or running action for that key before
// installing the new one, so results for one document are never produced
// out of order relative to its edits. Keys are fully independent.
type Debouncer struct {
	mu      sync.Mutex
	entries map[string]*debounceEntry
	logger  *zap.SugaredLogger
}

type debounceEntry struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(log *zap.SugaredLogger) *Debouncer {
	return &Debouncer{
		entries: make(map[string]*debounceEntry),
		logger:  log,
	}
}

// Schedule installs fn to run for key after delay, first cancelling and
// awaiting any previous action for the same key. A cancelled action never
// runs. fn receives a context it should consult if it suspends.
func (d *Debouncer) Schedule(key string, delay time.Duration, fn func(context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.entries[key]; ok {
		old.cancel()
		<-old.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &debounceEntry{cancel: cancel, done: make(chan struct{})}
	d.entries[key] = e

	go d.run(ctx, key, e, delay, fn)
}

// Cancel cancels and awaits any pending action for key. No-op when absent.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.entries[key]; ok {
		e.cancel()
		<-e.done
		delete(d.entries, key)
	}
}

func (d *Debouncer) run(ctx context.Context, key string, e *debounceEntry, delay time.Duration, fn func(context.Context)) {
	// done must close before taking the lock: a scheduler waiting on it is
	// holding the lock right now.
	defer func() {
		close(e.done)
		d.mu.Lock()
		if d.entries[key] == e {
			delete(d.entries, key)
		}
		d.mu.Unlock()
	}()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	// Cancellation is checked at the sleep boundary, before any work runs.
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorw("Panic in debounced action", "key", key, "panic", r)
		}
	}()
	fn(ctx)
}
