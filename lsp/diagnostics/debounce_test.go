package diagnostics

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/q2ls/logger"
)

func TestDebouncerRunsAfterDelay(t *testing.T) {
	d := NewDebouncer(logger.Logger)

	done := make(chan struct{})
	d.Schedule("doc1", 5*time.Millisecond, func(context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled action never ran")
	}
}

func TestDebouncerRescheduleRunsLatestOnce(t *testing.T) {
	d := NewDebouncer(logger.Logger)

	var firstRuns, secondRuns atomic.Int32
	done := make(chan struct{})

	d.Schedule("doc1", 10*time.Millisecond, func(context.Context) {
		firstRuns.Add(1)
	})
	d.Schedule("doc1", 10*time.Millisecond, func(context.Context) {
		secondRuns.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rescheduled action never ran")
	}
	// Give a superseded first action time to fire if it wrongly survived.
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, int32(0), firstRuns.Load(), "superseded action ran")
	assert.Equal(t, int32(1), secondRuns.Load())
}

func TestDebouncerCancelBeforeDelay(t *testing.T) {
	d := NewDebouncer(logger.Logger)

	var runs atomic.Int32
	d.Schedule("doc1", 20*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	d.Cancel("doc1")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load(), "cancelled action ran")
}

func TestDebouncerCancelAwaitsRunningAction(t *testing.T) {
	d := NewDebouncer(logger.Logger)

	started := make(chan struct{})
	var finished atomic.Bool
	d.Schedule("doc1", time.Millisecond, func(context.Context) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	d.Cancel("doc1")
	assert.True(t, finished.Load(), "Cancel returned before the running action completed")
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	d := NewDebouncer(logger.Logger)

	var doc2Runs atomic.Int32
	done := make(chan struct{})

	d.Schedule("doc2", 5*time.Millisecond, func(context.Context) {
		doc2Runs.Add(1)
		close(done)
	})
	d.Schedule("doc1", 5*time.Millisecond, func(context.Context) {})
	d.Cancel("doc1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("doc2 action never ran")
	}
	assert.Equal(t, int32(1), doc2Runs.Load())
}

func TestDebouncerPanicRecovered(t *testing.T) {
	d := NewDebouncer(logger.Logger)

	d.Schedule("doc1", time.Millisecond, func(context.Context) {
		panic("boom")
	})
	time.Sleep(20 * time.Millisecond)

	// The key must be reusable after a panicking action.
	done := make(chan struct{})
	d.Schedule("doc1", time.Millisecond, func(context.Context) {
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("action after panic never ran")
	}
}

func TestDebouncerConcurrentSchedules(t *testing.T) {
	d := NewDebouncer(logger.Logger)

	var runs atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Schedule("doc1", 5*time.Millisecond, func(context.Context) {
				runs.Add(1)
			})
		}()
	}
	wg.Wait()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(1), runs.Load(), "exactly the last surviving action runs")
}
