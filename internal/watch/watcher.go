// Package watch polls a single resource until it reaches a terminal state.
//
// A Watcher is the narrow cousin of viewstate.Syncer: it tracks one entity
// (an order, typically) from the moment its id is known until Terminal
// reports true, then stops itself. The terminal check runs inside the same
// loop iteration that observed the status, so once a terminal response has
// been processed no further poll is ever scheduled. A failed poll is
// skipped silently: only a terminal status, Stop, or context cancellation
// ends the loop.
package watch

import (
	"context"
	"sync"
	"time"
)

const defaultInterval = 5 * time.Second

// Config describes what to poll and when to stop.
type Config[T any] struct {
	// Fetch retrieves the resource's current state.
	Fetch func(context.Context) (T, error)

	// Terminal reports whether the state ends the watch.
	Terminal func(T) bool

	// Interval is the poll cadence. Zero means the 5s default.
	Interval time.Duration

	// OnUpdate observes every successful poll, including the terminal one.
	// Optional. Called from the watcher's goroutine.
	OnUpdate func(T)
}

// Watcher is a handle to one running poll loop.
type Watcher[T any] struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	last  T
	seen  bool
	polls int
}

// Start launches the poll loop. The caller invokes it only once the tracked
// id exists — typically right after the creation call returns.
func Start[T any](ctx context.Context, cfg Config[T]) *Watcher[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher[T]{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go w.loop(ctx, cfg)
	return w
}

func (w *Watcher[T]) loop(ctx context.Context, cfg Config[T]) {
	defer close(w.done)
	defer w.cancel()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		if w.poll(ctx, cfg) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll performs one fetch and reports whether the watch is finished.
func (w *Watcher[T]) poll(ctx context.Context, cfg Config[T]) bool {
	w.mu.Lock()
	w.polls++
	w.mu.Unlock()

	value, err := cfg.Fetch(ctx)
	if err != nil {
		// A single failed poll neither stops the loop nor surfaces.
		return false
	}

	w.mu.Lock()
	w.last = value
	w.seen = true
	w.mu.Unlock()

	if cfg.OnUpdate != nil {
		cfg.OnUpdate(value)
	}
	return cfg.Terminal(value)
}

// Last returns the most recent successfully polled value and whether one
// has been seen yet.
func (w *Watcher[T]) Last() (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.seen
}

// Polls returns how many poll attempts have been issued.
func (w *Watcher[T]) Polls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polls
}

// Stop cancels the watch. Safe to call any number of times, including after
// the watcher already stopped itself on a terminal state.
func (w *Watcher[T]) Stop() {
	w.stopOnce.Do(w.cancel)
}

// Done closes when the poll loop has fully exited. Tests use it to prove
// termination rather than assume it.
func (w *Watcher[T]) Done() <-chan struct{} { return w.done }
