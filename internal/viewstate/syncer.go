package viewstate

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const defaultInterval = 10 * time.Second

// Snapshot is the latest view state held by a Syncer. Data is shared with
// the syncer's internal copy; treat it as read-only.
type Snapshot[T any] struct {
	Data T

	// UsingLiveData becomes true the first time any fetch succeeds — even
	// with an empty result — and never reverts for the life of the syncer.
	// While false, Data holds the fallback dataset (if configured).
	UsingLiveData bool

	// Loading is true only until the first fetch completes, success or not.
	Loading bool

	// LastError records the most recent fetch failure. A success clears it.
	// A transient failure after live data has been seen leaves Data intact;
	// LastError is the only trace, for an unobtrusive staleness hint.
	LastError error

	LastUpdated time.Time

	// Seq is the issue-order stamp of the fetch that produced this snapshot.
	Seq uint64
}

// Config describes one page's synchronization behavior.
type Config[T any] struct {
	// Name appears in log lines for failed fetches.
	Name string

	// Fetch produces the page's data. Combined multi-endpoint fetches are
	// composed by the caller (see Batch) so each call degrades
	// independently; Fetch should return an error only when nothing useful
	// was retrieved.
	Fetch func(context.Context) (T, error)

	// Fallback supplies the static placeholder dataset shown until the
	// first successful fetch. Optional.
	Fallback func() T

	// Interval is the re-fetch cadence. Zero means the 10s default.
	Interval time.Duration

	// OnUpdate, when set, observes every applied snapshot. It is invoked
	// synchronously under the syncer's lock and must not call back into the
	// Syncer.
	OnUpdate func(Snapshot[T])
}

// Syncer keeps one page's view state consistent with the remote sources:
// an initial fetch on Start, a periodic re-fetch, and an out-of-cadence
// fetch on Refocus. Completions are stamped with an issue-order sequence
// number; a completion older than the newest applied one is discarded, so a
// slow stale response can never regress the view.
type Syncer[T any] struct {
	cfg Config[T]

	mu         sync.Mutex
	snap       Snapshot[T]
	appliedSeq uint64
	started    bool
	closed     bool

	seq        atomic.Uint64
	refocusing atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Syncer. Nothing runs until Start.
func New[T any](cfg Config[T]) *Syncer[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	s := &Syncer[T]{cfg: cfg, done: make(chan struct{})}
	s.snap.Loading = true
	return s
}

// Start issues the initial fetch and arms the re-fetch ticker. Calling
// Start more than once, or after Close, is a no-op.
func (s *Syncer[T]) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	ctx = s.ctx
	s.mu.Unlock()

	go s.loop(ctx)
}

func (s *Syncer[T]) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.fetch(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Refocus requests one extra fetch outside the timer cadence, for "tab
// regained focus" moments. Refocus fetches are guarded: while one is still
// in flight further Refocus calls are dropped. Overlap with a timer fetch
// is tolerated and resolved by the sequence discard rule.
func (s *Syncer[T]) Refocus() {
	s.mu.Lock()
	if !s.started || s.closed {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.mu.Unlock()

	if !s.refocusing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		seq := s.seq.Add(1)
		data, err := s.cfg.Fetch(ctx)
		s.refocusing.Store(false)
		s.apply(seq, data, err)
	}()
}

// Snapshot returns the current view state.
func (s *Syncer[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Close stops the ticker and bars any further snapshot application, then
// returns. A fetch still in flight will complete against the network but
// its result is ignored. Idempotent.
func (s *Syncer[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done reports loop termination, for tests and orderly shutdown.
func (s *Syncer[T]) Done() <-chan struct{} { return s.done }

func (s *Syncer[T]) fetch(ctx context.Context) {
	seq := s.seq.Add(1)
	data, err := s.cfg.Fetch(ctx)
	s.apply(seq, data, err)
}

func (s *Syncer[T]) apply(seq uint64, data T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if seq <= s.appliedSeq {
		// A newer-issued fetch already landed; this one is stale.
		return
	}
	s.appliedSeq = seq

	firstCompletion := s.snap.Loading
	s.snap.Loading = false
	s.snap.LastUpdated = time.Now()
	s.snap.Seq = seq

	if err != nil {
		s.snap.LastError = err
		if firstCompletion && !s.snap.UsingLiveData && s.cfg.Fallback != nil {
			s.snap.Data = s.cfg.Fallback()
		}
		if s.cfg.Name != "" {
			log.Printf("%s: fetch failed: %v", s.cfg.Name, err)
		}
	} else {
		s.snap.Data = data
		s.snap.UsingLiveData = true
		s.snap.LastError = nil
	}

	if s.cfg.OnUpdate != nil {
		s.cfg.OnUpdate(s.snap)
	}
}
