package carousel

import (
	"context"
	"sync"
)

// FetchFunc runs one fetch. Pipeline.FetchAndEnrich is the usual value.
type FetchFunc func(ctx context.Context, c Config) []EnrichedItem

// Snapshot is the state a preview renders from.
type Snapshot struct {
	Generation uint64
	Config     Config
	Items      []EnrichedItem
	Loading    bool
}

// Loader keeps the item list of one editing session. Each run is tagged with
// a generation number; a run that finishes after a newer one started is
// discarded, so the last trigger wins regardless of completion order.
type Loader struct {
	fetch FetchFunc

	mu      sync.Mutex
	gen     uint64
	started bool
	cfg     Config
	items   []EnrichedItem
	loading bool
	cancel  context.CancelFunc
}

// NewLoader returns a Loader that has not fetched yet.
func NewLoader(fetch FetchFunc) *Loader {
	return &Loader{fetch: fetch}
}

// Update records c. It starts a new run on the first call and whenever the
// post count, content type, or category changes; other changes only affect
// rendering. The returned channel closes when the started run finishes, or
// immediately when no run was needed.
func (l *Loader) Update(c Config) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	needFetch := !l.started || l.cfg.QueryKey() != c.QueryKey()
	l.cfg = c
	if !needFetch {
		return closedChan()
	}
	return l.startLocked(c)
}

// Refresh starts a new run for c unconditionally.
func (l *Loader) Refresh(c Config) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = c
	return l.startLocked(c)
}

func (l *Loader) startLocked(c Config) <-chan struct{} {
	if l.cancel != nil {
		l.cancel()
	}
	l.started = true
	l.gen++
	gen := l.gen
	l.loading = true
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		items := l.fetch(ctx, c)
		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			return
		}
		l.items = items
		l.loading = false
		l.cancel = nil
	}()
	return done
}

// Snapshot returns the current state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Generation: l.gen,
		Config:     l.cfg,
		Items:      l.items,
		Loading:    l.loading,
	}
}

// Close cancels any run in flight.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
