package grammar

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/limn/logging"
)

// LoadState describes where a language id sits in the load lifecycle.
type LoadState int

const (
	// StateUnrequested means no load has been requested yet.
	StateUnrequested LoadState = iota
	// StateLoading means a load is in flight.
	StateLoading
	// StateLoaded means the grammar is cached.
	StateLoaded
	// StateFailed means the last load failed; the next Load retries.
	StateFailed
)

// String returns the string representation of the load state.
func (s LoadState) String() string {
	switch s {
	case StateUnrequested:
		return "unrequested"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoaderStats holds counters for loader activity.
type LoaderStats struct {
	Loads     int64 // successful underlying loads
	Hits      int64 // cache hits
	Joins     int64 // callers that joined an in-flight load
	Failures  int64 // failed underlying loads
	Evictions int64 // explicit evictions
}

// Loader asynchronously loads and caches grammars per language id.
// Loads for different ids run concurrently; within one id, concurrent
// requests collapse to a single in-flight load shared by all callers.
// Successfully loaded grammars are cached for the process lifetime
// unless explicitly evicted; failures are never cached, so the next
// request retries.
type Loader struct {
	registry *Registry
	cache    *gocache.Cache
	log      *logging.Logger

	mu      sync.Mutex
	pending map[string]*inflight
	failed  map[string]error

	loads     atomic.Int64
	hits      atomic.Int64
	joins     atomic.Int64
	failures  atomic.Int64
	evictions atomic.Int64
}

// inflight is a single-flight load shared by every caller requesting
// the same language id. grammar and err are written once before done
// is closed.
type inflight struct {
	done    chan struct{}
	grammar Grammar
	err     error
}

// NewLoader creates a loader over the given registry.
func NewLoader(registry *Registry, log *logging.Logger) *Loader {
	if log == nil {
		log = logging.NullLogger
	}
	return &Loader{
		registry: registry,
		cache:    gocache.New(gocache.NoExpiration, 0),
		log:      log.WithComponent("loader"),
		pending:  make(map[string]*inflight),
		failed:   make(map[string]error),
	}
}

// Load returns the grammar for a language id, loading it if necessary.
// If a load for the same id is already in flight the caller joins it
// rather than starting a duplicate. A joiner whose context is cancelled
// abandons the wait; the underlying load keeps running and its result
// is cached for future callers.
func (l *Loader) Load(ctx context.Context, id string) (Grammar, error) {
	if g, ok := l.cache.Get(id); ok {
		l.hits.Add(1)
		return g.(Grammar), nil
	}

	l.mu.Lock()
	// Re-check under the lock: a racing load may have completed.
	if g, ok := l.cache.Get(id); ok {
		l.mu.Unlock()
		l.hits.Add(1)
		return g.(Grammar), nil
	}

	if fl, ok := l.pending[id]; ok {
		l.mu.Unlock()
		l.joins.Add(1)
		select {
		case <-fl.done:
			return fl.grammar, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl := &inflight{done: make(chan struct{})}
	l.pending[id] = fl
	l.mu.Unlock()

	fl.grammar, fl.err = l.load(ctx, id)

	l.mu.Lock()
	delete(l.pending, id)
	if fl.err != nil {
		l.failed[id] = fl.err
		l.failures.Add(1)
	} else {
		delete(l.failed, id)
		l.cache.Set(id, fl.grammar, gocache.NoExpiration)
		l.loads.Add(1)
	}
	l.mu.Unlock()
	close(fl.done)

	if fl.err != nil {
		l.log.Warn("load failed for %s: %v", id, fl.err)
	} else {
		l.log.Debug("loaded grammar %s", id)
	}
	return fl.grammar, fl.err
}

// load resolves and constructs a grammar. Runs outside the loader lock.
func (l *Loader) load(ctx context.Context, id string) (Grammar, error) {
	reg, ok := l.registry.lookup(id)
	if !ok {
		return nil, NewOperationError("load", id, ErrUnsupportedLanguage)
	}

	g, err := reg.factory(ctx)
	if err != nil {
		return nil, NewOperationError("load", id, fmt.Errorf("%w: %w", ErrGrammarLoad, err))
	}
	if g == nil {
		return nil, NewOperationError("load", id, fmt.Errorf("%w: factory returned nil", ErrGrammarLoad))
	}
	return g, nil
}

// Get returns the cached grammar for a language id. It never triggers
// a load.
func (l *Loader) Get(id string) (Grammar, bool) {
	g, ok := l.cache.Get(id)
	if !ok {
		return nil, false
	}
	return g.(Grammar), true
}

// IsLoaded reports whether the grammar is in the success cache.
func (l *Loader) IsLoaded(id string) bool {
	_, ok := l.cache.Get(id)
	return ok
}

// State returns the load state for a language id. The error is the
// last load failure when the state is StateFailed.
func (l *Loader) State(id string) (LoadState, error) {
	if l.IsLoaded(id) {
		return StateLoaded, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[id]; ok {
		return StateLoading, nil
	}
	if err, ok := l.failed[id]; ok {
		return StateFailed, err
	}
	return StateUnrequested, nil
}

// Evict removes a cached grammar, forcing the next Load to rebuild it.
// Used for script-grammar hot reload.
func (l *Loader) Evict(id string) {
	if _, ok := l.cache.Get(id); ok {
		l.cache.Delete(id)
		l.evictions.Add(1)
		l.log.Debug("evicted grammar %s", id)
	}
}

// Stats returns a snapshot of loader counters.
func (l *Loader) Stats() LoaderStats {
	return LoaderStats{
		Loads:     l.loads.Load(),
		Hits:      l.hits.Load(),
		Joins:     l.joins.Load(),
		Failures:  l.failures.Load(),
		Evictions: l.evictions.Load(),
	}
}
