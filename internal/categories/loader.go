package categories

import (
	"context"
	"sync"
	"time"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

// LookupKey identifies a category for batched existence checks. A key
// matches a stored category only when both title and type agree.
type LookupKey struct {
	Title string
	Type  models.CategoryType
}

// BatchGetter is the single query a Loader needs from the store.
type BatchGetter interface {
	FindByTitlesAndTypes(ctx context.Context, titles []string, types []string) ([]models.Category, error)
}

const (
	defaultWait     = 2 * time.Millisecond
	defaultMaxBatch = 100
)

type LoaderOption func(*Loader)

// WithWait sets how long the loader holds the first key of a batch
// before firing the query, so concurrent callers can pile on.
func WithWait(d time.Duration) LoaderOption {
	return func(l *Loader) { l.wait = d }
}

// WithMaxBatch caps batch size; a full batch fires without waiting.
func WithMaxBatch(n int) LoaderOption {
	return func(l *Loader) { l.maxBatch = n }
}

// Loader coalesces category lookups from concurrent callers into one
// store query per collection window, deduplicates keys within a batch,
// and caches results (including misses) for its own lifetime. A Loader
// is meant to live for a single request or validation cycle.
type Loader struct {
	store    BatchGetter
	wait     time.Duration
	maxBatch int

	mu      sync.Mutex
	cache   map[LookupKey]*models.Category
	pending *loaderBatch
}

type loaderBatch struct {
	keys    []LookupKey
	seen    map[LookupKey]bool
	full    chan struct{}
	done    chan struct{}
	results map[LookupKey]*models.Category
	err     error
}

func NewLoader(store BatchGetter, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:    store,
		wait:     defaultWait,
		maxBatch: defaultMaxBatch,
		cache:    make(map[LookupKey]*models.Category),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves every key to its category or nil when absent. The
// result slice matches keys in order and length, duplicates included.
// Keys not already cached join the pending batch; if the store query
// for that batch fails, every caller waiting on it gets the error.
func (l *Loader) Load(ctx context.Context, keys []LookupKey) ([]*models.Category, error) {
	l.mu.Lock()
	var batches []*loaderBatch
	joined := make(map[*loaderBatch]bool)
	for _, k := range keys {
		if _, ok := l.cache[k]; ok {
			continue
		}
		if l.pending == nil {
			l.pending = &loaderBatch{
				seen:    make(map[LookupKey]bool),
				full:    make(chan struct{}),
				done:    make(chan struct{}),
				results: make(map[LookupKey]*models.Category),
			}
			go l.dispatch(ctx, l.pending)
		}
		b := l.pending
		if !b.seen[k] {
			b.seen[k] = true
			b.keys = append(b.keys, k)
			if len(b.keys) >= l.maxBatch {
				l.pending = nil
				close(b.full)
			}
		}
		if !joined[b] {
			joined[b] = true
			batches = append(batches, b)
		}
	}
	l.mu.Unlock()

	for _, b := range batches {
		select {
		case <-b.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if b.err != nil {
			return nil, b.err
		}
		l.mu.Lock()
		for k, v := range b.results {
			l.cache[k] = v
		}
		l.mu.Unlock()
	}

	out := make([]*models.Category, len(keys))
	l.mu.Lock()
	for i, k := range keys {
		out[i] = l.cache[k]
	}
	l.mu.Unlock()
	return out, nil
}

func (l *Loader) dispatch(ctx context.Context, b *loaderBatch) {
	timer := time.NewTimer(l.wait)
	select {
	case <-timer.C:
	case <-b.full:
		timer.Stop()
	}

	l.mu.Lock()
	if l.pending == b {
		l.pending = nil
	}
	keys := b.keys
	l.mu.Unlock()

	titles := make([]string, 0, len(keys))
	types := make([]string, 0, len(keys))
	titleSeen := make(map[string]bool)
	typeSeen := make(map[string]bool)
	for _, k := range keys {
		if !titleSeen[k.Title] {
			titleSeen[k.Title] = true
			titles = append(titles, k.Title)
		}
		if !typeSeen[string(k.Type)] {
			typeSeen[string(k.Type)] = true
			types = append(types, string(k.Type))
		}
	}

	cats, err := l.store.FindByTitlesAndTypes(ctx, titles, types)
	if err != nil {
		b.err = err
		close(b.done)
		return
	}

	for _, k := range keys {
		b.results[k] = nil
	}
	for i := range cats {
		k := LookupKey{Title: cats[i].Title, Type: cats[i].Type}
		if b.results[k] == nil {
			b.results[k] = &cats[i]
		}
	}
	close(b.done)
}
