// Package loader implements "load more" pagination over an offset-paginated
// collection: pages are appended to an accumulated list that never holds the
// same identifier twice and keeps arrival order.
package loader

import (
	"context"
	"sync"

	"inkpot/app/models"
)

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 6

// Item is anything the loader can deduplicate.
type Item interface {
	Identifier() string
}

// PageFunc fetches limit items starting at offset together with the total
// number of items known to exist.
type PageFunc[T Item] func(ctx context.Context, limit, offset int) (models.ListPage[T], error)

// Outcome describes what a LoadNext call did.
type Outcome int

const (
	// Merged means a page was fetched and merged into the list.
	Merged Outcome = iota
	// Dropped means a fetch was already in flight; nothing was requested.
	Dropped
	// Exhausted means no further pages exist; nothing was requested.
	Exhausted
	// Stale means the response arrived after a Reset and was discarded.
	Stale
	// Failed means the fetch returned an error; state is unchanged.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Merged:
		return "merged"
	case Dropped:
		return "dropped"
	case Exhausted:
		return "exhausted"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the loader's observable state.
type State[T Item] struct {
	Items     []T
	PageIndex int
	PageSize  int
	Total     int
	HasMore   bool
	IsLoading bool
}

// Loader accumulates pages from a PageFunc. At most one fetch is in flight
// per Loader; calls made while one is pending are dropped, not queued.
type Loader[T Item] struct {
	fetch    PageFunc[T]
	pageSize int

	mu        sync.Mutex
	items     []T
	seen      map[string]struct{}
	pageIndex int
	total     int
	hasMore   bool
	isLoading bool
	epoch     uint64
}

// New creates a Loader. A non-positive pageSize selects DefaultPageSize.
func New[T Item](fetch PageFunc[T], pageSize int) *Loader[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	l := &Loader[T]{fetch: fetch, pageSize: pageSize}
	l.resetLocked()
	return l
}

// Reset clears the accumulated list and starts over at page 0. Any fetch
// still in flight belongs to the previous epoch and will be discarded.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
	l.resetLocked()
}

func (l *Loader[T]) resetLocked() {
	l.items = nil
	l.seen = make(map[string]struct{})
	l.pageIndex = 0
	l.total = 0
	l.hasMore = true
	l.isLoading = false
}

// LoadNext fetches the next page and merges it. On error the accumulated
// list, page index and HasMore are left untouched so the call can be retried.
func (l *Loader[T]) LoadNext(ctx context.Context) (Outcome, error) {
	l.mu.Lock()
	if l.isLoading {
		l.mu.Unlock()
		return Dropped, nil
	}
	if !l.hasMore {
		l.mu.Unlock()
		return Exhausted, nil
	}
	l.isLoading = true
	epoch := l.epoch
	pageIndex := l.pageIndex
	l.mu.Unlock()

	page, err := l.fetch(ctx, l.pageSize, pageIndex*l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		return Stale, nil
	}
	l.isLoading = false
	if err != nil {
		return Failed, err
	}
	for _, it := range page.Items {
		id := it.Identifier()
		if _, dup := l.seen[id]; dup {
			continue
		}
		l.seen[id] = struct{}{}
		l.items = append(l.items, it)
	}
	l.total = page.Total
	l.hasMore = (pageIndex+1)*l.pageSize < page.Total
	l.pageIndex = pageIndex + 1
	return Merged, nil
}

// Items returns a copy of the accumulated list.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// HasMore reports whether another page may exist.
func (l *Loader[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// IsLoading reports whether a fetch is in flight.
func (l *Loader[T]) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isLoading
}

// Snapshot returns a copy of the loader's state.
func (l *Loader[T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State[T]{
		Items:     append([]T(nil), l.items...),
		PageIndex: l.pageIndex,
		PageSize:  l.pageSize,
		Total:     l.total,
		HasMore:   l.hasMore,
		IsLoading: l.isLoading,
	}
}
