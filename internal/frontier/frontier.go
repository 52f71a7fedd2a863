// Package frontier owns the crawl's work queue: a bounded URL backlog,
// the visited set used for deduplication, and drain detection so the
// crawl ends when no work remains.
package frontier

import (
	"context"
	"sync"
)

// Frontier is a bounded URL queue with first-seen deduplication. Dedup
// and the page cap are enforced at push time so workers never dequeue a
// duplicate. A Frontier serves a single crawl; once drained it stays
// drained.
type Frontier struct {
	queue chan string
	done  chan struct{}

	mu       sync.Mutex
	seen     map[string]struct{}
	pending  int
	accepted int
	maxPages int

	doneOnce sync.Once
}

// New constructs a Frontier holding at most capacity queued URLs. When
// maxPages > 0, pushes beyond that many accepted URLs are rejected.
func New(capacity, maxPages int) *Frontier {
	if capacity <= 0 {
		capacity = 1
	}
	return &Frontier{
		queue:    make(chan string, capacity),
		done:     make(chan struct{}),
		seen:     make(map[string]struct{}),
		maxPages: maxPages,
	}
}

// Push offers a URL to the backlog. It reports false when the URL was
// seen before, the page cap is reached, or the backlog is full. A URL
// dropped for a full backlog is not marked seen and may be offered again.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.seen[url]; dup {
		return false
	}
	if f.maxPages > 0 && f.accepted >= f.maxPages {
		return false
	}
	select {
	case f.queue <- url:
		f.seen[url] = struct{}{}
		f.accepted++
		f.pending++
		return true
	default:
		return false
	}
}

// Next blocks until a URL is available, the frontier drains, or ctx
// ends. The second return is false when no more work will arrive.
func (f *Frontier) Next(ctx context.Context) (string, bool) {
	select {
	case url := <-f.queue:
		return url, true
	case <-f.done:
		return "", false
	case <-ctx.Done():
		return "", false
	}
}

// Done reports one dequeued URL as fully processed, after its discovered
// links were pushed. When every accepted URL has been processed the
// frontier is drained and all Next callers unblock.
func (f *Frontier) Done() {
	f.mu.Lock()
	f.pending--
	drained := f.pending == 0
	f.mu.Unlock()
	if drained {
		f.doneOnce.Do(func() { close(f.done) })
	}
}

// Size is the current backlog length, for display only.
func (f *Frontier) Size() int {
	return len(f.queue)
}

// VisitedCount is the number of distinct URLs ever accepted.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

// Pending is the number of accepted URLs not yet fully processed.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}
