package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/focuscrawl/focuscrawl/internal/frontier"
	"github.com/focuscrawl/focuscrawl/internal/scraper"
)

type fakeFetcher struct {
	mu      sync.Mutex
	fetched map[string]int
	delay   time.Duration
	block   bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (scraper.PageResult, error) {
	if f.block {
		<-ctx.Done()
		return scraper.PageResult{}, ctx.Err()
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return scraper.PageResult{}, ctx.Err()
		}
	}
	f.mu.Lock()
	f.fetched[url]++
	f.mu.Unlock()
	return scraper.PageResult{RequestedURL: url, StatusCode: 200, Content: []byte("ok")}, nil
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetched[url]
}

func (f *fakeFetcher) distinct() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

// fakeProcessor accepts pages listed in links and rejects the rest.
type fakeProcessor struct {
	links map[string][]string
}

func (p *fakeProcessor) Process(page scraper.PageResult) scraper.Outcome {
	links, ok := p.links[page.RequestedURL]
	if !ok {
		return scraper.Outcome{Kind: scraper.OutcomeRejected, Reason: "unexpected url"}
	}
	return scraper.Outcome{Kind: scraper.OutcomeAccepted, Links: links}
}

type fakeWaiter struct {
	errs map[string]error
}

func (w *fakeWaiter) Wait(ctx context.Context, url string) error {
	if err := w.errs[url]; err != nil {
		return err
	}
	return ctx.Err()
}

type fakeTelemetry struct {
	mu          sync.Mutex
	queueSizes  []int
	checkpoints int
}

func (t *fakeTelemetry) SetQueueSize(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queueSizes = append(t.queueSizes, n)
}

func (t *fakeTelemetry) Checkpoint() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkpoints++
	return nil
}

func (t *fakeTelemetry) checkpointCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkpoints
}

func (t *fakeTelemetry) lastQueueSize() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queueSizes) == 0 {
		return 0, false
	}
	return t.queueSizes[len(t.queueSizes)-1], true
}

func TestRunDrainsLinkGraph(t *testing.T) {
	t.Parallel()

	f := frontier.New(16, 100)
	if !f.Push("https://ics.uci.edu/a") {
		t.Fatal("seed push rejected")
	}
	fetcher := &fakeFetcher{fetched: make(map[string]int)}
	// b links back to a, so the crawl must terminate on dedup alone.
	processor := &fakeProcessor{links: map[string][]string{
		"https://ics.uci.edu/a": {"https://ics.uci.edu/b", "https://ics.uci.edu/c"},
		"https://ics.uci.edu/b": {"https://ics.uci.edu/a"},
		"https://ics.uci.edu/c": {},
	}}
	telem := &fakeTelemetry{}
	d := New(f, fetcher, processor, &fakeWaiter{}, telem, Config{Workers: 3}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() = %v; want nil", err)
	}

	if got := fetcher.distinct(); got != 3 {
		t.Fatalf("fetched %d distinct URLs; want 3", got)
	}
	for _, url := range []string{"https://ics.uci.edu/a", "https://ics.uci.edu/b", "https://ics.uci.edu/c"} {
		if n := fetcher.count(url); n != 1 {
			t.Errorf("fetched %s %d times; want once", url, n)
		}
	}
	if got := f.VisitedCount(); got != 3 {
		t.Errorf("VisitedCount() = %d; want 3", got)
	}
	if last, ok := telem.lastQueueSize(); !ok || last != 0 {
		t.Errorf("last reported queue size = %d, %v; want 0, true", last, ok)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	f := frontier.New(4, 100)
	f.Push("https://ics.uci.edu/slow")
	fetcher := &fakeFetcher{fetched: make(map[string]int), block: true}
	processor := &fakeProcessor{}
	d := New(f, fetcher, processor, &fakeWaiter{}, &fakeTelemetry{}, Config{Workers: 2}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v; want context.Canceled", err)
	}
}

func TestLimiterFailureSkipsURL(t *testing.T) {
	t.Parallel()

	f := frontier.New(16, 100)
	f.Push("https://ics.uci.edu/a")
	fetcher := &fakeFetcher{fetched: make(map[string]int)}
	processor := &fakeProcessor{links: map[string][]string{
		"https://ics.uci.edu/a": {"https://ics.uci.edu/bad", "https://ics.uci.edu/b"},
		"https://ics.uci.edu/b": {},
	}}
	waiter := &fakeWaiter{errs: map[string]error{
		"https://ics.uci.edu/bad": errors.New("limiter closed"),
	}}
	d := New(f, fetcher, processor, waiter, &fakeTelemetry{}, Config{Workers: 2}, zap.NewNop())

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v; want nil", err)
	}
	if n := fetcher.count("https://ics.uci.edu/bad"); n != 0 {
		t.Errorf("fetched skipped URL %d times; want 0", n)
	}
	if got := fetcher.distinct(); got != 2 {
		t.Errorf("fetched %d distinct URLs; want 2", got)
	}
}

func TestCheckpointLoopTicks(t *testing.T) {
	t.Parallel()

	f := frontier.New(4, 10)
	f.Push("https://ics.uci.edu/a")
	fetcher := &fakeFetcher{fetched: make(map[string]int), delay: 80 * time.Millisecond}
	telem := &fakeTelemetry{}
	cfg := Config{Workers: 1, CheckpointInterval: 10 * time.Millisecond}
	d := New(f, fetcher, &fakeProcessor{}, &fakeWaiter{}, telem, cfg, zap.NewNop())

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v; want nil", err)
	}
	if telem.checkpointCount() == 0 {
		t.Error("no checkpoints written during crawl")
	}
}

func TestCheckpointDisabled(t *testing.T) {
	t.Parallel()

	f := frontier.New(4, 10)
	f.Push("https://ics.uci.edu/a")
	fetcher := &fakeFetcher{fetched: make(map[string]int)}
	telem := &fakeTelemetry{}
	d := New(f, fetcher, &fakeProcessor{}, &fakeWaiter{}, telem, Config{Workers: 1}, zap.NewNop())

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v; want nil", err)
	}
	if got := telem.checkpointCount(); got != 0 {
		t.Errorf("checkpoint count = %d; want 0", got)
	}
}

func TestZeroWorkersDefaultsToOne(t *testing.T) {
	t.Parallel()

	f := frontier.New(4, 10)
	f.Push("https://ics.uci.edu/a")
	fetcher := &fakeFetcher{fetched: make(map[string]int)}
	d := New(f, fetcher, &fakeProcessor{}, &fakeWaiter{}, &fakeTelemetry{}, Config{}, zap.NewNop())

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v; want nil", err)
	}
	if got := fetcher.count("https://ics.uci.edu/a"); got != 1 {
		t.Errorf("fetched seed %d times; want 1", got)
	}
}
