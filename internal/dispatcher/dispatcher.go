// Package dispatcher runs the crawl worker pool: workers drain the
// frontier, apply politeness, fetch, process, and feed discovered links
// back until the frontier drains or the context ends.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/focuscrawl/focuscrawl/internal/frontier"
	"github.com/focuscrawl/focuscrawl/internal/metrics"
	"github.com/focuscrawl/focuscrawl/internal/scraper"
)

// Fetcher executes one page fetch.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (scraper.PageResult, error)
}

// Processor turns a fetched page into a crawl outcome.
type Processor interface {
	Process(page scraper.PageResult) scraper.Outcome
}

// Waiter blocks until a URL's host may be contacted.
type Waiter interface {
	Wait(ctx context.Context, url string) error
}

// Telemetry is the slice of the aggregator the dispatcher drives.
type Telemetry interface {
	SetQueueSize(n int)
	Checkpoint() error
}

// Config controls dispatcher behavior.
type Config struct {
	Workers int
	// CheckpointInterval is the cadence of crash-safe snapshot writes.
	// Zero or negative disables periodic checkpoints.
	CheckpointInterval time.Duration
}

// Dispatcher fans crawl work out to a fixed worker pool.
type Dispatcher struct {
	frontier  *frontier.Frontier
	fetcher   Fetcher
	processor Processor
	limiter   Waiter
	telem     Telemetry
	cfg       Config
	log       *zap.Logger
}

// New constructs a Dispatcher.
func New(f *frontier.Frontier, fetcher Fetcher, processor Processor, limiter Waiter, telem Telemetry, cfg Config, log *zap.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		frontier:  f,
		fetcher:   fetcher,
		processor: processor,
		limiter:   limiter,
		telem:     telem,
		cfg:       cfg,
		log:       log.Named("dispatcher"),
	}
}

// Run blocks until the frontier drains or ctx ends. It returns the
// context's error when the crawl was interrupted, nil on a natural drain.
func (d *Dispatcher) Run(ctx context.Context) error {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	checkpointDone := make(chan struct{})
	go d.checkpointLoop(workCtx, checkpointDone)

	var wg sync.WaitGroup
	wg.Add(d.cfg.Workers)
	for i := 0; i < d.cfg.Workers; i++ {
		go func(id int) {
			defer wg.Done()
			d.worker(workCtx, id)
		}(i)
	}
	wg.Wait()

	cancel()
	<-checkpointDone
	return ctx.Err()
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	log := d.log.With(zap.Int("worker", id))
	for {
		url, ok := d.frontier.Next(ctx)
		if !ok {
			return
		}
		d.crawlOne(ctx, url, log)
		d.frontier.Done()
		d.telem.SetQueueSize(d.frontier.Size())
	}
}

// crawlOne pushes discovered links before returning so the frontier's
// pending count never falsely reaches zero mid-crawl.
func (d *Dispatcher) crawlOne(ctx context.Context, url string, log *zap.Logger) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	if err := d.limiter.Wait(ctx, url); err != nil {
		if ctx.Err() == nil {
			log.Warn("politeness wait failed", zap.String("url", url), zap.Error(err))
		}
		return
	}

	page, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		// Cancellation mid-fetch; the page is not recorded.
		return
	}

	outcome := d.processor.Process(page)
	if outcome.Kind != scraper.OutcomeAccepted {
		return
	}
	for _, link := range outcome.Links {
		d.frontier.Push(link)
	}
}

func (d *Dispatcher) checkpointLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	if d.cfg.CheckpointInterval <= 0 {
		return
	}
	ticker := time.NewTicker(d.cfg.CheckpointInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.telem.Checkpoint(); err != nil {
				d.log.Warn("checkpoint failed", zap.Error(err))
			}
		}
	}
}
