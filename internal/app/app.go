// Package app wires the crawler's services together and runs one crawl
// end to end: frontier, politeness, fetcher, page processor, telemetry,
// and the optional status server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/focuscrawl/focuscrawl/internal/api"
	"github.com/focuscrawl/focuscrawl/internal/config"
	"github.com/focuscrawl/focuscrawl/internal/dispatcher"
	collyfetcher "github.com/focuscrawl/focuscrawl/internal/fetcher/colly"
	"github.com/focuscrawl/focuscrawl/internal/frontier"
	goqueryparser "github.com/focuscrawl/focuscrawl/internal/parser/goquery"
	"github.com/focuscrawl/focuscrawl/internal/politeness"
	"github.com/focuscrawl/focuscrawl/internal/report"
	"github.com/focuscrawl/focuscrawl/internal/scraper"
	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

// App holds the wired services for one crawl run.
type App struct {
	cfg        config.Config
	log        *zap.Logger
	runID      string
	aggregator *telemetry.Aggregator
	frontier   *frontier.Frontier
	dispatcher *dispatcher.Dispatcher
	server     *http.Server
}

// New builds a fully wired crawler from configuration. Live and final
// reports render to stdout.
func New(cfg config.Config, log *zap.Logger) *App {
	return newApp(cfg, log, os.Stdout)
}

func newApp(cfg config.Config, log *zap.Logger, consoleOut io.Writer) *App {
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()

	agg := telemetry.New(telemetry.Options{
		RunID:          runID,
		ReportInterval: cfg.Telemetry.ReportInterval,
		Reporter:       report.NewConsoleReporter(consoleOut, log),
		Sinks: []telemetry.Sink{
			report.NewTextSink(cfg.Report.TextPath),
			report.NewStatsSink(cfg.Report.StatsPath),
		},
		Logger: log,
	})

	rule := scraper.DefaultRule()
	if len(cfg.Scope.HostSuffixes) > 0 {
		rule = scraper.NewRule(cfg.Scope.HostSuffixes)
	}
	processor := scraper.New(rule, goqueryparser.New(), agg, log)

	front := frontier.New(cfg.Crawler.QueueCapacity, cfg.Crawler.MaxPages)
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:     cfg.Crawler.UserAgent,
		RespectRobots: cfg.Crawler.RespectRobots,
		Timeout:       cfg.Crawler.Timeout,
	})
	limiter := politeness.New(politeness.Config{
		RPS:   cfg.Crawler.RPS,
		Burst: cfg.Crawler.Burst,
	})

	disp := dispatcher.New(front, fetcher, processor, limiter, agg, dispatcher.Config{
		Workers:            cfg.Crawler.Workers,
		CheckpointInterval: cfg.Telemetry.CheckpointInterval,
	}, log)

	a := &App{
		cfg:        cfg,
		log:        log.Named("app"),
		runID:      runID,
		aggregator: agg,
		frontier:   front,
		dispatcher: disp,
	}
	if cfg.Server.Enabled {
		a.server = &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api.NewServer(agg, log).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return a
}

// RunID identifies this crawl run in logs and persisted snapshots.
func (a *App) RunID() string {
	return a.runID
}

// Run seeds the frontier and blocks until the crawl drains or ctx ends.
// The final report is rendered and persisted exactly once on every exit
// path, including cancellation.
func (a *App) Run(ctx context.Context) error {
	defer a.finalize()

	accepted := 0
	for _, seed := range a.cfg.Crawler.Seeds {
		if a.frontier.Push(seed) {
			accepted++
		} else {
			a.log.Warn("seed rejected", zap.String("url", seed))
		}
	}
	a.log.Info("crawl starting",
		zap.String("run_id", a.runID),
		zap.Int("seeds", accepted),
		zap.Int("workers", a.cfg.Crawler.Workers),
	)
	if accepted == 0 {
		a.log.Warn("no seeds accepted, nothing to crawl")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// Stop the status server once the crawl itself is over.
		defer cancel()
		return a.dispatcher.Run(gctx)
	})
	if a.server != nil {
		g.Go(func() error {
			a.log.Info("status server started", zap.String("addr", a.server.Addr))
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("status server shutdown: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) finalize() {
	snap, err := a.aggregator.Finalize()
	if err != nil {
		a.log.Warn("persisting final reports failed", zap.Error(err))
	}
	a.log.Info("crawl finished",
		zap.String("run_id", a.runID),
		zap.Int("total_crawled", snap.TotalCrawled),
		zap.Int("unique_pages", snap.UniquePages),
		zap.Duration("runtime", snap.Runtime()),
	)
}
