// Package collyfetcher implements the fetch layer using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/focuscrawl/focuscrawl/internal/scraper"
)

// Config controls collector behavior.
type Config struct {
	UserAgent     string
	RespectRobots bool
	Timeout       time.Duration
}

// Fetcher executes single-page GETs over a pooled transport. Every Fetch
// clones the base collector, so a Fetcher is safe for concurrent use by
// multiple workers.
type Fetcher struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &Fetcher{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
	}
}

// Fetch executes one HTTP GET. Transport, robots, and HTTP failures come
// back inside the PageResult so the caller records the attempt; the error
// return is reserved for context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (scraper.PageResult, error) {
	result := scraper.PageResult{RequestedURL: rawURL}
	start := time.Now()
	collector := f.buildCollector(start, &result)

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return scraper.PageResult{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil && result.FetchErr == nil {
			result.FetchErr = err
		}
	}
	if result.FetchDuration == 0 {
		result.FetchDuration = time.Since(start)
	}
	return result, nil
}

func (f *Fetcher) buildCollector(start time.Time, result *scraper.PageResult) *colly.Collector {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = !f.cfg.RespectRobots
	// Error statuses must flow through OnResponse so the status histogram
	// sees 4xx/5xx pages.
	collector.ParseHTTPErrorResponse = true
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(f.transport)

	collector.OnResponse(func(r *colly.Response) {
		result.FinalURL = r.Request.URL.String()
		result.StatusCode = r.StatusCode
		result.Content = append([]byte(nil), r.Body...)
		result.FetchDuration = time.Since(start)
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.Request != nil {
			result.FinalURL = r.Request.URL.String()
			result.StatusCode = r.StatusCode
		}
		result.FetchDuration = time.Since(start)
		result.FetchErr = err
	})

	return collector
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
