// Package telemetry owns the crawl's running statistics. A single
// Aggregator instance is shared by every worker; one exclusive lock makes
// each record operation atomic, and all reporting I/O happens on released
// snapshots so slow console or disk writes never stall producers.
package telemetry

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/focuscrawl/focuscrawl/internal/metrics"
)

// Ring capacities for the recent-activity displays.
const (
	recentVisitCap = 10
	recentErrorCap = 5
)

// trackedDomains is the fixed display allow-list for the domain counters.
// It is intentionally independent of the crawl scope rule.
var trackedDomains = []string{
	"ics.uci.edu",
	"cs.uci.edu",
	"informatics.uci.edu",
	"stat.uci.edu",
}

// subdomainSuffix groups every crawled host under its institution.
const subdomainSuffix = ".uci.edu"

// TrackedDomains returns the display allow-list in render order.
func TrackedDomains() []string {
	out := make([]string, len(trackedDomains))
	copy(out, trackedDomains)
	return out
}

// Reporter renders operator-facing output: the rate-limited live report,
// the one-time final report, and immediate trap notifications. Calls are
// made after the aggregator lock is released; implementations own their
// own serialization.
type Reporter interface {
	Live(Snapshot)
	Final(Snapshot)
	TrapDetected(url, category string)
}

// Sink persists a snapshot durably. Write replaces the previous artifact
// wholesale; the aggregator guarantees a single writer.
type Sink interface {
	Write(Snapshot) error
}

type noopReporter struct{}

func (noopReporter) Live(Snapshot)               {}
func (noopReporter) Final(Snapshot)              {}
func (noopReporter) TrapDetected(string, string) {}

// Options configures an Aggregator.
type Options struct {
	RunID string
	// ReportInterval is the minimum gap between live report renders.
	// Zero or negative renders after every recorded visit.
	ReportInterval time.Duration
	Reporter       Reporter
	Sinks          []Sink
	Clock          Clock
	Logger         *zap.Logger
}

// Aggregator is the process's single mutable telemetry entity. All methods
// are safe for concurrent use.
type Aggregator struct {
	runID    string
	interval time.Duration
	reporter Reporter
	sinks    []Sink
	clock    Clock
	log      *zap.Logger

	started time.Time

	mu            sync.Mutex
	totalCrawled  int
	uniqueURLs    map[string]struct{}
	queueSize     int
	domains       map[string]int
	subdomains    map[string]int
	statusCodes   map[int]int
	traps         map[string]int
	words         map[string]int
	longest       LongestPage
	responseSum   time.Duration
	responseCount int
	totalBytes    int64
	recentVisits  ring[VisitSummary]
	recentErrors  ring[ErrorSummary]
	lastReport    time.Time

	// writeMu serializes sink writes so checkpoint and finalization can
	// never interleave on the report file.
	writeMu   sync.Mutex
	finalized atomic.Bool
}

// New constructs an Aggregator with zeroed counters and the start
// timestamp taken from the clock.
func New(opts Options) *Aggregator {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Reporter == nil {
		opts.Reporter = noopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	started := opts.Clock.Now()
	return &Aggregator{
		runID:        opts.RunID,
		interval:     opts.ReportInterval,
		reporter:     opts.Reporter,
		sinks:        opts.Sinks,
		clock:        opts.Clock,
		log:          opts.Logger.Named("telemetry"),
		started:      started,
		uniqueURLs:   make(map[string]struct{}),
		domains:      make(map[string]int),
		subdomains:   make(map[string]int),
		statusCodes:  make(map[int]int),
		traps:        make(map[string]int),
		words:        make(map[string]int),
		recentVisits: newRing[VisitSummary](recentVisitCap),
		recentErrors: newRing[ErrorSummary](recentErrorCap),
		lastReport:   started,
	}
}

// RecordVisit registers one fetch attempt: totals, unique set, domain and
// subdomain counters, status histogram, longest page, response time,
// cumulative bytes, and the recent-activity ring. When the report interval
// has elapsed (or is zero) it renders a live report from a snapshot taken
// before the lock is released.
func (a *Aggregator) RecordVisit(url string, statusCode, wordCount, byteLength int, duration time.Duration) {
	now := a.clock.Now()
	domain := matchDomain(url)

	a.mu.Lock()
	a.totalCrawled++
	a.uniqueURLs[url] = struct{}{}
	if domain != "" {
		a.domains[domain]++
	}
	if sub := matchSubdomain(url); sub != "" {
		a.subdomains[sub]++
	}
	a.statusCodes[statusCode]++
	if wordCount > a.longest.WordCount {
		a.longest = LongestPage{URL: url, WordCount: wordCount}
	}
	if duration > 0 {
		a.responseSum += duration
		a.responseCount++
	}
	a.totalBytes += int64(byteLength)
	a.recentVisits.push(VisitSummary{URL: url, StatusCode: statusCode, WordCount: wordCount, At: now})
	shouldReport := a.interval <= 0 || now.Sub(a.lastReport) >= a.interval
	var snap Snapshot
	if shouldReport {
		a.lastReport = now
		snap = a.snapshotLocked(now)
	}
	a.mu.Unlock()

	metrics.ObservePage(domain, StatusClass(statusCode), byteLength, duration)
	if shouldReport {
		a.reporter.Live(snap)
	}
}

// RecordWords merges one page's content words into the frequency table.
func (a *Aggregator) RecordWords(words []string) {
	if len(words) == 0 {
		return
	}
	a.mu.Lock()
	for _, w := range words {
		a.words[w]++
	}
	a.mu.Unlock()
	metrics.AddWords(len(words))
}

// RecordTrap increments the trap counter for category and notifies the
// operator immediately, independent of the periodic report cadence.
func (a *Aggregator) RecordTrap(url, category string) {
	a.mu.Lock()
	a.traps[category]++
	a.mu.Unlock()

	metrics.ObserveTrap(category)
	a.reporter.TrapDetected(url, category)
	a.log.Debug("trap detected", zap.String("url", url), zap.String("category", category))
}

// RecordError appends to the bounded recent-errors ring.
func (a *Aggregator) RecordError(url, message string) {
	now := a.clock.Now()
	a.mu.Lock()
	a.recentErrors.push(ErrorSummary{URL: url, Message: message, At: now})
	a.mu.Unlock()
}

// SetQueueSize records the frontier backlog for display purposes only.
func (a *Aggregator) SetQueueSize(n int) {
	a.mu.Lock()
	a.queueSize = n
	a.mu.Unlock()
	metrics.SetQueueDepth(n)
}

// Snapshot produces a consistent point-in-time copy of the state. No
// record operation can be observed half-applied.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked(a.clock.Now())
}

// Checkpoint persists the current snapshot to every sink so progress
// survives an abrupt crash. It is a no-op once finalized, so a late timer
// tick can never overwrite the final report.
func (a *Aggregator) Checkpoint() error {
	if a.finalized.Load() {
		return nil
	}
	return a.persist(a.Snapshot(), false)
}

// Finalize renders the final report and persists the last snapshot,
// exactly once per aggregator lifetime. Whichever shutdown path calls
// first performs the work; later calls return the snapshot with no side
// effects.
func (a *Aggregator) Finalize() (Snapshot, error) {
	if !a.finalized.CompareAndSwap(false, true) {
		return a.Snapshot(), nil
	}
	snap := a.Snapshot()
	a.reporter.Final(snap)
	if err := a.persist(snap, true); err != nil {
		return snap, err
	}
	return snap, nil
}

// persist writes snap to every sink under the write lock. Sink failures
// are warnings: a full disk must not take down the crawl or suppress the
// console report.
func (a *Aggregator) persist(snap Snapshot, final bool) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if !final && a.finalized.Load() {
		return nil
	}
	var errs []error
	for _, sink := range a.sinks {
		if err := sink.Write(snap); err != nil {
			a.log.Warn("snapshot persistence failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Aggregator) snapshotLocked(now time.Time) Snapshot {
	return Snapshot{
		RunID:         a.runID,
		StartedAt:     a.started,
		GeneratedAt:   now,
		TotalCrawled:  a.totalCrawled,
		UniquePages:   len(a.uniqueURLs),
		QueueSize:     a.queueSize,
		Domains:       copyMap(a.domains),
		Subdomains:    copyMap(a.subdomains),
		StatusCodes:   copyMap(a.statusCodes),
		Traps:         copyMap(a.traps),
		Words:         copyMap(a.words),
		LongestPage:   a.longest,
		ResponseSum:   a.responseSum,
		ResponseCount: a.responseCount,
		TotalBytes:    a.totalBytes,
		RecentVisits:  a.recentVisits.copyItems(),
		RecentErrors:  a.recentErrors.copyItems(),
		Finalized:     a.finalized.Load(),
	}
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// matchDomain returns the tracked domain a URL belongs to, or "".
func matchDomain(rawURL string) string {
	host := hostname(rawURL)
	if host == "" {
		return ""
	}
	for _, domain := range trackedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return domain
		}
	}
	return ""
}

// matchSubdomain returns the full host when it sits under the tracked
// institution suffix, or "".
func matchSubdomain(rawURL string) string {
	host := hostname(rawURL)
	if strings.HasSuffix(host, subdomainSuffix) {
		return host
	}
	return ""
}

func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
