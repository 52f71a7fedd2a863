package scraper

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// Scraper is the per-page orchestrator: it validates trap conditions,
// extracts and normalizes links, filters page text into content words, and
// routes every statistic through the Telemetry recorder. It holds no
// mutable state across calls, so one instance serves all workers.
type Scraper struct {
	rule   Rule
	parser DocParser
	telem  Telemetry
	log    *zap.Logger
}

// New constructs a Scraper. A nil logger is replaced with a no-op logger.
func New(rule Rule, parser DocParser, telem Telemetry, log *zap.Logger) *Scraper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{
		rule:   rule,
		parser: parser,
		telem:  telem,
		log:    log.Named("scraper"),
	}
}

// Process runs the full decision pipeline for one fetched page. It is a
// single terminal pass: retries belong to the fetch layer. The returned
// Outcome carries the in-scope links for the frontier; a single page's
// malformed markup never aborts the crawl.
func (s *Scraper) Process(page PageResult) Outcome {
	pageURL := page.URL()

	if page.FetchErr != nil {
		s.telem.RecordError(pageURL, page.FetchErr.Error())
		s.telem.RecordVisit(pageURL, page.StatusCode, 0, 0, page.FetchDuration)
		return Outcome{Kind: OutcomeRejected, Reason: ReasonFetchFailed}
	}
	if page.StatusCode != http.StatusOK {
		s.telem.RecordVisit(pageURL, page.StatusCode, 0, 0, page.FetchDuration)
		return Outcome{Kind: OutcomeRejected, Reason: fmt.Sprintf("status_%d", page.StatusCode)}
	}
	if page.ByteLength() == 0 {
		s.telem.RecordVisit(pageURL, page.StatusCode, 0, 0, page.FetchDuration)
		return Outcome{Kind: OutcomeRejected, Reason: ReasonEmptyContent}
	}
	if cat, trapped := ClassifyContent(page.ByteLength()); trapped {
		s.telem.RecordTrap(pageURL, string(cat))
		s.telem.RecordVisit(pageURL, page.StatusCode, 0, page.ByteLength(), page.FetchDuration)
		return Outcome{Kind: OutcomeRejected, Reason: string(cat)}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return s.errored(page, fmt.Errorf("parse page url: %w", err))
	}
	doc, err := s.parser.Parse(page.Content)
	if err != nil {
		return s.errored(page, fmt.Errorf("parse page content: %w", err))
	}

	words := FilterWords(doc.Text)
	if len(words) > 0 {
		s.telem.RecordWords(words)
	}

	links := make([]string, 0, len(doc.Hrefs))
	for _, href := range doc.Hrefs {
		link, ok := Normalize(base, href)
		if !ok {
			continue
		}
		if cat, trapped := ClassifyURL(link); trapped {
			s.telem.RecordTrap(link, string(cat))
			continue
		}
		inScope, err := s.rule.IsInScope(link)
		if err != nil {
			s.telem.RecordError(link, err.Error())
			continue
		}
		if inScope {
			links = append(links, link)
		}
	}

	s.telem.RecordVisit(pageURL, page.StatusCode, len(words), page.ByteLength(), page.FetchDuration)
	s.log.Debug("page processed",
		zap.String("url", pageURL),
		zap.Int("words", len(words)),
		zap.Int("links", len(links)),
	)
	return Outcome{Kind: OutcomeAccepted, Links: links}
}

// errored records a content-level failure and returns the Errored outcome.
// The attempt still counts as a visit with zero words.
func (s *Scraper) errored(page PageResult, err error) Outcome {
	pageURL := page.URL()
	s.telem.RecordError(pageURL, err.Error())
	s.telem.RecordVisit(pageURL, page.StatusCode, 0, page.ByteLength(), page.FetchDuration)
	s.log.Warn("page unusable", zap.String("url", pageURL), zap.Error(err))
	return Outcome{Kind: OutcomeErrored, Err: err}
}
