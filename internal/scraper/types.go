// Package scraper implements the per-page crawl decision pipeline: link
// extraction, normalization, scope validation, trap detection, and word
// filtering.
package scraper

import "time"

// PageResult is the immutable outcome of one fetch attempt, supplied by the
// fetch layer. FetchErr is set when the request itself failed; StatusCode
// and Content describe the response otherwise.
type PageResult struct {
	RequestedURL  string
	FinalURL      string
	StatusCode    int
	Content       []byte
	FetchDuration time.Duration
	FetchErr      error
}

// ByteLength returns the size of the fetched body.
func (p PageResult) ByteLength() int {
	return len(p.Content)
}

// URL returns the page's effective address: the final URL after redirects
// when known, the requested URL otherwise.
func (p PageResult) URL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.RequestedURL
}

// OutcomeKind tags the result of one Page Processor pass.
type OutcomeKind string

// Outcome kinds. A page yields exactly one of these per pass.
const (
	OutcomeAccepted OutcomeKind = "accepted"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeErrored  OutcomeKind = "errored"
)

// Rejection reasons attached to OutcomeRejected.
const (
	ReasonFetchFailed  = "fetch_failed"
	ReasonEmptyContent = "empty_content"
)

// Outcome is the tagged result of processing one fetched page. Links is
// populated only for OutcomeAccepted, Reason only for OutcomeRejected, and
// Err only for OutcomeErrored. Every kind has already been recorded in
// telemetry by the time it is returned.
type Outcome struct {
	Kind   OutcomeKind
	Links  []string
	Reason string
	Err    error
}

// Document is the parser's view of a fetched page: anchor targets in
// document order plus the extracted plain text.
type Document struct {
	Title string
	Text  string
	Hrefs []string
}

// DocParser turns raw page bytes into a Document.
type DocParser interface {
	Parse(content []byte) (Document, error)
}

// Telemetry receives every statistic the pipeline produces. Implementations
// must be safe for concurrent use from multiple page-processing goroutines.
type Telemetry interface {
	RecordVisit(url string, statusCode, wordCount, byteLength int, duration time.Duration)
	RecordWords(words []string)
	RecordTrap(url, category string)
	RecordError(url, message string)
}
