package telemetry

import "time"

// LongestPage records the page with the highest word count seen so far.
// Ties keep the first winner.
type LongestPage struct {
	URL       string `json:"url"`
	WordCount int    `json:"word_count"`
}

// VisitSummary is one entry of the recent-activity ring.
type VisitSummary struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	WordCount  int       `json:"word_count"`
	At         time.Time `json:"at"`
}

// ErrorSummary is one entry of the recent-errors ring.
type ErrorSummary struct {
	URL     string    `json:"url"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Snapshot is a consistent point-in-time copy of the aggregator state,
// taken under the lock and safe to read without further synchronization.
// It backs every report render, the stats JSON file, and the HTTP /stats
// endpoint.
type Snapshot struct {
	RunID         string         `json:"run_id"`
	StartedAt     time.Time      `json:"started_at"`
	GeneratedAt   time.Time      `json:"generated_at"`
	TotalCrawled  int            `json:"total_crawled"`
	UniquePages   int            `json:"unique_pages"`
	QueueSize     int            `json:"queue_size"`
	Domains       map[string]int `json:"domains"`
	Subdomains    map[string]int `json:"subdomains"`
	StatusCodes   map[int]int    `json:"status_codes"`
	Traps         map[string]int `json:"traps"`
	Words         map[string]int `json:"words"`
	LongestPage   LongestPage    `json:"longest_page"`
	ResponseSum   time.Duration  `json:"response_sum_ns"`
	ResponseCount int            `json:"response_count"`
	TotalBytes    int64          `json:"total_bytes"`
	RecentVisits  []VisitSummary `json:"recent_visits"`
	RecentErrors  []ErrorSummary `json:"recent_errors"`
	Finalized     bool           `json:"finalized"`
}

// Runtime is the elapsed crawl time at snapshot generation.
func (s Snapshot) Runtime() time.Duration {
	return s.GeneratedAt.Sub(s.StartedAt)
}

// AvgResponse is the mean response time across all recorded samples.
func (s Snapshot) AvgResponse() time.Duration {
	if s.ResponseCount == 0 {
		return 0
	}
	return s.ResponseSum / time.Duration(s.ResponseCount)
}

// CrawlRatePerMinute is pages crawled per minute of runtime.
func (s Snapshot) CrawlRatePerMinute() float64 {
	minutes := s.Runtime().Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(s.TotalCrawled) / minutes
}

// StatusClass buckets an HTTP status code for display: "2xx", "3xx",
// "4xx", "5xx", or "other".
func StatusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "other"
	}
}
