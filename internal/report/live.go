package report

import (
	"fmt"
	"strings"

	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

// RenderLive formats the periodic operator view: progress totals, the
// domain distribution bar chart, status buckets, trap counts, performance
// numbers, top subdomains and words, and the recent-activity tail.
func RenderLive(s telemetry.Snapshot) string {
	var b strings.Builder
	banner := strings.Repeat("=", lineWidth)

	b.WriteString("\n" + banner + "\n")
	b.WriteString(center("WEB CRAWLER MONITOR - LIVE STATISTICS", lineWidth) + "\n")
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "Runtime: %s | Updated: %s\n",
		formatMinSec(s.Runtime()), s.GeneratedAt.Format("15:04:05"))
	b.WriteString(banner + "\n")

	b.WriteString("\nCRAWL PROGRESS\n")
	fmt.Fprintf(&b, "   Total crawled:  %d\n", s.TotalCrawled)
	fmt.Fprintf(&b, "   Unique pages:   %d\n", s.UniquePages)
	fmt.Fprintf(&b, "   Queue size:     %d\n", s.QueueSize)
	fmt.Fprintf(&b, "   Crawl rate:     %.1f pages/min\n", s.CrawlRatePerMinute())

	b.WriteString("\nDOMAIN DISTRIBUTION\n")
	for _, domain := range telemetry.TrackedDomains() {
		count := s.Domains[domain]
		var pct float64
		if s.TotalCrawled > 0 {
			pct = float64(count) / float64(s.TotalCrawled) * 100
		}
		filled := int(pct / 2)
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(&b, "   %-25s %5d [%s] %5.1f%%\n", domain, count, bar, pct)
	}

	buckets := statusBuckets(s.StatusCodes)
	b.WriteString("\nHTTP STATUS\n")
	fmt.Fprintf(&b, "   2xx success:    %d\n", buckets["2xx"])
	fmt.Fprintf(&b, "   3xx redirect:   %d\n", buckets["3xx"])
	fmt.Fprintf(&b, "   4xx client err: %d\n", buckets["4xx"])
	fmt.Fprintf(&b, "   5xx server err: %d\n", buckets["5xx"])

	if len(s.Traps) > 0 {
		b.WriteString("\nTRAPS DETECTED\n")
		for _, e := range sortedByKey(s.Traps) {
			fmt.Fprintf(&b, "   %-15s %d\n", e.Key, e.Count)
		}
	}

	b.WriteString("\nPERFORMANCE\n")
	fmt.Fprintf(&b, "   Avg response:   %dms\n", s.AvgResponse().Milliseconds())
	fmt.Fprintf(&b, "   Downloaded:     %.2f MB\n", float64(s.TotalBytes)/(1<<20))
	fmt.Fprintf(&b, "   Longest page:   %d words\n", s.LongestPage.WordCount)

	if len(s.Subdomains) > 0 {
		b.WriteString("\nTOP SUBDOMAINS\n")
		for _, e := range topByCount(s.Subdomains, liveSubdomainCount) {
			fmt.Fprintf(&b, "   %-40s %5d\n", e.Key, e.Count)
		}
	}

	if len(s.Words) > 0 {
		b.WriteString("\nTOP 10 WORDS\n")
		for _, e := range topByCount(s.Words, liveWordCount) {
			fmt.Fprintf(&b, "   %-20s %6d\n", e.Key, e.Count)
		}
	}

	if len(s.RecentVisits) > 0 {
		b.WriteString("\nRECENT CRAWLS\n")
		visits := s.RecentVisits
		if len(visits) > liveVisitCount {
			visits = visits[len(visits)-liveVisitCount:]
		}
		for _, v := range visits {
			fmt.Fprintf(&b, "   [%s] %d %s\n",
				v.At.Format("15:04:05"), v.StatusCode, truncate(v.URL, 60))
		}
	}

	if len(s.RecentErrors) > 0 {
		b.WriteString("\nRECENT ERRORS\n")
		errs := s.RecentErrors
		if len(errs) > liveErrorCount {
			errs = errs[len(errs)-liveErrorCount:]
		}
		for _, e := range errs {
			fmt.Fprintf(&b, "   [%s] %s\n", e.At.Format("15:04:05"), truncate(e.URL, 50))
			fmt.Fprintf(&b, "              %s\n", truncate(e.Message, 60))
		}
	}

	b.WriteString("\n" + banner + "\n")
	return b.String()
}
