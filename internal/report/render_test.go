package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

func sampleSnapshot() telemetry.Snapshot {
	started := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	generated := started.Add(2 * time.Minute)
	return telemetry.Snapshot{
		RunID:        "run-1",
		StartedAt:    started,
		GeneratedAt:  generated,
		TotalCrawled: 4,
		UniquePages:  3,
		QueueSize:    12,
		Domains:      map[string]int{"ics.uci.edu": 2, "stat.uci.edu": 1},
		Subdomains: map[string]int{
			"vision.ics.uci.edu":    2,
			"www.stat.uci.edu":      1,
			"mlphysics.ics.uci.edu": 1,
		},
		StatusCodes: map[int]int{200: 3, 404: 1},
		Traps:       map[string]int{"calendar_event": 2},
		Words:       map[string]int{"research": 5, "learning": 3, "machine": 3},
		LongestPage: telemetry.LongestPage{
			URL:       "https://vision.ics.uci.edu/papers",
			WordCount: 812,
		},
		ResponseSum:   400 * time.Millisecond,
		ResponseCount: 4,
		TotalBytes:    3 << 20,
		RecentVisits: []telemetry.VisitSummary{
			{URL: "https://vision.ics.uci.edu/papers", StatusCode: 200, WordCount: 812, At: generated},
		},
		RecentErrors: []telemetry.ErrorSummary{
			{URL: "https://www.stat.uci.edu/broken", Message: "parse failure", At: generated},
		},
	}
}

func TestRenderLive(t *testing.T) {
	out := RenderLive(sampleSnapshot())

	require.Contains(t, out, "WEB CRAWLER MONITOR - LIVE STATISTICS")
	require.Contains(t, out, "Runtime: 2m 0s")
	require.Contains(t, out, "Total crawled:  4")
	require.Contains(t, out, "Unique pages:   3")
	require.Contains(t, out, "Queue size:     12")
	require.Contains(t, out, "Crawl rate:     2.0 pages/min")
	require.Contains(t, out, "2xx success:    3")
	require.Contains(t, out, "4xx client err: 1")
	require.Contains(t, out, "calendar_event  2")
	require.Contains(t, out, "Avg response:   100ms")
	require.Contains(t, out, "Downloaded:     3.00 MB")
	require.Contains(t, out, "Longest page:   812 words")
	require.Contains(t, out, "parse failure")

	// Every tracked domain renders a bar row even at zero.
	for _, domain := range telemetry.TrackedDomains() {
		require.Contains(t, out, domain)
	}
	require.Contains(t, out, "░")
}

func TestRenderLiveDomainBar(t *testing.T) {
	snap := sampleSnapshot()
	// ics.uci.edu holds 2 of 4 pages: 50%, so half the bar is filled.
	out := RenderLive(snap)

	expected := fmt.Sprintf("   %-25s %5d [%s%s] %5.1f%%",
		"ics.uci.edu", 2,
		strings.Repeat("█", 25), strings.Repeat("░", 25),
		50.0)
	require.Contains(t, out, expected)
}

func TestRenderLiveTruncatesRecent(t *testing.T) {
	snap := sampleSnapshot()
	snap.RecentVisits = nil
	for i := 0; i < 10; i++ {
		snap.RecentVisits = append(snap.RecentVisits, telemetry.VisitSummary{
			URL:        fmt.Sprintf("https://www.ics.uci.edu/p%d", i),
			StatusCode: 200,
			At:         snap.GeneratedAt,
		})
	}

	out := RenderLive(snap)
	require.NotContains(t, out, "/p4 ")
	require.NotContains(t, out, "/p4\n")
	for i := 5; i < 10; i++ {
		require.Contains(t, out, fmt.Sprintf("/p%d", i))
	}
}

func TestRenderLiveEmptySnapshot(t *testing.T) {
	out := RenderLive(telemetry.Snapshot{})

	require.Contains(t, out, "Total crawled:  0")
	require.NotContains(t, out, "TRAPS DETECTED")
	require.NotContains(t, out, "RECENT ERRORS")
}

func TestRenderFinal(t *testing.T) {
	snap := sampleSnapshot()
	snap.GeneratedAt = snap.StartedAt.Add(time.Hour + 23*time.Minute + 45*time.Second)

	out := RenderFinal(snap)

	require.Contains(t, out, "FINAL CRAWLER REPORT")
	require.Contains(t, out, "Runtime: 1h 23m 45s")
	require.Contains(t, out, "Total URLs crawled:    4")
	require.Contains(t, out, "Unique pages found:    3")
	require.Contains(t, out, "Subdomains discovered: 3")
	require.Contains(t, out, "URL: https://vision.ics.uci.edu/papers")
	require.Contains(t, out, "Word count: 812")
	require.Contains(t, out, " 1. research             5")

	// Tied counts order alphabetically.
	learning := strings.Index(out, "learning")
	machine := strings.Index(out, "machine")
	require.Greater(t, machine, learning)

	// Subdomains list alphabetically.
	mlphysics := strings.Index(out, "mlphysics.ics.uci.edu, 1")
	vision := strings.Index(out, "vision.ics.uci.edu, 2")
	www := strings.Index(out, "www.stat.uci.edu, 1")
	require.Greater(t, vision, mlphysics)
	require.Greater(t, www, vision)
}

func TestRenderFile(t *testing.T) {
	out := RenderFile(sampleSnapshot())

	expected := "WEB CRAWLER FINAL REPORT\n" +
		strings.Repeat("=", 80) + "\n" +
		"\n" +
		"1. UNIQUE PAGES FOUND: 3\n" +
		"\n" +
		"2. LONGEST PAGE:\n" +
		"   URL: https://vision.ics.uci.edu/papers\n" +
		"   Word Count: 812\n" +
		"\n" +
		"3. TOP 50 MOST COMMON WORDS:\n" +
		"   research, 5\n" +
		"   learning, 3\n" +
		"   machine, 3\n" +
		"\n" +
		"4. SUBDOMAINS (3 total):\n" +
		"   mlphysics.ics.uci.edu, 1\n" +
		"   vision.ics.uci.edu, 2\n" +
		"   www.stat.uci.edu, 1\n"

	require.Equal(t, expected, out)
}
