// Package report renders telemetry snapshots for operators: a periodic
// live view, a one-time final summary, and the persisted plain-text
// artifact. Every render is a pure function over a Snapshot so callers
// can format without holding any lock.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

const (
	lineWidth = 80
	barWidth  = 50

	liveSubdomainCount = 5
	liveWordCount      = 10
	liveVisitCount     = 5
	liveErrorCount     = 3
	fileWordCount      = 50
)

type countedEntry struct {
	Key   string
	Count int
}

// topByCount returns the k highest-count entries. Ties break
// alphabetically so renders are deterministic.
func topByCount(m map[string]int, k int) []countedEntry {
	entries := make([]countedEntry, 0, len(m))
	for key, count := range m {
		entries = append(entries, countedEntry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

// sortedByKey returns all entries in alphabetical key order.
func sortedByKey(m map[string]int) []countedEntry {
	entries := make([]countedEntry, 0, len(m))
	for key, count := range m {
		entries = append(entries, countedEntry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// statusBuckets folds the status histogram into display classes.
func statusBuckets(codes map[int]int) map[string]int {
	out := make(map[string]int, 4)
	for code, n := range codes {
		out[telemetry.StatusClass(code)] += n
	}
	return out
}

// formatMinSec renders a duration as "12m 34s".
func formatMinSec(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// formatHourMinSec renders a duration as "1h 23m 45s".
func formatHourMinSec(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}

func center(s string, width int) string {
	if pad := (width - len(s)) / 2; pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
