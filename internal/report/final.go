package report

import (
	"fmt"
	"strings"

	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

// RenderFinal formats the one-time summary printed at shutdown.
func RenderFinal(s telemetry.Snapshot) string {
	var b strings.Builder
	banner := strings.Repeat("=", lineWidth)

	b.WriteString("\n" + banner + "\n")
	b.WriteString(center("FINAL CRAWLER REPORT", lineWidth) + "\n")
	b.WriteString(banner + "\n")

	fmt.Fprintf(&b, "\nRuntime: %s\n", formatHourMinSec(s.Runtime()))

	b.WriteString("\nSUMMARY\n")
	fmt.Fprintf(&b, "   Total URLs crawled:    %d\n", s.TotalCrawled)
	fmt.Fprintf(&b, "   Unique pages found:    %d\n", s.UniquePages)
	fmt.Fprintf(&b, "   Subdomains discovered: %d\n", len(s.Subdomains))

	b.WriteString("\nLONGEST PAGE\n")
	fmt.Fprintf(&b, "   URL: %s\n", s.LongestPage.URL)
	fmt.Fprintf(&b, "   Word count: %d\n", s.LongestPage.WordCount)

	if len(s.Words) > 0 {
		b.WriteString("\nTOP 50 WORDS\n")
		for i, e := range topByCount(s.Words, fileWordCount) {
			fmt.Fprintf(&b, "   %2d. %-20s %d\n", i+1, e.Key, e.Count)
		}
	}

	if len(s.Subdomains) > 0 {
		b.WriteString("\nALL SUBDOMAINS (ALPHABETICAL)\n")
		for _, e := range sortedByKey(s.Subdomains) {
			fmt.Fprintf(&b, "   %s, %d\n", e.Key, e.Count)
		}
	}

	b.WriteString("\n" + banner + "\n")
	return b.String()
}
