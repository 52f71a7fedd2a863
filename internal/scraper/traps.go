package scraper

import "strings"

// TrapCategory labels a URL or content pattern indicative of infinite or
// low-value crawl space.
type TrapCategory string

// Known trap categories.
const (
	TrapCalendarEvent TrapCategory = "calendar_event"
	TrapLowContent    TrapCategory = "low_content"
)

// MinContentBytes is the smallest body that is not a low-content trap.
const MinContentBytes = 500

// trapKeywords are matched case-insensitively as substrings of the whole
// URL. Calendar and event pages paginate forever.
var trapKeywords = []string{"calendar", "event"}

// ClassifyURL reports whether the URL matches a known trap pattern.
func ClassifyURL(rawURL string) (TrapCategory, bool) {
	lower := strings.ToLower(rawURL)
	for _, kw := range trapKeywords {
		if strings.Contains(lower, kw) {
			return TrapCalendarEvent, true
		}
	}
	return "", false
}

// ClassifyContent reports whether a successfully fetched body of the given
// byte length is a low-content trap.
func ClassifyContent(byteLength int) (TrapCategory, bool) {
	if byteLength < MinContentBytes {
		return TrapLowContent, true
	}
	return "", false
}
