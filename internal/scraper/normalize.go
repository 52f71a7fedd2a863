package scraper

import (
	"net/url"
	"strings"
)

// nonLinkSchemes are anchor targets that never become crawlable links.
var nonLinkSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Normalize resolves rawHref against base and strips the fragment.
// Canonicalization is intentionally minimal: no case folding, no
// trailing-slash or query rewriting, so the result is the exact string
// used as the dedup key. The boolean is false when the href cannot become
// a link (empty, fragment-only, non-web scheme, or unparseable).
func Normalize(base *url.URL, rawHref string) (string, bool) {
	href := strings.TrimSpace(rawHref)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, scheme := range nonLinkSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String(), true
}
