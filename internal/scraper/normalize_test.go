package scraper

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse base %q: %v", raw, err)
	}
	return u
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://a.ics.uci.edu/x/")
	cases := []struct {
		name string
		href string
		want string
	}{
		{"relative with fragment", "y.html#frag", "https://a.ics.uci.edu/x/y.html"},
		{"rooted path", "/about", "https://a.ics.uci.edu/about"},
		{"absolute", "http://other.cs.uci.edu/p?q=1", "http://other.cs.uci.edu/p?q=1"},
		{"protocol relative", "//www.ics.uci.edu/r", "https://www.ics.uci.edu/r"},
		{"parent traversal", "../top", "https://a.ics.uci.edu/top"},
		{"fragment stripped from absolute", "https://a.ics.uci.edu/p#sec", "https://a.ics.uci.edu/p"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Normalize(base, tc.href)
			if !ok {
				t.Fatalf("Normalize(%q) unexpectedly skipped", tc.href)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.href, got, tc.want)
			}
		})
	}
}

// Canonicalization must stay minimal: the output is the exact dedup key, so
// case, trailing slashes, and query order all pass through untouched.
func TestNormalizeIsMinimal(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://a.ics.uci.edu/")
	cases := []struct {
		href string
		want string
	}{
		{"https://A.ICS.uci.edu/Path/", "https://A.ICS.uci.edu/Path/"},
		{"/dir/", "https://a.ics.uci.edu/dir/"},
		{"/p?b=2&a=1", "https://a.ics.uci.edu/p?b=2&a=1"},
		{"https://a.ics.uci.edu:443/p", "https://a.ics.uci.edu:443/p"},
	}
	for _, tc := range cases {
		got, ok := Normalize(base, tc.href)
		if !ok {
			t.Fatalf("Normalize(%q) unexpectedly skipped", tc.href)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestNormalizeSkipsNonLinks(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://a.ics.uci.edu/x/")
	for _, href := range []string{
		"",
		"   ",
		"#top",
		"javascript:void(0)",
		"MAILTO:someone@uci.edu",
		"tel:+19495551234",
		"data:text/plain;base64,aGk=",
		"http://bad host/",
	} {
		if got, ok := Normalize(base, href); ok {
			t.Fatalf("Normalize(%q) = %q, expected skip", href, got)
		}
	}
}
