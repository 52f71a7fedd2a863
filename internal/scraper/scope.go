package scraper

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// defaultHostSuffixes are the domains the crawler stays inside. A host
// matches when it ends with a suffix or equals the suffix minus its
// leading dot.
var defaultHostSuffixes = []string{
	".ics.uci.edu",
	".cs.uci.edu",
	".informatics.uci.edu",
	".stat.uci.edu",
}

// disallowedExtensions lists the non-document file types excluded from the
// crawl: stylesheets, scripts, images, audio, video, archives, and office
// formats. Matched against the lowercased final path extension.
var disallowedExtensions = []string{
	"css", "js", "bmp", "gif", "jpg", "jpeg", "ico", "png", "tiff", "tif",
	"mid", "mp2", "mp3", "mp4", "wav", "avi", "mov", "mpeg", "ram", "m4v",
	"mkv", "ogg", "ogv", "pdf", "ps", "eps", "tex", "ppt", "pptx", "doc",
	"docx", "xls", "xlsx", "names", "data", "dat", "exe", "bz2", "tar",
	"msi", "bin", "7z", "psd", "dmg", "iso", "epub", "dll", "cnf", "tgz",
	"sha1", "thmx", "mso", "arff", "rtf", "jar", "csv", "rm", "smil",
	"wmv", "swf", "wma", "zip", "rar", "gz",
}

// Rule is the immutable crawl scope: allowed schemes, allowed host
// suffixes, and the path extensions that never identify documents.
type Rule struct {
	schemes    map[string]struct{}
	suffixes   []string
	bareHosts  map[string]struct{}
	extensions map[string]struct{}
}

// NewRule builds a Rule from host suffixes. Suffixes may be given with or
// without the leading dot; either way the bare domain itself also matches.
func NewRule(hostSuffixes []string) Rule {
	r := Rule{
		schemes:    map[string]struct{}{"http": {}, "https": {}},
		bareHosts:  make(map[string]struct{}),
		extensions: make(map[string]struct{}, len(disallowedExtensions)),
	}
	for _, raw := range hostSuffixes {
		value := strings.TrimSpace(strings.ToLower(raw))
		if value == "" {
			continue
		}
		bare := strings.TrimPrefix(value, ".")
		r.suffixes = append(r.suffixes, "."+bare)
		r.bareHosts[bare] = struct{}{}
	}
	for _, ext := range disallowedExtensions {
		r.extensions[ext] = struct{}{}
	}
	return r
}

// DefaultRule returns the production crawl scope.
func DefaultRule() Rule {
	return NewRule(defaultHostSuffixes)
}

// IsInScope reports whether rawURL may be crawled. A URL that cannot be
// parsed returns an error rather than a silent false so malformed-input
// bugs surface at the caller.
func (r Rule) IsInScope(rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if _, ok := r.schemes[strings.ToLower(u.Scheme)]; !ok {
		return false, nil
	}
	if !r.hostAllowed(strings.ToLower(u.Hostname())) {
		return false, nil
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	if ext != "" {
		if _, blocked := r.extensions[ext]; blocked {
			return false, nil
		}
	}
	return true, nil
}

func (r Rule) hostAllowed(host string) bool {
	if host == "" {
		return false
	}
	if _, ok := r.bareHosts[host]; ok {
		return true
	}
	for _, suffix := range r.suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
