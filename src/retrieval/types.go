package retrieval

import (
	"net/url"
	"strings"
)

// Source is one piece of web or news evidence, normalized across fetchers.
type Source struct {
	URL           string `json:"url"`
	Title         string `json:"title,omitempty"`
	Text          string `json:"text,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
}

// NormalizeURL reduces a URL to its dedup key: scheme+host+path with any
// trailing slash stripped. Query strings and fragments are dropped so the
// same article reached via tracking params collapses to one entry.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.TrimSpace(raw), "/")
	}
	path := strings.TrimRight(u.Path, "/")
	return strings.ToLower(u.Scheme+"://"+u.Host) + path
}

// Merge combines source lists, deduplicating by normalized URL. The first
// occurrence wins; later duplicates are discarded even when they carry more
// fields.
func Merge(lists ...[]Source) []Source {
	seen := make(map[string]bool)
	var out []Source
	for _, list := range lists {
		for _, s := range list {
			if s.URL == "" {
				continue
			}
			key := NormalizeURL(s.URL)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}
