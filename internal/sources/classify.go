// Package sources classifies news source URLs/domains into a small set of
// credibility classes, and normalizes domains for corroboration counting.
package sources

import (
	"net/url"
	"strings"
)

// Class is a source credibility class.
type Class string

const (
	ClassWire       Class = "wire"
	ClassGov        Class = "gov"
	ClassIntel      Class = "intel"
	ClassMainstream Class = "mainstream"
	ClassFinancial  Class = "financial"
	ClassOther      Class = "other"
)

// The lists below are checked in order; a source matching two lists takes
// the class of whichever is checked first (wire > gov > intel > mainstream
// > financial > other). Keep that precedence when editing.

var wireAgencies = []string{
	"reuters", "ap.org", "afp", "bloomberg", "associated press",
}

var intelOrgs = []string{
	"rand.org", "csis.org", "brookings.edu", "cfr.org", "carnegie",
	"heritage.org", "aei.org", "cato.org", "stratfor", "janes.com",
}

var mainstreamMedia = []string{
	"nytimes.com", "washingtonpost.com", "bbc.com", "bbc.co.uk",
	"cnn.com", "nbcnews.com", "abcnews.go.com", "cbsnews.com",
	"foxnews.com", "usatoday.com", "latimes.com", "chicagotribune.com",
}

var financialMedia = []string{
	"wsj.com", "ft.com", "cnbc.com", "marketwatch.com", "barrons.com",
	"economist.com", "forbes.com", "fortune.com",
}

// Classify maps a source URL or bare domain to its credibility class.
// Unrecognized sources classify as ClassOther.
func Classify(source string) Class {
	s := strings.ToLower(source)
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Hostname() != "" {
			s = u.Hostname()
		}
	}

	for _, agency := range wireAgencies {
		if strings.Contains(s, agency) {
			return ClassWire
		}
	}
	if strings.Contains(s, ".gov") {
		return ClassGov
	}
	for _, org := range intelOrgs {
		if strings.Contains(s, org) {
			return ClassIntel
		}
	}
	for _, media := range mainstreamMedia {
		if strings.Contains(s, media) {
			return ClassMainstream
		}
	}
	for _, media := range financialMedia {
		if strings.Contains(s, media) {
			return ClassFinancial
		}
	}
	return ClassOther
}

// ClassSet classifies every source and returns the set of distinct classes.
func ClassSet(srcs []string) map[Class]bool {
	set := make(map[Class]bool)
	for _, s := range srcs {
		set[Classify(s)] = true
	}
	return set
}

// Domains normalizes a source list to bare lowercase domains: URLs are
// stripped to their host, a leading "www." is removed, and duplicates drop
// while preserving first-seen order.
func Domains(srcs []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range srcs {
		d := strings.ToLower(strings.TrimSpace(s))
		if d == "" {
			continue
		}
		if strings.Contains(d, "://") {
			if u, err := url.Parse(d); err == nil && u.Hostname() != "" {
				d = u.Hostname()
			}
		}
		d = strings.TrimPrefix(d, "www.")
		if d != "" && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// MatchesAny reports whether a normalized domain matches any hint, by
// suffix or containment.
func MatchesAny(domain string, hints []string) bool {
	for _, hint := range hints {
		h := strings.ToLower(hint)
		if strings.HasSuffix(domain, h) || strings.Contains(domain, h) {
			return true
		}
	}
	return false
}

// CountMatching returns how many domains match the hint list.
func CountMatching(domains []string, hints []string) int {
	n := 0
	for _, d := range domains {
		if MatchesAny(d, hints) {
			n++
		}
	}
	return n
}
