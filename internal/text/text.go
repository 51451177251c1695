// Package text provides tokenization and script normalization for
// keyword matching and cluster similarity.
//
// Two paths exist: the Latin path (Tokenize) produces stop-word-filtered
// token sets for clustering; the watchlist path (Normalize) produces a
// script-normalized string for substring keyword matching, mapping a fixed
// table of traditional-script characters to their simplified equivalents
// so keywords hit regardless of which script a headline uses.
package text

import "strings"

// Tokenize lowercases text, strips punctuation, and returns the set of
// tokens longer than two characters that are not stop words.
// Empty or whitespace-only input yields an empty set.
func Tokenize(text string) map[string]bool {
	lower := strings.ToLower(text)

	// Replace anything outside [a-z0-9] with a space
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	tokens := make(map[string]bool)
	for _, word := range strings.Fields(b.String()) {
		if len(word) > 2 && !stopWords[word] {
			tokens[word] = true
		}
	}
	return tokens
}

// Normalize prepares text for watchlist keyword matching: traditional
// characters are mapped to simplified, the result is lowercased, and
// runs of whitespace collapse to single spaces.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	mapped := strings.Map(func(r rune) rune {
		if simp, ok := tradToSimp[r]; ok {
			return simp
		}
		return r
	}, text)
	return strings.Join(strings.Fields(strings.ToLower(mapped)), " ")
}

// ContainsAny reports whether any keyword occurs in text as a substring.
// Both sides are normalized, so traditional and simplified forms match
// each other.
func ContainsAny(text string, keywords []string) bool {
	return ContainsAnyNormalized(Normalize(text), keywords)
}

// ContainsAnyNormalized is ContainsAny for text that has already been
// passed through Normalize. Keywords are still normalized per call.
func ContainsAnyNormalized(normalized string, keywords []string) bool {
	if normalized == "" {
		return false
	}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(normalized, Normalize(kw)) {
			return true
		}
	}
	return false
}
