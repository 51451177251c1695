// Package cluster groups articles into story clusters using Jaccard
// similarity over token sets. An inverted index restricts comparisons to
// candidates sharing at least one token, so cost scales with shared-token
// pairs rather than all pairs.
package cluster

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/abelbrown/vigil/internal/text"
)

// Article is one ingested news item, supplied by the ingestion layer.
type Article struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Sources  []string `json:"sources,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// Summary holds externally-supplied enrichment for a cluster. The engine
// never produces these itself; when present they widen the watchlist
// matching text and feed the entity sub-score.
type Summary struct {
	Summary     string   `json:"summary,omitempty"`
	Impact      string   `json:"impact,omitempty"`
	Trend       string   `json:"trend,omitempty"`
	KeyEntities []string `json:"key_entities,omitempty"`
}

// Cluster is a deduplicated story: a group of articles judged to describe
// the same event. Recomputed every run; the ID is a content hash of the
// member titles, so identical title sets always produce the same ID.
type Cluster struct {
	ID           string   `json:"cluster_id"`
	ArticleIDs   []int    `json:"article_ids"`
	Titles       []string `json:"titles"`
	PrimaryTitle string   `json:"primary_title"`
	Category     string   `json:"category"`
	ArticleCount int      `json:"article_count"`
	Sources      []string `json:"sources,omitempty"`
	Links        []string `json:"links,omitempty"`

	// TokenSet is the merged token set of all members.
	TokenSet map[string]bool `json:"-"`

	// Summary is optional external enrichment (see Summary).
	Summary *Summary `json:"summary,omitempty"`
}

// Jaccard returns |A∩B| / |A∪B| for two token sets.
// Empty sets yield 0; identical non-empty sets yield 1.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// ID returns the cluster id for a set of member titles: the first 16 hex
// characters of the MD5 of the sorted, space-joined titles.
func ID(titles []string) string {
	sorted := make([]string, len(titles))
	copy(sorted, titles)
	sort.Strings(sorted)
	sum := md5.Sum([]byte(strings.Join(sorted, " ")))
	return hex.EncodeToString(sum[:])[:16]
}

// Group clusters articles greedily in input order. Each unassigned article
// seeds a new cluster; candidates sharing at least one token with the seed
// are merged in when their Jaccard similarity against the cluster's
// accumulating merged token set reaches threshold. The merged set grows as
// members join, so later candidates are compared against the evolving
// union, not the seed alone.
//
// The returned clusters partition the input (every article appears in
// exactly one cluster) and are sorted by descending article count, stable
// on ties. Empty input returns nil.
func Group(articles []Article, threshold float64) []Cluster {
	if len(articles) == 0 {
		return nil
	}

	tokens := make([]map[string]bool, len(articles))
	for i, a := range articles {
		tokens[i] = text.Tokenize(a.Title)
	}

	// Inverted index: token -> article positions containing it
	index := make(map[string][]int)
	for i, set := range tokens {
		for tok := range set {
			index[tok] = append(index[tok], i)
		}
	}

	processed := make([]bool, len(articles))
	var clusters []Cluster

	for i := range articles {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []int{i}
		merged := make(map[string]bool, len(tokens[i]))
		for tok := range tokens[i] {
			merged[tok] = true
		}

		// Candidates: union of index entries for the seed's tokens,
		// in input order for determinism.
		seen := make(map[int]bool)
		var candidates []int
		for tok := range tokens[i] {
			for _, j := range index[tok] {
				if j != i && !processed[j] && !seen[j] {
					seen[j] = true
					candidates = append(candidates, j)
				}
			}
		}
		sort.Ints(candidates)

		for _, j := range candidates {
			if processed[j] {
				continue
			}
			if Jaccard(merged, tokens[j]) >= threshold {
				members = append(members, j)
				for tok := range tokens[j] {
					merged[tok] = true
				}
				processed[j] = true
			}
		}

		clusters = append(clusters, build(articles, members, merged))
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].ArticleCount > clusters[b].ArticleCount
	})
	return clusters
}

// build assembles the output record for one cluster.
func build(articles []Article, members []int, merged map[string]bool) Cluster {
	c := Cluster{
		TokenSet:     merged,
		ArticleCount: len(members),
	}

	seenSource := make(map[string]bool)
	seenLink := make(map[string]bool)
	for _, idx := range members {
		a := articles[idx]
		c.ArticleIDs = append(c.ArticleIDs, a.ID)
		c.Titles = append(c.Titles, a.Title)
		if len(a.Title) > len(c.PrimaryTitle) {
			c.PrimaryTitle = a.Title
		}
		for _, src := range a.Sources {
			if src != "" && !seenSource[src] {
				seenSource[src] = true
				c.Sources = append(c.Sources, src)
			}
		}
		if a.URL != "" && !seenLink[a.URL] {
			seenLink[a.URL] = true
			c.Links = append(c.Links, a.URL)
		}
	}

	c.Category = majorityCategory(articles, members)
	c.ID = ID(c.Titles)
	return c
}

// majorityCategory returns the most common member category, ties broken by
// first encountered. Articles without a category count as "unknown".
func majorityCategory(articles []Article, members []int) string {
	counts := make(map[string]int)
	var order []string
	for _, idx := range members {
		cat := articles[idx].Category
		if cat == "" {
			cat = "unknown"
		}
		if _, ok := counts[cat]; !ok {
			order = append(order, cat)
		}
		counts[cat]++
	}

	best := "unknown"
	bestCount := 0
	for _, cat := range order {
		if counts[cat] > bestCount {
			best = cat
			bestCount = counts[cat]
		}
	}
	return best
}
