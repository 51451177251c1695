package signal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/vigil/internal/cluster"
	"github.com/abelbrown/vigil/internal/config"
	"github.com/abelbrown/vigil/internal/dedupe"
	"github.com/abelbrown/vigil/internal/sources"
)

// classObservation is the source-class set for a cluster, or the fact that
// the cluster carried no source information at all. Detectors that accept
// a fallback apply it explicitly where they consume this; detectors that
// don't simply skip unobserved clusters.
type classObservation struct {
	classes  map[sources.Class]bool
	observed bool
}

func observeClasses(c cluster.Cluster) classObservation {
	if len(c.Sources) == 0 {
		return classObservation{}
	}
	return classObservation{classes: sources.ClassSet(c.Sources), observed: true}
}

// DetectVelocitySpike emits one signal when the batch holds at least the
// configured number of clusters. The whole batch is treated as a single
// current window; there is no bucketing by article timestamps.
func DetectVelocitySpike(clusters []cluster.Cluster, cfg config.SignalConfig, now time.Time) []Signal {
	threshold := cfg.VelocitySpikeCount
	count := len(clusters)
	if count < threshold || threshold <= 0 {
		return nil
	}

	ids := clusterIDs(clusters)
	confidence := min(0.95, 0.6+0.05*float64(count-threshold))

	return []Signal{{
		ID:               dedupe.SignalID(string(TypeVelocitySpike), ids),
		Type:             TypeVelocitySpike,
		Confidence:       confidence,
		Description:      fmt.Sprintf("%d news clusters in the current window, above threshold %d", count, threshold),
		AffectedClusters: ids,
		Details: VelocityDetails{
			ClusterCount: count,
			Threshold:    threshold,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(cfg.CooldownHours) * time.Hour),
	}}
}

// DetectConvergence emits a signal per cluster whose sources span at least
// the configured number of distinct credibility classes. Clusters without
// source data fall back to a weak size heuristic: 5+ articles assume
// {wire, mainstream}, 3+ assume {mainstream}, otherwise nothing.
func DetectConvergence(clusters []cluster.Cluster, cfg config.SignalConfig, now time.Time) []Signal {
	var signals []Signal
	for _, c := range clusters {
		obs := observeClasses(c)
		classes := obs.classes
		if !obs.observed {
			switch {
			case c.ArticleCount >= 5:
				classes = map[sources.Class]bool{sources.ClassWire: true, sources.ClassMainstream: true}
			case c.ArticleCount >= 3:
				classes = map[sources.Class]bool{sources.ClassMainstream: true}
			}
		}

		if len(classes) < cfg.ConvergenceMinClasses {
			continue
		}

		confidence := min(0.95, 0.6+0.1*float64(len(classes)-2))
		signals = append(signals, Signal{
			ID:               dedupe.SignalID(string(TypeConvergence), []string{c.ID}),
			Type:             TypeConvergence,
			Confidence:       confidence,
			Description:      fmt.Sprintf("cluster %q covered by %d distinct source classes", truncate(c.PrimaryTitle, 50), len(classes)),
			AffectedClusters: []string{c.ID},
			Details: ConvergenceDetails{
				SourceClasses: sortedClasses(classes),
				ClassCount:    len(classes),
				ArticleCount:  c.ArticleCount,
			},
			CreatedAt: now,
			ExpiresAt: now.Add(time.Duration(cfg.CooldownHours) * time.Hour),
		})
	}
	return signals
}

// DetectTriangulation emits a fixed-confidence signal for clusters whose
// sources include all of wire, government, and intel/think-tank reporting.
// Clusters without source data never fire; there is no heuristic here.
func DetectTriangulation(clusters []cluster.Cluster, cfg config.SignalConfig, now time.Time) []Signal {
	var signals []Signal
	for _, c := range clusters {
		obs := observeClasses(c)
		if !obs.observed {
			continue
		}
		if !obs.classes[sources.ClassWire] || !obs.classes[sources.ClassGov] || !obs.classes[sources.ClassIntel] {
			continue
		}

		signals = append(signals, Signal{
			ID:               dedupe.SignalID(string(TypeTriangulation), []string{c.ID}),
			Type:             TypeTriangulation,
			Confidence:       0.9,
			Description:      fmt.Sprintf("cluster %q cross-verified by wire, government, and intel sources", truncate(c.PrimaryTitle, 50)),
			AffectedClusters: []string{c.ID},
			Details: TriangulationDetails{
				SourceClasses: sortedClasses(obs.classes),
				ArticleCount:  c.ArticleCount,
			},
			CreatedAt: now,
			ExpiresAt: now.Add(time.Duration(cfg.CooldownHours) * time.Hour),
		})
	}
	return signals
}

// Hotspot scoring weights (out of a 0-100 total).
const (
	weightNewsVelocity     = 0.35
	weightGeographic       = 0.25
	weightSourceDiversity  = 0.25
	weightKeywordIntensity = 0.15
)

// DetectHotspotEscalation scores each cluster on four 0-100 components,
// combines them with fixed weights, and emits a signal for clusters at
// medium level or above that also meet the minimum article count.
func DetectHotspotEscalation(clusters []cluster.Cluster, cfg config.SignalConfig, now time.Time) []Signal {
	var signals []Signal
	for _, c := range clusters {
		count := float64(c.ArticleCount)
		scores := map[string]float64{
			"news_velocity":     min(100, count*20),
			"source_diversity":  min(100, count*15),
			"keyword_intensity": min(100, float64(countTopicKeywords(c.PrimaryTitle, cfg.TopicKeywords))*25),
			"geographic":        min(100, count*10),
		}

		total := scores["news_velocity"]*weightNewsVelocity +
			scores["geographic"]*weightGeographic +
			scores["source_diversity"]*weightSourceDiversity +
			scores["keyword_intensity"]*weightKeywordIntensity

		level := escalationLevel(total)
		if level == EscalationLow || c.ArticleCount < cfg.HotspotMinArticles {
			continue
		}

		signals = append(signals, Signal{
			ID:               dedupe.SignalID(string(TypeHotspotEscalation), []string{c.ID}),
			Type:             TypeHotspotEscalation,
			Confidence:       min(0.95, total/100),
			Description:      fmt.Sprintf("cluster %q escalation level %s", truncate(c.PrimaryTitle, 50), level),
			AffectedClusters: []string{c.ID},
			Details: HotspotDetails{
				Level:           level,
				TotalScore:      total,
				ComponentScores: scores,
				ArticleCount:    c.ArticleCount,
				Category:        c.Category,
			},
			CreatedAt: now,
			ExpiresAt: now.Add(time.Duration(cfg.CooldownHours) * time.Hour),
		})
	}
	return signals
}

// DetectAll runs the four detectors concurrently over the same immutable
// cluster slice and returns the merged signal list sorted by descending
// confidence, stable on ties. Output is deterministic for a given input
// and configuration.
func DetectAll(ctx context.Context, clusters []cluster.Cluster, cfg config.SignalConfig, now time.Time) []Signal {
	detectors := []func([]cluster.Cluster, config.SignalConfig, time.Time) []Signal{
		DetectVelocitySpike,
		DetectConvergence,
		DetectTriangulation,
		DetectHotspotEscalation,
	}

	results := make([][]Signal, len(detectors))
	g, _ := errgroup.WithContext(ctx)
	for i, detect := range detectors {
		i, detect := i, detect
		g.Go(func() error {
			results[i] = detect(clusters, cfg, now)
			return nil
		})
	}
	// Detectors are pure and never fail.
	_ = g.Wait()

	var all []Signal
	for _, r := range results {
		all = append(all, r...)
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Confidence > all[b].Confidence
	})
	return all
}

func escalationLevel(total float64) EscalationLevel {
	switch {
	case total >= 80:
		return EscalationCritical
	case total >= 60:
		return EscalationHigh
	case total >= 40:
		return EscalationMedium
	default:
		return EscalationLow
	}
}

// countTopicKeywords counts configured topic keywords appearing in the
// title, case-insensitively, across every topic group.
func countTopicKeywords(title string, topics map[string][]string) int {
	lower := strings.ToLower(title)
	n := 0
	for _, keywords := range topics {
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				n++
			}
		}
	}
	return n
}

func clusterIDs(clusters []cluster.Cluster) []string {
	ids := make([]string, len(clusters))
	for i, c := range clusters {
		ids[i] = c.ID
	}
	return ids
}

func sortedClasses(set map[sources.Class]bool) []sources.Class {
	out := make([]sources.Class, 0, len(set))
	for class := range set {
		out = append(out, class)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// truncate shortens s to maxLen characters. Counting runes keeps CJK
// titles from being cut mid-character.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
