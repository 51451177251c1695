package watchlist

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
	"github.com/abelbrown/vigil/internal/text"
)

const (
	maxEvidenceLinks   = 5
	maxRelatedEntities = 8
)

// Engine evaluates a sentinel catalog against cluster batches.
type Engine struct {
	cfg       config.WatchlistConfig
	sentinels []config.Sentinel
	cooldown  time.Duration
}

// New builds an engine. cooldown bounds each alert's lifetime and is
// shared with the pattern detectors.
func New(cfg config.WatchlistConfig, sentinels []config.Sentinel, cooldown time.Duration) *Engine {
	return &Engine{cfg: cfg, sentinels: sentinels, cooldown: cooldown}
}

// Evaluate runs every sentinel over the batch and returns alerts sorted
// by descending risk score, stable on ties. Sentinels are evaluated
// concurrently up to MaxParallel; clusters within a sentinel are walked
// sequentially so the first-encountered cluster wins risk ties.
func (e *Engine) Evaluate(ctx context.Context, clusters []cluster.Cluster, external map[string]Corroboration, now time.Time) []Alert {
	results := make([]*Alert, len(e.sentinels))

	g, _ := errgroup.WithContext(ctx)
	if e.cfg.MaxParallel > 0 {
		g.SetLimit(e.cfg.MaxParallel)
	} else {
		g.SetLimit(1)
	}
	for i, sentinel := range e.sentinels {
		i, sentinel := i, sentinel
		g.Go(func() error {
			results[i] = e.evaluateSentinel(sentinel, clusters, external[sentinel.ID], now)
			return nil
		})
	}
	// Sentinel evaluation is pure and never fails.
	_ = g.Wait()

	var alerts []Alert
	for _, a := range results {
		if a != nil {
			alerts = append(alerts, *a)
		}
	}
	sort.SliceStable(alerts, func(a, b int) bool {
		return alerts[a].RiskScore > alerts[b].RiskScore
	})
	return alerts
}

// evaluateSentinel scores each matching cluster and keeps the best
// candidate. A later cluster replaces the current best only with a
// strictly greater risk score.
func (e *Engine) evaluateSentinel(s config.Sentinel, clusters []cluster.Cluster, ext Corroboration, now time.Time) *Alert {
	var best *Alert
	matched := 0

	for _, c := range clusters {
		candidate := e.evaluateCluster(s, c, ext, now)
		if candidate == nil {
			continue
		}
		matched++
		if best == nil || candidate.RiskScore > best.RiskScore {
			best = candidate
		}
	}

	if best == nil {
		return nil
	}
	best.MatchedClusters = matched
	return best
}

func (e *Engine) evaluateCluster(s config.Sentinel, c cluster.Cluster, ext Corroboration, now time.Time) *Alert {
	clusterText := normalizedClusterText(c)
	if clusterText == "" {
		return nil
	}

	var hitGroups []string
	for name, keywords := range s.KeywordGroups {
		if text.ContainsAnyNormalized(clusterText, keywords) {
			hitGroups = append(hitGroups, name)
		}
	}
	sort.Strings(hitGroups)

	if len(hitGroups) < s.MinGroupsHit {
		return nil
	}
	for _, required := range s.RequiredGroups {
		if !containsString(hitGroups, required) {
			return nil
		}
	}

	domains := sources.Domains(c.Sources)
	uniqueDomains := len(domains)
	official := sources.CountMatching(domains, e.cfg.OfficialDomains)
	highTrust := sources.CountMatching(domains, e.cfg.HighTrustDomains)

	var entities []string
	if c.Summary != nil {
		entities = c.Summary.KeyEntities
	}

	scenarioScore := clampOne(float64(len(hitGroups)) / float64(max(len(s.KeywordGroups), 1)))
	velocityScore := clampOne(float64(c.ArticleCount) / 8.0)
	convergenceScore := clampOne(float64(uniqueDomains) / 5.0)
	sourceScore := clampOne(clampOne(float64(official)/2.0)*0.6 + clampOne(float64(highTrust)/3.0)*0.4)
	entityScore := clampOne(float64(len(entities)) / 6.0)
	externalScore := 0.0
	if ext.Observed {
		externalScore = clampOne(float64(ext.EventCount) / 40.0)
	}

	w := e.cfg.Weights
	risk := w.ScenarioMatch*scenarioScore +
		w.Velocity*velocityScore +
		w.Convergence*convergenceScore +
		w.SourceCredibility*sourceScore +
		w.EntitySpike*entityScore
	risk = clampOne(risk + e.cfg.ExternalBonusWeight*externalScore)

	level := e.levelFor(risk)
	officialEffective := text.ContainsAnyNormalized(clusterText, e.cfg.OfficialEffectiveKeywords)

	passL3 := official >= e.cfg.Gates.L3OfficialSourcesMin && uniqueDomains >= e.cfg.Gates.L3UniqueDomainsMin
	passL4 := officialEffective && highTrust >= e.cfg.Gates.L4HighTrustMin

	if level == LevelL4 && !passL4 {
		level = LevelL3
	}
	if (level == LevelL3 || level == LevelL4) && !passL3 {
		level = LevelL2
	}
	if level == levelNone {
		return nil
	}

	reasons := []string{
		fmt.Sprintf("matched groups: %s", strings.Join(hitGroups, ", ")),
		fmt.Sprintf("source domains: %d (official %d)", uniqueDomains, official),
		fmt.Sprintf("independent high-trust sources: %d", highTrust),
		fmt.Sprintf("entities: %d, articles: %d", len(entities), c.ArticleCount),
	}
	if officialEffective {
		reasons = append(reasons, "official effective-language keyword hit")
	}
	if ext.Observed && ext.EventCount > 0 {
		reasons = append(reasons, fmt.Sprintf("external feed matched %d events", ext.EventCount))
	}

	category := c.Category
	if category == "" {
		category = s.Category
	}

	reviewMinutes := e.cfg.ReviewMinutes[string(level)]
	if reviewMinutes <= 0 {
		reviewMinutes = 120
	}
	action := e.cfg.SuggestedActions[string(level)]
	if action == "" {
		action = "Review manually and keep watching."
	}

	stats := SourceStats{
		UniqueDomains:     uniqueDomains,
		OfficialSources:   official,
		HighTrustSources:  highTrust,
		OfficialEffective: officialEffective,
	}
	if ext.Observed {
		stats.ExternalEvents = ext.EventCount
	}

	return &Alert{
		DedupeKey:       dedupe.CooldownKey("watchlist_alert", s.ID+":"+c.ID, dedupe.HourBucket(now)),
		SentinelID:      s.ID,
		SentinelName:    s.Name,
		Level:           level,
		RiskScore:       risk,
		Confidence:      min(0.95, max(0.55, risk)),
		Description:     fmt.Sprintf("%s alert level %s, risk %.2f", s.Name, level, risk),
		ClusterID:       c.ID,
		ClusterTitle:    c.PrimaryTitle,
		Category:        category,
		TriggerReasons:  reasons,
		EvidenceLinks:   capStrings(c.Links, maxEvidenceLinks),
		RelatedEntities: capStrings(entities, maxRelatedEntities),
		SuggestedAction: action,
		SourceStats:     stats,
		CreatedAt:       now,
		NextReviewAt:    now.Add(time.Duration(reviewMinutes) * time.Minute),
		ExpiresAt:       now.Add(e.cooldown),
	}
}

// levelFor maps a risk score to the highest level whose threshold it
// meets, before gates apply.
func (e *Engine) levelFor(risk float64) Level {
	for _, level := range []Level{LevelL4, LevelL3, LevelL2, LevelL1} {
		if threshold, ok := e.cfg.LevelThresholds[string(level)]; ok && risk >= threshold {
			return level
		}
	}
	return levelNone
}

// normalizedClusterText joins the cluster's title and summary fields into
// the normalized haystack used for keyword matching.
func normalizedClusterText(c cluster.Cluster) string {
	pieces := []string{c.PrimaryTitle}
	if c.Summary != nil {
		pieces = append(pieces, c.Summary.Summary, c.Summary.Impact, c.Summary.Trend)
	}
	var nonEmpty []string
	for _, p := range pieces {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return text.Normalize(strings.Join(nonEmpty, " "))
}

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func capStrings(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func clampOne(v float64) float64 {
	return min(1.0, v)
}
