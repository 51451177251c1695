// Package config holds the engine's static configuration: clustering and
// detector thresholds, watchlist scoring weights and gates, domain hint
// lists, and the sentinel catalog. One immutable Config value is built at
// startup and threaded explicitly through every detector and engine call;
// nothing reads configuration from globals.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the full engine configuration.
type Config struct {
	// SimilarityThreshold is the minimum Jaccard similarity for an
	// article to merge into a cluster.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	Signals   SignalConfig    `json:"signals"`
	Watchlist WatchlistConfig `json:"watchlist"`
	Feed      FeedConfig      `json:"feed"`
}

// SignalConfig tunes the four pattern detectors.
type SignalConfig struct {
	// VelocitySpikeCount: emit a velocity signal when the batch holds at
	// least this many clusters.
	VelocitySpikeCount int `json:"velocity_spike_count"`

	// ConvergenceMinClasses: minimum distinct source classes for a
	// convergence signal.
	ConvergenceMinClasses int `json:"convergence_min_classes"`

	// HotspotMinArticles: minimum cluster size for an escalation signal.
	HotspotMinArticles int `json:"hotspot_min_articles"`

	// CooldownHours: signal time-to-live; expires_at = created_at + this.
	CooldownHours int `json:"cooldown_hours"`

	// TopicKeywords feed the hotspot keyword-intensity sub-score.
	TopicKeywords map[string][]string `json:"topic_keywords,omitempty"`
}

// WatchlistConfig tunes the sentinel engine.
type WatchlistConfig struct {
	// LevelThresholds maps "L1".."L4" to the minimum risk score for that
	// level. Scores below L1 map to L0 and are dropped.
	LevelThresholds map[string]float64 `json:"level_thresholds"`

	Weights RiskWeights `json:"weights"`

	// ExternalBonusWeight scales the external-corroboration score added
	// on top of the weighted sum.
	ExternalBonusWeight float64 `json:"external_bonus_weight"`

	Gates Gates `json:"gates"`

	// ReviewMinutes maps alert level to the review window in minutes.
	ReviewMinutes map[string]int `json:"review_minutes"`

	// SuggestedActions maps alert level to operator guidance text.
	SuggestedActions map[string]string `json:"suggested_actions"`

	OfficialDomains           []string `json:"official_domains,omitempty"`
	HighTrustDomains          []string `json:"high_trust_domains,omitempty"`
	OfficialEffectiveKeywords []string `json:"official_effective_keywords,omitempty"`

	// MaxParallel bounds concurrent sentinel evaluations. <=0 evaluates
	// sequentially.
	MaxParallel int `json:"max_parallel"`
}

// RiskWeights are the five sub-score weights. They are expected to sum to
// 1.0 but the engine does not renormalize.
type RiskWeights struct {
	ScenarioMatch     float64 `json:"scenario_match"`
	Velocity          float64 `json:"velocity"`
	Convergence       float64 `json:"convergence"`
	SourceCredibility float64 `json:"source_credibility"`
	EntitySpike       float64 `json:"entity_spike"`
}

// Gates are the corroboration prerequisites for the top two levels. A
// score-implied L4 that fails its gate demotes to L3; L3 (including a
// demoted L4) that fails its gate demotes to L2.
type Gates struct {
	L3OfficialSourcesMin int `json:"l3_official_sources_min"`
	L3UniqueDomainsMin   int `json:"l3_unique_domains_min"`
	L4HighTrustMin       int `json:"l4_independent_high_trust_min"`
}

// FeedConfig configures the optional external corroboration feed.
type FeedConfig struct {
	// URL of the feed endpoint; empty disables the lookup entirely.
	URL string `json:"url,omitempty"`

	// TimeoutSeconds bounds the fetch; on timeout or error the engine
	// degrades to a zero external contribution.
	TimeoutSeconds int `json:"timeout_seconds"`

	// RequestsPerMinute caps the request rate to the feed.
	RequestsPerMinute int `json:"requests_per_minute"`
}

// Default returns the production defaults.
func Default() *Config {
	return &Config{
		SimilarityThreshold: 0.3,
		Signals: SignalConfig{
			VelocitySpikeCount:    5,
			ConvergenceMinClasses: 2,
			HotspotMinArticles:    3,
			CooldownHours:         2,
			TopicKeywords:         defaultTopicKeywords(),
		},
		Watchlist: WatchlistConfig{
			LevelThresholds: map[string]float64{
				"L1": 0.35, "L2": 0.55, "L3": 0.72, "L4": 0.88,
			},
			Weights: RiskWeights{
				ScenarioMatch:     0.30,
				Velocity:          0.20,
				Convergence:       0.20,
				SourceCredibility: 0.20,
				EntitySpike:       0.10,
			},
			ExternalBonusWeight: 0.08,
			Gates: Gates{
				L3OfficialSourcesMin: 1,
				L3UniqueDomainsMin:   3,
				L4HighTrustMin:       2,
			},
			ReviewMinutes: map[string]int{
				"L1": 240, "L2": 120, "L3": 30, "L4": 15,
			},
			SuggestedActions: map[string]string{
				"L1": "Keep watching; wait for multi-source convergence before escalating.",
				"L2": "Start rapid verification and fill in the key evidence links.",
				"L3": "Trigger the alert workflow; complete review and brief the on-call within 15 minutes.",
				"L4": "Enter emergency response; escalate immediately and track official updates continuously.",
			},
			OfficialDomains:           defaultOfficialDomains(),
			HighTrustDomains:          defaultHighTrustDomains(),
			OfficialEffectiveKeywords: defaultOfficialEffectiveKeywords(),
			MaxParallel:               4,
		},
		Feed: FeedConfig{
			TimeoutSeconds:    5,
			RequestsPerMinute: 30,
		},
	}
}

// Load reads a JSON config from path, filling omitted sections with
// defaults. A missing file returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
