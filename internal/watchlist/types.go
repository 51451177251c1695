// Package watchlist evaluates curated risk sentinels against story
// clusters and emits graded alerts. Each sentinel produces at most one
// alert per batch: the matching cluster with the highest risk score.
package watchlist

import "time"

// Level is the alert grade. L0 exists only as the below-threshold
// outcome and is never emitted.
type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
	LevelL4 Level = "L4"

	levelNone Level = "L0"
)

// Corroboration is the external event count for a sentinel, or the fact
// that no lookup result was available. An unobserved value contributes
// zero to the risk score and is never confused with an observed zero.
type Corroboration struct {
	EventCount int
	Observed   bool
}

// SourceStats summarizes the evidence behind an alert.
type SourceStats struct {
	UniqueDomains     int  `json:"unique_domains"`
	OfficialSources   int  `json:"official_sources"`
	HighTrustSources  int  `json:"independent_high_trust"`
	OfficialEffective bool `json:"official_text_effective"`
	ExternalEvents    int  `json:"external_event_count"`
}

// Alert is one emitted sentinel alert.
type Alert struct {
	DedupeKey       string      `json:"dedupe_key"`
	SentinelID      string      `json:"sentinel_id"`
	SentinelName    string      `json:"sentinel_name"`
	Level           Level       `json:"alert_level"`
	RiskScore       float64     `json:"risk_score"`
	Confidence      float64     `json:"confidence"`
	Description     string      `json:"description"`
	ClusterID       string      `json:"cluster_id"`
	ClusterTitle    string      `json:"cluster_title"`
	Category        string      `json:"category"`
	TriggerReasons  []string    `json:"trigger_reasons"`
	EvidenceLinks   []string    `json:"evidence_links"`
	RelatedEntities []string    `json:"related_entities,omitempty"`
	SuggestedAction string      `json:"suggested_action"`
	MatchedClusters int         `json:"matched_cluster_count"`
	SourceStats     SourceStats `json:"source_stats"`
	CreatedAt       time.Time   `json:"created_at"`
	NextReviewAt    time.Time   `json:"next_review_time"`
	ExpiresAt       time.Time   `json:"expires_at"`
}
