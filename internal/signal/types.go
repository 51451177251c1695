// Package signal detects statistical and structural anomaly patterns over
// a batch of story clusters. The four detectors are pure functions of the
// cluster list, a threshold config, and a clock value; each emits zero or
// more Signal records with a confidence in [0,1] and a cooldown-bounded
// lifetime.
package signal

import (
	"time"

	"github.com/abelbrown/vigil/internal/sources"
)

// Type identifies a detector.
type Type string

const (
	TypeVelocitySpike     Type = "velocity_spike"
	TypeConvergence       Type = "convergence"
	TypeTriangulation     Type = "triangulation"
	TypeHotspotEscalation Type = "hotspot_escalation"
)

// Signal is the common envelope for a detected pattern. Details holds the
// detector-specific payload; the variant set is closed, so consumers can
// switch on the concrete type exhaustively.
type Signal struct {
	ID               string    `json:"signal_id"`
	Type             Type      `json:"signal_type"`
	Confidence       float64   `json:"confidence"`
	Description      string    `json:"description"`
	AffectedClusters []string  `json:"affected_clusters"`
	Details          Details   `json:"details"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// Details is implemented by exactly the four per-type payload structs.
type Details interface {
	signalType() Type
}

// VelocityDetails payload for TypeVelocitySpike.
type VelocityDetails struct {
	ClusterCount int `json:"cluster_count"`
	Threshold    int `json:"threshold"`
}

func (VelocityDetails) signalType() Type { return TypeVelocitySpike }

// ConvergenceDetails payload for TypeConvergence.
type ConvergenceDetails struct {
	SourceClasses []sources.Class `json:"source_classes"`
	ClassCount    int             `json:"class_count"`
	ArticleCount  int             `json:"article_count"`
}

func (ConvergenceDetails) signalType() Type { return TypeConvergence }

// TriangulationDetails payload for TypeTriangulation.
type TriangulationDetails struct {
	SourceClasses []sources.Class `json:"source_classes"`
	ArticleCount  int             `json:"article_count"`
}

func (TriangulationDetails) signalType() Type { return TypeTriangulation }

// EscalationLevel discretizes the hotspot total score.
type EscalationLevel string

const (
	EscalationLow      EscalationLevel = "low"
	EscalationMedium   EscalationLevel = "medium"
	EscalationHigh     EscalationLevel = "high"
	EscalationCritical EscalationLevel = "critical"
)

// HotspotDetails payload for TypeHotspotEscalation.
type HotspotDetails struct {
	Level           EscalationLevel    `json:"escalation_level"`
	TotalScore      float64            `json:"total_score"`
	ComponentScores map[string]float64 `json:"component_scores"`
	ArticleCount    int                `json:"article_count"`
	Category        string             `json:"category"`
}

func (HotspotDetails) signalType() Type { return TypeHotspotEscalation }
