package watchlist

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/vigil/internal/cluster"
	"github.com/abelbrown/vigil/internal/config"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func taiwanSentinel() config.Sentinel {
	for _, s := range config.DefaultSentinels() {
		if s.ID == "taiwan_strait_military" {
			return s
		}
	}
	panic("taiwan_strait_military sentinel missing from default catalog")
}

func newTestEngine(sentinels ...config.Sentinel) *Engine {
	return New(config.Default().Watchlist, sentinels, 2*time.Hour)
}

// fullEvidenceCluster matches all three taiwan sentinel groups and
// carries maximal supporting evidence.
func fullEvidenceCluster(id string) cluster.Cluster {
	return cluster.Cluster{
		ID:           id,
		PrimaryTitle: "解放军台海实弹演训 航母编队出动",
		ArticleCount: 8,
		Sources: []string{
			"reuters.com", "apnews.com", "wsj.com", "defense.gov", "mod.go.jp",
		},
		Links: []string{"https://reuters.com/a", "https://apnews.com/b"},
		Summary: &cluster.Summary{
			Summary:     "多方证实军演正式生效范围扩大",
			KeyEntities: []string{"解放军", "航母", "台海", "美军", "国防部", "东部战区"},
		},
	}
}

func TestEvaluateFullEvidenceReachesL4(t *testing.T) {
	engine := newTestEngine(taiwanSentinel())
	c := fullEvidenceCluster("abc123")
	external := map[string]Corroboration{
		"taiwan_strait_military": {EventCount: 40, Observed: true},
	}

	alerts := engine.Evaluate(context.Background(), []cluster.Cluster{c}, external, testNow)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]

	// scenario 3/3, velocity 8/8, convergence 5/5, source saturated,
	// entity 6/6, external 40/40: every sub-score is 1.0
	if math.Abs(a.RiskScore-1.0) > 1e-9 {
		t.Errorf("risk = %v, want 1.0", a.RiskScore)
	}
	if a.Level != LevelL4 {
		t.Errorf("level = %q, want L4", a.Level)
	}
	if a.Confidence != 0.95 {
		t.Errorf("confidence = %v, want capped 0.95", a.Confidence)
	}
	if a.SourceStats.OfficialSources != 2 {
		t.Errorf("official sources = %d, want 2 (defense.gov, mod.go.jp)", a.SourceStats.OfficialSources)
	}
	if !a.SourceStats.OfficialEffective {
		t.Error("official-effective keyword should hit on 正式生效")
	}
	if !strings.HasPrefix(a.DedupeKey, "watchlist_alert:taiwan_strait_military:abc123:") {
		t.Errorf("dedupe key = %q, want watchlist_alert:<sentinel>:<cluster>:<hour> shape", a.DedupeKey)
	}
	if !a.NextReviewAt.Equal(testNow.Add(15 * time.Minute)) {
		t.Errorf("next review = %v, want +15m for L4", a.NextReviewAt)
	}
}

func TestEvaluateL4GateDemotesToL3(t *testing.T) {
	engine := newTestEngine(taiwanSentinel())
	c := fullEvidenceCluster("abc123")
	// Drop the effective-language keyword: score still implies L4 but the
	// gate demotes to L3
	c.Summary.Summary = "多方报道军演规模扩大"
	external := map[string]Corroboration{
		"taiwan_strait_military": {EventCount: 40, Observed: true},
	}

	alerts := engine.Evaluate(context.Background(), []cluster.Cluster{c}, external, testNow)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0].Level != LevelL3 {
		t.Errorf("level = %q, want L3 after L4 gate demotion", alerts[0].Level)
	}
	if !alerts[0].NextReviewAt.Equal(testNow.Add(30 * time.Minute)) {
		t.Errorf("next review = %v, want +30m for L3", alerts[0].NextReviewAt)
	}
}

func TestEvaluateL4NeedsTwoHighTrustSources(t *testing.T) {
	engine := newTestEngine(taiwanSentinel())
	c := fullEvidenceCluster("abc123")
	// Only reuters is high-trust here; the effective-language keyword hits
	// but a lone high-trust domain fails the L4 gate
	c.Sources = []string{
		"reuters.com", "fmprc.gov.cn", "mod.gov.cn",
		"blog-one.example.com", "blog-two.example.com",
	}
	external := map[string]Corroboration{
		"taiwan_strait_military": {EventCount: 40, Observed: true},
	}

	alerts := engine.Evaluate(context.Background(), []cluster.Cluster{c}, external, testNow)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]
	if a.RiskScore < 0.88 {
		t.Fatalf("risk = %v, fixture should imply L4 by score", a.RiskScore)
	}
	if a.Level != LevelL3 {
		t.Errorf("level = %q, want L3 with one high-trust source", a.Level)
	}
	if a.SourceStats.HighTrustSources != 1 {
		t.Errorf("high-trust sources = %d, want 1", a.SourceStats.HighTrustSources)
	}
}

func TestEvaluateL3GateDemotesToL2(t *testing.T) {
	engine := newTestEngine(taiwanSentinel())
	// Strong scenario/velocity/convergence evidence but zero official
	// sources: score implies L3, gate demotes to L2
	c := cluster.Cluster{
		ID:           "def456",
		PrimaryTitle: "台海实弹演训 航母编队出动",
		ArticleCount: 8,
		Sources: []string{
			"blog-one.example.com", "blog-two.example.com", "blog-three.example.com",
			"blog-four.example.com", "blog-five.example.com",
		},
		Summary: &cluster.Summary{
			KeyEntities: []string{"解放军", "航母", "台海", "美军", "国防部", "东部战区"},
		},
	}

	alerts := engine.Evaluate(context.Background(), []cluster.Cluster{c}, nil, testNow)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]
	// 0.30 + 0.20 + 0.20 + 0 + 0.10 = 0.80, L3 by score
	if math.Abs(a.RiskScore-0.80) > 1e-9 {
		t.Errorf("risk = %v, want 0.80", a.RiskScore)
	}
	if a.Level != LevelL2 {
		t.Errorf("level = %q, want L2 after L3 gate demotion", a.Level)
	}
}

func TestEvaluateRequiresMinGroups(t *testing.T) {
	engine := newTestEngine(taiwanSentinel())
	// Only the geo group hits
	c := cluster.Cluster{
		ID:           "ghi789",
		PrimaryTitle: "台海两岸经贸交流升温",
		ArticleCount: 6,
		Sources:      []string{"reuters.com", "nytimes.com", "defense.gov"},
	}

	if alerts := engine.Evaluate(context.Background(), []cluster.Cluster{c}, nil, testNow); len(alerts) != 0 {
		t.Errorf("single group hit should not alert, got %d", len(alerts))
	}
}

func TestEvaluateRequiredGroupEnforced(t *testing.T) {
	var sentinel config.Sentinel
	for _, s := range config.DefaultSentinels() {
		if s.ID == "tech_export_controls" {
			sentinel = s
		}
	}
	engine := newTestEngine(sentinel)

	// technology + enforcement hit, but the required policy group does not
	c := cluster.Cluster{
		ID:           "jkl012",
		PrimaryTitle: "AI芯片厂商收到罚单",
		ArticleCount: 4,
		Sources:      []string{"reuters.com", "ft.com", "bis.doc.gov"},
	}

	if alerts := engine.Evaluate(context.Background(), []cluster.Cluster{c}, nil, testNow); len(alerts) != 0 {
		t.Errorf("missing required group should not alert, got %d", len(alerts))
	}
}

func TestEvaluateFirstClusterWinsRiskTie(t *testing.T) {
	engine := newTestEngine(taiwanSentinel())
	first := fullEvidenceCluster("first1")
	second := fullEvidenceCluster("second")

	alerts := engine.Evaluate(context.Background(), []cluster.Cluster{first, second}, nil, testNow)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1 per sentinel", len(alerts))
	}
	if alerts[0].ClusterID != "first1" {
		t.Errorf("tie went to %q, want first-encountered first1", alerts[0].ClusterID)
	}
	if alerts[0].MatchedClusters != 2 {
		t.Errorf("matched clusters = %d, want 2", alerts[0].MatchedClusters)
	}
}

func TestEvaluateSortsByRiskDesc(t *testing.T) {
	taiwan := taiwanSentinel()
	var tech config.Sentinel
	for _, s := range config.DefaultSentinels() {
		if s.ID == "tech_export_controls" {
			tech = s
		}
	}
	engine := newTestEngine(taiwan, tech)

	strong := fullEvidenceCluster("strong")
	weak := cluster.Cluster{
		ID:           "weaker",
		PrimaryTitle: "实体清单新增AI芯片企业 出口管制收紧",
		ArticleCount: 3,
		Sources:      []string{"reuters.com", "ft.com", "bis.doc.gov"},
	}

	alerts := engine.Evaluate(context.Background(), []cluster.Cluster{strong, weak}, nil, testNow)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
	if alerts[0].RiskScore < alerts[1].RiskScore {
		t.Errorf("alerts not sorted by risk: %v then %v", alerts[0].RiskScore, alerts[1].RiskScore)
	}
	if alerts[0].SentinelID != "taiwan_strait_military" {
		t.Errorf("highest-risk alert from %q, want taiwan_strait_military", alerts[0].SentinelID)
	}
}

func TestEvaluateUnobservedExternalContributesNothing(t *testing.T) {
	engine := newTestEngine(taiwanSentinel())
	c := fullEvidenceCluster("abc123")
	c.Summary.Summary = ""
	c.ArticleCount = 4 // keep the risk score below the clamp

	withNil := engine.Evaluate(context.Background(), []cluster.Cluster{c}, nil, testNow)
	withZero := engine.Evaluate(context.Background(), []cluster.Cluster{c},
		map[string]Corroboration{"taiwan_strait_military": {EventCount: 0, Observed: true}}, testNow)

	if len(withNil) != 1 || len(withZero) != 1 {
		t.Fatalf("got %d and %d alerts, want 1 each", len(withNil), len(withZero))
	}
	if withNil[0].RiskScore != withZero[0].RiskScore {
		t.Errorf("unobserved and observed-zero external should score alike: %v vs %v",
			withNil[0].RiskScore, withZero[0].RiskScore)
	}
}
