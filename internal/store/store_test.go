package store

import (
	"testing"
	"time"

	"github.com/abelbrown/vigil/internal/cluster"
	"github.com/abelbrown/vigil/internal/signal"
	"github.com/abelbrown/vigil/internal/watchlist"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSignal(id string) signal.Signal {
	return signal.Signal{
		ID:               id,
		Type:             signal.TypeConvergence,
		Confidence:       0.7,
		Description:      "test signal",
		AffectedClusters: []string{"abc123"},
		Details:          signal.ConvergenceDetails{ClassCount: 2, ArticleCount: 3},
		CreatedAt:        testNow,
		ExpiresAt:        testNow.Add(2 * time.Hour),
	}
}

func testAlert(key string) watchlist.Alert {
	return watchlist.Alert{
		DedupeKey:    key,
		SentinelID:   "taiwan_strait_military",
		ClusterID:    "abc123",
		Level:        watchlist.LevelL2,
		RiskScore:    0.6,
		Confidence:   0.6,
		ClusterTitle: "test cluster",
		CreatedAt:    testNow,
		ExpiresAt:    testNow.Add(2 * time.Hour),
	}
}

func TestSaveClustersUpserts(t *testing.T) {
	s := openTestStore(t)

	c := cluster.Cluster{ID: "abc123", PrimaryTitle: "first title", Category: "economy", ArticleCount: 2}
	if err := s.SaveClusters([]cluster.Cluster{c}, testNow); err != nil {
		t.Fatalf("SaveClusters failed: %v", err)
	}

	// Same id again with updated fields: row count stays at 1
	c.PrimaryTitle = "updated title"
	c.ArticleCount = 3
	if err := s.SaveClusters([]cluster.Cluster{c}, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("SaveClusters upsert failed: %v", err)
	}

	n, err := s.CountRows("clusters")
	if err != nil {
		t.Fatalf("CountRows failed: %v", err)
	}
	if n != 1 {
		t.Errorf("cluster rows = %d, want 1 after upsert", n)
	}
}

func TestSaveSignalsIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)

	n, err := s.SaveSignals([]signal.Signal{testSignal("sig1"), testSignal("sig2")})
	if err != nil {
		t.Fatalf("SaveSignals failed: %v", err)
	}
	if n != 2 {
		t.Errorf("first save inserted %d, want 2", n)
	}

	// Re-detection within cooldown produces the same ids
	n, err = s.SaveSignals([]signal.Signal{testSignal("sig1"), testSignal("sig3")})
	if err != nil {
		t.Fatalf("second SaveSignals failed: %v", err)
	}
	if n != 1 {
		t.Errorf("second save inserted %d, want 1 (sig1 already present)", n)
	}
}

func TestSaveAlertsIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)

	n, err := s.SaveAlerts([]watchlist.Alert{testAlert("key1")})
	if err != nil {
		t.Fatalf("SaveAlerts failed: %v", err)
	}
	if n != 1 {
		t.Errorf("first save inserted %d, want 1", n)
	}

	n, err = s.SaveAlerts([]watchlist.Alert{testAlert("key1")})
	if err != nil {
		t.Fatalf("second SaveAlerts failed: %v", err)
	}
	if n != 0 {
		t.Errorf("duplicate dedupe key inserted %d, want 0", n)
	}
}

func TestActiveSignalIDs(t *testing.T) {
	s := openTestStore(t)

	live := testSignal("live")
	expired := testSignal("expired")
	expired.ExpiresAt = testNow.Add(-time.Minute)

	if _, err := s.SaveSignals([]signal.Signal{live, expired}); err != nil {
		t.Fatalf("SaveSignals failed: %v", err)
	}

	active, err := s.ActiveSignalIDs(testNow)
	if err != nil {
		t.Fatalf("ActiveSignalIDs failed: %v", err)
	}
	if !active["live"] {
		t.Error("live signal should be active")
	}
	if active["expired"] {
		t.Error("expired signal should not be active")
	}
}

func TestSaveRun(t *testing.T) {
	s := openTestStore(t)

	run := Run{
		ID:           "run-1",
		StartedAt:    testNow,
		FinishedAt:   testNow.Add(time.Second),
		ArticleCount: 10,
		ClusterCount: 4,
		SignalCount:  2,
		AlertCount:   1,
	}
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	n, err := s.CountRows("runs")
	if err != nil {
		t.Fatalf("CountRows failed: %v", err)
	}
	if n != 1 {
		t.Errorf("run rows = %d, want 1", n)
	}
}

func TestCountRowsRejectsUnknownTable(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.CountRows("items; DROP TABLE runs"); err == nil {
		t.Error("CountRows should reject unknown table names")
	}
}
