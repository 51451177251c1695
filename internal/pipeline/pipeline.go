// Package pipeline wires the analysis stages together: cluster the
// article batch, run the pattern detectors and the watchlist engine
// over the clusters in parallel, then persist everything.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/vigil/internal/cluster"
	"github.com/abelbrown/vigil/internal/config"
	"github.com/abelbrown/vigil/internal/feedwatch"
	"github.com/abelbrown/vigil/internal/logging"
	"github.com/abelbrown/vigil/internal/signal"
	"github.com/abelbrown/vigil/internal/store"
	"github.com/abelbrown/vigil/internal/watchlist"
)

// Result is the outcome of one analysis run.
type Result struct {
	RunID    string            `json:"run_id"`
	Clusters []cluster.Cluster `json:"clusters"`
	Signals  []signal.Signal   `json:"signals"`
	Alerts   []watchlist.Alert `json:"alerts"`

	// NewSignals and NewAlerts count rows actually inserted; records
	// suppressed by an active cooldown are excluded.
	NewSignals int `json:"new_signals"`
	NewAlerts  int `json:"new_alerts"`
}

// Pipeline runs batches of articles through analysis and persistence.
type Pipeline struct {
	cfg       *config.Config
	sentinels []config.Sentinel
	feed      *feedwatch.Client
	store     *store.Store
}

// New builds a pipeline. st may be nil for a dry run without
// persistence.
func New(cfg *config.Config, sentinels []config.Sentinel, feed *feedwatch.Client, st *store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, sentinels: sentinels, feed: feed, store: st}
}

// Run analyzes one article batch. The returned Result always carries
// the full cluster, signal, and alert lists regardless of persistence.
func (p *Pipeline) Run(ctx context.Context, articles []cluster.Article) (*Result, error) {
	now := time.Now()
	runID := uuid.NewString()
	logging.Info("Analysis run started", "run_id", runID, "articles", len(articles))

	clusters := cluster.Group(articles, p.cfg.SimilarityThreshold)
	logging.Info("Clustering complete", "run_id", runID, "clusters", len(clusters))

	cooldown := time.Duration(p.cfg.Signals.CooldownHours) * time.Hour
	engine := watchlist.New(p.cfg.Watchlist, p.sentinels, cooldown)

	var (
		signals []signal.Signal
		alerts  []watchlist.Alert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		signals = signal.DetectAll(gctx, clusters, p.cfg.Signals, now)
		return nil
	})
	g.Go(func() error {
		var external map[string]watchlist.Corroboration
		if p.feed != nil && p.feed.Available() {
			external = p.feed.Fetch(gctx, sentinelIDs(p.sentinels))
		}
		alerts = engine.Evaluate(gctx, clusters, external, now)
		return nil
	})
	// Both branches degrade internally instead of failing.
	_ = g.Wait()

	logging.Info("Detection complete", "run_id", runID, "signals", len(signals), "alerts", len(alerts))

	result := &Result{
		RunID:      runID,
		Clusters:   clusters,
		Signals:    signals,
		Alerts:     alerts,
		NewSignals: len(signals),
		NewAlerts:  len(alerts),
	}

	if p.store == nil {
		return result, nil
	}

	if err := p.store.SaveClusters(clusters, now); err != nil {
		return nil, fmt.Errorf("persist clusters: %w", err)
	}
	newSignals, err := p.store.SaveSignals(signals)
	if err != nil {
		return nil, fmt.Errorf("persist signals: %w", err)
	}
	newAlerts, err := p.store.SaveAlerts(alerts)
	if err != nil {
		return nil, fmt.Errorf("persist alerts: %w", err)
	}
	result.NewSignals = newSignals
	result.NewAlerts = newAlerts

	run := store.Run{
		ID:           runID,
		StartedAt:    now,
		FinishedAt:   time.Now(),
		ArticleCount: len(articles),
		ClusterCount: len(clusters),
		SignalCount:  newSignals,
		AlertCount:   newAlerts,
	}
	if err := p.store.SaveRun(run); err != nil {
		return nil, fmt.Errorf("persist run record: %w", err)
	}

	logging.Info("Analysis run finished", "run_id", runID,
		"new_signals", newSignals, "new_alerts", newAlerts)
	return result, nil
}

func sentinelIDs(sentinels []config.Sentinel) []string {
	ids := make([]string, len(sentinels))
	for i, s := range sentinels {
		ids[i] = s.ID
	}
	return ids
}
