// Package feedwatch fetches external event-count corroboration for
// watchlist sentinels from an HTTP feed. The feed is strictly optional:
// every failure mode degrades to "no observation" so alerting proceeds
// on internal evidence alone.
package feedwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/vigil/internal/config"
	"github.com/abelbrown/vigil/internal/logging"
	"github.com/abelbrown/vigil/internal/watchlist"
)

// Client queries the corroboration feed.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// feedEntry is one sentinel's row in the feed response.
type feedEntry struct {
	EventCount int `json:"event_count"`
}

// New creates a feed client from config. A client with no endpoint is
// valid and reports every sentinel as unobserved.
func New(cfg config.FeedConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	return &Client{
		endpoint: cfg.URL,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

// Available returns true if a feed endpoint is configured.
func (c *Client) Available() bool {
	return c.endpoint != ""
}

// Fetch returns corroboration for the given sentinel IDs. On any error
// (no endpoint, timeout, bad status, malformed body) it logs a warning
// and returns an empty map, which reads as unobserved for every
// sentinel.
func (c *Client) Fetch(ctx context.Context, sentinelIDs []string) map[string]watchlist.Corroboration {
	if !c.Available() || len(sentinelIDs) == 0 {
		return nil
	}

	rows, err := c.fetch(ctx, sentinelIDs)
	if err != nil {
		logging.Warn("Corroboration feed unavailable", "error", err)
		return nil
	}

	out := make(map[string]watchlist.Corroboration, len(rows))
	for id, row := range rows {
		out[id] = watchlist.Corroboration{EventCount: row.EventCount, Observed: true}
	}
	return out
}

func (c *Client) fetch(ctx context.Context, sentinelIDs []string) (map[string]feedEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("feedwatch: rate limiter wait failed: %w", err)
	}

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("feedwatch: bad endpoint %q: %w", c.endpoint, err)
	}
	q := reqURL.Query()
	q.Set("sentinels", strings.Join(sentinelIDs, ","))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("feedwatch: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feedwatch: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("feedwatch: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feedwatch: feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var rows map[string]feedEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("feedwatch: failed to parse response: %w", err)
	}
	return rows, nil
}
