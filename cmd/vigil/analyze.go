package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abelbrown/vigil/internal/cluster"
	"github.com/abelbrown/vigil/internal/config"
	"github.com/abelbrown/vigil/internal/feedwatch"
	"github.com/abelbrown/vigil/internal/logging"
	"github.com/abelbrown/vigil/internal/pipeline"
	"github.com/abelbrown/vigil/internal/store"
)

var (
	dbPath  string
	feedURL string
	noStore bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <articles.json>",
	Short: "Run one analysis pass over an article batch",
	Long: `Reads a JSON array of articles, clusters them, runs the pattern
detectors and the watchlist sentinels, and prints the run result as
JSON. Results are persisted to the SQLite database unless --no-store
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		defer logging.Close()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if feedURL != "" {
			cfg.Feed.URL = feedURL
		}

		sentinels, err := config.LoadSentinels(sentinelPath)
		if err != nil {
			return err
		}

		articles, err := readArticles(args[0])
		if err != nil {
			return err
		}

		var st *store.Store
		if !noStore {
			path := dbPath
			if path == "" {
				path, err = defaultDBPath()
				if err != nil {
					return err
				}
			}
			st, err = store.Open(path)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		p := pipeline.New(cfg, sentinels, feedwatch.New(cfg.Feed), st)
		result, err := p.Run(cmd.Context(), articles)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default ~/.vigil/vigil.db)")
	analyzeCmd.Flags().StringVar(&feedURL, "feed-url", "", "corroboration feed endpoint (overrides config)")
	analyzeCmd.Flags().BoolVar(&noStore, "no-store", false, "skip persistence, print results only")
}

// readArticles loads a JSON array of articles from path.
func readArticles(path string) ([]cluster.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}
	var articles []cluster.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parse articles %s: %w", path, err)
	}
	return articles, nil
}

func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".vigil")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(dir, "vigil.db"), nil
}
