package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abelbrown/vigil/internal/config"
)

var version = "0.3.0"

var (
	configPath   string
	sentinelPath string
)

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "News correlation and alerting engine",
	Long: `Vigil clusters related news articles, detects cross-source patterns
(velocity spikes, convergence, triangulation, hotspot escalation), and
evaluates curated watchlist sentinels that raise graded L1-L4 alerts.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vigil %s\n", version)
	},
}

var sentinelsCmd = &cobra.Command{
	Use:   "sentinels",
	Short: "Print the active sentinel catalog as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		sentinels, err := config.LoadSentinels(sentinelPath)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(sentinels, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to JSON config (defaults used when empty)")
	rootCmd.PersistentFlags().StringVar(&sentinelPath, "sentinels", "", "path to YAML sentinel catalog (built-in catalog when empty)")
	rootCmd.AddCommand(versionCmd, sentinelsCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
