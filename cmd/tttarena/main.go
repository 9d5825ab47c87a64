// tttarena runs a Tetris-playing bot against a seeded piece sequence and
// scores how well it plays.
//
// Usage:
//
//	tttarena run             - Run one simulation and report the result
//	tttarena list            - List available bots, renderers and presets
//	tttarena runs            - Show stored runs and aggregate stats
//	tttarena serve           - Start SSH server for watching live runs
//	tttarena api             - Serve stored runs over HTTP
//
// Global flags:
//
//	--seed <value>      - Piece sequence seed (default: time-based)
//	--config <path>     - Arena config YAML
//	--db <path>         - Runs database path (default: from config)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tttarena/internal/config"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tttarena",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tttarena",
	Short: "TTT Arena - benchmark Tetris bots on seeded piece sequences",
	Long: `TTT Arena drives a placement bot through a deterministic Tetris game
and reports its score, its approximation error against a lookahead
baseline, a combined metric and its placement rate.

Available commands:
  run      - Run one simulation
  list     - Show bots, renderers and presets
  runs     - Browse stored runs
  serve    - Start SSH server for live spectating
  api      - Serve stored runs over HTTP

Examples:
  tttarena run --seed 1
  tttarena run --bot random --render cli --delay 20ms
  tttarena runs --best
  tttarena serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Piece sequence seed (default: time-based)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to runs database (default: storage.path from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to arena config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}

func setupLogger(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)
	return nil
}

// loadConfig reads the arena config and applies the global overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	return cfg, nil
}

// resolveSeed returns --seed when given, otherwise a time-based seed.
func resolveSeed(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("seed") {
		return flagSeed
	}
	return time.Now().UnixNano()
}
