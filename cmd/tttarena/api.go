package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tttarena/internal/api"
	"github.com/vovakirdan/tttarena/internal/config"
	"github.com/vovakirdan/tttarena/internal/runner"
	"github.com/vovakirdan/tttarena/internal/storage"
)

var (
	flagAPIAddr   string
	flagAPIRunsOn bool
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve stored runs over HTTP",
	Long: `Start an HTTP server exposing stored runs as JSON.

Endpoints:
  GET  /health
  GET  /api/v1/runs            recent runs (?best=true, ?seed=N, ?limit=N)
  GET  /api/v1/runs/{id}
  GET  /api/v1/stats
  POST /api/v1/runs            {"seed": 1, "bot": "simple", "max_steps": 500}
  GET  /api/v1/live            WebSocket stream of a new run (?seed, ?bot, ?max_steps)

Starting runs (POST and live) is only enabled with --allow-runs.

Examples:
  tttarena api --addr :8080
  tttarena api --allow-runs`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8080", "HTTP listen address")
	apiCmd.Flags().BoolVar(&flagAPIRunsOn, "allow-runs", false, "Allow clients to start headless runs")
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("cannot open runs database: %w", err)
	}
	defer store.Close()

	var simulate api.Simulator
	if flagAPIRunsOn {
		simulate = simulator(cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(store, simulate, logger.WithPrefix("api"))
	return server.ListenAndServe(ctx, flagAPIAddr)
}

// simulator runs requests headless against cfg. The request's bot and step
// cap replace the configured ones when set.
func simulator(cfg config.Config) api.Simulator {
	return func(ctx context.Context, req api.RunRequest, obs runner.Observer) (storage.RunRecord, error) {
		runCfg := cfg
		if req.Bot != "" {
			runCfg.Bot.Name = req.Bot
		}
		if req.MaxSteps > 0 {
			runCfg.Runner.MaxSteps = req.MaxSteps
		}

		sess, err := newSession(runCfg, req.Seed, logger.WithPrefix("run"))
		if err != nil {
			return storage.RunRecord{}, err
		}
		res, err := sess.Runner.Run(ctx, time.Now(), obs)
		if err != nil {
			return storage.RunRecord{}, err
		}
		return storage.RecordFromResult(res, sess.Width, sess.Height), nil
	}
}
