package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tttarena/internal/config"
	"github.com/vovakirdan/tttarena/internal/platform/tui"
	"github.com/vovakirdan/tttarena/internal/runner"
	"github.com/vovakirdan/tttarena/internal/storage"
)

var (
	flagBot         string
	flagRender      string
	flagPreset      string
	flagMaxSteps    int
	flagMaxDuration time.Duration
	flagDelay       time.Duration
	flagLogDir      string
	flagNoSave      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation",
	Long: `Run a bot through a seeded game until game over or a safety cap, then
print the results block. The run is stored in the runs database and a YAML
log is written to the log directory unless --no-save is given.

Presets:
  quick     - 500 placements or 30s
  standard  - config defaults
  marathon  - no caps, stops on game over or Ctrl+C

Renderers:
  cli  - print a frame after every placement
  tui  - interactive screen (p pause, +/- speed, q quit)

Examples:
  tttarena run --seed 1
  tttarena run --bot random --max-steps 1000
  tttarena run --render tui --delay 50ms
  tttarena run --preset marathon --no-save`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagBot, "bot", "", "Bot to run (see 'tttarena list')")
	runCmd.Flags().StringVar(&flagRender, "render", "", "Renderer: cli, tui, or empty for none")
	runCmd.Flags().StringVar(&flagPreset, "preset", "", "Runner preset: quick, standard, marathon")
	runCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Stop after this many placements (0 = no cap)")
	runCmd.Flags().DurationVar(&flagMaxDuration, "max-duration", 0, "Stop after this much wall-clock time (0 = no cap)")
	runCmd.Flags().DurationVar(&flagDelay, "delay", 0, "Pause between rendered placements")
	runCmd.Flags().StringVar(&flagLogDir, "log-dir", "", "Directory for YAML run logs (default: storage.log_dir from config)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the run or write a log")
}

// applyRunFlags overrides config fields with the flags the user set.
// The preset goes first so explicit caps win over it.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("preset") {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return err
		}
		config.ApplyPreset(cfg, preset)
	}
	if flags.Changed("bot") {
		cfg.Bot.Name = flagBot
	}
	if flags.Changed("render") {
		cfg.Render.Name = flagRender
	}
	if flags.Changed("delay") {
		cfg.Render.Delay = flagDelay
	}
	if flags.Changed("max-steps") {
		cfg.Runner.MaxSteps = flagMaxSteps
	}
	if flags.Changed("max-duration") {
		cfg.Runner.MaxDuration = flagMaxDuration
	}
	if flags.Changed("log-dir") {
		cfg.Storage.LogDir = flagLogDir
	}
	return cfg.Validate()
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, &cfg); err != nil {
		return err
	}
	if cfg.Render.Name != "" && !renderers.Exists(cfg.Render.Name) {
		return fmt.Errorf("unknown renderer %q (run 'tttarena list')", cfg.Render.Name)
	}

	seed := resolveSeed(cmd)

	// The watch screen owns the terminal; keep run logs off it.
	runLogger := logger
	if cfg.Render.Name == "tui" {
		runLogger = log.New(io.Discard)
	}

	sess, err := newSession(cfg, seed, runLogger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := execute(ctx, cfg, seed, sess)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), res)

	if flagNoSave {
		return nil
	}
	saveRun(cmd.OutOrStdout(), cfg, storage.RecordFromResult(res, sess.Width, sess.Height))
	return nil
}

// execute runs the session, wiring the configured renderer as its observer.
// Closing an interactive renderer cancels the run.
func execute(ctx context.Context, cfg config.Config, seed int64, sess tui.Session) (runner.Result, error) {
	if cfg.Render.Name == "" {
		return sess.Runner.Run(ctx, time.Now(), nil)
	}

	factory, err := renderers.Get(cfg.Render.Name)
	if err != nil {
		return runner.Result{}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	vis, err := factory(runCtx, tui.Options{
		Title: fmt.Sprintf("TTT ARENA · %s · seed %d", cfg.Bot.Name, seed),
		Delay: cfg.Render.Delay,
		Theme: tui.DefaultTheme(),
		Out:   os.Stdout,
	})
	if err != nil {
		return runner.Result{}, fmt.Errorf("cannot start renderer: %w", err)
	}

	if done := vis.Done(); done != nil {
		go func() {
			select {
			case <-done:
				cancel()
			case <-runCtx.Done():
			}
		}()
	}

	res, err := sess.Runner.Run(runCtx, time.Now(), vis)
	if err != nil {
		return res, err
	}
	if finishErr := vis.Finish(res); finishErr != nil {
		logger.Warn("renderer failed", "error", finishErr)
	}
	return res, nil
}

var (
	reportTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	reportLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	reportValue = lipgloss.NewStyle().Bold(true)
)

// printReport writes the results block.
func printReport(w io.Writer, res runner.Result) {
	row := func(label, value string) {
		fmt.Fprintln(w, "  "+reportLabel.Render(label)+reportValue.Render(value))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, reportTitle.Render("Results"))
	row("duration", res.Duration.Round(time.Millisecond).String())
	row("seed", fmt.Sprintf("%d", res.Seed))
	row("bot", res.Bot)
	row("reason", string(res.Reason))
	row("steps", humanize.Comma(int64(res.Steps)))
	row("lines", humanize.Comma(int64(res.Lines)))
	row("S", humanize.Comma(int64(res.FinalScore)))
	row("A", fmt.Sprintf("%.4f", res.FinalError))
	row("metric", fmt.Sprintf("%.4f", res.FinalMetric))
	row("RPS", fmt.Sprintf("%.2f", res.FinalRPS))
	if res.Err != nil {
		row("cause", res.Err.Error())
	}
}

// saveRun stores rec and writes its log. Failures are reported, not fatal:
// the results block has already been printed.
func saveRun(w io.Writer, cfg config.Config, rec storage.RunRecord) {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
	} else {
		defer store.Close()
		id, saveErr := store.SaveRun(rec)
		if saveErr != nil {
			logger.Warn("could not save run", "error", saveErr)
		} else {
			fmt.Fprintf(w, "\nSaved run %s\n", id)
			rec.ID = id
		}
	}

	if cfg.Storage.LogDir == "" {
		return
	}
	path, err := storage.WriteLog(cfg.Storage.LogDir, rec)
	if err != nil {
		logger.Warn("could not write run log", "error", err)
		return
	}
	fmt.Fprintf(w, "Log written to %s\n", path)
}
