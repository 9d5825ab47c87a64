package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tttarena/internal/platform/tui"
	"github.com/vovakirdan/tttarena/internal/storage"
)

var (
	flagRunsBest  bool
	flagRunsLimit int
	flagRunsTUI   bool
	flagClearYes  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show stored runs",
	Long: `Display stored runs with aggregate statistics.

By default the most recent runs are listed. --best orders by the combined
metric, and the global --seed flag restricts the list to one seed.

Examples:
  tttarena runs
  tttarena runs --best --limit 5
  tttarena runs --seed 1
  tttarena runs --tui
  tttarena runs show <id>
  tttarena runs show ~/.tttarena/logs/run_seed1_20240506-070809.000.yaml`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id|log.yaml>",
	Short: "Show one stored run or run log",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored run",
	Args:  cobra.NoArgs,
	RunE:  runRunsClear,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsBest, "best", false, "Order by combined metric instead of date")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse runs in an interactive table")
	runsClearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "Confirm deletion")

	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsClearCmd)
}

func openStore() (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open runs database: %w", err)
	}
	return store, nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsTUI {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunRunsBoard(store, width, height)
	}

	var (
		runs  []storage.RunRecord
		title string
	)
	switch {
	case cmd.Flags().Changed("seed"):
		runs, err = store.RunsBySeed(flagSeed)
		title = fmt.Sprintf("Runs for seed %d", flagSeed)
		if len(runs) > flagRunsLimit && flagRunsLimit > 0 {
			runs = runs[:flagRunsLimit]
		}
	case flagRunsBest:
		runs, err = store.BestRuns(flagRunsLimit)
		title = "Best runs"
	default:
		runs, err = store.RecentRuns(flagRunsLimit)
		title = "Recent runs"
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Start one with 'tttarena run'.")
		return nil
	}

	printRunTable(w, runs)

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s runs, %s placements, best score %s, best metric %.4f, avg error %.4f, avg RPS %.2f, last run %s\n",
		humanize.Comma(int64(stats.Runs)),
		humanize.Comma(stats.TotalSteps),
		humanize.Comma(int64(stats.BestScore)),
		stats.BestMetric,
		stats.AvgError,
		stats.AvgRPS,
		humanize.Time(stats.LastRun),
	)
	return nil
}

func printRunTable(w io.Writer, runs []storage.RunRecord) {
	fmt.Fprintf(w, "  %-8s  %-12s  %-7s  %10s  %9s  %7s  %10s  %-16s  %s\n",
		"ID", "Seed", "Bot", "Score", "Error", "Metric", "RPS", "Reason", "When")
	fmt.Fprintf(w, "  %-8s  %-12s  %-7s  %10s  %9s  %7s  %10s  %-16s  %s\n",
		"--", "----", "---", "-----", "-----", "------", "---", "------", "----")

	for _, r := range runs {
		fmt.Fprintf(w, "  %-8s  %-12d  %-7s  %10s  %9.4f  %7.4f  %10.2f  %-16s  %s\n",
			shortID(r.ID),
			r.Seed,
			r.Bot,
			humanize.Comma(int64(r.Score)),
			r.Error,
			r.Metric,
			r.RPS,
			r.Reason,
			humanize.Time(r.CreatedAt),
		)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	rec, err := lookupRun(args[0])
	if err != nil {
		return err
	}
	printRecord(cmd.OutOrStdout(), rec)
	return nil
}

// lookupRun reads a YAML run log when arg names one, else a stored run by ID.
func lookupRun(arg string) (storage.RunRecord, error) {
	if ext := strings.ToLower(filepath.Ext(arg)); ext == ".yaml" || ext == ".yml" {
		path, err := storage.ExpandHome(arg)
		if err != nil {
			return storage.RunRecord{}, err
		}
		return storage.ReadLog(path)
	}

	store, err := openStore()
	if err != nil {
		return storage.RunRecord{}, err
	}
	defer store.Close()
	return store.RunByID(arg)
}

func printRecord(w io.Writer, rec storage.RunRecord) {
	field := func(label string, value any) {
		fmt.Fprintf(w, "  %-10s %v\n", label, value)
	}

	fmt.Fprintf(w, "Run %s\n\n", rec.ID)
	field("created", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	field("seed", rec.Seed)
	field("bot", rec.Bot)
	field("board", fmt.Sprintf("%dx%d", rec.Width, rec.Height))
	field("reason", rec.Reason)
	field("duration", rec.Duration)
	field("steps", humanize.Comma(int64(rec.Steps)))
	field("lines", humanize.Comma(int64(rec.Lines)))
	field("S", humanize.Comma(int64(rec.Score)))
	field("A", fmt.Sprintf("%.4f", rec.Error))
	field("metric", fmt.Sprintf("%.4f", rec.Metric))
	field("RPS", fmt.Sprintf("%.2f", rec.RPS))

	if len(rec.Clears) > 0 {
		parts := make([]string, len(rec.Clears))
		for n, count := range rec.Clears {
			parts[n] = fmt.Sprintf("%d:%d", n, count)
		}
		field("clears", strings.Join(parts, " "))
	}
}

func runRunsClear(cmd *cobra.Command, _ []string) error {
	if !flagClearYes {
		return fmt.Errorf("refusing to delete runs without --yes")
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearRuns(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All runs deleted.")
	return nil
}
