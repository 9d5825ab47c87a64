package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tttarena/internal/config"
	"github.com/vovakirdan/tttarena/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bots, renderers and presets",
	Long:  `Shows the bots and renderers registered in the arena, and the runner presets.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()

	printInfos(w, "Bots", bots.List())
	printInfos(w, "Renderers", renderers.List())

	fmt.Fprintln(w, "Presets:")
	for _, p := range config.Presets {
		fmt.Fprintf(w, "  %s\n", p)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tttarena run --bot <id> --render <id>' to start a run.")
}

func printInfos(w io.Writer, title string, infos []registry.Info) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(infos) == 0 {
		fmt.Fprintln(w, "  (none)")
		fmt.Fprintln(w)
		return
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, info := range infos {
		if len(info.ID) > maxIDLen {
			maxIDLen = len(info.ID)
		}
	}

	fmt.Fprintf(w, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(w, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, info := range infos {
		fmt.Fprintf(w, "  %-*s  %s\n", maxIDLen, info.ID, info.Title)
	}
	fmt.Fprintln(w)
}
