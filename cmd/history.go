package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aaronsalm/kurve/internal/config"
	"github.com/aaronsalm/kurve/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently loaded tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.HistoryPath == "" {
			return fmt.Errorf("history is disabled (empty history_path)")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		store, err := history.Open(ctx, cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "no loads recorded yet")
			return nil
		}

		for _, e := range entries {
			mark := "✓"
			detail := fmt.Sprintf("%d points", e.Points)
			if e.Status != history.StatusOK {
				mark = "✗"
				detail = e.Error
			}
			fmt.Fprintf(os.Stderr, "%s %-40s %s (%s)\n",
				mark, e.Path, detail, humanize.Time(e.LoadedAt))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
