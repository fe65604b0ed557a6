package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaronsalm/kurve/internal/config"
	"github.com/aaronsalm/kurve/internal/history"
	"github.com/aaronsalm/kurve/internal/telemetry"
	"github.com/aaronsalm/kurve/internal/tui"
	"github.com/aaronsalm/kurve/internal/worker"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive viewer",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w, cleanup, err := spawnWorker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := tui.Run(w, cfg); err != nil {
		return err
	}

	// The quit key already sent a stop; make sure the loop is gone
	// before closing its sinks.
	w.Send(worker.SignalStop)
	deadline := time.Now().Add(2 * time.Second)
	for w.IsAlive() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// spawnWorker wires the worker to the configured telemetry and history
// sinks. Either sink failing to open is reported but not fatal: the
// viewer still works without them.
func spawnWorker(cfg config.Config) (*worker.Worker, func(), error) {
	var emitter *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		var err error
		emitter, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
		}
	}

	var store *history.Store
	if cfg.HistoryPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var err error
		store, err = history.Open(ctx, cfg.HistoryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "history disabled: %v\n", err)
		}
	}

	w := worker.Spawn(worker.Config{
		PollInterval: cfg.PollInterval(),
		Telemetry:    emitter,
		History:      store,
	})

	cleanup := func() {
		if store != nil {
			store.Close()
		}
		if emitter != nil {
			emitter.Close()
		}
	}
	return w, cleanup, nil
}
