package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aaronsalm/kurve/internal/config"
	"github.com/aaronsalm/kurve/internal/diagram"
	"github.com/aaronsalm/kurve/internal/table"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render <table>",
	Short: "Render a spreadsheet's titration curve to SVG or PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out, err := table.LoadCurve(args[0])
		if err != nil {
			return fmt.Errorf("failed to load table: %w", err)
		}

		dest := renderOut
		if dest == "" {
			dest = cfg.ExportPath
		}
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}
		defer f.Close()

		opts := diagram.Options{Dark: cfg.Dark, Colored: cfg.Colored}
		if strings.EqualFold(filepath.Ext(dest), ".png") {
			err = diagram.RenderPNG(opts, out, f)
		} else {
			err = diagram.RenderSVG(opts, out, f)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d points)\n", dest, len(out.Points))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default from config, .png switches format)")
	rootCmd.AddCommand(renderCmd)
}
