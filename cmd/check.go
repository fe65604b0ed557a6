package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aaronsalm/kurve/internal/table"
)

var checkCmd = &cobra.Command{
	Use:   "check <table>",
	Short: "Validate a measurement spreadsheet without opening the viewer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := table.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", args[0], err)
			os.Exit(1)
		}

		out := in.Compute()
		fmt.Fprintf(os.Stderr, "✓ %s\n", args[0])
		fmt.Fprintf(os.Stderr, "  sample: %g mL at %g mol/L, titrant %g mol/L\n",
			in.SampleVolume, in.SampleConc, in.TitrantConc)
		fmt.Fprintf(os.Stderr, "  %d measurements up to %g mL\n",
			len(out.Points), out.MaxVolume())
		for _, p := range out.Points {
			if p.AcidMoles == p.BaseMoles {
				fmt.Fprintf(os.Stderr, "  equivalence point at %g mL\n", p.Volume)
				break
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
