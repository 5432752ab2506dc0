package cli

import (
	"fmt"

	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"github.com/spf13/cobra"
)

// showCmd prints the stored almanac.
var showCmd = &cobra.Command{
	Use:   "show [year]",
	Short: "Print the stored almanac, or one year label of it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.Store().Load(cmd.Context())
		if err != nil {
			return err
		}
		return writeDocument(cmd, doc, args)
	},
}

func writeDocument(cmd *cobra.Command, doc *almanac.Document, args []string) error {
	out := cmd.OutOrStdout()
	labels := doc.Almanac.Labels()
	if len(args) == 1 {
		if _, ok := doc.Almanac[args[0]]; !ok {
			return fmt.Errorf("no almanac for %s", args[0])
		}
		labels = args
	}

	meta := doc.Metadata
	if meta.StartDate != "" {
		fmt.Fprintf(out, "Processed %s to %s, %d missed days\n\n", meta.StartDate, meta.EndDate, len(meta.MissedDays))
	}
	for _, label := range labels {
		if err := writeYearTable(out, label, doc.Almanac[label]); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}
