package cli

import (
	"errors"
	"net/http"
	"time"

	"github.com/chrissnell/lakealmanac/internal/compare"
	"github.com/spf13/cobra"
)

// errMismatch makes compare exit non-zero without an extra message
var errMismatch = errors.New("almanac documents differ")

// compareCmd checks two almanac documents against each other.
var compareCmd = &cobra.Command{
	Use:   "compare <first> <second>",
	Short: "Compare the core records of two almanac documents",
	Long: `Compare two almanac documents, each given as a file path or an http(s) URL.

For every year present in both, the whole-year hottest/coldest sequences and
both first-freeze sequences must hold the same readings. The first document
may use the older flat layout.`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 30 * time.Second}
		older, err := compare.Load(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		newer, err := compare.Load(cmd.Context(), client, args[1])
		if err != nil {
			return err
		}

		report := compare.Documents(older, newer)
		if err := writeComparison(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.AllMatched() {
			return errMismatch
		}
		return nil
	},
}
