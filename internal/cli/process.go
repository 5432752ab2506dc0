package cli

import (
	"github.com/chrissnell/lakealmanac/internal/app"
	"github.com/spf13/cobra"
)

var processOpts struct {
	fromArchive     bool
	noSaveResponses bool
	skipDatabase    bool
}

// processCmd folds a range of days into the almanac.
var processCmd = &cobra.Command{
	Use:   "process <start-date> <end-date>",
	Short: "Process days from start-date up to, but not including, end-date",
	Long: `Fetch each day in [start-date, end-date) and fold it into the almanac.

Days that fail are recorded as missed in the almanac metadata and can be
retried later with 'lake-almanac retry-missed'.

Examples:
  lake-almanac process 2020-05-01 2020-09-01
  lake-almanac process 2019-01-01 2020-01-01 --from-archive`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := app.DaysBetween(args[0], args[1])
		if err != nil {
			return err
		}
		return runProcess(cmd, days, app.ProcessOptions{
			FromArchive:   processOpts.fromArchive,
			SaveResponses: cfg.Archive.SaveResponses && !processOpts.noSaveResponses,
			SkipDatabase:  processOpts.skipDatabase,
		})
	},
}

// dailyCmd processes yesterday, as the scheduled job does.
var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Process yesterday (in the almanac timezone)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.ProcessDays(cmd.Context(), []string{a.Yesterday()}, app.ProcessOptions{SaveResponses: cfg.Archive.SaveResponses})
		if err != nil {
			return err
		}
		return writeRunReport(cmd.OutOrStdout(), report)
	},
}

func runProcess(cmd *cobra.Command, days []string, opts app.ProcessOptions) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.ProcessDays(cmd.Context(), days, opts)
	if report != nil {
		if werr := writeRunReport(cmd.OutOrStdout(), report); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

var retryOpts app.RetryOptions

// retryMissedCmd retries the days recorded as missed.
var retryMissedCmd = &cobra.Command{
	Use:   "retry-missed",
	Short: "Retry fetching every day recorded as missed in the almanac metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.RetryMissedDays(cmd.Context(), retryOpts)
		if report != nil {
			if werr := writeRunReport(cmd.OutOrStdout(), report); werr != nil && err == nil {
				err = werr
			}
		}
		return err
	},
}

func init() {
	processCmd.Flags().BoolVar(&processOpts.fromArchive, "from-archive", false, "read days from the response archive instead of the sensor API")
	processCmd.Flags().BoolVar(&processOpts.noSaveResponses, "no-save-responses", false, "do not archive API responses")
	processCmd.Flags().BoolVar(&processOpts.skipDatabase, "skip-database", false, "do not write raw readings to the database")

	retryMissedCmd.Flags().BoolVar(&retryOpts.SaveResponses, "save-responses", false, "archive successful API responses")
	retryMissedCmd.Flags().BoolVar(&retryOpts.RemoveFailedRetries, "remove-failed-retries", false, "remove days from the missed list even if the retry fails")
}
