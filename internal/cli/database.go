package cli

import (
	"fmt"
	"strings"

	"github.com/chrissnell/lakealmanac/internal/app"
	"github.com/chrissnell/lakealmanac/internal/log"
	"github.com/chrissnell/lakealmanac/internal/storage/readings"
	"github.com/spf13/cobra"
)

var backfillOpts struct {
	start  string
	end    string
	dates  string
	dryRun bool
}

// backfillCmd loads archived days into the readings database.
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Load archived days into the readings database without updating the almanac",
	Long: `Backfill reads archived responses and inserts their readings into
lake_temperature_readings. Only days present in the archive are loaded.

Examples:
  lake-almanac backfill -s 2024-01-01 -e 2024-01-31
  lake-almanac backfill -d 2024-01-15,2024-02-20
  lake-almanac backfill --dry-run -s 2024-01-01 -e 2024-01-07`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, err := backfillDays()
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.Backfill(cmd.Context(), days, backfillOpts.dryRun)
		if len(results) == 0 {
			return err
		}
		if werr := writeBackfillResults(cmd.OutOrStdout(), results, backfillOpts.dryRun); werr != nil && err == nil {
			err = werr
		}
		return err
	},
}

func backfillDays() ([]string, error) {
	if backfillOpts.dates != "" {
		var days []string
		for _, d := range strings.Split(backfillOpts.dates, ",") {
			if d = strings.TrimSpace(d); d != "" {
				days = append(days, d)
			}
		}
		return days, nil
	}
	if backfillOpts.start == "" || backfillOpts.end == "" {
		return nil, fmt.Errorf("either --dates or both --start-date and --end-date are required")
	}
	return readings.DateRange(backfillOpts.start, backfillOpts.end)
}

var gapOpts struct {
	start       string
	end         string
	recent      int
	listMissing bool
}

// checkGapsCmd reports days without readings in the database.
var checkGapsCmd = &cobra.Command{
	Use:   "check-gaps",
	Short: "Find days without readings in the database",
	Long: `Check the readings database for days without any reading.

The default range runs from database.project-start to yesterday.

Examples:
  lake-almanac check-gaps
  lake-almanac check-gaps --recent 30
  lake-almanac check-gaps -s 2024-01-01 -e 2024-12-31 --list-missing`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		start, end := gapOpts.start, gapOpts.end
		if gapOpts.recent > 0 {
			start, end = a.RecentRange(gapOpts.recent)
		}

		report, err := a.CheckGaps(cmd.Context(), start, end)
		if err != nil {
			return err
		}
		return writeGapReport(cmd.OutOrStdout(), report, gapOpts.listMissing)
	},
}

// migrateDBCmd applies the readings schema migrations.
var migrateDBCmd = &cobra.Command{
	Use:   "migrate-db",
	Short: "Create or upgrade the lake_temperature_readings schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Database.URL == "" {
			return app.ErrNoDatabase
		}
		if err := readings.Migrate(cfg.Database.URL, log.GetSugaredLogger()); err != nil {
			return err
		}
		cmd.Println("Database schema is up to date")
		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVarP(&backfillOpts.start, "start-date", "s", "", "first day to backfill (YYYY-MM-DD)")
	backfillCmd.Flags().StringVarP(&backfillOpts.end, "end-date", "e", "", "last day to backfill, inclusive (YYYY-MM-DD)")
	backfillCmd.Flags().StringVarP(&backfillOpts.dates, "dates", "d", "", "comma-separated list of days (YYYY-MM-DD)")
	backfillCmd.Flags().BoolVar(&backfillOpts.dryRun, "dry-run", false, "show what would be inserted without touching the database")

	checkGapsCmd.Flags().StringVarP(&gapOpts.start, "start-date", "s", "", "first day to check (YYYY-MM-DD)")
	checkGapsCmd.Flags().StringVarP(&gapOpts.end, "end-date", "e", "", "last day to check, inclusive (YYYY-MM-DD)")
	checkGapsCmd.Flags().IntVar(&gapOpts.recent, "recent", 0, "check only the last N days")
	checkGapsCmd.Flags().BoolVar(&gapOpts.listMissing, "list-missing", false, "list every missing date")
}
