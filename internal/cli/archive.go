package cli

import (
	"fmt"
	"os"

	"github.com/chrissnell/lakealmanac/internal/app"
	"github.com/chrissnell/lakealmanac/internal/archive"
	"github.com/chrissnell/lakealmanac/internal/export"
	"github.com/chrissnell/lakealmanac/internal/log"
	"github.com/spf13/cobra"
)

// migrateArchiveCmd moves flat archive files into per-year folders.
var migrateArchiveCmd = &cobra.Command{
	Use:   "migrate-archive",
	Short: "Move archived responses from <root>/<day>.zip into <root>/<year>/<day>.zip",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := archive.New(cfg.Archive.Root, log.GetSugaredLogger())
		stats, err := a.MigrateFlat()
		if err != nil {
			return err
		}
		cmd.Printf("Archive migration complete: %d migrated, %d skipped\n", stats.Migrated, stats.Skipped)
		return nil
	},
}

var exportFormat string

// exportCmd writes archived days as CSV or Parquet.
var exportCmd = &cobra.Command{
	Use:   "export <start-date> <end-date> [output-file]",
	Short: "Export archived readings from start-date up to, but not including, end-date",
	Long: `Export archived readings as CSV or Parquet, with the columns of
lake_temperature_readings. The CSV output can be loaded with:

  COPY lake_temperature_readings (date_recorded, entry_id, indoor_temp, outdoor_temp, channel_id)
  FROM 'lake-data-export.csv' WITH (FORMAT CSV, HEADER);

Examples:
  lake-almanac export 2020-01-01 2021-01-01 lake-data-2020.csv
  lake-almanac export 2018-10-06 2025-01-01 full.parquet --format parquet`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := app.DaysBetween(args[0], args[1])
		if err != nil {
			return err
		}
		if len(days) == 0 {
			return fmt.Errorf("end date %s is not after start date %s", args[1], args[0])
		}

		output := "lake-data-export." + exportFormat
		if len(args) == 3 {
			output = args[2]
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()

		var w export.Writer
		switch exportFormat {
		case "csv":
			w = export.NewCSVWriter(f)
		case "parquet":
			w = export.NewParquetWriter(f)
		default:
			return fmt.Errorf("unsupported export format %q, use csv or parquet", exportFormat)
		}

		logger := log.GetSugaredLogger()
		logger.Infow("exporting", "start", args[0], "end", args[1], "output", output, "format", exportFormat)
		exporter := export.NewExporter(archive.New(cfg.Archive.Root, logger), logger)
		summary, err := exporter.Export(cmd.Context(), days, w)
		if err != nil {
			return err
		}

		var size int64
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		return writeExportSummary(cmd.OutOrStdout(), summary, output, size)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or parquet")
}
