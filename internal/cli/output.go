package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/chrissnell/lakealmanac/internal/app"
	"github.com/chrissnell/lakealmanac/internal/compare"
	"github.com/chrissnell/lakealmanac/internal/export"
	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// missingPreview is how many missing days check-gaps prints without --list-missing
const missingPreview = 10

var (
	okMark   = color.New(color.FgGreen).SprintFunc()("✅")
	failMark = color.New(color.FgRed).SprintFunc()("❌")
	warnMark = color.New(color.FgYellow).SprintFunc()("⚠️")
)

func writeRunReport(w io.Writer, r *app.RunReport) error {
	_, err := fmt.Fprintf(w, "Run %s: %d days processed, %d missed, %s readings in %v\n",
		r.RunID, len(r.Processed), len(r.Missed), humanize.Comma(int64(r.Readings)), r.Duration.Round(time.Millisecond))
	if err != nil {
		return err
	}
	for _, day := range r.Missed {
		if _, err := fmt.Fprintf(w, "  %s missed %s\n", failMark, day); err != nil {
			return err
		}
	}
	return nil
}

func writeGapReport(w io.Writer, r *app.GapReport, listAll bool) error {
	if r.Latest == nil {
		_, err := fmt.Fprintf(w, "%s No data found in database\n", failMark)
		return err
	}

	fmt.Fprintf(w, "Database gap analysis %s to %s\n", r.Start, r.End)
	fmt.Fprintf(w, "Latest reading in database: %s\n", r.Latest.Format(time.RFC3339))
	fmt.Fprintf(w, "Days checked: %s, missing: %s\n", humanize.Comma(int64(r.Expected)), humanize.Comma(int64(len(r.Missing))))

	if len(r.Missing) == 0 {
		_, err := fmt.Fprintf(w, "%s No gaps found - database is complete for the specified range\n", okMark)
		return err
	}

	shown := r.Missing
	if !listAll && len(shown) > missingPreview {
		shown = shown[:missingPreview]
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Missing date"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for i, day := range shown {
		data = append(data, []string{strconv.Itoa(i + 1), day})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if rest := len(r.Missing) - len(shown); rest > 0 {
		fmt.Fprintf(w, "... and %d more. Use --list-missing to see all missing dates\n", rest)
	}
	_, err := fmt.Fprintf(w, "%s To backfill: 'lake-almanac backfill' loads archived days, 'lake-almanac retry-missed' refetches days recorded as missed\n", warnMark)
	return err
}

func writeBackfillResults(w io.Writer, results []app.BackfillResult, dryRun bool) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Status", "Rows", "Message"})

	counts := map[string]int{}
	rows := 0
	var data [][]string
	for _, r := range results {
		counts[r.Status]++
		rows += r.Rows
		status := r.Status
		switch r.Status {
		case app.BackfillSuccess:
			status = okMark + " " + status
		case app.BackfillMissing:
			status = warnMark + " " + status
		default:
			status = failMark + " " + status
		}
		data = append(data, []string{r.Day, status, humanize.Comma(int64(r.Rows)), r.Message})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	verb := "inserted"
	if dryRun {
		verb = "would insert"
	}
	_, err := fmt.Fprintf(w, "Success: %d, missing: %d, errors: %d; %s %s rows\n",
		counts[app.BackfillSuccess], counts[app.BackfillMissing], counts[app.BackfillError], verb, humanize.Comma(int64(rows)))
	return err
}

func writeComparison(w io.Writer, r *compare.Report) error {
	fmt.Fprintf(w, "Years in first: %d, second: %d, common: %d\n", len(r.OldYears), len(r.NewYears), len(r.CommonYears))

	for _, res := range r.Results {
		switch {
		case res.Match:
			fmt.Fprintf(w, "%s %s %s: match (%d readings)\n", okMark, res.Year, res.Field, res.OldLen)
		case res.Index < 0:
			fmt.Fprintf(w, "%s %s %s: length mismatch (first: %d, second: %d)\n", failMark, res.Year, res.Field, res.OldLen, res.NewLen)
		default:
			fmt.Fprintf(w, "%s %s %s[%d]: mismatch\n   first:  %s = %v\n   second: %s = %v\n", failMark, res.Year, res.Field, res.Index,
				res.Old.Date.UTC().Format(time.RFC3339), res.Old.Value, res.New.Date.UTC().Format(time.RFC3339), res.New.Value)
		}
	}
	for _, note := range r.Notes {
		fmt.Fprintf(w, "ℹ️  %s\n", note)
	}

	fmt.Fprintf(w, "\nTotal comparisons: %d, matched: %d, failed: %d, success rate: %.1f%%\n",
		r.Total(), r.Matched(), r.Total()-r.Matched(), r.SuccessRate())
	if r.Metadata.StartDate != "" {
		fmt.Fprintf(w, "Second document covers %s to %s with %d missed days\n", r.Metadata.StartDate, r.Metadata.EndDate, len(r.Metadata.MissedDays))
	}

	mark, msg := okMark, "All core data matches!"
	if !r.AllMatched() {
		mark, msg = failMark, "Some mismatches found"
	}
	_, err := fmt.Fprintf(w, "%s Overall result: %s\n", mark, msg)
	return err
}

func writeExportSummary(w io.Writer, s export.Summary, output string, bytes int64) error {
	fmt.Fprintf(w, "Export completed:\n")
	fmt.Fprintf(w, "- Days processed: %d\n", s.ProcessedDays)
	fmt.Fprintf(w, "- Days skipped: %d\n", s.SkippedDays)
	fmt.Fprintf(w, "- Total rows: %s\n", humanize.Comma(int64(s.Rows)))
	fmt.Fprintf(w, "- Output file: %s (%s)\n", output, humanize.Bytes(uint64(max(bytes, 0))))

	if s.Gaps == nil {
		_, err := fmt.Fprintf(w, "\nNo inter-file gaps found (only one file or no valid timestamps)\n")
		return err
	}
	g := s.Gaps
	fmt.Fprintf(w, "\nTimestamp gap statistics (between files only):\n")
	fmt.Fprintf(w, "- Total gaps analyzed: %d\n", g.TotalGaps)
	fmt.Fprintf(w, "- Average gap (<= 10 min only): %.1f minutes\n", g.AvgMinutes)
	fmt.Fprintf(w, "- Minimum gap: %.1f minutes\n", g.MinMinutes)
	fmt.Fprintf(w, "- Maximum gap: %.1f minutes\n", g.MaxMinutes)
	fmt.Fprintf(w, "- Files with gaps > 10 minutes: %d\n", len(g.LargeGaps))
	for _, gap := range g.LargeGaps {
		fmt.Fprintf(w, "  - %s to %s: %.1f minutes\n", gap.FromDay, gap.ToDay, gap.Minutes)
	}
	return nil
}

func formatReading(seq almanac.Sequence, last bool) string {
	r, ok := seq.First()
	if last {
		r, ok = seq.Last()
	}
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f (%s)", r.Value, r.Date.Format(time.DateOnly))
}

func formatAverage(avg *almanac.MovingAverage) string {
	if avg == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f (n=%s)", avg.Average, humanize.Comma(int64(avg.N)))
}

// writeYearTable prints the record and average of every season of label
func writeYearTable(w io.Writer, label string, y *almanac.AlmanacYear) error {
	fmt.Fprintf(w, "%s\n", label)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Season", "Hottest day", "Coldest day", "Average", "Day avg", "Night avg"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range append([]almanac.Season{almanac.WholeYear}, almanac.Seasons...) {
		slot := y.Season(s)
		data = append(data, []string{
			string(s),
			formatReading(slot.HottestDays, true),
			formatReading(slot.ColdestDays, false),
			formatAverage(slot.Average),
			formatAverage(slot.AverageDaytime),
			formatAverage(slot.AverageNighttime),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if first, ok := y.FirstFreezesAfterSummer.First(); ok {
		fmt.Fprintf(w, "First freeze after summer: %s (%.2f)\n", first.Date.Format(time.RFC3339), first.Value)
	}
	if first, ok := y.FirstFreezesBeforeSummer.First(); ok {
		fmt.Fprintf(w, "First freeze before summer: %s (%.2f)\n", first.Date.Format(time.RFC3339), first.Value)
	}
	if last, ok := y.LastFreezesBeforeSummer.Last(); ok {
		fmt.Fprintf(w, "Last freeze before summer: %s (%.2f)\n", last.Date.Format(time.RFC3339), last.Value)
	}
	return nil
}
