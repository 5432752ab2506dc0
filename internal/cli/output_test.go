package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrissnell/lakealmanac/internal/app"
	"github.com/chrissnell/lakealmanac/internal/compare"
	"github.com/chrissnell/lakealmanac/internal/constants"
	"github.com/chrissnell/lakealmanac/internal/export"
	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGapReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGapReport(&buf, &app.GapReport{}, false))
	assert.Contains(t, buf.String(), "No data found in database")

	latest := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	missing := []string{}
	for d := 1; d <= 12; d++ {
		missing = append(missing, time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC).Format(time.DateOnly))
	}
	report := &app.GapReport{Start: "2024-01-01", End: "2024-02-29", Latest: &latest, Expected: 60, Missing: missing}

	buf.Reset()
	require.NoError(t, writeGapReport(&buf, report, false))
	out := buf.String()
	assert.Contains(t, out, "2024-01-10")
	assert.NotContains(t, out, "2024-01-11")
	assert.Contains(t, out, "and 2 more")

	buf.Reset()
	require.NoError(t, writeGapReport(&buf, report, true))
	assert.Contains(t, buf.String(), "2024-01-12")

	buf.Reset()
	report.Missing = nil
	require.NoError(t, writeGapReport(&buf, report, false))
	assert.Contains(t, buf.String(), "No gaps found")
}

func TestWriteBackfillResults(t *testing.T) {
	var buf bytes.Buffer
	results := []app.BackfillResult{
		{Day: "2024-01-01", Status: app.BackfillSuccess, Rows: 1440},
		{Day: "2024-01-02", Status: app.BackfillMissing, Message: "archive file not found"},
		{Day: "2024-01-03", Status: app.BackfillError, Message: "bad zip"},
	}
	require.NoError(t, writeBackfillResults(&buf, results, true))
	out := buf.String()
	assert.Contains(t, out, "1,440")
	assert.Contains(t, out, "archive file not found")
	assert.Contains(t, out, "Success: 1, missing: 1, errors: 1; would insert 1,440 rows")
}

func TestWriteComparison(t *testing.T) {
	r := &compare.Report{
		OldYears:    []string{"2021"},
		NewYears:    []string{"2021", "All"},
		CommonYears: []string{"2021"},
		Results: []compare.FieldResult{
			{Year: "2021", Field: "HottestDays", Match: true, OldLen: 5, NewLen: 5, Index: -1},
			{Year: "2021", Field: "ColdestDays", OldLen: 5, NewLen: 4, Index: -1},
			{Year: "2021", Field: "HottestDaytime", OldLen: 1, NewLen: 1, Index: 0,
				Old: almanac.Reading{Date: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), Value: 1},
				New: almanac.Reading{Date: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), Value: 2}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeComparison(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "2021 HottestDays: match (5 readings)")
	assert.Contains(t, out, "length mismatch (first: 5, second: 4)")
	assert.Contains(t, out, "HottestDaytime[0]: mismatch")
	assert.Contains(t, out, "success rate: 33.3%")
	assert.Contains(t, out, "Some mismatches found")
}

func TestWriteExportSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExportSummary(&buf, export.Summary{ProcessedDays: 2, Rows: 2880}, "out.csv", 2048))
	out := buf.String()
	assert.Contains(t, out, "Total rows: 2,880")
	assert.Contains(t, out, "out.csv (2.0 kB)")
	assert.Contains(t, out, "No inter-file gaps found")

	buf.Reset()
	s := export.Summary{Gaps: &export.GapStats{TotalGaps: 2, AvgMinutes: 5, MinMinutes: 5, MaxMinutes: 60,
		LargeGaps: []export.Gap{{FromDay: "2024-01-01", ToDay: "2024-01-02", Minutes: 60}}}}
	require.NoError(t, writeExportSummary(&buf, s, "out.csv", 0))
	assert.Contains(t, buf.String(), "2024-01-01 to 2024-01-02: 60.0 minutes")
}

func TestWriteYearTable(t *testing.T) {
	y := &almanac.AlmanacYear{}
	y.Year.HottestDays = almanac.Sequence{
		{Date: time.Date(2021, 7, 1, 15, 0, 0, 0, time.UTC), Value: 20},
		{Date: time.Date(2021, 7, 2, 15, 0, 0, 0, time.UTC), Value: 24.5},
	}
	y.Year.Average = &almanac.MovingAverage{Average: 11.25, N: 52000}
	y.FirstFreezesAfterSummer = almanac.Sequence{{Date: time.Date(2021, 11, 20, 14, 0, 0, 0, time.UTC), Value: -0.5}}
	y.LastFreezesBeforeSummer = almanac.Sequence{
		{Date: time.Date(2021, 3, 1, 13, 0, 0, 0, time.UTC), Value: -1},
		{Date: time.Date(2021, 4, 2, 12, 0, 0, 0, time.UTC), Value: -0.25},
	}

	var buf bytes.Buffer
	require.NoError(t, writeYearTable(&buf, "2021", y))
	out := buf.String()
	assert.Contains(t, out, "24.50 (2021-07-02)")
	assert.Contains(t, out, "11.25 (n=52,000)")
	assert.Contains(t, out, "Winter")
	assert.Contains(t, out, "First freeze after summer: 2021-11-20T14:00:00Z (-0.50)")
	assert.Contains(t, out, "Last freeze before summer: 2021-04-02T12:00:00Z (-0.25)")
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	doc := `{"_metadata":{"missedDays":[]},"2021":{"Year":{"HottestDays":[{"date":"2021-07-01T22:00:00Z","value":24}]}}}`
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	require.NoError(t, os.WriteFile(first, []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(doc), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"compare", first, second})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "All core data matches!")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "lake-almanac "+constants.BuildInfo())
}
