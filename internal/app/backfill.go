package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/lakealmanac/internal/archive"
	"github.com/chrissnell/lakealmanac/internal/storage/readings"
	"github.com/chrissnell/lakealmanac/pkg/thingspeak"
)

// Backfill outcomes
const (
	BackfillSuccess = "success"
	BackfillMissing = "missing"
	BackfillError   = "error"
)

// BackfillResult is the outcome of loading one archived day
type BackfillResult struct {
	Day     string
	Status  string
	Rows    int
	Message string
}

// Backfill loads archived days into the readings database without touching
// the almanac. A dry run reads the archive and reports what would be
// inserted.
func (a *App) Backfill(ctx context.Context, days []string, dryRun bool) ([]BackfillResult, error) {
	if a.readings == nil && !dryRun {
		return nil, ErrNoDatabase
	}

	results := make([]BackfillResult, 0, len(days))
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := a.backfillDay(ctx, day, dryRun)
		a.logger.Infow("backfill", "day", day, "status", res.Status, "rows", res.Rows, "message", res.Message)
		results = append(results, res)
	}
	return results, nil
}

func (a *App) backfillDay(ctx context.Context, day string, dryRun bool) BackfillResult {
	body, err := a.archive.Read(day)
	if errors.Is(err, archive.ErrNotArchived) {
		return BackfillResult{Day: day, Status: BackfillMissing, Message: "archive file not found"}
	}
	if err != nil {
		return BackfillResult{Day: day, Status: BackfillError, Message: err.Error()}
	}

	resp, err := thingspeak.Decode(day, body)
	if err != nil {
		return BackfillResult{Day: day, Status: BackfillError, Message: err.Error()}
	}
	rows := readings.RowsFromResponse(resp)

	if dryRun {
		return BackfillResult{Day: day, Status: BackfillSuccess, Rows: len(rows),
			Message: fmt.Sprintf("would insert %d temperature readings", len(rows))}
	}

	n, err := a.readings.Insert(ctx, rows)
	if err != nil {
		return BackfillResult{Day: day, Status: BackfillError, Message: err.Error()}
	}
	a.metrics.RowsInserted(n)
	return BackfillResult{Day: day, Status: BackfillSuccess, Rows: n,
		Message: fmt.Sprintf("inserted %d temperature readings", n)}
}

// GapReport lists the days without readings in a range
type GapReport struct {
	Start  string
	End    string
	Latest *time.Time
	// Expected is the number of days in the range
	Expected int
	Missing  []string
}

// CheckGaps finds days in [start, end] with no stored readings. An empty
// start means database.project-start, an empty end means yesterday. An
// empty database reports no gaps and a nil Latest.
func (a *App) CheckGaps(ctx context.Context, start, end string) (*GapReport, error) {
	if a.readings == nil {
		return nil, ErrNoDatabase
	}
	if start == "" {
		start = a.cfg.Database.ProjectStart
	}
	if end == "" {
		end = a.Yesterday()
	}
	report := &GapReport{Start: start, End: end}

	latest, err := a.readings.LatestDate(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return report, nil
	}
	report.Latest = latest

	expected, err := readings.DateRange(start, end)
	if err != nil {
		return nil, err
	}
	existing, err := a.readings.ExistingDates(ctx, start, end, a.updater.Location())
	if err != nil {
		return nil, err
	}
	report.Expected = len(expected)
	report.Missing = readings.FindGaps(expected, existing)
	return report, nil
}

// RecentRange returns the [start, end] range covering the last n days
// before today
func (a *App) RecentRange(n int) (string, string) {
	today := a.now().In(a.updater.Location())
	return today.AddDate(0, 0, -n).Format(time.DateOnly), today.AddDate(0, 0, -1).Format(time.DateOnly)
}
