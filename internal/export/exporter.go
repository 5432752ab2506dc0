package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrissnell/lakealmanac/pkg/thingspeak"
	"go.uber.org/zap"
)

// ErrNoFeeds is reported for archived days without any feed entries
var ErrNoFeeds = errors.New("no data feeds in archived day")

// DayReader returns the archived response body of a day
type DayReader interface {
	Read(day string) ([]byte, error)
}

// Summary reports an export run
type Summary struct {
	ProcessedDays int
	SkippedDays   int
	Rows          int
	Gaps          *GapStats
}

// Exporter streams archived days into a Writer
type Exporter struct {
	source DayReader
	logger *zap.SugaredLogger
}

// NewExporter creates an exporter reading from source
func NewExporter(source DayReader, logger *zap.SugaredLogger) *Exporter {
	return &Exporter{source: source, logger: logger}
}

func (e *Exporter) load(day string) ([]Record, error) {
	body, err := e.source.Read(day)
	if err != nil {
		return nil, err
	}
	resp, err := thingspeak.Decode(day, body)
	if err != nil {
		return nil, err
	}
	if len(resp.Response.Feeds) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFeeds, day)
	}
	return RecordsFromResponse(resp), nil
}

// Export writes every day in order. Unreadable days are skipped and
// counted; only writer failures abort the export.
func (e *Exporter) Export(ctx context.Context, days []string, w Writer) (Summary, error) {
	var s Summary
	var gaps GapTracker

	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		records, err := e.load(day)
		if err != nil {
			e.logger.Warnw("skipping day", "day", day, "error", err)
			s.SkippedDays++
			continue
		}
		if err := w.Write(records); err != nil {
			return s, fmt.Errorf("exporting %s: %w", day, err)
		}
		for _, r := range records {
			if t, err := r.Time(); err == nil {
				gaps.Add(day, t)
			}
		}
		s.Rows += len(records)
		s.ProcessedDays++

		if (i+1)%30 == 0 || i == len(days)-1 {
			e.logger.Infow("export progress", "days", i+1, "of", len(days), "rows", s.Rows)
		}
	}

	if err := w.Close(); err != nil {
		return s, fmt.Errorf("finishing export: %w", err)
	}
	s.Gaps = gaps.Stats()
	return s, nil
}
