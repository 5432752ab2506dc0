package app

import (
	"context"
	"fmt"
	"time"

	"github.com/chrissnell/lakealmanac/internal/metrics"
	"github.com/chrissnell/lakealmanac/internal/storage/readings"
	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"github.com/chrissnell/lakealmanac/pkg/thingspeak"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ProcessOptions controls a processing run
type ProcessOptions struct {
	// FromArchive reads days from the response archive instead of the API
	FromArchive bool
	// SaveResponses archives API responses before processing them
	SaveResponses bool
	// SkipDatabase leaves the readings database untouched
	SkipDatabase bool
}

// RunReport summarizes a processing run
type RunReport struct {
	RunID     string
	Processed []string
	Missed    []string
	Readings  int
	Duration  time.Duration
}

type fetched struct {
	day  string
	resp *thingspeak.DayResponse
	err  error
}

// DaysBetween lists the days from start up to, but not including, end
func DaysBetween(start, end string) ([]string, error) {
	from, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return nil, fmt.Errorf("%w %q", almanac.ErrInvalidDay, start)
	}
	to, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return nil, fmt.Errorf("%w %q", almanac.ErrInvalidDay, end)
	}

	var days []string
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(time.DateOnly))
	}
	return days, nil
}

func (a *App) fetchDay(ctx context.Context, day string, fromArchive bool) (*thingspeak.DayResponse, error) {
	if fromArchive {
		body, err := a.archive.Read(day)
		if err != nil {
			return nil, err
		}
		return thingspeak.Decode(day, body)
	}

	start := time.Now()
	resp, err := a.source.FetchDay(ctx, day)
	a.metrics.ObserveFetch(time.Since(start))
	return resp, err
}

// fetchWindow fetches days concurrently, keeping results in input order.
// Per-day failures are carried in the results.
func (a *App) fetchWindow(ctx context.Context, days []string, fromArchive bool) ([]fetched, error) {
	results := make([]fetched, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency())
	for i, day := range days {
		g.Go(func() error {
			resp, err := a.fetchDay(gctx, day, fromArchive)
			results[i] = fetched{day: day, resp: resp, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func (a *App) concurrency() int {
	if n := a.cfg.Schedule.Concurrency; n > 0 {
		return n
	}
	return 1
}

// applyDay archives, stores and folds one fetched day into doc
func (a *App) applyDay(ctx context.Context, doc *almanac.Document, f fetched, opts ProcessOptions) (int, error) {
	if f.err != nil {
		return 0, f.err
	}

	if !opts.FromArchive && opts.SaveResponses {
		if err := a.archive.Write(f.day, f.resp.Raw); err != nil {
			a.logger.Warnw("failed to archive response", "day", f.day, "error", err)
		}
	}

	if a.readings != nil && !opts.SkipDatabase {
		rows := readings.RowsFromResponse(f.resp)
		n, err := a.readings.Insert(ctx, rows)
		if err != nil {
			a.logger.Errorw("failed to save readings to database", "day", f.day, "error", err)
		} else {
			a.metrics.RowsInserted(n)
		}
	}

	tday, err := f.resp.TemperatureDay(a.cfg.Sensor.Field, a.updater.Location())
	if err != nil {
		return 0, err
	}

	start := time.Now()
	if err := a.updater.Update(doc.Almanac, tday); err != nil {
		return 0, err
	}
	a.metrics.ObserveUpdate(time.Since(start))
	return len(tday.Readings), nil
}

// process runs days through doc, calling onFailure for each failed day
func (a *App) process(ctx context.Context, doc *almanac.Document, days []string, opts ProcessOptions, onFailure func(day string, err error)) (*RunReport, error) {
	report := &RunReport{RunID: uuid.NewString()}
	began := time.Now()
	logger := a.logger.With("run", report.RunID)

	window := a.concurrency() * 4
	for off := 0; off < len(days); off += window {
		batch := days[off:min(off+window, len(days))]
		results, err := a.fetchWindow(ctx, batch, opts.FromArchive)
		if err != nil {
			return report, err
		}

		for _, f := range results {
			n, err := a.applyDay(ctx, doc, f, opts)
			if err != nil {
				logger.Errorw("failed to process day", "day", f.day, "error", err)
				a.metrics.Day(metrics.OutcomeMissed)
				report.Missed = append(report.Missed, f.day)
				onFailure(f.day, err)
				continue
			}
			doc.Metadata.MarkProcessed(f.day)
			a.metrics.Day(metrics.OutcomeProcessed)
			a.metrics.Readings(n)
			report.Processed = append(report.Processed, f.day)
			report.Readings += n
			logger.Infow("processed day", "day", f.day, "readings", n)
		}
	}

	report.Duration = time.Since(began)
	return report, nil
}

func (a *App) save(ctx context.Context, doc *almanac.Document) error {
	if err := a.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("saving almanac: %w", err)
	}
	a.metrics.Saved(a.now(), len(doc.Metadata.MissedDays))
	return nil
}

// ProcessDays folds days into the stored almanac. A day that cannot be
// fetched or processed is recorded as missed and the run continues. The
// almanac is saved once, after every day was attempted; a cancelled run
// saves what it processed so far.
func (a *App) ProcessDays(ctx context.Context, days []string, opts ProcessOptions) (*RunReport, error) {
	doc, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading almanac: %w", err)
	}

	report, runErr := a.process(ctx, doc, days, opts, func(day string, _ error) {
		doc.Metadata.MarkMissed(day)
	})
	if err := a.save(context.WithoutCancel(ctx), doc); err != nil {
		return report, err
	}

	a.logger.Infow("run complete", "run", report.RunID, "processed", len(report.Processed),
		"missed", len(report.Missed), "duration", report.Duration)
	return report, runErr
}

// RetryOptions controls RetryMissedDays
type RetryOptions struct {
	SaveResponses bool
	// RemoveFailedRetries drops a day from the missed list even when the
	// retry fails
	RemoveFailedRetries bool
}

// RetryMissedDays re-fetches every day recorded as missed. A successful
// retry clears the day from the missed list.
func (a *App) RetryMissedDays(ctx context.Context, opts RetryOptions) (*RunReport, error) {
	doc, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading almanac: %w", err)
	}

	missed := append([]string(nil), doc.Metadata.MissedDays...)
	if len(missed) == 0 {
		a.logger.Info("no missed days found in almanac metadata")
		return &RunReport{RunID: uuid.NewString()}, nil
	}
	a.logger.Infow("retrying missed days", "count", len(missed))

	report, runErr := a.process(ctx, doc, missed, ProcessOptions{SaveResponses: opts.SaveResponses}, func(day string, _ error) {
		if opts.RemoveFailedRetries {
			doc.Metadata.Forget(day)
		}
	})
	if err := a.save(context.WithoutCancel(ctx), doc); err != nil {
		return report, err
	}
	return report, runErr
}
