package almanac

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultTimezone is the reference timezone of the lake sensor.
const DefaultTimezone = "America/Vancouver"

// Options configures an Updater. Zero fields take their defaults.
type Options struct {
	// Location is the reference timezone for every day, night and season
	// boundary. Defaults to DefaultTimezone.
	Location *time.Location

	// SequenceSize bounds every hall-of-fame sequence. Defaults to 5.
	SequenceSize int

	// SummerSplitMonth and SummerSplitDay set the yearly instant dividing
	// freezes before and after summer. Defaults to July 1.
	SummerSplitMonth time.Month
	SummerSplitDay   int

	// DaytimeStartHour and DaytimeEndHour bound the daytime window.
	// Defaults to 6 and 18.
	DaytimeStartHour int
	DaytimeEndHour   int

	// SeasonReferenceYear supplies the equinox and solstice instants used
	// for every year. Defaults to 2021.
	SeasonReferenceYear int

	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() (Options, error) {
	if o.Location == nil {
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			return o, fmt.Errorf("loading timezone %s: %w", DefaultTimezone, err)
		}
		o.Location = loc
	}
	if o.SequenceSize == 0 {
		o.SequenceSize = 5
	}
	if o.SummerSplitMonth == 0 {
		o.SummerSplitMonth = time.July
	}
	if o.SummerSplitDay == 0 {
		o.SummerSplitDay = 1
	}
	if o.DaytimeStartHour == 0 && o.DaytimeEndHour == 0 {
		o.DaytimeStartHour, o.DaytimeEndHour = 6, 18
	}
	if o.SeasonReferenceYear == 0 {
		o.SeasonReferenceYear = 2021
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}

	switch {
	case o.SequenceSize < 1:
		return o, fmt.Errorf("%w: sequence size %d", ErrInvalidOptions, o.SequenceSize)
	case o.SummerSplitMonth < time.January || o.SummerSplitMonth > time.December:
		return o, fmt.Errorf("%w: summer split month %d", ErrInvalidOptions, o.SummerSplitMonth)
	case o.SummerSplitDay < 1 || o.SummerSplitDay > 31:
		return o, fmt.Errorf("%w: summer split day %d", ErrInvalidOptions, o.SummerSplitDay)
	case o.DaytimeStartHour < 0 || o.DaytimeEndHour > 24 || o.DaytimeStartHour >= o.DaytimeEndHour:
		return o, fmt.Errorf("%w: daytime window %d-%d", ErrInvalidOptions, o.DaytimeStartHour, o.DaytimeEndHour)
	}
	return o, nil
}

// Updater folds days of readings into an Almanac. It holds no state besides
// its configuration; callers must not run two updates against the same
// Almanac concurrently.
type Updater struct {
	opts    Options
	loc     *time.Location
	seasons *seasonCalendar
	logger  *zap.SugaredLogger
}

// NewUpdater validates opts and returns an Updater.
func NewUpdater(opts Options) (*Updater, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Updater{
		opts:    opts,
		loc:     opts.Location,
		seasons: newSeasonCalendar(opts.SeasonReferenceYear, opts.Location, opts.Logger),
		logger:  opts.Logger,
	}, nil
}

// Location returns the reference timezone.
func (u *Updater) Location() *time.Location {
	return u.loc
}

// SequenceSize returns the hall-of-fame capacity.
func (u *Updater) SequenceSize() int {
	return u.opts.SequenceSize
}

// ParseDay parses a YYYY-MM-DD day as local midnight.
func (u *Updater) ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, day, u.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDay, day, err)
	}
	return t, nil
}

// SeasonOf returns the astronomical season t falls in.
func (u *Updater) SeasonOf(t time.Time) Season {
	return u.seasons.seasonOf(t)
}

// Update folds one day into alm. Every hi/low candidate and average updates
// four slots: the day's year and AllTime, each for the whole year and for
// the day's season. Freezes are tracked on the day's year only: the earliest
// and latest freezing days before the summer split, and the earliest after.
//
// Re-applying a day is a no-op: sequences skip exact duplicates and averages
// skip days the year already records. An unparseable day returns
// ErrInvalidDay and leaves alm untouched. Readings with non-finite values
// are ignored.
func (u *Updater) Update(alm Almanac, day TemperatureDay) error {
	midnight, err := u.ParseDay(day.Day)
	if err != nil {
		return err
	}

	readings := make([]Reading, 0, len(day.Readings))
	for _, r := range day.Readings {
		if r.Valid() {
			readings = append(readings, r)
		}
	}
	if dropped := len(day.Readings) - len(readings); dropped > 0 {
		u.logger.Debugw("ignoring non-finite readings", "day", day.Day, "count", dropped)
	}
	SortByValue(readings)

	parts := u.Partition(midnight, readings)
	metrics := u.DailyMetrics(midnight, parts)
	season := u.SeasonOf(midnight)

	year := alm.Year(strconv.Itoa(midnight.Year()))
	all := alm.Year(AllTime)
	targets := [...]*AlmanacSeason{&year.Year, &all.Year, year.Season(season), all.Season(season)}

	for _, m := range HiLowMetrics {
		candidate := metrics.HiLowCandidate(m)
		if candidate == nil {
			continue
		}
		for _, t := range targets {
			slot := t.sequenceSlot(m)
			*slot = UpdateHiLowSequence(*candidate, *slot, m.Kind(), u.opts.SequenceSize)
		}
	}

	if !year.HasDay(day.Day) {
		for _, m := range AverageMetrics {
			avg := metrics.Average(m)
			if avg == nil {
				continue
			}
			for _, t := range targets {
				slot := t.averageSlot(m)
				*slot = Combine(*slot, avg)
			}
		}
		if len(readings) > 0 {
			year.addDay(day.Day)
		}
	}

	year.FirstFreezesBeforeSummer = UpdateFirstFreezeSequence(metrics.FirstFreezeBeforeSummer, year.FirstFreezesBeforeSummer, u.opts.SequenceSize)
	year.FirstFreezesAfterSummer = UpdateFirstFreezeSequence(metrics.FirstFreezeAfterSummer, year.FirstFreezesAfterSummer, u.opts.SequenceSize)
	year.LastFreezesBeforeSummer = UpdateLastFreezeSequence(metrics.FirstFreezeBeforeSummer, year.LastFreezesBeforeSummer, u.opts.SequenceSize)

	return nil
}

// UpdateAll folds days into alm in order and returns the days that could
// not be parsed.
func (u *Updater) UpdateAll(alm Almanac, days ...TemperatureDay) []string {
	var invalid []string
	for _, d := range days {
		if err := u.Update(alm, d); err != nil {
			u.logger.Warnw("skipping day", "day", d.Day, "error", err)
			invalid = append(invalid, d.Day)
		}
	}
	return invalid
}
