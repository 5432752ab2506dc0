package almanac

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// HiLowMetric identifies one of the hall-of-fame sequences of a season.
type HiLowMetric int

const (
	HottestDays HiLowMetric = iota
	ColdestDays
	HottestNighttime
	ColdestNighttime
	HottestDaytime
	ColdestDaytime

	numHiLowMetrics
)

// HiLowMetrics lists every hi/low metric.
var HiLowMetrics = [numHiLowMetrics]HiLowMetric{
	HottestDays, ColdestDays,
	HottestNighttime, ColdestNighttime,
	HottestDaytime, ColdestDaytime,
}

// String returns the key the metric is persisted under.
func (m HiLowMetric) String() string {
	switch m {
	case HottestDays:
		return "HottestDays"
	case ColdestDays:
		return "ColdestDays"
	case HottestNighttime:
		// Persisted documents use this spelling.
		return "HottestNightime"
	case ColdestNighttime:
		return "ColdestNighttime"
	case HottestDaytime:
		return "HottestDaytime"
	case ColdestDaytime:
		return "ColdestDaytime"
	default:
		return fmt.Sprintf("HiLowMetric(%d)", int(m))
	}
}

// Kind returns the eviction rule for the metric's sequence.
func (m HiLowMetric) Kind() SequenceKind {
	switch m {
	case HottestDays, HottestNighttime, HottestDaytime:
		return High
	case ColdestDays, ColdestNighttime, ColdestDaytime:
		return Low
	default:
		panic(fmt.Sprintf("almanac: unknown hi/low metric %v", m))
	}
}

// AverageMetric identifies one of the moving averages of a season.
type AverageMetric int

const (
	AverageOfDay AverageMetric = iota
	AverageOfNighttime
	AverageOfDaytime
	AverageAtNoon
	AverageAtMidnight

	numAverageMetrics
)

// AverageMetrics lists every average metric.
var AverageMetrics = [numAverageMetrics]AverageMetric{
	AverageOfDay, AverageOfNighttime, AverageOfDaytime, AverageAtNoon, AverageAtMidnight,
}

func (m AverageMetric) String() string {
	switch m {
	case AverageOfDay:
		return "Average"
	case AverageOfNighttime:
		return "AverageNighttime"
	case AverageOfDaytime:
		return "AverageDaytime"
	case AverageAtNoon:
		return "AverageNoon"
	case AverageAtMidnight:
		return "AverageMidnight"
	default:
		return fmt.Sprintf("AverageMetric(%d)", int(m))
	}
}

// DailyMetrics holds the candidates one day contributes to the almanac.
// Nil entries are absent and skipped.
type DailyMetrics struct {
	HiLow                   [numHiLowMetrics]*Reading
	Averages                [numAverageMetrics]*MovingAverage
	FirstFreezeBeforeSummer *Reading
	FirstFreezeAfterSummer  *Reading
}

// HiLowCandidate returns the day's candidate for m, or nil.
func (d DailyMetrics) HiLowCandidate(m HiLowMetric) *Reading {
	return d.HiLow[m]
}

// Average returns the day's average for m, or nil.
func (d DailyMetrics) Average(m AverageMetric) *MovingAverage {
	return d.Averages[m]
}

// DailyMetrics reduces the partitions of the day starting at midnight into
// candidate extrema and averages.
func (u *Updater) DailyMetrics(midnight time.Time, p Partitions) DailyMetrics {
	var d DailyMetrics

	d.HiLow[HottestDays] = last(p.All)
	d.HiLow[ColdestDays] = first(p.All)
	d.HiLow[HottestNighttime] = last(p.Nighttime)
	d.HiLow[ColdestNighttime] = first(p.Nighttime)
	d.HiLow[HottestDaytime] = last(p.Daytime)
	d.HiLow[ColdestDaytime] = first(p.Daytime)

	d.Averages[AverageOfDay] = mean(p.All)
	d.Averages[AverageOfNighttime] = mean(p.Nighttime)
	d.Averages[AverageOfDaytime] = mean(p.Daytime)

	// Candidates are compared by time of day only, projected onto a fixed
	// standard-time date. Midnight is the end of the day.
	ref := time.Date(2000, time.January, 1, 0, 0, 0, 0, u.loc)
	d.Averages[AverageAtNoon] = single(u.nearestTimeOfDay(p.All, ref, ref.Add(12*time.Hour)))
	d.Averages[AverageAtMidnight] = single(u.nearestTimeOfDay(p.All, ref, ref.AddDate(0, 0, 1)))

	d.FirstFreezeBeforeSummer = firstFreeze(p.BeforeSummer)
	d.FirstFreezeAfterSummer = firstFreeze(p.AfterSummer)

	return d
}

// nearestTimeOfDay returns the reading whose local time of day is closest
// to target. A reading keeps its own UTC offset when projected onto ref, so
// under daylight saving time 13:00 local is nearest to a standard-time noon.
// On ties the earliest reading in input order wins.
func (u *Updater) nearestTimeOfDay(readings []Reading, ref, target time.Time) *Reading {
	var best *Reading
	var bestDist time.Duration

	for i := range readings {
		lt := readings[i].Date.In(u.loc)
		_, offset := lt.Zone()
		projected := time.Date(ref.Year(), ref.Month(), ref.Day(), lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), time.FixedZone("", offset))
		dist := projected.Sub(target)
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist {
			best, bestDist = &readings[i], dist
		}
	}
	return best
}

// firstFreeze returns the first reading at or below zero. Input sorted by
// value yields the coldest freezing reading of the day.
func firstFreeze(readings []Reading) *Reading {
	for i := range readings {
		if readings[i].Value <= 0 {
			r := readings[i]
			return &r
		}
	}
	return nil
}

func first(readings []Reading) *Reading {
	if len(readings) == 0 {
		return nil
	}
	r := readings[0]
	return &r
}

func last(readings []Reading) *Reading {
	if len(readings) == 0 {
		return nil
	}
	r := readings[len(readings)-1]
	return &r
}

func mean(readings []Reading) *MovingAverage {
	if len(readings) == 0 {
		return nil
	}
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.Value
	}
	return &MovingAverage{Average: stat.Mean(values, nil), N: len(values)}
}

func single(r *Reading) *MovingAverage {
	if r == nil {
		return nil
	}
	return &MovingAverage{Average: r.Value, N: 1}
}
