package export

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LargeGapThreshold separates expected polling gaps from outages
const LargeGapThreshold = 10 * time.Minute

// Gap is the time between the last reading of one day file and the first
// reading of the next
type Gap struct {
	FromDay string
	ToDay   string
	Minutes float64
}

// GapStats summarizes gaps between consecutive day files
type GapStats struct {
	TotalGaps int
	// AvgMinutes only averages gaps within LargeGapThreshold.
	AvgMinutes float64
	MinMinutes float64
	MaxMinutes float64
	LargeGaps  []Gap
}

type stamp struct {
	day string
	t   time.Time
}

// GapTracker collects timestamps while exporting
type GapTracker struct {
	stamps []stamp
}

// Add records one reading instant from day's file
func (g *GapTracker) Add(day string, t time.Time) {
	g.stamps = append(g.stamps, stamp{day: day, t: t})
}

// Stats computes gap statistics, or nil when there is no inter-file gap
func (g *GapTracker) Stats() *GapStats {
	if len(g.stamps) < 2 {
		return nil
	}

	sorted := slices.Clone(g.stamps)
	slices.SortStableFunc(sorted, func(a, b stamp) int { return a.t.Compare(b.t) })

	var all, small []float64
	var large []Gap
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.day == cur.day {
			continue
		}
		gap := cur.t.Sub(prev.t)
		minutes := gap.Minutes()
		all = append(all, minutes)
		if gap > LargeGapThreshold {
			large = append(large, Gap{FromDay: prev.day, ToDay: cur.day, Minutes: minutes})
		} else {
			small = append(small, minutes)
		}
	}
	if len(all) == 0 {
		return nil
	}

	stats := &GapStats{
		TotalGaps:  len(all),
		MinMinutes: floats.Min(all),
		MaxMinutes: floats.Max(all),
		LargeGaps:  large,
	}
	if len(small) > 0 {
		stats.AvgMinutes = stat.Mean(small, nil)
	}
	return stats
}
