package almanac

import "time"

// Partitions splits one day's readings. Every subset keeps the order of the
// input, which the updater sorts by (value, date).
type Partitions struct {
	All          []Reading
	Daytime      []Reading
	Nighttime    []Reading
	BeforeSummer []Reading
	AfterSummer  []Reading
}

// Partition classifies readings of the day starting at midnight (local).
// Daytime is [start, end] of the day, inclusive. Nighttime is the open
// interval from the end of daytime to the start of the next daytime, on
// either side of the day. Readings outside both windows only count towards
// All and the summer split.
func (u *Updater) Partition(midnight time.Time, readings []Reading) Partitions {
	y, m, d := midnight.Date()
	at := func(day, hour int) time.Time {
		return time.Date(y, m, day, hour, 0, 0, 0, u.loc)
	}

	dayStart, dayEnd := at(d, u.opts.DaytimeStartHour), at(d, u.opts.DaytimeEndHour)
	prevEnd := at(d-1, u.opts.DaytimeEndHour)
	nextStart := at(d+1, u.opts.DaytimeStartHour)
	split := time.Date(y, u.opts.SummerSplitMonth, u.opts.SummerSplitDay, 0, 0, 0, 0, u.loc)

	p := Partitions{All: readings}
	for _, r := range readings {
		t := r.Date
		switch {
		case !t.Before(dayStart) && !t.After(dayEnd):
			p.Daytime = append(p.Daytime, r)
		case t.After(dayEnd) && t.Before(nextStart), t.After(prevEnd) && t.Before(dayStart):
			p.Nighttime = append(p.Nighttime, r)
		}

		if t.Before(split) {
			p.BeforeSummer = append(p.BeforeSummer, r)
		} else {
			p.AfterSummer = append(p.AfterSummer, r)
		}
	}
	return p
}
