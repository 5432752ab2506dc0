package almanac

import (
	"encoding/json"
	"fmt"
	"slices"
)

// AllTime is the label of the aggregate across every year.
const AllTime = "All"

// AlmanacSeason holds the hall-of-fame sequences and moving averages of one
// (year or AllTime, season or WholeYear) slot.
type AlmanacSeason struct {
	HottestDays      Sequence `json:"HottestDays"`
	ColdestDays      Sequence `json:"ColdestDays"`
	HottestNighttime Sequence `json:"HottestNightime"`
	ColdestNighttime Sequence `json:"ColdestNighttime"`
	HottestDaytime   Sequence `json:"HottestDaytime"`
	ColdestDaytime   Sequence `json:"ColdestDaytime"`

	Average          *MovingAverage `json:"Average,omitempty"`
	AverageNighttime *MovingAverage `json:"AverageNighttime,omitempty"`
	AverageDaytime   *MovingAverage `json:"AverageDaytime,omitempty"`
	AverageNoon      *MovingAverage `json:"AverageNoon,omitempty"`
	AverageMidnight  *MovingAverage `json:"AverageMidnight,omitempty"`
}

// HiLow returns the sequence tracked for m.
func (s *AlmanacSeason) HiLow(m HiLowMetric) Sequence {
	return *s.sequenceSlot(m)
}

// MovingAverage returns the accumulator tracked for m, or nil.
func (s *AlmanacSeason) MovingAverage(m AverageMetric) *MovingAverage {
	return *s.averageSlot(m)
}

func (s *AlmanacSeason) sequenceSlot(m HiLowMetric) *Sequence {
	switch m {
	case HottestDays:
		return &s.HottestDays
	case ColdestDays:
		return &s.ColdestDays
	case HottestNighttime:
		return &s.HottestNighttime
	case ColdestNighttime:
		return &s.ColdestNighttime
	case HottestDaytime:
		return &s.HottestDaytime
	case ColdestDaytime:
		return &s.ColdestDaytime
	default:
		panic(fmt.Sprintf("almanac: unknown hi/low metric %v", m))
	}
}

func (s *AlmanacSeason) averageSlot(m AverageMetric) **MovingAverage {
	switch m {
	case AverageOfDay:
		return &s.Average
	case AverageOfNighttime:
		return &s.AverageNighttime
	case AverageOfDaytime:
		return &s.AverageDaytime
	case AverageAtNoon:
		return &s.AverageNoon
	case AverageAtMidnight:
		return &s.AverageMidnight
	default:
		panic(fmt.Sprintf("almanac: unknown average metric %v", m))
	}
}

// AlmanacYear is the almanac entry for one year label.
type AlmanacYear struct {
	Year   AlmanacSeason `json:"Year"`
	Spring AlmanacSeason `json:"Spring"`
	Summer AlmanacSeason `json:"Summer"`
	Fall   AlmanacSeason `json:"Fall"`
	Winter AlmanacSeason `json:"Winter"`

	FirstFreezesBeforeSummer Sequence `json:"FirstFreezesBeforeSummer"`
	FirstFreezesAfterSummer  Sequence `json:"FirstFreezesAfterSummer"`
	LastFreezesBeforeSummer  Sequence `json:"LastFreezesBeforeSummer"`

	// Days lists the days whose averages were folded into this year, sorted.
	// Only year entries carry it; AllTime relies on the year entries.
	Days []string `json:"Days,omitempty"`
}

// Season returns the slot for s, or nil for an unknown season.
func (y *AlmanacYear) Season(s Season) *AlmanacSeason {
	switch s {
	case WholeYear:
		return &y.Year
	case Spring:
		return &y.Spring
	case Summer:
		return &y.Summer
	case Fall:
		return &y.Fall
	case Winter:
		return &y.Winter
	default:
		return nil
	}
}

// HasDay reports whether day was already folded into the averages.
func (y *AlmanacYear) HasDay(day string) bool {
	_, found := slices.BinarySearch(y.Days, day)
	return found
}

func (y *AlmanacYear) addDay(day string) {
	i, found := slices.BinarySearch(y.Days, day)
	if !found {
		y.Days = slices.Insert(y.Days, i, day)
	}
}

// UnmarshalJSON also accepts the older flat layout, where the whole-year
// sequences sat directly on the year object.
func (y *AlmanacYear) UnmarshalJSON(data []byte) error {
	type plain AlmanacYear
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["Year"]; !ok {
		if err := json.Unmarshal(data, &p.Year); err != nil {
			return err
		}
	}

	*y = AlmanacYear(p)
	return nil
}

// Almanac maps a year label ("2021", AllTime) to its entry.
type Almanac map[string]*AlmanacYear

// Year returns the entry for label, creating an empty one when missing.
func (a Almanac) Year(label string) *AlmanacYear {
	y, ok := a[label]
	if !ok || y == nil {
		y = &AlmanacYear{}
		a[label] = y
	}
	return y
}

// Labels returns the year labels in ascending order, AllTime last.
func (a Almanac) Labels() []string {
	labels := make([]string, 0, len(a))
	hasAll := false
	for label := range a {
		if label == AllTime {
			hasAll = true
			continue
		}
		labels = append(labels, label)
	}
	slices.Sort(labels)
	if hasAll {
		labels = append(labels, AllTime)
	}
	return labels
}
