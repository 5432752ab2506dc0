package almanac

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"time"
)

// Reading is a single temperature sample. Date carries both the absolute
// instant and, through its location, the civil time it was recorded at.
type Reading struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// legacyOffsetZ matches dates written as "...-08:00Z" by older almanacs.
var legacyOffsetZ = regexp.MustCompile(`[+-]\d{2}:\d{2}Z$`)

func (r *Reading) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date := raw.Date
	if legacyOffsetZ.MatchString(date) {
		date = date[:len(date)-1]
	}
	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return fmt.Errorf("reading date %q: %w", raw.Date, err)
	}
	r.Date, r.Value = t, raw.Value
	return nil
}

// Same reports whether two readings share the same instant and value.
func (r Reading) Same(o Reading) bool {
	return r.Value == o.Value && r.Date.Equal(o.Date)
}

// Valid reports whether the reading carries a finite value.
func (r Reading) Valid() bool {
	return !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// TemperatureDay is one sensor-local calendar day of readings.
type TemperatureDay struct {
	Day      string    `json:"day"`
	Readings []Reading `json:"readings"`
}

// Sequence is a bounded, sorted list of readings.
type Sequence []Reading

// MarshalJSON encodes an empty sequence as [] rather than null.
func (s Sequence) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Reading(s))
}

// Contains reports whether r is already present in the sequence.
func (s Sequence) Contains(r Reading) bool {
	return slices.ContainsFunc(s, r.Same)
}

// First returns the lowest-ranked entry.
func (s Sequence) First() (Reading, bool) {
	if len(s) == 0 {
		return Reading{}, false
	}
	return s[0], true
}

// Last returns the highest-ranked entry.
func (s Sequence) Last() (Reading, bool) {
	if len(s) == 0 {
		return Reading{}, false
	}
	return s[len(s)-1], true
}

func compareByValue(a, b Reading) int {
	if c := cmp.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	return a.Date.Compare(b.Date)
}

func compareByDate(a, b Reading) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Value, b.Value)
}

// SortByValue orders readings ascending by value, then by instant.
func SortByValue(readings []Reading) {
	slices.SortStableFunc(readings, compareByValue)
}

// SortByDate orders readings ascending by instant, then by value.
func SortByDate(readings []Reading) {
	slices.SortStableFunc(readings, compareByDate)
}
