package solar

import (
	"testing"
	"time"
)

func TestSeasons(t *testing.T) {
	// Published UTC instants for 2021
	s := Seasons(2021)

	tests := []struct {
		name     string
		got      time.Time
		expected time.Time
	}{
		{"March equinox", s.MarchEquinox, time.Date(2021, 3, 20, 9, 37, 0, 0, time.UTC)},
		{"June solstice", s.JuneSolstice, time.Date(2021, 6, 21, 3, 32, 0, 0, time.UTC)},
		{"September equinox", s.SeptemberEquinox, time.Date(2021, 9, 22, 19, 21, 0, 0, time.UTC)},
		{"December solstice", s.DecemberSolstice, time.Date(2021, 12, 21, 15, 59, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := tt.got.Sub(tt.expected)
			if diff < 0 {
				diff = -diff
			}
			if diff > 3*time.Minute {
				t.Errorf("%s = %v, expected within 3m of %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestSeasonsOrdered(t *testing.T) {
	for year := 2018; year <= 2030; year++ {
		s := Seasons(year)
		if !(s.MarchEquinox.Before(s.JuneSolstice) &&
			s.JuneSolstice.Before(s.SeptemberEquinox) &&
			s.SeptemberEquinox.Before(s.DecemberSolstice)) {
			t.Errorf("season boundaries out of order for %d: %+v", year, s)
		}
		if s.MarchEquinox.Year() != year || s.DecemberSolstice.Year() != year {
			t.Errorf("season boundaries for %d fall outside the year: %+v", year, s)
		}
	}
}
