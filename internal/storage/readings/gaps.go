package readings

import (
	"fmt"
	"time"
)

// DateRange returns every day from start to end, inclusive
func DateRange(start, end string) ([]string, error) {
	from, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	to, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(time.DateOnly))
	}
	return days, nil
}

// FindGaps returns the expected days missing from existing, in order
func FindGaps(expected []string, existing map[string]struct{}) []string {
	var missing []string
	for _, d := range expected {
		if _, ok := existing[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}
