package thingspeak

import (
	"fmt"
	"time"

	"github.com/chrissnell/lakealmanac/pkg/almanac"
)

// Sensor fields of the lake channel
const (
	IndoorField  = 1
	OutdoorField = 2
)

// FeedTime parses a feed entry's created_at timestamp
func FeedTime(f FieldFeed) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, f.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("entry %d: invalid created_at %q: %w", f.EntryID, f.CreatedAt, err)
	}
	return t, nil
}

// TemperatureDay converts the feed into almanac readings of field, with
// timestamps in loc. Entries without a finite value for field are dropped,
// so the almanac only ever sees numeric readings.
func (d *DayResponse) TemperatureDay(field int, loc *time.Location) (almanac.TemperatureDay, error) {
	day := almanac.TemperatureDay{
		Day:      d.Day,
		Readings: make([]almanac.Reading, 0, len(d.Response.Feeds)),
	}

	for _, f := range d.Response.Feeds {
		value, ok := f.FieldValue(field)
		if !ok {
			continue
		}
		t, err := FeedTime(f)
		if err != nil {
			return almanac.TemperatureDay{}, err
		}
		day.Readings = append(day.Readings, almanac.Reading{Date: t.In(loc), Value: value})
	}
	return day, nil
}
