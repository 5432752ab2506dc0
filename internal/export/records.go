// Package export writes archived sensor days as CSV or Parquet, suitable for
// loading into lake_temperature_readings.
package export

import (
	"strings"
	"time"

	"github.com/chrissnell/lakealmanac/pkg/thingspeak"
)

// Header lists the exported columns, in order
var Header = []string{"date_recorded", "entry_id", "indoor_temp", "outdoor_temp", "channel_id"}

// Record is one exported feed entry. Temperatures keep the sensor's text.
type Record struct {
	Day          string
	DateRecorded string
	EntryID      int64
	IndoorTemp   string
	OutdoorTemp  string
	ChannelID    int64
}

// Time parses DateRecorded
func (r Record) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, r.DateRecorded)
}

func raw(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// RecordsFromResponse converts a day of feed, skipping entries with neither
// temperature field.
func RecordsFromResponse(resp *thingspeak.DayResponse) []Record {
	records := make([]Record, 0, len(resp.Response.Feeds))
	for _, f := range resp.Response.Feeds {
		indoor, outdoor := raw(f.Field(thingspeak.IndoorField)), raw(f.Field(thingspeak.OutdoorField))
		if indoor == "" && outdoor == "" {
			continue
		}
		records = append(records, Record{
			Day:          resp.Day,
			DateRecorded: f.CreatedAt,
			EntryID:      f.EntryID,
			IndoorTemp:   indoor,
			OutdoorTemp:  outdoor,
			ChannelID:    resp.Response.Channel.ID,
		})
	}
	return records
}
