package readings

import (
	"github.com/chrissnell/lakealmanac/pkg/thingspeak"
)

// RowsFromResponse converts a day of feed into rows. Entries with neither
// temperature, or with an unreadable timestamp, are skipped.
func RowsFromResponse(resp *thingspeak.DayResponse) []Row {
	rows := make([]Row, 0, len(resp.Response.Feeds))
	for _, f := range resp.Response.Feeds {
		t, err := thingspeak.FeedTime(f)
		if err != nil {
			continue
		}
		row := Row{
			DateRecorded: t,
			EntryID:      f.EntryID,
			ChannelID:    resp.Response.Channel.ID,
		}
		if v, ok := f.FieldValue(thingspeak.IndoorField); ok {
			row.IndoorTemp = &v
		}
		if v, ok := f.FieldValue(thingspeak.OutdoorField); ok {
			row.OutdoorTemp = &v
		}
		if row.IndoorTemp == nil && row.OutdoorTemp == nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
