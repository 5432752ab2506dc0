package readings

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsertQuery(t *testing.T) {
	q := BuildInsertQuery(2)

	assert.True(t, strings.HasPrefix(q, "INSERT INTO lake_temperature_readings (date_recorded, entry_id, indoor_temp, outdoor_temp, channel_id) VALUES "))
	assert.Contains(t, q, "($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")
	assert.Contains(t, q, "ON CONFLICT (entry_id, date_recorded) DO UPDATE SET")
	assert.NotContains(t, q, "$11")
}

func TestChunk(t *testing.T) {
	rows := make([]Row, 4501)
	chunks := chunk(rows, DefaultBatchSize)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 2000)
	assert.Len(t, chunks[1], 2000)
	assert.Len(t, chunks[2], 501)
	assert.Empty(t, chunk(nil, DefaultBatchSize))
}

func TestRowValues(t *testing.T) {
	outdoor := 4.25
	r := Row{DateRecorded: time.Date(2021, 1, 2, 8, 0, 59, 0, time.UTC), EntryID: 7, OutdoorTemp: &outdoor, ChannelID: 581842}

	v := r.values()
	require.Len(t, v, len(columns))
	assert.Nil(t, v[2].(*float64), "missing indoor temperature should be NULL")
	assert.Equal(t, 4.25, *v[3].(*float64))
}

func TestDateRangeAndGaps(t *testing.T) {
	days, err := DateRange("2020-02-27", "2020-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2020-02-27", "2020-02-28", "2020-02-29", "2020-03-01", "2020-03-02"}, days)

	existing := map[string]struct{}{"2020-02-27": {}, "2020-03-01": {}}
	assert.Equal(t, []string{"2020-02-28", "2020-02-29", "2020-03-02"}, FindGaps(days, existing))

	_, err = DateRange("2020-13-01", "2020-12-01")
	assert.Error(t, err)

	empty, err := DateRange("2020-03-02", "2020-03-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
