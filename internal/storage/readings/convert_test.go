package readings

import (
	"testing"

	"github.com/chrissnell/lakealmanac/pkg/thingspeak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsFromResponse(t *testing.T) {
	body := `{"channel": {"id": 581842},
	  "feeds": [
	    {"created_at": "2021-01-02T00:00:59-08:00", "entry_id": 1, "field1": "18.5", "field2": "3.25"},
	    {"created_at": "2021-01-02T00:10:35-08:00", "entry_id": 2, "field1": "", "field2": null},
	    {"created_at": "2021-01-02T00:20:11-08:00", "entry_id": 3, "field1": "nan", "field2": "0"},
	    {"created_at": "not a time", "entry_id": 4, "field1": "1", "field2": "1"}
	  ]}`
	resp, err := thingspeak.Decode("2021-01-02", []byte(body))
	require.NoError(t, err)

	rows := RowsFromResponse(resp)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].EntryID)
	assert.Equal(t, int64(581842), rows[0].ChannelID)
	assert.Equal(t, 18.5, *rows[0].IndoorTemp)
	assert.Equal(t, 3.25, *rows[0].OutdoorTemp)

	assert.Equal(t, int64(3), rows[1].EntryID)
	assert.Nil(t, rows[1].IndoorTemp)
	require.NotNil(t, rows[1].OutdoorTemp)
	assert.Equal(t, 0.0, *rows[1].OutdoorTemp)
}
