package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memArchive map[string]string

func (m memArchive) Read(day string) ([]byte, error) {
	body, ok := m[day]
	if !ok {
		return nil, errors.New("not archived")
	}
	return []byte(body), nil
}

const day1 = `{"channel":{"id":581842},"feeds":[
	{"created_at":"2021-01-01T23:50:00Z","entry_id":1,"field1":"18.5","field2":"4.25"},
	{"created_at":"2021-01-01T23:55:00Z","entry_id":2,"field1":null,"field2":null},
	{"created_at":"2021-01-01T23:58:00Z","entry_id":3,"field1":"","field2":"4.0"}
]}`

const day2 = `{"channel":{"id":581842},"feeds":[
	{"created_at":"2021-01-02T00:03:00Z","entry_id":4,"field1":"18.4","field2":"3.9"}
]}`

const day3 = `{"channel":{"id":581842},"feeds":[
	{"created_at":"2021-01-03T01:03:00Z","entry_id":5,"field1":"18,4","field2":"3.8"}
]}`

func newExporter(m memArchive) *Exporter {
	return NewExporter(m, zap.NewNop().Sugar())
}

func TestExportCSV(t *testing.T) {
	src := memArchive{"2021-01-01": day1, "2021-01-02": day2, "2021-01-03": day3, "2021-01-04": `{"channel":{"id":1},"feeds":[]}`}

	var buf bytes.Buffer
	summary, err := newExporter(src).Export(context.Background(),
		[]string{"2021-01-01", "2021-01-02", "2021-01-03", "2021-01-04", "2021-01-05"}, NewCSVWriter(&buf))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ProcessedDays)
	assert.Equal(t, 2, summary.SkippedDays)
	assert.Equal(t, 4, summary.Rows)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"2021-01-01T23:50:00Z", "1", "18.5", "4.25", "581842"}, rows[1])
	assert.Equal(t, []string{"2021-01-01T23:58:00Z", "3", "", "4.0", "581842"}, rows[2])
	assert.Equal(t, "18,4", rows[4][2])

	require.NotNil(t, summary.Gaps)
	assert.Equal(t, 2, summary.Gaps.TotalGaps)
	assert.InDelta(t, 5.0, summary.Gaps.AvgMinutes, 1e-9)
	assert.InDelta(t, 5.0, summary.Gaps.MinMinutes, 1e-9)
	assert.InDelta(t, 1500.0, summary.Gaps.MaxMinutes, 1e-9)
	require.Len(t, summary.Gaps.LargeGaps, 1)
	assert.Equal(t, Gap{FromDay: "2021-01-02", ToDay: "2021-01-03", Minutes: 1500}, summary.Gaps.LargeGaps[0])
}

func TestCSVQuoting(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.Write([]Record{{DateRecorded: "2021-01-01T00:00:00Z", EntryID: 1, IndoorTemp: `1"2`, OutdoorTemp: "3,4", ChannelID: 9}}))
	require.NoError(t, w.Close())

	assert.Equal(t,
		"date_recorded,entry_id,indoor_temp,outdoor_temp,channel_id\n"+
			`2021-01-01T00:00:00Z,1,"1""2","3,4",9`+"\n",
		buf.String())
}

func TestCSVEmptyExportHasHeader(t *testing.T) {
	var buf bytes.Buffer
	summary, err := newExporter(memArchive{}).Export(context.Background(), nil, NewCSVWriter(&buf))
	require.NoError(t, err)
	assert.Zero(t, summary.Rows)
	assert.Nil(t, summary.Gaps)
	assert.Equal(t, "date_recorded,entry_id,indoor_temp,outdoor_temp,channel_id\n", buf.String())
}

func TestExportParquet(t *testing.T) {
	src := memArchive{"2021-01-01": day1, "2021-01-03": day3}
	path := filepath.Join(t.TempDir(), "readings.parquet")

	f, err := os.Create(path)
	require.NoError(t, err)
	summary, err := newExporter(src).Export(context.Background(), []string{"2021-01-01", "2021-01-03"}, NewParquetWriter(f))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, 3, summary.Rows)

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	reader := parquet.NewGenericReader[ParquetRow](f)
	defer reader.Close()
	got := make([]ParquetRow, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 3, n)

	assert.True(t, got[0].DateRecorded.Equal(time.Date(2021, 1, 1, 23, 50, 0, 0, time.UTC)))
	require.NotNil(t, got[0].IndoorTemp)
	assert.Equal(t, 18.5, *got[0].IndoorTemp)
	assert.Nil(t, got[1].IndoorTemp)
	require.NotNil(t, got[1].OutdoorTemp)
	assert.Equal(t, 4.0, *got[1].OutdoorTemp)
	assert.Nil(t, got[2].IndoorTemp, "unparsable text exports as null")
	assert.Equal(t, int64(581842), got[2].ChannelID)
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := newExporter(memArchive{"2021-01-01": day1}).Export(ctx, []string{"2021-01-01"}, NewCSVWriter(&buf))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGapTrackerSameDayIgnored(t *testing.T) {
	var g GapTracker
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	g.Add("2021-01-01", base)
	g.Add("2021-01-01", base.Add(time.Hour))
	assert.Nil(t, g.Stats())

	g.Add("2021-01-02", base.Add(-30*time.Minute))
	stats := g.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TotalGaps)
	assert.Zero(t, stats.AvgMinutes)
	assert.InDelta(t, 30.0, stats.MaxMinutes, 1e-9)
}
