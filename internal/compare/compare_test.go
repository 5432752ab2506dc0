package compare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatDoc = `{
	"2021": {
		"HottestDays": [
			{"date": "2021-07-02T15:00:00-07:00Z", "value": 24.5},
			{"date": "2021-07-01T15:00:00-07:00Z", "value": 24.0}
		],
		"ColdestDays": [],
		"HottestNightime": [],
		"ColdestNighttime": [],
		"HottestDaytime": [],
		"ColdestDaytime": [],
		"FirstFreezesBeforeSummer": [],
		"FirstFreezesAfterSummer": [{"date": "2021-11-20T06:00:00-08:00Z", "value": -0.5}]
	},
	"2019": {"HottestDays": []}
}`

const nestedDoc = `{
	"_metadata": {"startDate": "2021-01-01", "endDate": "2021-12-31", "missedDays": ["2021-03-04"]},
	"2021": {
		"Year": {
			"HottestDays": [
				{"date": "2021-07-01T22:00:00Z", "value": 24.0},
				{"date": "2021-07-02T22:00:00Z", "value": 24.5}
			],
			"ColdestDays": [], "HottestNightime": [], "ColdestNighttime": [],
			"HottestDaytime": [], "ColdestDaytime": [],
			"Average": {"average": 8.25, "n": 150}
		},
		"Spring": {}, "Summer": {}, "Fall": {}, "Winter": {},
		"FirstFreezesBeforeSummer": [],
		"FirstFreezesAfterSummer": [{"date": "2021-11-20T14:00:00Z", "value": -0.5}],
		"LastFreezesBeforeSummer": [{"date": "2021-04-02T12:00:00Z", "value": -0.5}]
	},
	"All": {"Year": {}}
}`

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lake-almanac.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDocumentsMatch(t *testing.T) {
	ctx := context.Background()
	older, err := Load(ctx, nil, writeDoc(t, flatDoc))
	require.NoError(t, err)
	newer, err := Load(ctx, nil, writeDoc(t, nestedDoc))
	require.NoError(t, err)

	r := Documents(older, newer)
	assert.Equal(t, []string{"2021"}, r.CommonYears)
	assert.Equal(t, []string{"2019", "2021"}, r.OldYears)
	assert.Equal(t, 8, r.Total())
	assert.True(t, r.AllMatched(), "%+v", r.Results)
	assert.InDelta(t, 100.0, r.SuccessRate(), 1e-9)
	require.Len(t, r.Notes, 2)
	assert.Equal(t, "2021: includes LastFreezesBeforeSummer (1 readings)", r.Notes[0])
	assert.Contains(t, r.Notes[1], "avg: 8.25, n: 150")
	assert.Equal(t, []string{"2021-03-04"}, r.Metadata.MissedDays)
}

func TestDocumentsMismatch(t *testing.T) {
	ctx := context.Background()
	older, err := Load(ctx, nil, writeDoc(t, flatDoc))
	require.NoError(t, err)
	newer, err := Load(ctx, nil, writeDoc(t, nestedDoc))
	require.NoError(t, err)

	newer.Almanac["2021"].Year.HottestDays[1].Value = 25
	newer.Almanac["2021"].FirstFreezesAfterSummer = nil

	r := Documents(older, newer)
	assert.False(t, r.AllMatched())
	assert.Equal(t, 6, r.Matched())

	var hottest, freeze FieldResult
	for _, res := range r.Results {
		switch res.Field {
		case "HottestDays":
			hottest = res
		case FirstFreezesAfterSummer:
			freeze = res
		}
	}
	assert.False(t, hottest.Match)
	assert.Equal(t, 1, hottest.Index)
	assert.Equal(t, 24.5, hottest.Old.Value)
	assert.Equal(t, 25.0, hottest.New.Value)

	assert.False(t, freeze.Match)
	assert.Equal(t, -1, freeze.Index)
	assert.Equal(t, 1, freeze.OldLen)
	assert.Equal(t, 0, freeze.NewLen)
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lake-almanac.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(nestedDoc))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.Client(), srv.URL+"/lake-almanac.json")
	require.NoError(t, err)
	assert.Contains(t, doc.Almanac, "2021")
	assert.Equal(t, "2021-01-01", doc.Metadata.StartDate)

	_, err = Load(context.Background(), srv.Client(), srv.URL+"/missing.json")
	assert.ErrorContains(t, err, "HTTP status 404")
}

func TestEmptyReportDoesNotMatch(t *testing.T) {
	r := &Report{}
	assert.False(t, r.AllMatched())
	assert.Zero(t, r.SuccessRate())
}
