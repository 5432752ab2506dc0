package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "responses-archive"), zap.NewNop().Sugar())
}

func TestWriteRead(t *testing.T) {
	a := newTestArchive(t)
	body := []byte(`{"channel":{"id":581842},"feeds":[]}`)

	assert.False(t, a.Exists("2021-01-02"))
	require.NoError(t, a.Write("2021-01-02", body))
	assert.True(t, a.Exists("2021-01-02"))

	p, err := a.Path("2021-01-02")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(a.Root(), "2021", "2021-01-02.zip"), p)

	zr, err := zip.OpenReader(p)
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "2021-01-02.json", zr.File[0].Name)
	assert.Equal(t, zip.Deflate, zr.File[0].Method)
	zr.Close()

	got, err := a.Read("2021-01-02")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	require.NoError(t, a.Write("2021-01-02", []byte(`{}`)), "rewriting a day replaces it")
	got, err = a.Read("2021-01-02")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

func TestReadMissing(t *testing.T) {
	a := newTestArchive(t)

	_, err := a.Read("2020-05-05")
	assert.ErrorIs(t, err, ErrNotArchived)

	_, err = a.Read("2020-5-5")
	assert.Error(t, err)
}

func TestDays(t *testing.T) {
	a := newTestArchive(t)

	days, err := a.Days()
	require.NoError(t, err)
	assert.Empty(t, days)

	for _, d := range []string{"2021-01-02", "2019-12-31", "2020-06-15"} {
		require.NoError(t, a.Write(d, []byte(`{}`)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(a.Root(), "2021", "notes.zip"), nil, 0o644))

	days, err = a.Days()
	require.NoError(t, err)
	assert.Equal(t, []string{"2019-12-31", "2020-06-15", "2021-01-02"}, days)
}

func TestMigrateFlat(t *testing.T) {
	a := newTestArchive(t)
	require.NoError(t, a.Write("2021-01-02", []byte(`{"already":"migrated"}`)))

	// Flat layout leftovers
	flat := func(day, body string) {
		b := New(t.TempDir(), zap.NewNop().Sugar())
		require.NoError(t, b.Write(day, []byte(body)))
		src, _ := b.Path(day)
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(a.Root(), day+".zip"), data, 0o644))
	}
	flat("2021-01-02", `{"flat":"duplicate"}`)
	flat("2020-03-04", `{"flat":"moved"}`)
	require.NoError(t, os.WriteFile(filepath.Join(a.Root(), "README.zip"), nil, 0o644))

	stats, err := a.MigrateFlat()
	require.NoError(t, err)
	assert.Equal(t, MigrationStats{Migrated: 1, Skipped: 1}, stats)

	got, err := a.Read("2020-03-04")
	require.NoError(t, err)
	assert.JSONEq(t, `{"flat":"moved"}`, string(got))

	got, err = a.Read("2021-01-02")
	require.NoError(t, err)
	assert.JSONEq(t, `{"already":"migrated"}`, string(got))

	_, err = os.Stat(filepath.Join(a.Root(), "2021-01-02.zip"))
	assert.NoError(t, err, "skipped files stay in place")
}
