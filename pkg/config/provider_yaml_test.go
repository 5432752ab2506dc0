package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lake-almanac.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewYAMLProvider("").LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 581842, cfg.Sensor.ChannelID)
	assert.Equal(t, 2, cfg.Sensor.Field)
	assert.Equal(t, 30*time.Second, cfg.Sensor.Timeout)
	assert.Equal(t, "America/Vancouver", cfg.Almanac.Timezone)
	assert.Equal(t, 5, cfg.Almanac.SequenceSize)
	assert.Equal(t, 7, cfg.Almanac.SummerSplitMonth)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "output/responses-archive", cfg.Archive.Root)
	assert.True(t, cfg.Archive.SaveResponses)
	assert.Equal(t, 2000, cfg.Database.BatchSize)
	assert.Equal(t, "01:00", cfg.Schedule.At)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
almanac:
  sequence-size: 10
storage:
  backend: sqlite
  path: almanac.db
sensor:
  timeout: 5s
`)
	t.Setenv("LAKE_ALMANAC_SERVER_LISTEN_ADDR", ":9999")
	t.Setenv("DATABASE_URL", "postgres://lake@localhost/lake")

	cfg, err := NewYAMLProvider(path).LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Almanac.SequenceSize)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "almanac.db", cfg.Storage.Path)
	assert.Equal(t, 5*time.Second, cfg.Sensor.Timeout)
	assert.Equal(t, ":9999", cfg.Server.ListenAddr)
	assert.Equal(t, "postgres://lake@localhost/lake", cfg.Database.URL)
	assert.Equal(t, "postgres://lake@localhost/lake", cfg.PostgresConnectionString())
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("LAKE_ALMANAC_ARCHIVE_ROOT=from-local\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LAKE_ALMANAC_ARCHIVE_ROOT=from-env\nLAKE_ALMANAC_SCHEDULE_AT=02:30\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("LAKE_ALMANAC_ARCHIVE_ROOT")
		os.Unsetenv("LAKE_ALMANAC_SCHEDULE_AT")
	})

	cfg, err := NewYAMLProvider("").LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-local", cfg.Archive.Root)
	assert.Equal(t, "02:30", cfg.Schedule.At)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "storage:\n  backend: redis\n"},
		{"bad timezone", "almanac:\n  timezone: Mars/Olympus\n"},
		{"inverted daytime", "almanac:\n  daytime-start-hour: 19\n"},
		{"bad schedule", "schedule:\n  at: noon\n"},
		{"postgres without dsn", "storage:\n  backend: postgres\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLProvider(writeConfig(t, tt.body)).LoadConfig()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := NewYAMLProvider(filepath.Join(t.TempDir(), "nope.yaml")).LoadConfig()
	assert.Error(t, err)
}
