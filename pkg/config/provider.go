// Package config loads lake almanac configuration.
package config

import (
	"errors"
	"time"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	LoadConfig() (*ConfigData, error)
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Sensor   SensorData   `mapstructure:"sensor" validate:"required"`
	Almanac  AlmanacData  `mapstructure:"almanac" validate:"required"`
	Storage  StorageData  `mapstructure:"storage" validate:"required"`
	Archive  ArchiveData  `mapstructure:"archive"`
	Database DatabaseData `mapstructure:"database"`
	Server   ServerData   `mapstructure:"server"`
	Schedule ScheduleData `mapstructure:"schedule"`
	Log      LogData      `mapstructure:"log"`
}

// SensorData configures the ThingSpeak channel feed
type SensorData struct {
	BaseURL         string        `mapstructure:"base-url" validate:"required,url"`
	ChannelID       int           `mapstructure:"channel-id" validate:"required,gt=0"`
	Field           int           `mapstructure:"field" validate:"min=1,max=8"`
	RequestTimezone string        `mapstructure:"request-timezone" validate:"required,timezone"`
	EarliestDay     string        `mapstructure:"earliest-day" validate:"required,datetime=2006-01-02"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// AlmanacData configures the almanac updater
type AlmanacData struct {
	Timezone            string `mapstructure:"timezone" validate:"required,timezone"`
	SequenceSize        int    `mapstructure:"sequence-size" validate:"min=1,max=100"`
	SummerSplitMonth    int    `mapstructure:"summer-split-month" validate:"min=1,max=12"`
	SummerSplitDay      int    `mapstructure:"summer-split-day" validate:"min=1,max=31"`
	DaytimeStartHour    int    `mapstructure:"daytime-start-hour" validate:"min=0,max=23"`
	DaytimeEndHour      int    `mapstructure:"daytime-end-hour" validate:"min=1,max=24,gtfield=DaytimeStartHour"`
	SeasonReferenceYear int    `mapstructure:"season-reference-year" validate:"min=1900,max=2100"`
}

// StorageData selects where the almanac document is persisted
type StorageData struct {
	Backend          string `mapstructure:"backend" validate:"oneof=file sqlite postgres"`
	Path             string `mapstructure:"path" validate:"required_unless=Backend postgres"`
	DocumentName     string `mapstructure:"document-name" validate:"required"`
	ConnectionString string `mapstructure:"connection-string"`
}

// ArchiveData configures the raw response archive
type ArchiveData struct {
	Root          string `mapstructure:"root" validate:"required"`
	SaveResponses bool   `mapstructure:"save-responses"`
}

// DatabaseData configures the raw readings database. An empty URL disables it.
type DatabaseData struct {
	URL          string `mapstructure:"url"`
	BatchSize    int    `mapstructure:"batch-size" validate:"min=1,max=10000"`
	ProjectStart string `mapstructure:"project-start" validate:"required,datetime=2006-01-02"`
}

// ServerData configures the REST server
type ServerData struct {
	ListenAddr string `mapstructure:"listen-addr" validate:"required"`
}

// ScheduleData configures the daily job
type ScheduleData struct {
	At          string `mapstructure:"at" validate:"required,datetime=15:04"`
	Concurrency int    `mapstructure:"concurrency" validate:"min=1,max=32"`
}

// LogData configures an optional rotating log file
type LogData struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max-size-mb"`
	MaxBackups int    `mapstructure:"max-backups"`
}

// PostgresConnectionString returns the DSN for the postgres almanac store,
// falling back to the readings database.
func (c *ConfigData) PostgresConnectionString() string {
	if c.Storage.ConnectionString != "" {
		return c.Storage.ConnectionString
	}
	return c.Database.URL
}
