package config

import "github.com/spf13/viper"

var defaults = map[string]any{
	"sensor.base-url":         "https://api.thingspeak.com/channels/",
	"sensor.channel-id":       581842,
	"sensor.field":            2,
	"sensor.request-timezone": "America/Los_Angeles",
	"sensor.earliest-day":     "2018-10-01",
	"sensor.timeout":          "30s",

	"almanac.timezone":              "America/Vancouver",
	"almanac.sequence-size":         5,
	"almanac.summer-split-month":    7,
	"almanac.summer-split-day":      1,
	"almanac.daytime-start-hour":    6,
	"almanac.daytime-end-hour":      18,
	"almanac.season-reference-year": 2021,

	"storage.backend":           "file",
	"storage.path":              "output/lake-almanac.json",
	"storage.document-name":     "lake-almanac",
	"storage.connection-string": "",

	"archive.root":           "output/responses-archive",
	"archive.save-responses": true,

	"database.url":           "",
	"database.batch-size":    2000,
	"database.project-start": "2018-10-06",

	"server.listen-addr": ":8080",

	"schedule.at":          "01:00",
	"schedule.concurrency": 4,

	"log.file":        "",
	"log.max-size-mb": 50,
	"log.max-backups": 5,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
