package solar

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solstice"
)

// SeasonStarts holds the instants of the four astronomical season
// boundaries of one year, in UTC.
type SeasonStarts struct {
	Year             int
	MarchEquinox     time.Time
	JuneSolstice     time.Time
	SeptemberEquinox time.Time
	DecemberSolstice time.Time
}

// Seasons computes the equinoxes and solstices of year.
func Seasons(year int) SeasonStarts {
	return SeasonStarts{
		Year:             year,
		MarchEquinox:     jdeToTime(solstice.March(year)),
		JuneSolstice:     jdeToTime(solstice.June(year)),
		SeptemberEquinox: jdeToTime(solstice.September(year)),
		DecemberSolstice: jdeToTime(solstice.December(year)),
	}
}

// deltaT approximates TT-UT for the years the sensor has data.
const deltaT = 69 * time.Second

// jdeToTime converts a Julian Ephemeris Day to UTC.
func jdeToTime(jde float64) time.Time {
	return julian.JDToTime(jde).Add(-deltaT).UTC().Round(time.Second)
}
