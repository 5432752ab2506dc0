package almanac

import (
	"time"

	"github.com/chrissnell/lakealmanac/pkg/solar"
	"go.uber.org/zap"
)

// Season names one slot of an AlmanacYear. WholeYear is the aggregate over
// all four astronomical seasons.
type Season string

const (
	WholeYear Season = "Year"
	Spring    Season = "Spring"
	Summer    Season = "Summer"
	Fall      Season = "Fall"
	Winter    Season = "Winter"
)

// Seasons lists the astronomical seasons in calendar order.
var Seasons = []Season{Spring, Summer, Fall, Winter}

// ParseSeason accepts WholeYear or one of the four season names.
func ParseSeason(s string) (Season, bool) {
	switch Season(s) {
	case WholeYear, Spring, Summer, Fall, Winter:
		return Season(s), true
	}
	return "", false
}

// seasonCalendar classifies instants using the boundaries of one reference
// year. Boundaries drift by about a day per year, so classification within
// a day of an equinox or solstice is approximate.
type seasonCalendar struct {
	loc           *time.Location
	referenceYear int
	spring        time.Time
	summer        time.Time
	fall          time.Time
	winter        time.Time
	logger        *zap.SugaredLogger
}

func newSeasonCalendar(referenceYear int, loc *time.Location, logger *zap.SugaredLogger) *seasonCalendar {
	s := solar.Seasons(referenceYear)
	return &seasonCalendar{
		loc:           loc,
		referenceYear: referenceYear,
		spring:        s.MarchEquinox,
		summer:        s.JuneSolstice,
		fall:          s.SeptemberEquinox,
		winter:        s.DecemberSolstice,
		logger:        logger,
	}
}

// seasonOf projects t's civil time onto the reference year and returns the
// season it falls in. Each season includes its starting instant.
func (c *seasonCalendar) seasonOf(t time.Time) Season {
	lt := t.In(c.loc)
	p := time.Date(c.referenceYear, lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), c.loc)

	switch {
	case !p.Before(c.spring) && p.Before(c.summer):
		return Spring
	case !p.Before(c.summer) && p.Before(c.fall):
		return Summer
	case !p.Before(c.fall) && p.Before(c.winter):
		return Fall
	case !p.Before(c.winter) || p.Before(c.spring):
		return Winter
	}

	c.logger.Warnw("could not classify season, defaulting to spring", "instant", t)
	return Spring
}
