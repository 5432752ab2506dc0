package almanac

import "errors"

var (
	// ErrInvalidDay is returned when a day string is not a YYYY-MM-DD date.
	ErrInvalidDay = errors.New("invalid day")
	// ErrInvalidOptions is returned by NewUpdater for unusable options.
	ErrInvalidOptions = errors.New("invalid almanac options")
)
