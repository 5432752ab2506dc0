// Package almanac maintains a running almanac of lake temperature extremes
// and averages. An Updater folds one calendar day of readings at a time
// into hall-of-fame sequences and moving averages kept per year, across
// all years, per astronomical season, and for the whole year.
package almanac
