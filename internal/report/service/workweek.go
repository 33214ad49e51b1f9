package service

import (
	"time"
)

// The reporting cycle runs Friday through Thursday, not the ISO calendar
// week. A work week is numbered by the ISO week of the Thursday that
// closes it, so Friday already belongs to the next work week.

// WorkWeekOf returns the work week containing t.
func WorkWeekOf(t time.Time) (week, year int) {
	offset := (int(time.Thursday) - int(t.Weekday()) + 7) % 7
	closing := t.AddDate(0, 0, offset)
	y, w := closing.ISOWeek()
	return w, y
}

// PreviousWorkWeek returns the work week that ended before the one
// containing t. Used by the lock scheduler ("current minus one").
func PreviousWorkWeek(t time.Time) (week, year int) {
	return WorkWeekOf(t.AddDate(0, 0, -7))
}

// IsValidWeek bounds a (week, year) pair as stored on reports.
func IsValidWeek(week, year int) bool {
	return week >= 1 && week <= 53 && year >= 2000 && year <= 2200
}
