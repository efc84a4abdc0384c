package service

import "time"

// DateLayout is the ISO date format used in stored records and forms.
const DateLayout = "2006-01-02"

// AddMonths advances t by a number of calendar months, clamping the day of
// month so the result never spills into the following month. time.AddDate
// normalizes instead (Jan 31 + 1 month = Mar 2/3), which drifts schedules
// that start near month end.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	anchor := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if max := daysInMonth(anchor.Year(), anchor.Month()); day > max {
		day = max
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, t.Location())
}

// MonthsBetween returns the number of whole calendar months from a to b.
// A payment 29 days after a month-start date has not completed a month yet
// and counts as 0. Negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
