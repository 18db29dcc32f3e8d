package calendar

import "time"

const dayLayout = "2006-01-02"

// FormatDate renders a time as an ISO YYYY-MM-DD day string in local time.
func FormatDate(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDate parses an ISO YYYY-MM-DD string as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, time.Local)
}

// MonthToDateRange returns the first day of now's month and now's day.
func MonthToDateRange(now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, Day(now)
}

// YearToDateRange returns January 1st of now's year and now's day.
func YearToDateRange(now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return from, Day(now)
}
