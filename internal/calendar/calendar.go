package calendar

import "time"

// HolidaySet holds non-working calendar days keyed by their ISO day string.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a HolidaySet from ISO YYYY-MM-DD strings.
func NewHolidaySet(dates []string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Contains reports whether the given date's calendar day is a holiday.
func (h HolidaySet) Contains(date time.Time) bool {
	_, ok := h[FormatDate(date)]
	return ok
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether the date is listed in the holiday set.
func IsHoliday(date time.Time, holidays HolidaySet) bool {
	return holidays.Contains(date)
}

// IsBusinessDay reports whether the date is neither a weekend nor a holiday.
func IsBusinessDay(date time.Time, holidays HolidaySet) bool {
	return !IsWeekend(date) && !IsHoliday(date, holidays)
}

// NextBusinessDay returns the first business day strictly after the given
// date, skipping any run of consecutive weekends and holidays.
func NextBusinessDay(date time.Time, holidays HolidaySet) time.Time {
	next := Day(date).AddDate(0, 0, 1)
	for !IsBusinessDay(next, holidays) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// InterestStartDate returns the day a deposit begins earning interest:
// always the next business day after the deposit date.
func InterestStartDate(depositDate time.Time, holidays HolidaySet) time.Time {
	return NextBusinessDay(depositDate, holidays)
}

// DaysUntilInterestStarts returns the number of calendar days from asOf until
// the deposit's interest start date, floored at zero once started.
func DaysUntilInterestStarts(depositDate time.Time, holidays HolidaySet, asOf time.Time) int {
	start := InterestStartDate(depositDate, holidays)
	days := DaysBetween(asOf, start)
	if days < 0 {
		return 0
	}
	return days
}

// Day truncates a time to its local calendar day (midnight).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar-day steps from `from` to `to`.
// Negative when `to` is earlier. Steps with AddDate so DST days count as one.
func DaysBetween(from, to time.Time) int {
	a, b := Day(from), Day(to)
	if a.After(b) {
		return -DaysBetween(b, a)
	}
	days := 0
	for a.Before(b) {
		a = a.AddDate(0, 0, 1)
		days++
	}
	return days
}
