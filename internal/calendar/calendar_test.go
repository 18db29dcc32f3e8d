package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2025, time.June, 2), false},  // Monday
		{date(2025, time.June, 3), false},  // Tuesday
		{date(2025, time.June, 4), false},  // Wednesday
		{date(2025, time.June, 5), false},  // Thursday
		{date(2025, time.June, 6), false},  // Friday
		{date(2025, time.June, 7), true},   // Saturday
		{date(2025, time.June, 8), true},   // Sunday
	}
	for _, tt := range tests {
		if got := IsWeekend(tt.day); got != tt.want {
			t.Errorf("IsWeekend(%s) = %v, want %v", FormatDate(tt.day), got, tt.want)
		}
	}
}

func TestIsBusinessDay(t *testing.T) {
	holidays := NewHolidaySet([]string{"2025-06-04"})
	if IsBusinessDay(date(2025, time.June, 4), holidays) {
		t.Error("holiday Wednesday should not be a business day")
	}
	if IsBusinessDay(date(2025, time.June, 7), holidays) {
		t.Error("Saturday should not be a business day")
	}
	if !IsBusinessDay(date(2025, time.June, 5), holidays) {
		t.Error("plain Thursday should be a business day")
	}
}

func TestNextBusinessDay_FridayToMonday(t *testing.T) {
	friday := date(2025, time.June, 6)
	got := NextBusinessDay(friday, nil)
	want := date(2025, time.June, 9)
	if !got.Equal(want) {
		t.Errorf("expected Monday %s, got %s", FormatDate(want), FormatDate(got))
	}
}

func TestNextBusinessDay_SkipsHolidayRun(t *testing.T) {
	// Friday, then Monday and Tuesday are holidays.
	holidays := NewHolidaySet([]string{"2025-06-09", "2025-06-10"})
	got := NextBusinessDay(date(2025, time.June, 6), holidays)
	want := date(2025, time.June, 11)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", FormatDate(want), FormatDate(got))
	}
}

func TestInterestStartDate_AlwaysNextBusinessDay(t *testing.T) {
	// A mid-week deposit starts the following day; a Friday deposit waits
	// until Monday.
	if got := InterestStartDate(date(2025, time.June, 3), nil); !got.Equal(date(2025, time.June, 4)) {
		t.Errorf("Tuesday deposit should start Wednesday, got %s", FormatDate(got))
	}
	if got := InterestStartDate(date(2025, time.June, 6), nil); !got.Equal(date(2025, time.June, 9)) {
		t.Errorf("Friday deposit should start Monday, got %s", FormatDate(got))
	}
}

func TestDaysUntilInterestStarts(t *testing.T) {
	deposit := date(2025, time.June, 6) // Friday, starts Monday the 9th
	tests := []struct {
		asOf time.Time
		want int
	}{
		{date(2025, time.June, 6), 3},
		{date(2025, time.June, 8), 1},
		{date(2025, time.June, 9), 0},
		{date(2025, time.June, 12), 0},
	}
	for _, tt := range tests {
		if got := DaysUntilInterestStarts(deposit, nil, tt.asOf); got != tt.want {
			t.Errorf("asOf %s: expected %d, got %d", FormatDate(tt.asOf), tt.want, got)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	for _, s := range []string{"2024-01-01", "2024-02-29", "2025-12-31", "1999-07-04"} {
		parsed, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", s, err)
		}
		if got := FormatDate(parsed); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestMonthToDateRange(t *testing.T) {
	from, to := MonthToDateRange(date(2025, time.June, 18))
	if FormatDate(from) != "2025-06-01" || FormatDate(to) != "2025-06-18" {
		t.Errorf("unexpected range %s..%s", FormatDate(from), FormatDate(to))
	}
}

func TestYearToDateRange(t *testing.T) {
	from, to := YearToDateRange(date(2025, time.June, 18))
	if FormatDate(from) != "2025-01-01" || FormatDate(to) != "2025-06-18" {
		t.Errorf("unexpected range %s..%s", FormatDate(from), FormatDate(to))
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		from, to time.Time
		want     int
	}{
		{date(2025, time.June, 1), date(2025, time.June, 1), 0},
		{date(2025, time.June, 1), date(2025, time.June, 8), 7},
		{date(2025, time.June, 8), date(2025, time.June, 1), -7},
		{date(2024, time.February, 28), date(2024, time.March, 1), 2}, // leap year
	}
	for _, tt := range tests {
		if got := DaysBetween(tt.from, tt.to); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d",
				FormatDate(tt.from), FormatDate(tt.to), got, tt.want)
		}
	}
}
