package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/username/calview/pkg/dateutil"
)

func TestFormatHour(t *testing.T) {
	l := DefaultLabeler()
	want := []string{
		"12 AM", "1 AM", "2 AM", "3 AM", "4 AM", "5 AM",
		"6 AM", "7 AM", "8 AM", "9 AM", "10 AM", "11 AM",
		"12 PM", "1 PM", "2 PM", "3 PM", "4 PM", "5 PM",
		"6 PM", "7 PM", "8 PM", "9 PM", "10 PM", "11 PM",
	}

	for h, w := range want {
		got, err := l.FormatHour(h)
		if err != nil {
			t.Fatalf("FormatHour(%d) error = %v", h, err)
		}
		if got != w {
			t.Errorf("FormatHour(%d) = %q, want %q", h, got, w)
		}
	}

	for _, h := range []int{-1, 24} {
		if _, err := l.FormatHour(h); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("FormatHour(%d) error = %v, want ErrInvalidInput", h, err)
		}
	}
}

func TestFormatTime(t *testing.T) {
	l := DefaultLabeler()
	tests := []struct {
		input dateutil.TimeOfDay
		want  string
	}{
		{dateutil.TimeOfDay{Hour: 9}, "9 AM"},
		{dateutil.TimeOfDay{Hour: 22, Minute: 30}, "10:30 PM"},
		{dateutil.TimeOfDay{Hour: 0, Minute: 5}, "12:05 AM"},
		{dateutil.TimeOfDay{Hour: 12}, "12 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := l.FormatTime(tt.input); got != tt.want {
				t.Errorf("FormatTime(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimeRange(t *testing.T) {
	l := DefaultLabeler()
	nine := dateutil.TimeOfDay{Hour: 9}
	half := dateutil.TimeOfDay{Hour: 10, Minute: 30}

	tests := []struct {
		name       string
		start, end *dateutil.TimeOfDay
		want       string
	}{
		{"Untimed", nil, nil, ""},
		{"Start only", &nine, nil, "9 AM"},
		{"Range", &nine, &half, "9 AM – 10:30 AM"},
		{"End without start", nil, &half, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.FormatTimeRange(tt.start, tt.end); got != tt.want {
				t.Errorf("FormatTimeRange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDateLong(t *testing.T) {
	l := DefaultLabeler()
	tests := []struct {
		input dateutil.Date
		want  string
	}{
		{dateutil.MustNew(2024, 1, 15), "Monday, January 15, 2024"},
		{dateutil.MustNew(2025, 12, 31), "Wednesday, December 31, 2025"},
		{dateutil.MustNew(2024, 2, 29), "Thursday, February 29, 2024"},
		// Grid padding before the first supported day.
		{dateutil.Date{Year: 0, Month: 12, Day: 31}, "Sunday, December 31, 0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := l.FormatDateLong(tt.input)
			if err != nil {
				t.Fatalf("FormatDateLong(%v) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("FormatDateLong(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateLabelsInvalid(t *testing.T) {
	l := DefaultLabeler()
	tests := []struct {
		name  string
		input dateutil.Date
	}{
		{"Zero date", dateutil.Date{}},
		{"Month 13", dateutil.Date{Year: 2024, Month: 13, Day: 1}},
		{"Day 0", dateutil.Date{Year: 2024, Month: 1, Day: 0}},
		{"Feb 30", dateutil.Date{Year: 2024, Month: 2, Day: 30}},
		{"Year -1", dateutil.Date{Year: -1, Month: 1, Day: 1}},
		{"Year 10001", dateutil.Date{Year: 10001, Month: 1, Day: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.FormatDateLong(tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("FormatDateLong(%v) error = %v, want ErrInvalidInput", tt.input, err)
			}
			if _, err := l.DayName(tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("DayName(%v) error = %v, want ErrInvalidInput", tt.input, err)
			}
			if _, err := l.DayAbbrev(tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("DayAbbrev(%v) error = %v, want ErrInvalidInput", tt.input, err)
			}
		})
	}
}

func weekFrom(start dateutil.Date) [7]dateutil.Date {
	var dates [7]dateutil.Date
	for i := range dates {
		dates[i] = start.AddDays(i)
	}
	return dates
}

func TestFormatWeekLabel(t *testing.T) {
	l := DefaultLabeler()
	tests := []struct {
		name  string
		start dateutil.Date
		want  string
	}{
		{"Same month", dateutil.MustNew(2024, 1, 15), "Jan 15 – 21, 2024"},
		{"Across months", dateutil.MustNew(2024, 1, 29), "Jan 29 – Feb 4, 2024"},
		// The end date's year is shown even though the week starts in 2025.
		{"Across years uses end year", dateutil.MustNew(2025, 12, 29), "Dec 29 – Jan 4, 2026"},
		{"Sunday first across years", dateutil.MustNew(2025, 12, 28), "Dec 28 – Jan 3, 2026"},
		{"Starts before first supported day", dateutil.Date{Year: 0, Month: 12, Day: 31}, "Dec 31 – Jan 6, 1"},
		{"Ends after last supported day", dateutil.MustNew(9999, 12, 27), "Dec 27 – Jan 2, 10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.FormatWeekLabel(weekFrom(tt.start))
			if err != nil {
				t.Fatalf("FormatWeekLabel(%v..) error = %v", tt.start, err)
			}
			if got != tt.want {
				t.Errorf("FormatWeekLabel(%v..) = %q, want %q", tt.start, got, tt.want)
			}
		})
	}
}

func TestFormatWeekLabelInvalid(t *testing.T) {
	l := DefaultLabeler()

	if _, err := l.FormatWeekLabel([7]dateutil.Date{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("FormatWeekLabel(zero dates) error = %v, want ErrInvalidInput", err)
	}

	bad := weekFrom(dateutil.MustNew(2024, 1, 15))
	bad[6] = dateutil.Date{Year: 2024, Month: 13, Day: 1}
	if _, err := l.FormatWeekLabel(bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("FormatWeekLabel(month 13 end) error = %v, want ErrInvalidInput", err)
	}

	gap := weekFrom(dateutil.MustNew(2024, 1, 15))
	gap[6] = dateutil.MustNew(2024, 3, 1)
	if _, err := l.FormatWeekLabel(gap); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("FormatWeekLabel(non-consecutive) error = %v, want ErrInvalidInput", err)
	}
}

func TestMonthAndDayNames(t *testing.T) {
	l := DefaultLabeler()

	name, err := l.MonthName(time.September)
	if err != nil || name != "September" {
		t.Errorf("MonthName(September) = %q, %v", name, err)
	}
	abbrev, err := l.MonthAbbrev(time.September)
	if err != nil || abbrev != "Sep" {
		t.Errorf("MonthAbbrev(September) = %q, %v", abbrev, err)
	}
	label, err := l.MonthYearLabel(2024, time.January)
	if err != nil || label != "January 2024" {
		t.Errorf("MonthYearLabel(2024, January) = %q, %v", label, err)
	}

	for _, m := range []time.Month{0, 13} {
		if _, err := l.MonthName(m); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("MonthName(%d) error = %v, want ErrInvalidInput", m, err)
		}
		if _, err := l.MonthAbbrev(m); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("MonthAbbrev(%d) error = %v, want ErrInvalidInput", m, err)
		}
		if _, err := l.MonthYearLabel(2024, m); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("MonthYearLabel(2024, %d) error = %v, want ErrInvalidInput", m, err)
		}
	}

	d := dateutil.MustNew(2024, 1, 13)
	if got, err := l.DayName(d); err != nil || got != "Saturday" {
		t.Errorf("DayName(%v) = %q, %v, want Saturday", d, got, err)
	}
	if got, err := l.DayAbbrev(d); err != nil || got != "Sat" {
		t.Errorf("DayAbbrev(%v) = %q, %v, want Sat", d, got, err)
	}
}

func TestWeekdayHeaders(t *testing.T) {
	l := DefaultLabeler()
	tests := []struct {
		firstWeekday time.Weekday
		want         [7]string
	}{
		{time.Sunday, [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}},
		{time.Monday, [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}},
		{time.Saturday, [7]string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}},
	}

	for _, tt := range tests {
		t.Run(tt.firstWeekday.String(), func(t *testing.T) {
			got, err := l.WeekdayHeaders(tt.firstWeekday)
			if err != nil {
				t.Fatalf("WeekdayHeaders() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("WeekdayHeaders(%v) = %v, want %v", tt.firstWeekday, got, tt.want)
			}
		})
	}

	if _, err := l.WeekdayHeaders(7); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("WeekdayHeaders(7) error = %v, want ErrInvalidInput", err)
	}
}

func TestCustomLocale(t *testing.T) {
	loc := English
	loc.MonthNames[0] = "Januar"
	loc.DayNames[1] = "Montag"
	loc.RangeSep = " - "
	l := NewLabeler(loc)

	if got, _ := l.FormatDateLong(dateutil.MustNew(2024, 1, 15)); got != "Montag, Januar 15, 2024" {
		t.Errorf("FormatDateLong() = %q, want %q", got, "Montag, Januar 15, 2024")
	}
	if got, _ := l.FormatWeekLabel(weekFrom(dateutil.MustNew(2024, 1, 15))); got != "Jan 15 - 21, 2024" {
		t.Errorf("FormatWeekLabel() = %q, want %q", got, "Jan 15 - 21, 2024")
	}
	// English itself is untouched by edits to the copy.
	if English.MonthNames[0] != "January" {
		t.Errorf("English.MonthNames[0] = %q", English.MonthNames[0])
	}
}

func TestHourSlots(t *testing.T) {
	slots := DefaultHourSlots()
	if len(slots) != 18 {
		t.Fatalf("len(DefaultHourSlots()) = %d, want 18", len(slots))
	}
	if slots[0] != (HourSlot{Hour: 6, Label: "6 AM"}) {
		t.Errorf("first slot = %+v", slots[0])
	}
	if slots[17] != (HourSlot{Hour: 23, Label: "11 PM"}) {
		t.Errorf("last slot = %+v", slots[17])
	}

	all, err := HourSlots(0, 23)
	if err != nil || len(all) != 24 {
		t.Fatalf("HourSlots(0, 23) = %d slots, %v", len(all), err)
	}

	tests := []struct {
		name     string
		from, to int
	}{
		{"Reversed", 10, 9},
		{"Negative", -1, 5},
		{"Past midnight", 20, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := HourSlots(tt.from, tt.to); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("HourSlots(%d, %d) error = %v, want ErrInvalidInput", tt.from, tt.to, err)
			}
		})
	}
}
