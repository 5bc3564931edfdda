package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinYear and MaxYear bound the years a Date may carry
const (
	MinYear = 1
	MaxYear = 9999

	secondsPerDay = 24 * 60 * 60
)

// ErrInvalidInput is returned (wrapped) for malformed date components and
// out-of-range values. Callers should test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Date is a civil calendar date without time of day or location.
// The zero value is not a valid date; use New, Of or Parse.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the date for year/month/day, rejecting components that do
// not name a real Gregorian date.
func New(year int, month time.Month, day int) (Date, error) {
	if err := ValidateYear(year); err != nil {
		return Date{}, err
	}
	if err := ValidateMonth(month); err != nil {
		return Date{}, err
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day %d out of range for %04d-%02d: %w", day, year, int(month), ErrInvalidInput)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// constant tables.
func MustNew(year int, month time.Month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Of returns the calendar date of t in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ValidateYear checks that year is within MinYear..MaxYear
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d out of range %d..%d: %w", year, MinYear, MaxYear, ErrInvalidInput)
	}
	return nil
}

// ValidateMonth checks that month is within January..December
func ValidateMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("month %d out of range 1..12: %w", int(month), ErrInvalidInput)
	}
	return nil
}

// ValidateWeekday checks that wd is within Sunday..Saturday
func ValidateWeekday(wd time.Weekday) error {
	if wd < time.Sunday || wd > time.Saturday {
		return fmt.Errorf("weekday %d out of range 0..6: %w", int(wd), ErrInvalidInput)
	}
	return nil
}

// IsLeap reports whether year is a Gregorian leap year
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Valid reports whether d names a real date within the supported years.
func (d Date) Valid() bool {
	_, err := New(d.Year, d.Month, d.Day)
	return err == nil
}

// Time returns midnight UTC of d. UTC keeps day arithmetic free of DST gaps.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns midnight of d in loc
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the day of the week (Sunday = 0)
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// ISOWeekday returns the ISO-8601 day number, Monday = 1 .. Sunday = 7
func (d Date) ISOWeekday() int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// YearDay returns the day of the year, 1..365 or 1..366
func (d Date) YearDay() int {
	return d.Time().YearDay()
}

// AddDays returns d shifted by n days. The result is not range checked.
func (d Date) AddDays(n int) Date {
	return Of(d.Time().AddDate(0, 0, n))
}

// AddWeeks returns d shifted by n weeks
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(7 * n)
}

// AddMonths returns d shifted by n months. When the target month is shorter
// the day is clamped to its last day, so Jan 31 + 1 month is Feb 28 (or 29).
func (d Date) AddMonths(n int) Date {
	total := d.Year*12 + int(d.Month-1) + n
	year := floorDiv(total, 12)
	month := time.Month(total-year*12) + 1
	day := d.Day
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month - other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is before other
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After reports whether d is after other
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// DaysUntil returns the number of days from d to other (negative when other
// is earlier).
func (d Date) DaysUntil(other Date) int {
	return int((other.Time().Unix() - d.Time().Unix()) / secondsPerDay)
}

// String formats d as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(d Date) bool {
	wd := d.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(d Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsSameDay returns true if two instants fall on the same calendar day in
// their own locations.
func IsSameDay(t1, t2 time.Time) bool {
	return Of(t1) == Of(t2)
}

// Parse parses a date string in one of the accepted layouts
func Parse(s string) (Date, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"2006/01/02",
		"20060102",
	}

	s = strings.TrimSpace(s)
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			d := Of(t)
			if err := ValidateYear(d.Year); err != nil {
				return Date{}, err
			}
			return d, nil
		}
	}

	return Date{}, fmt.Errorf("unrecognised date %q (want YYYY-MM-DD): %w", s, ErrInvalidInput)
}

// WeekdayByName maps a weekday name or 0..6 number to a time.Weekday.
// Names match on the first three letters, case-insensitively.
func WeekdayByName(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return time.Weekday(s[0] - '0'), nil
	}
	if len(s) >= 3 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			name := strings.ToLower(wd.String())
			if strings.HasPrefix(name, s) {
				return wd, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q: %w", s, ErrInvalidInput)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
