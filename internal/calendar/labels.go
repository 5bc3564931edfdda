package calendar

import (
	"fmt"
	"time"

	"github.com/username/calview/pkg/dateutil"
)

// Locale holds the name tables a Labeler formats with. It is always passed
// in explicitly; the process locale is never consulted.
type Locale struct {
	MonthNames   [12]string // January first
	MonthAbbrevs [12]string
	DayNames     [7]string // Sunday first, indexed by time.Weekday
	DayAbbrevs   [7]string
	AM           string
	PM           string
	RangeSep     string // placed between the two ends of a range
}

// English is the built-in locale used by every source layout
var English = Locale{
	MonthNames: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	MonthAbbrevs: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	DayNames:   [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	DayAbbrevs: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	AM:         "AM",
	PM:         "PM",
	RangeSep:   " – ",
}

// Labeler produces display strings from engine values
type Labeler struct {
	loc Locale
}

// NewLabeler returns a Labeler for loc
func NewLabeler(loc Locale) *Labeler {
	return &Labeler{loc: loc}
}

// DefaultLabeler returns a Labeler for English
func DefaultLabeler() *Labeler {
	return NewLabeler(English)
}

// Locale returns the labeler's name tables
func (l *Labeler) Locale() Locale {
	return l.loc
}

// FormatHour renders an hour on the 12-hour clock: 0 is "12 AM", 12 is
// "12 PM", 13 is "1 PM".
func (l *Labeler) FormatHour(h int) (string, error) {
	if h < 0 || h > 23 {
		return "", fmt.Errorf("hour %d out of range 0..23: %w", h, ErrInvalidInput)
	}
	return fmt.Sprintf("%d %s", twelveHour(h), l.meridiem(h)), nil
}

// FormatTime renders t like FormatHour, adding minutes only when non-zero:
// "9 AM", "10:30 PM".
func (l *Labeler) FormatTime(t dateutil.TimeOfDay) string {
	if t.Minute == 0 {
		return fmt.Sprintf("%d %s", twelveHour(t.Hour), l.meridiem(t.Hour))
	}
	return fmt.Sprintf("%d:%02d %s", twelveHour(t.Hour), t.Minute, l.meridiem(t.Hour))
}

// FormatTimeRange renders an event's time span. A nil start yields "" (an
// untimed event) and a nil end yields just the start.
func (l *Labeler) FormatTimeRange(start, end *dateutil.TimeOfDay) string {
	if start == nil {
		return ""
	}
	if end == nil {
		return l.FormatTime(*start)
	}
	return l.FormatTime(*start) + l.loc.RangeSep + l.FormatTime(*end)
}

// MonthName returns the full name of month
func (l *Labeler) MonthName(month time.Month) (string, error) {
	if err := dateutil.ValidateMonth(month); err != nil {
		return "", err
	}
	return l.loc.MonthNames[month-1], nil
}

// MonthAbbrev returns the short name of month
func (l *Labeler) MonthAbbrev(month time.Month) (string, error) {
	if err := dateutil.ValidateMonth(month); err != nil {
		return "", err
	}
	return l.loc.MonthAbbrevs[month-1], nil
}

// DayName returns the full weekday name of d
func (l *Labeler) DayName(d dateutil.Date) (string, error) {
	if err := checkLabelDate(d); err != nil {
		return "", err
	}
	return l.loc.DayNames[d.Weekday()], nil
}

// DayAbbrev returns the short weekday name of d
func (l *Labeler) DayAbbrev(d dateutil.Date) (string, error) {
	if err := checkLabelDate(d); err != nil {
		return "", err
	}
	return l.loc.DayAbbrevs[d.Weekday()], nil
}

// FormatDateLong renders d as "Weekday, Month D, YYYY"
func (l *Labeler) FormatDateLong(d dateutil.Date) (string, error) {
	if err := checkLabelDate(d); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s, %s %d, %d", l.loc.DayNames[d.Weekday()], l.loc.MonthNames[d.Month-1], d.Day, d.Year), nil
}

// MonthYearLabel renders "Month YYYY"
func (l *Labeler) MonthYearLabel(year int, month time.Month) (string, error) {
	name, err := l.MonthName(month)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %d", name, year), nil
}

// FormatWeekLabel renders the span of a displayed week: "Mon D – D, YYYY"
// when both ends share a month, "Mon D – Mon D, YYYY" otherwise.
//
// The year shown is always the end date's year, also when the week runs
// from December into January ("Dec 29 – Jan 4, 2026"). Every existing view
// labels weeks this way; keep it confined to week labels.
func (l *Labeler) FormatWeekLabel(dates [7]dateutil.Date) (string, error) {
	start, end := dates[0], dates[6]
	if err := checkLabelDate(start); err != nil {
		return "", fmt.Errorf("week label: %w", err)
	}
	if err := checkLabelDate(end); err != nil {
		return "", fmt.Errorf("week label: %w", err)
	}
	if end != start.AddDays(6) {
		return "", fmt.Errorf("week label: %v..%v is not a 7 day span: %w", start, end, ErrInvalidInput)
	}

	startStr := fmt.Sprintf("%s %d", l.loc.MonthAbbrevs[start.Month-1], start.Day)
	if start.Month == end.Month {
		return fmt.Sprintf("%s%s%d, %d", startStr, l.loc.RangeSep, end.Day, end.Year), nil
	}
	return fmt.Sprintf("%s%s%s %d, %d", startStr, l.loc.RangeSep, l.loc.MonthAbbrevs[end.Month-1], end.Day, end.Year), nil
}

// WeekdayHeaders returns the day abbreviations in display order for rows
// starting on firstWeekday.
func (l *Labeler) WeekdayHeaders(firstWeekday time.Weekday) ([7]string, error) {
	var headers [7]string
	if err := dateutil.ValidateWeekday(firstWeekday); err != nil {
		return headers, err
	}
	for i := range headers {
		headers[i] = l.loc.DayAbbrevs[(int(firstWeekday)+i)%7]
	}
	return headers, nil
}

// checkLabelDate rejects dates whose month or day does not exist. Years
// one past either end of the supported range are accepted because month
// grids and week dates pad into them.
func checkLabelDate(d dateutil.Date) error {
	if d.Year < dateutil.MinYear-1 || d.Year > dateutil.MaxYear+1 {
		return fmt.Errorf("date %v: year out of range: %w", d, ErrInvalidInput)
	}
	if err := dateutil.ValidateMonth(d.Month); err != nil {
		return fmt.Errorf("date %v: %w", d, err)
	}
	if d.Day < 1 || d.Day > dateutil.DaysInMonth(d.Year, d.Month) {
		return fmt.Errorf("date %v: day out of range: %w", d, ErrInvalidInput)
	}
	return nil
}

func (l *Labeler) meridiem(h int) string {
	if h < 12 {
		return l.loc.AM
	}
	return l.loc.PM
}

func twelveHour(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}
