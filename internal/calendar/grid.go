package calendar

import (
	"fmt"
	"time"

	"github.com/username/calview/pkg/dateutil"
)

// leadingDays returns how many days of the previous period precede wd in a
// row starting on firstWeekday.
func leadingDays(wd, firstWeekday time.Weekday) int {
	return (int(wd) - int(firstWeekday) + 7) % 7
}

// BuildMonthGrid returns the minimal run of complete weeks, each starting
// on firstWeekday, that covers every day of year/month. Cells outside the
// month are included for padding and have InFocusedMonth unset.
//
// month is not normalised: 0 or 13 is an error, rolling into adjacent
// months is the job of PrevMonth/NextMonth.
func BuildMonthGrid(year int, month time.Month, firstWeekday time.Weekday) (MonthGrid, error) {
	first, err := dateutil.New(year, month, 1)
	if err != nil {
		return MonthGrid{}, fmt.Errorf("build month grid: %w", err)
	}
	if err := dateutil.ValidateWeekday(firstWeekday); err != nil {
		return MonthGrid{}, fmt.Errorf("build month grid: %w", err)
	}

	lead := leadingDays(first.Weekday(), firstWeekday)
	totalDays := lead + dateutil.DaysInMonth(year, month)
	totalCells := totalDays + (7-totalDays%7)%7

	grid := MonthGrid{
		Year:         year,
		Month:        month,
		FirstWeekday: firstWeekday,
		Rows:         make([]WeekRow, totalCells/7),
	}

	current := first.AddDays(-lead)
	for r := range grid.Rows {
		for c := 0; c < 7; c++ {
			grid.Rows[r][c] = DayCell{
				Date:           current,
				InFocusedMonth: current.Month == month && current.Year == year,
			}
			current = current.AddDays(1)
		}
	}

	return grid, nil
}

// BuildWeekDates returns the seven consecutive dates of the week containing
// anchor, starting on firstWeekday.
func BuildWeekDates(anchor dateutil.Date, firstWeekday time.Weekday) ([7]dateutil.Date, error) {
	var dates [7]dateutil.Date
	if err := dateutil.ValidateWeekday(firstWeekday); err != nil {
		return dates, fmt.Errorf("build week dates: %w", err)
	}
	if !anchor.Valid() {
		return dates, fmt.Errorf("build week dates: anchor %v: %w", anchor, ErrInvalidInput)
	}

	start := anchor.AddDays(-leadingDays(anchor.Weekday(), firstWeekday))
	for i := range dates {
		dates[i] = start.AddDays(i)
	}
	return dates, nil
}

// IsoWeekDates returns the display week for an ISO week: the seven days
// starting on firstWeekday that contain the week's Monday. With a Sunday
// first weekday this is the Sunday before the ISO Monday through Saturday.
func IsoWeekDates(isoYear, isoWeek int, firstWeekday time.Weekday) ([7]dateutil.Date, error) {
	monday, err := FromIsoWeek(isoYear, isoWeek)
	if err != nil {
		return [7]dateutil.Date{}, err
	}
	return BuildWeekDates(monday, firstWeekday)
}
