// Package calendar computes month grids, week date lists, ISO-8601 week
// numbers, navigation targets and display labels for a month/week/day
// calendar viewer.
//
// Everything in this package is a pure function of its arguments: nothing
// reads the wall clock, the process locale or any shared state, so every
// function is safe for concurrent use. Callers supply "today" and the
// first day of the week explicitly.
package calendar

import (
	"time"

	"github.com/username/calview/pkg/dateutil"
)

// ErrInvalidInput is wrapped by every error this package returns for a bad
// month, weekday, hour, date or ISO week.
var ErrInvalidInput = dateutil.ErrInvalidInput

// DayCell is one cell of a month grid
type DayCell struct {
	Date           dateutil.Date
	InFocusedMonth bool
}

// IsToday reports whether the cell shows today
func (c DayCell) IsToday(today dateutil.Date) bool {
	return c.Date == today
}

// WeekRow is one row of a month grid. The first cell falls on the grid's
// first weekday.
type WeekRow [7]DayCell

// MonthGrid is the set of complete weeks covering a month
type MonthGrid struct {
	Year         int
	Month        time.Month
	FirstWeekday time.Weekday
	Rows         []WeekRow
}

// Cells returns the grid's cells in row-major order
func (g MonthGrid) Cells() []DayCell {
	cells := make([]DayCell, 0, len(g.Rows)*7)
	for _, row := range g.Rows {
		cells = append(cells, row[:]...)
	}
	return cells
}

// First returns the first date shown in the grid, or the zero Date for a
// grid with no rows.
func (g MonthGrid) First() dateutil.Date {
	if len(g.Rows) == 0 {
		return dateutil.Date{}
	}
	return g.Rows[0][0].Date
}

// Last returns the last date shown in the grid, or the zero Date for a grid
// with no rows.
func (g MonthGrid) Last() dateutil.Date {
	if len(g.Rows) == 0 {
		return dateutil.Date{}
	}
	return g.Rows[len(g.Rows)-1][6].Date
}

// Contains reports whether d is shown anywhere in the grid
func (g MonthGrid) Contains(d dateutil.Date) bool {
	if len(g.Rows) == 0 {
		return false
	}
	return !d.Before(g.First()) && !d.After(g.Last())
}

// IsoWeekRef identifies an ISO-8601 week. Year is the ISO week-numbering
// year, which differs from the calendar year for some days around Jan 1.
type IsoWeekRef struct {
	Year int
	Week int
}

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth validates year and month
func NewYearMonth(year int, month time.Month) (YearMonth, error) {
	if err := dateutil.ValidateYear(year); err != nil {
		return YearMonth{}, err
	}
	if err := dateutil.ValidateMonth(month); err != nil {
		return YearMonth{}, err
	}
	return YearMonth{Year: year, Month: month}, nil
}

// HourSlot is one labelled hour row of a week or day view
type HourSlot struct {
	Hour  int
	Label string
}
