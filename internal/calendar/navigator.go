package calendar

import (
	"fmt"
	"time"

	"github.com/username/calview/pkg/dateutil"
)

// PrevMonth returns the month before year/month, rolling into December of
// the previous year from January.
func PrevMonth(year int, month time.Month) (YearMonth, error) {
	if _, err := NewYearMonth(year, month); err != nil {
		return YearMonth{}, fmt.Errorf("previous month: %w", err)
	}
	if month == time.January {
		return checkedYearMonth(year-1, time.December)
	}
	return YearMonth{Year: year, Month: month - 1}, nil
}

// NextMonth returns the month after year/month, rolling into January of
// the next year from December.
func NextMonth(year int, month time.Month) (YearMonth, error) {
	if _, err := NewYearMonth(year, month); err != nil {
		return YearMonth{}, fmt.Errorf("next month: %w", err)
	}
	if month == time.December {
		return checkedYearMonth(year+1, time.January)
	}
	return YearMonth{Year: year, Month: month + 1}, nil
}

func checkedYearMonth(year int, month time.Month) (YearMonth, error) {
	ym, err := NewYearMonth(year, month)
	if err != nil {
		return YearMonth{}, fmt.Errorf("navigation leaves supported range: %w", err)
	}
	return ym, nil
}

// AddDays returns d shifted by n days
func AddDays(d dateutil.Date, n int) (dateutil.Date, error) {
	if !d.Valid() {
		return dateutil.Date{}, fmt.Errorf("add days: date %v: %w", d, ErrInvalidInput)
	}
	return checkedDate(d.AddDays(n))
}

// AddWeeks returns d shifted by n weeks
func AddWeeks(d dateutil.Date, n int) (dateutil.Date, error) {
	if !d.Valid() {
		return dateutil.Date{}, fmt.Errorf("add weeks: date %v: %w", d, ErrInvalidInput)
	}
	return checkedDate(d.AddWeeks(n))
}

// AddMonths returns d shifted by n months, clamping the day to the end of
// a shorter target month.
func AddMonths(d dateutil.Date, n int) (dateutil.Date, error) {
	if !d.Valid() {
		return dateutil.Date{}, fmt.Errorf("add months: date %v: %w", d, ErrInvalidInput)
	}
	return checkedDate(d.AddMonths(n))
}

// PrevDay returns the day before d
func PrevDay(d dateutil.Date) (dateutil.Date, error) {
	return AddDays(d, -1)
}

// NextDay returns the day after d
func NextDay(d dateutil.Date) (dateutil.Date, error) {
	return AddDays(d, 1)
}

func checkedDate(d dateutil.Date) (dateutil.Date, error) {
	if err := dateutil.ValidateYear(d.Year); err != nil {
		return dateutil.Date{}, fmt.Errorf("navigation leaves supported range: %w", err)
	}
	return d, nil
}

// PrevIsoWeek returns the ISO week before isoYear/isoWeek. Week 1 rolls
// back to the last week of the previous ISO year, which may be 52 or 53.
func PrevIsoWeek(isoYear, isoWeek int) (IsoWeekRef, error) {
	if err := ValidateIsoWeek(isoYear, isoWeek); err != nil {
		return IsoWeekRef{}, fmt.Errorf("previous iso week: %w", err)
	}
	if isoWeek > 1 {
		return IsoWeekRef{Year: isoYear, Week: isoWeek - 1}, nil
	}
	if err := dateutil.ValidateYear(isoYear - 1); err != nil {
		return IsoWeekRef{}, fmt.Errorf("navigation leaves supported range: %w", err)
	}
	return IsoWeekRef{Year: isoYear - 1, Week: IsoWeeksInYear(isoYear - 1)}, nil
}

// NextIsoWeek returns the ISO week after isoYear/isoWeek. The last week of
// a year rolls over to week 1 of the next.
func NextIsoWeek(isoYear, isoWeek int) (IsoWeekRef, error) {
	if err := ValidateIsoWeek(isoYear, isoWeek); err != nil {
		return IsoWeekRef{}, fmt.Errorf("next iso week: %w", err)
	}
	if isoWeek < IsoWeeksInYear(isoYear) {
		return IsoWeekRef{Year: isoYear, Week: isoWeek + 1}, nil
	}
	if err := dateutil.ValidateYear(isoYear + 1); err != nil {
		return IsoWeekRef{}, fmt.Errorf("navigation leaves supported range: %w", err)
	}
	return IsoWeekRef{Year: isoYear + 1, Week: 1}, nil
}
