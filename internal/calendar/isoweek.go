package calendar

import (
	"fmt"
	"time"

	"github.com/username/calview/pkg/dateutil"
)

// ToIsoWeek returns the ISO-8601 week-numbering year and week of d.
// Week 1 is the week containing the year's first Thursday, so Jan 1-3 may
// belong to the previous ISO year and Dec 29-31 to the next.
func ToIsoWeek(d dateutil.Date) (IsoWeekRef, error) {
	if !d.Valid() {
		return IsoWeekRef{}, fmt.Errorf("iso week: date %v: %w", d, ErrInvalidInput)
	}
	return isoWeekOf(d), nil
}

// isoWeekOf is ToIsoWeek for dates already known to be valid
func isoWeekOf(d dateutil.Date) IsoWeekRef {
	thursday := d.AddDays(4 - d.ISOWeekday())
	return IsoWeekRef{
		Year: thursday.Year,
		Week: (thursday.YearDay()-1)/7 + 1,
	}
}

// IsoWeeksInYear returns 52 or 53, the number of ISO weeks in isoYear.
// Dec 28 always falls in the last ISO week of its year.
func IsoWeeksInYear(isoYear int) int {
	dec28 := dateutil.Date{Year: isoYear, Month: time.December, Day: 28}
	return isoWeekOf(dec28).Week
}

// ValidateIsoWeek checks isoYear against the supported years and isoWeek
// against 1..IsoWeeksInYear(isoYear).
func ValidateIsoWeek(isoYear, isoWeek int) error {
	if err := dateutil.ValidateYear(isoYear); err != nil {
		return fmt.Errorf("iso year: %w", err)
	}
	if n := IsoWeeksInYear(isoYear); isoWeek < 1 || isoWeek > n {
		return fmt.Errorf("iso week %d out of range 1..%d for %d: %w", isoWeek, n, isoYear, ErrInvalidInput)
	}
	return nil
}

// FromIsoWeek returns the Monday of ISO week isoWeek of isoYear
func FromIsoWeek(isoYear, isoWeek int) (dateutil.Date, error) {
	if err := ValidateIsoWeek(isoYear, isoWeek); err != nil {
		return dateutil.Date{}, err
	}

	// Jan 4 is always in week 1.
	jan4 := dateutil.Date{Year: isoYear, Month: time.January, Day: 4}
	week1Monday := jan4.AddDays(1 - jan4.ISOWeekday())
	return week1Monday.AddWeeks(isoWeek - 1), nil
}

// IsoWeekRepresentativeDate returns the Wednesday of the ISO week. Callers
// that need one calendar date to stand for a week (for example to decide
// which month a week view belongs to) use this fixed mid-week day.
func IsoWeekRepresentativeDate(isoYear, isoWeek int) (dateutil.Date, error) {
	monday, err := FromIsoWeek(isoYear, isoWeek)
	if err != nil {
		return dateutil.Date{}, err
	}
	return monday.AddDays(2), nil
}
