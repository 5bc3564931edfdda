package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/username/calview/pkg/dateutil"
)

func TestBuildMonthGrid(t *testing.T) {
	tests := []struct {
		name         string
		year         int
		month        time.Month
		firstWeekday time.Weekday
		wantRows     int
		wantFirst    dateutil.Date
		wantLast     dateutil.Date
	}{
		{"January 2024 Sunday first", 2024, time.January, time.Sunday, 5,
			dateutil.MustNew(2023, 12, 31), dateutil.MustNew(2024, 2, 3)},
		{"January 2024 Monday first", 2024, time.January, time.Monday, 5,
			dateutil.MustNew(2024, 1, 1), dateutil.MustNew(2024, 2, 4)},
		{"February 2015 fits four rows", 2015, time.February, time.Sunday, 4,
			dateutil.MustNew(2015, 2, 1), dateutil.MustNew(2015, 2, 28)},
		{"March 2025 needs six rows", 2025, time.March, time.Sunday, 6,
			dateutil.MustNew(2025, 2, 23), dateutil.MustNew(2025, 4, 5)},
		{"March 2025 Monday first", 2025, time.March, time.Monday, 6,
			dateutil.MustNew(2025, 2, 24), dateutil.MustNew(2025, 4, 6)},
		{"Leap February", 2024, time.February, time.Sunday, 5,
			dateutil.MustNew(2024, 1, 28), dateutil.MustNew(2024, 3, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := BuildMonthGrid(tt.year, tt.month, tt.firstWeekday)
			if err != nil {
				t.Fatalf("BuildMonthGrid() error = %v", err)
			}
			if len(grid.Rows) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(grid.Rows), tt.wantRows)
			}
			if got := grid.First(); got != tt.wantFirst {
				t.Errorf("First() = %v, want %v", got, tt.wantFirst)
			}
			if got := grid.Last(); got != tt.wantLast {
				t.Errorf("Last() = %v, want %v", got, tt.wantLast)
			}
		})
	}
}

func TestBuildMonthGridInvalid(t *testing.T) {
	tests := []struct {
		name         string
		year         int
		month        time.Month
		firstWeekday time.Weekday
	}{
		{"Month zero", 2024, 0, time.Sunday},
		{"Month thirteen", 2024, 13, time.Sunday},
		{"Weekday seven", 2024, time.May, 7},
		{"Negative weekday", 2024, time.May, -1},
		{"Year zero", 0, time.May, time.Sunday},
		{"Year 10000", 10000, time.May, time.Sunday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildMonthGrid(tt.year, tt.month, tt.firstWeekday)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("BuildMonthGrid(%d, %d, %d) error = %v, want ErrInvalidInput",
					tt.year, tt.month, tt.firstWeekday, err)
			}
		})
	}
}

// checkGrid verifies the shape of one grid: whole rows starting on the first
// weekday, at most six of them, and a single run of in-month cells covering
// exactly day 1 to the last day.
func checkGrid(t *testing.T, year int, month time.Month, fw time.Weekday) {
	t.Helper()

	grid, err := BuildMonthGrid(year, month, fw)
	if err != nil {
		t.Fatalf("BuildMonthGrid(%d, %d, %d) error = %v", year, month, fw, err)
	}
	if n := len(grid.Rows); n < 4 || n > 6 {
		t.Fatalf("BuildMonthGrid(%d, %d, %d) has %d rows", year, month, fw, n)
	}
	lead := leadingDays(dateutil.Date{Year: year, Month: month, Day: 1}.Weekday(), fw)
	if len(grid.Rows)*7 < lead+dateutil.DaysInMonth(year, month) {
		t.Fatalf("BuildMonthGrid(%d, %d, %d) does not cover the month", year, month, fw)
	}

	runs, inMonth, expectDay := 0, 0, 1
	prevIn := false
	for i, cell := range grid.Cells() {
		if i%7 == 0 && cell.Date.Weekday() != fw {
			t.Fatalf("row %d of %d-%02d starts on %v, want %v", i/7, year, month, cell.Date.Weekday(), fw)
		}
		if cell.InFocusedMonth {
			if !prevIn {
				runs++
			}
			if cell.Date.Day != expectDay {
				t.Fatalf("%d-%02d: in-month cell %d shows day %d, want %d", year, month, i, cell.Date.Day, expectDay)
			}
			expectDay++
			inMonth++
		}
		prevIn = cell.InFocusedMonth
	}
	if runs != 1 || inMonth != dateutil.DaysInMonth(year, month) {
		t.Fatalf("%d-%02d fw %v: %d in-month runs, %d in-month cells", year, month, fw, runs, inMonth)
	}
}

func TestBuildMonthGridAllMonths(t *testing.T) {
	// One 400-year Gregorian cycle covers every weekday/length combination.
	for year := 1; year <= 400; year++ {
		for month := time.January; month <= time.December; month++ {
			for fw := time.Sunday; fw <= time.Saturday; fw++ {
				checkGrid(t, year, month, fw)
			}
		}
	}

	if testing.Short() {
		t.Skip("skipping full year range in short mode")
	}
	for year := 401; year <= dateutil.MaxYear; year++ {
		for month := time.January; month <= time.December; month++ {
			checkGrid(t, year, month, time.Sunday)
			checkGrid(t, year, month, time.Monday)
		}
	}
}

func TestMonthGridHelpers(t *testing.T) {
	grid, err := BuildMonthGrid(2024, time.January, time.Sunday)
	if err != nil {
		t.Fatalf("BuildMonthGrid() error = %v", err)
	}

	if got := len(grid.Cells()); got != 35 {
		t.Errorf("len(Cells()) = %d, want 35", got)
	}
	if !grid.Contains(dateutil.MustNew(2023, 12, 31)) {
		t.Error("grid should contain leading Dec 31")
	}
	if grid.Contains(dateutil.MustNew(2024, 2, 4)) {
		t.Error("grid should not contain Feb 4")
	}

	today := dateutil.MustNew(2024, 1, 10)
	todays := 0
	for _, c := range grid.Cells() {
		if c.IsToday(today) {
			todays++
		}
	}
	if todays != 1 {
		t.Errorf("IsToday matched %d cells, want 1", todays)
	}
	if (MonthGrid{}).Contains(today) {
		t.Error("empty grid should contain nothing")
	}
}

func TestEmptyGridBounds(t *testing.T) {
	var grid MonthGrid
	if got := grid.First(); got != (dateutil.Date{}) {
		t.Errorf("First() = %v, want zero Date", got)
	}
	if got := grid.Last(); got != (dateutil.Date{}) {
		t.Errorf("Last() = %v, want zero Date", got)
	}
}

func TestBuildWeekDates(t *testing.T) {
	tests := []struct {
		name         string
		anchor       dateutil.Date
		firstWeekday time.Weekday
		wantStart    dateutil.Date
	}{
		{"Wednesday Sunday first", dateutil.MustNew(2024, 1, 17), time.Sunday, dateutil.MustNew(2024, 1, 14)},
		{"Wednesday Monday first", dateutil.MustNew(2024, 1, 17), time.Monday, dateutil.MustNew(2024, 1, 15)},
		{"Anchor is first weekday", dateutil.MustNew(2024, 1, 14), time.Sunday, dateutil.MustNew(2024, 1, 14)},
		{"Sunday Monday first", dateutil.MustNew(2024, 1, 14), time.Monday, dateutil.MustNew(2024, 1, 8)},
		{"Across year", dateutil.MustNew(2025, 1, 1), time.Sunday, dateutil.MustNew(2024, 12, 29)},
		{"Saturday first", dateutil.MustNew(2024, 1, 17), time.Saturday, dateutil.MustNew(2024, 1, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := BuildWeekDates(tt.anchor, tt.firstWeekday)
			if err != nil {
				t.Fatalf("BuildWeekDates() error = %v", err)
			}
			if dates[0] != tt.wantStart {
				t.Errorf("dates[0] = %v, want %v", dates[0], tt.wantStart)
			}
			for i := 1; i < 7; i++ {
				if dates[i] != dates[i-1].AddDays(1) {
					t.Errorf("dates[%d] = %v does not follow %v", i, dates[i], dates[i-1])
				}
			}
		})
	}
}

func TestBuildWeekDatesStartsOnFirstWeekday(t *testing.T) {
	d := dateutil.MustNew(2023, 12, 20)
	for i := 0; i < 28; i++ {
		for fw := time.Sunday; fw <= time.Saturday; fw++ {
			dates, err := BuildWeekDates(d, fw)
			if err != nil {
				t.Fatalf("BuildWeekDates(%v, %v) error = %v", d, fw, err)
			}
			if dates[0].Weekday() != fw {
				t.Errorf("BuildWeekDates(%v, %v)[0] is %v", d, fw, dates[0].Weekday())
			}
			if d.Before(dates[0]) || d.After(dates[6]) {
				t.Errorf("BuildWeekDates(%v, %v) does not contain the anchor", d, fw)
			}
		}
		d = d.AddDays(1)
	}
}

func TestBuildWeekDatesInvalid(t *testing.T) {
	if _, err := BuildWeekDates(dateutil.MustNew(2024, 1, 1), 7); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("weekday 7: error = %v, want ErrInvalidInput", err)
	}
	if _, err := BuildWeekDates(dateutil.Date{Year: 2024, Month: 2, Day: 30}, time.Sunday); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Feb 30: error = %v, want ErrInvalidInput", err)
	}
}

func TestIsoWeekDates(t *testing.T) {
	tests := []struct {
		name         string
		isoYear      int
		isoWeek      int
		firstWeekday time.Weekday
		wantStart    dateutil.Date
	}{
		{"Monday first", 2026, 1, time.Monday, dateutil.MustNew(2025, 12, 29)},
		{"Sunday first starts the day before", 2026, 1, time.Sunday, dateutil.MustNew(2025, 12, 28)},
		{"Week 53", 2020, 53, time.Monday, dateutil.MustNew(2020, 12, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := IsoWeekDates(tt.isoYear, tt.isoWeek, tt.firstWeekday)
			if err != nil {
				t.Fatalf("IsoWeekDates() error = %v", err)
			}
			if dates[0] != tt.wantStart {
				t.Errorf("dates[0] = %v, want %v", dates[0], tt.wantStart)
			}
		})
	}

	if _, err := IsoWeekDates(2021, 53, time.Monday); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("IsoWeekDates(2021, 53) error = %v, want ErrInvalidInput", err)
	}
}
