package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/calview/pkg/dateutil"
)

// ViewMode names one of the three calendar views
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewDay   ViewMode = "day"
)

// ParseViewMode parses "month", "week" or "day" (case-insensitive)
func ParseViewMode(s string) (ViewMode, error) {
	switch mode := ViewMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ViewMonth, ViewWeek, ViewDay:
		return mode, nil
	}
	return "", fmt.Errorf("unknown view %q (want month, week or day): %w", s, ErrInvalidInput)
}

// Options configures an Engine
type Options struct {
	FirstWeekday time.Weekday
	Locale       Locale
	FirstHour    int
	LastHour     int
}

// DefaultOptions returns Sunday-first English options with 6 AM to 11 PM
// hour rows.
func DefaultOptions() Options {
	return Options{
		FirstWeekday: time.Sunday,
		Locale:       English,
		FirstHour:    DefaultFirstHour,
		LastHour:     DefaultLastHour,
	}
}

// Engine assembles view models from the grid, ISO week, label and
// navigation functions. It holds configuration only.
type Engine struct {
	opts    Options
	labeler *Labeler
}

// NewEngine validates opts and returns an Engine
func NewEngine(opts Options) (*Engine, error) {
	if err := dateutil.ValidateWeekday(opts.FirstWeekday); err != nil {
		return nil, fmt.Errorf("invalid first weekday: %w", err)
	}
	labeler := NewLabeler(opts.Locale)
	if _, err := labeler.HourSlots(opts.FirstHour, opts.LastHour); err != nil {
		return nil, fmt.Errorf("invalid hours: %w", err)
	}
	return &Engine{opts: opts, labeler: labeler}, nil
}

// Options returns the engine configuration
func (e *Engine) Options() Options {
	return e.opts
}

// Labeler returns the labeler built from the engine's locale
func (e *Engine) Labeler() *Labeler {
	return e.labeler
}

// NavContext is what a view hands to links into the other views: the date
// and ISO week to open them on, plus today's for "today" links.
type NavContext struct {
	View         ViewMode
	Date         dateutil.Date
	IsoWeek      IsoWeekRef
	Today        dateutil.Date
	TodayIsoWeek IsoWeekRef
}

// MonthView is the render model for one month
type MonthView struct {
	Title   string
	Grid    MonthGrid
	Headers [7]string
	Prev    *YearMonth // nil at the edge of the supported range
	Next    *YearMonth
	Nav     NavContext
}

// WeekView is the render model for one ISO week
type WeekView struct {
	Title   string
	Week    IsoWeekRef
	Dates   [7]dateutil.Date
	Headers [7]string
	Prev    *IsoWeekRef
	Next    *IsoWeekRef
	Hours   []HourSlot
	Nav     NavContext
}

// DayView is the render model for one day
type DayView struct {
	Title   string
	Date    dateutil.Date
	IsToday bool
	Prev    *dateutil.Date
	Next    *dateutil.Date
	Hours   []HourSlot
	Nav     NavContext
}

// MonthView builds the view of year/month. Day 15 stands for the month when
// switching to the week or day view.
func (e *Engine) MonthView(year int, month time.Month, today dateutil.Date) (MonthView, error) {
	if err := checkToday(today); err != nil {
		return MonthView{}, err
	}
	grid, err := BuildMonthGrid(year, month, e.opts.FirstWeekday)
	if err != nil {
		return MonthView{}, err
	}
	title, err := e.labeler.MonthYearLabel(year, month)
	if err != nil {
		return MonthView{}, err
	}
	headers, err := e.labeler.WeekdayHeaders(e.opts.FirstWeekday)
	if err != nil {
		return MonthView{}, err
	}

	mid := dateutil.Date{Year: year, Month: month, Day: 15}
	view := MonthView{
		Title:   title,
		Grid:    grid,
		Headers: headers,
		Nav:     e.navContext(ViewMonth, mid, isoWeekOf(mid), today),
	}
	if prev, err := PrevMonth(year, month); err == nil {
		view.Prev = &prev
	}
	if next, err := NextMonth(year, month); err == nil {
		view.Next = &next
	}
	return view, nil
}

// WeekView builds the view of ISO week isoYear/isoWeek. The week's
// Wednesday stands for it when switching to the month or day view.
func (e *Engine) WeekView(isoYear, isoWeek int, today dateutil.Date) (WeekView, error) {
	if err := checkToday(today); err != nil {
		return WeekView{}, err
	}
	dates, err := IsoWeekDates(isoYear, isoWeek, e.opts.FirstWeekday)
	if err != nil {
		return WeekView{}, err
	}
	rep, err := IsoWeekRepresentativeDate(isoYear, isoWeek)
	if err != nil {
		return WeekView{}, err
	}
	headers, err := e.labeler.WeekdayHeaders(e.opts.FirstWeekday)
	if err != nil {
		return WeekView{}, err
	}
	hours, err := e.labeler.HourSlots(e.opts.FirstHour, e.opts.LastHour)
	if err != nil {
		return WeekView{}, err
	}

	title, err := e.labeler.FormatWeekLabel(dates)
	if err != nil {
		return WeekView{}, err
	}

	week := IsoWeekRef{Year: isoYear, Week: isoWeek}
	view := WeekView{
		Title:   title,
		Week:    week,
		Dates:   dates,
		Headers: headers,
		Hours:   hours,
		Nav:     e.navContext(ViewWeek, rep, week, today),
	}
	if prev, err := PrevIsoWeek(isoYear, isoWeek); err == nil {
		view.Prev = &prev
	}
	if next, err := NextIsoWeek(isoYear, isoWeek); err == nil {
		view.Next = &next
	}
	return view, nil
}

// WeekViewOf builds the view of the ISO week containing d
func (e *Engine) WeekViewOf(d dateutil.Date, today dateutil.Date) (WeekView, error) {
	ref, err := ToIsoWeek(d)
	if err != nil {
		return WeekView{}, fmt.Errorf("week view: %w", err)
	}
	return e.WeekView(ref.Year, ref.Week, today)
}

// DayView builds the view of a single date
func (e *Engine) DayView(d dateutil.Date, today dateutil.Date) (DayView, error) {
	if err := checkToday(today); err != nil {
		return DayView{}, err
	}
	if !d.Valid() {
		return DayView{}, fmt.Errorf("day view: date %v: %w", d, ErrInvalidInput)
	}
	hours, err := e.labeler.HourSlots(e.opts.FirstHour, e.opts.LastHour)
	if err != nil {
		return DayView{}, err
	}

	title, err := e.labeler.FormatDateLong(d)
	if err != nil {
		return DayView{}, err
	}

	view := DayView{
		Title:   title,
		Date:    d,
		IsToday: d == today,
		Hours:   hours,
		Nav:     e.navContext(ViewDay, d, isoWeekOf(d), today),
	}
	if prev, err := PrevDay(d); err == nil {
		view.Prev = &prev
	}
	if next, err := NextDay(d); err == nil {
		view.Next = &next
	}
	return view, nil
}

func (e *Engine) navContext(mode ViewMode, d dateutil.Date, week IsoWeekRef, today dateutil.Date) NavContext {
	return NavContext{
		View:         mode,
		Date:         d,
		IsoWeek:      week,
		Today:        today,
		TodayIsoWeek: isoWeekOf(today),
	}
}

func checkToday(today dateutil.Date) error {
	if !today.Valid() {
		return fmt.Errorf("today %v: %w", today, ErrInvalidInput)
	}
	return nil
}
