// Package state remembers the last calendar period shown so next/prev can
// step from it on the following run.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/username/calview/internal/calendar"
	"github.com/username/calview/pkg/dateutil"
)

// ViewState represents the last shown view and its period
type ViewState struct {
	View      calendar.ViewMode `json:"view"`
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Day       int               `json:"day"`
	IsoYear   int               `json:"iso_year"`
	IsoWeek   int               `json:"iso_week"`
	UpdatedAt string            `json:"updated_at"`
}

// Date returns the context date of the state
func (s ViewState) Date() (dateutil.Date, error) {
	return dateutil.New(s.Year, time.Month(s.Month), s.Day)
}

// Week returns the ISO week of the state
func (s ViewState) Week() calendar.IsoWeekRef {
	return calendar.IsoWeekRef{Year: s.IsoYear, Week: s.IsoWeek}
}

// Manager loads, steps and saves the view state
type Manager struct {
	stateFile string
	state     *ViewState
	logger    *zap.Logger
	now       func() time.Time
}

// NewManager creates a new view state manager
func NewManager(stateFile string, logger *zap.Logger) *Manager {
	return &Manager{
		stateFile: stateFile,
		logger:    logger,
		now:       time.Now,
	}
}

// Load loads the view state from file. A missing file leaves the state
// empty.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - will be created on first save
			m.state = nil
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var st ViewState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	if err := validate(st); err != nil {
		return fmt.Errorf("invalid state file %s: %w", m.stateFile, err)
	}

	m.state = &st
	m.logger.Debug("View state loaded",
		zap.String("view", string(st.View)),
		zap.Int("year", st.Year),
		zap.Int("month", st.Month),
		zap.Int("day", st.Day))

	return nil
}

// Save writes the view state atomically
func (m *Manager) Save() error {
	if m.state == nil {
		return fmt.Errorf("no state to save")
	}

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(m.stateFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	tmp := m.stateFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, m.stateFile); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	m.logger.Debug("View state saved",
		zap.String("view", string(m.state.View)),
		zap.String("file", m.stateFile))

	return nil
}

// State returns the current state, nil when nothing has been shown yet
func (m *Manager) State() *ViewState {
	return m.state
}

// Current returns the stored state, or a state for today in the given view
// when nothing is stored.
func (m *Manager) Current(today dateutil.Date, mode calendar.ViewMode) (ViewState, error) {
	if m.state != nil {
		return *m.state, nil
	}
	return stateFor(mode, today, m.now())
}

// SetMonth stores a month view of year/month and saves it
func (m *Manager) SetMonth(year int, month time.Month) error {
	if _, err := calendar.NewYearMonth(year, month); err != nil {
		return err
	}
	return m.set(calendar.ViewMonth, dateutil.Date{Year: year, Month: month, Day: 15})
}

// SetWeek stores a week view of isoYear/isoWeek and saves it
func (m *Manager) SetWeek(isoYear, isoWeek int) error {
	rep, err := calendar.IsoWeekRepresentativeDate(isoYear, isoWeek)
	if err != nil {
		return err
	}
	return m.set(calendar.ViewWeek, rep)
}

// SetDay stores a day view of d and saves it
func (m *Manager) SetDay(d dateutil.Date) error {
	if !d.Valid() {
		return fmt.Errorf("day %v: %w", d, dateutil.ErrInvalidInput)
	}
	return m.set(calendar.ViewDay, d)
}

// Reset stores today in the given view and saves it
func (m *Manager) Reset(mode calendar.ViewMode, today dateutil.Date) error {
	return m.set(mode, today)
}

// Next steps the stored view one period forward and saves it
func (m *Manager) Next(today dateutil.Date, defaultMode calendar.ViewMode) (ViewState, error) {
	return m.step(today, defaultMode, true)
}

// Prev steps the stored view one period back and saves it
func (m *Manager) Prev(today dateutil.Date, defaultMode calendar.ViewMode) (ViewState, error) {
	return m.step(today, defaultMode, false)
}

func (m *Manager) step(today dateutil.Date, defaultMode calendar.ViewMode, forward bool) (ViewState, error) {
	cur, err := m.Current(today, defaultMode)
	if err != nil {
		return ViewState{}, err
	}

	var target dateutil.Date
	switch cur.View {
	case calendar.ViewMonth:
		var ym calendar.YearMonth
		if forward {
			ym, err = calendar.NextMonth(cur.Year, time.Month(cur.Month))
		} else {
			ym, err = calendar.PrevMonth(cur.Year, time.Month(cur.Month))
		}
		target = dateutil.Date{Year: ym.Year, Month: ym.Month, Day: 15}
	case calendar.ViewWeek:
		var ref calendar.IsoWeekRef
		if forward {
			ref, err = calendar.NextIsoWeek(cur.IsoYear, cur.IsoWeek)
		} else {
			ref, err = calendar.PrevIsoWeek(cur.IsoYear, cur.IsoWeek)
		}
		if err == nil {
			target, err = calendar.IsoWeekRepresentativeDate(ref.Year, ref.Week)
		}
	default:
		var d dateutil.Date
		if d, err = cur.Date(); err == nil {
			if forward {
				target, err = calendar.NextDay(d)
			} else {
				target, err = calendar.PrevDay(d)
			}
		}
	}
	if err != nil {
		return ViewState{}, fmt.Errorf("failed to step %s view: %w", cur.View, err)
	}

	if err := m.set(cur.View, target); err != nil {
		return ViewState{}, err
	}
	return *m.state, nil
}

// ForDate returns the state of a view opened on d without storing it.
// now is recorded as the update time.
func ForDate(mode calendar.ViewMode, d dateutil.Date, now time.Time) (ViewState, error) {
	return stateFor(mode, d, now)
}

func (m *Manager) set(mode calendar.ViewMode, d dateutil.Date) error {
	st, err := stateFor(mode, d, m.now())
	if err != nil {
		return err
	}
	m.state = &st
	return m.Save()
}

// stateFor builds the state of a view opened on d. Month views keep day 15
// and week views keep their Wednesday as the context date.
func stateFor(mode calendar.ViewMode, d dateutil.Date, now time.Time) (ViewState, error) {
	if _, err := calendar.ParseViewMode(string(mode)); err != nil {
		return ViewState{}, err
	}
	ref, err := calendar.ToIsoWeek(d)
	if err != nil {
		return ViewState{}, err
	}

	switch mode {
	case calendar.ViewMonth:
		d.Day = 15
	case calendar.ViewWeek:
		rep, err := calendar.IsoWeekRepresentativeDate(ref.Year, ref.Week)
		if err != nil {
			return ViewState{}, err
		}
		d = rep
	}

	week, err := calendar.ToIsoWeek(d)
	if err != nil {
		return ViewState{}, err
	}
	return ViewState{
		View:      mode,
		Year:      d.Year,
		Month:     int(d.Month),
		Day:       d.Day,
		IsoYear:   week.Year,
		IsoWeek:   week.Week,
		UpdatedAt: now.Format(time.RFC3339),
	}, nil
}

func validate(st ViewState) error {
	if _, err := calendar.ParseViewMode(string(st.View)); err != nil {
		return err
	}
	if _, err := st.Date(); err != nil {
		return err
	}
	return calendar.ValidateIsoWeek(st.IsoYear, st.IsoWeek)
}
