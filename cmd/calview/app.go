package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/username/calview/internal/annotation"
	"github.com/username/calview/internal/calendar"
	"github.com/username/calview/internal/config"
	"github.com/username/calview/internal/render"
	"github.com/username/calview/internal/state"
	"github.com/username/calview/pkg/dateutil"
)

// app holds the components shared by every command
type app struct {
	cfg    *config.Config
	engine *calendar.Engine
	notes  *annotation.CompositeSource
	file   *annotation.FileSource   // nil when not configured
	dayOff *annotation.DayOffSource // nil when not configured
	state  *state.Manager
	out    io.Writer
	now    func() time.Time
	logger *zap.Logger
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	engine, err := calendar.NewEngine(cfg.View.EngineOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar engine: %w", err)
	}

	a := &app{
		cfg:    cfg,
		engine: engine,
		state:  state.NewManager(cfg.State.File, log),
		out:    os.Stdout,
		now:    time.Now,
		logger: log,
	}

	var sources []annotation.Source
	if cfg.Annotations.File != "" {
		a.file = annotation.NewFileSource(cfg.Annotations.File, log)
		sources = append(sources, a.file)
	}
	if cfg.Annotations.ICSFile != "" {
		loc, err := cfg.Annotations.GetLocation()
		if err != nil {
			return nil, fmt.Errorf("invalid annotations.timezone: %w", err)
		}
		sources = append(sources, annotation.NewICSSource(cfg.Annotations.ICSFile, cfg.Annotations.MaxOccurrences, loc, log))
	}
	if cfg.Annotations.DayOff.Enabled {
		a.dayOff = annotation.NewDayOffSource(
			cfg.Annotations.DayOff.BaseURL,
			cfg.Annotations.DayOff.FallbackURL,
			cfg.Annotations.DayOff.GetCacheTTL(),
			log,
		)
		sources = append(sources, a.dayOff)
	}
	a.notes = annotation.NewCompositeSource(log, sources...)

	if err := a.state.Load(); err != nil {
		log.Warn("Ignoring unreadable view state", zap.Error(err))
	}

	return a, nil
}

func (a *app) today() dateutil.Date {
	return dateutil.Of(a.now())
}

// show renders the view described by st
func (a *app) show(ctx context.Context, st state.ViewState) error {
	now := a.now()
	today := dateutil.Of(now)
	r := render.New(a.out, a.engine.Labeler())

	switch st.View {
	case calendar.ViewMonth:
		view, err := a.engine.MonthView(st.Year, time.Month(st.Month), today)
		if err != nil {
			return err
		}
		notes := a.fetchNotes(ctx, view.Grid.First(), view.Grid.Last())
		return r.Month(view, notes, a.monthStats(ctx, st.Year, time.Month(st.Month)))

	case calendar.ViewWeek:
		view, err := a.engine.WeekView(st.IsoYear, st.IsoWeek, today)
		if err != nil {
			return err
		}
		notes := a.fetchNotes(ctx, view.Dates[0], view.Dates[6])
		return r.Week(view, notes, dateutil.TimeOfDayOf(now))

	default:
		d, err := st.Date()
		if err != nil {
			return err
		}
		view, err := a.engine.DayView(d, today)
		if err != nil {
			return err
		}
		notes := a.fetchNotes(ctx, d, d)
		return r.Day(view, notes, a.dayStatus(ctx, d), dateutil.TimeOfDayOf(now))
	}
}

// fetchNotes returns the notes dated from..to. Failures are logged and the
// view is shown without notes.
func (a *app) fetchNotes(ctx context.Context, from, to dateutil.Date) annotation.Notes {
	if a.notes.Len() == 0 {
		return nil
	}
	notes, err := a.notes.Notes(ctx, from, to)
	if err != nil {
		a.logger.Warn("Failed to load notes", zap.Error(err))
		return nil
	}
	return notes
}

func (a *app) monthStats(ctx context.Context, year int, month time.Month) *annotation.MonthStats {
	if a.dayOff == nil {
		return nil
	}
	stats, err := a.dayOff.MonthStats(ctx, year, month)
	if err != nil {
		a.logger.Warn("Failed to load working day stats",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))
		return nil
	}
	return &stats
}

func (a *app) dayStatus(ctx context.Context, d dateutil.Date) *annotation.DayStatus {
	if a.dayOff == nil {
		return nil
	}
	status, err := a.dayOff.Status(ctx, d)
	if err != nil {
		a.logger.Warn("Failed to load day status",
			zap.Stringer("date", d),
			zap.Error(err))
		return nil
	}
	return &status
}

// reloadNotes re-reads the notes file so watch mode picks up edits
func (a *app) reloadNotes() {
	if a.file == nil {
		return
	}
	if err := a.file.Load(); err != nil {
		a.logger.Warn("Failed to reload notes file", zap.Error(err))
	}
}
