package annotation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/username/calview/pkg/dateutil"
)

const defaultMaxOccurrences = 500

// icsEvent is a VEVENT reduced to what notes need
type icsEvent struct {
	UID        string
	Summary    string
	Start      time.Time
	End        time.Time
	AllDay     bool
	RRule      string
	ExDates    []time.Time
	Recurrence *time.Time // RECURRENCE-ID of an overridden instance
}

// ICSSource implements Source using a local iCalendar file. Recurring
// events are expanded into one note per occurrence.
type ICSSource struct {
	filePath       string
	maxOccurrences int
	loc            *time.Location
	logger         *zap.Logger
}

// NewICSSource creates a new ICSSource. Occurrences are converted to loc;
// maxOccurrences caps the expansion of each recurring event.
func NewICSSource(filePath string, maxOccurrences int, loc *time.Location, logger *zap.Logger) *ICSSource {
	if maxOccurrences <= 0 {
		maxOccurrences = defaultMaxOccurrences
	}
	if loc == nil {
		loc = time.Local
	}
	return &ICSSource{
		filePath:       filePath,
		maxOccurrences: maxOccurrences,
		loc:            loc,
		logger:         logger,
	}
}

// Name returns the source name
func (s *ICSSource) Name() string {
	return "ics:" + s.filePath
}

// Notes reads the file and returns event notes dated from..to
func (s *ICSSource) Notes(ctx context.Context, from, to dateutil.Date) (Notes, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ics file: %w", err)
	}
	defer file.Close()

	events, err := s.parse(file)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := s.expand(events, from, to)
	notes.Sort()

	s.logger.Debug("ICS notes expanded",
		zap.String("file", s.filePath),
		zap.Int("events", len(events)),
		zap.Int("notes", notes.Count()))

	return notes, nil
}

func (s *ICSSource) parse(r io.Reader) ([]icsEvent, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ics: %w", err)
	}

	events := make([]icsEvent, 0)
	for _, ve := range cal.Events() {
		ev, err := s.parseEvent(ve)
		if err != nil {
			s.logger.Warn("Skipping VEVENT", zap.Error(err))
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *ICSSource) parseEvent(ve *ical.VEvent) (icsEvent, error) {
	var ev icsEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Summary = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return ev, fmt.Errorf("event %q has no DTSTART", ev.UID)
	}

	// VALUE=DATE or a value without 'T' marks an all-day event
	if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		ev.AllDay = true
	}
	if !strings.Contains(dtStart.Value, "T") {
		ev.AllDay = true
	}

	if ev.AllDay {
		start, err := s.parseICSTime(dtStart.Value)
		if err != nil {
			return ev, fmt.Errorf("event %q: bad DTSTART: %w", ev.UID, err)
		}
		ev.Start = start
		ev.End = start.AddDate(0, 0, 1)
		if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
			if end, err := s.parseICSTime(p.Value); err == nil && end.After(start) {
				ev.End = end
			}
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return ev, fmt.Errorf("event %q: bad DTSTART: %w", ev.UID, err)
		}
		ev.Start = start
		ev.End = start
		if end, err := ve.GetEndAt(); err == nil && end.After(start) {
			ev.End = end
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.RRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := s.parseICSTime(part); err == nil {
				ev.ExDates = append(ev.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, err := s.parseICSTime(p.Value); err == nil {
			ev.Recurrence = &t
		}
	}

	return ev, nil
}

// parseICSTime parses the basic DATE and DATE-TIME forms used by EXDATE,
// RECURRENCE-ID and all-day DTSTART values.
func (s *ICSSource) parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, s.loc)
	default:
		return time.ParseInLocation("20060102", v, s.loc)
	}
}

func (s *ICSSource) expand(events []icsEvent, from, to dateutil.Date) Notes {
	rangeStart := from.In(s.loc)
	rangeEnd := to.AddDays(1).In(s.loc).Add(-time.Nanosecond)

	// An overridden instance replaces the matching occurrence of its base
	// event, so the base excludes it.
	overridden := make(map[string][]time.Time)
	for _, ev := range events {
		if ev.Recurrence != nil {
			overridden[ev.UID] = append(overridden[ev.UID], *ev.Recurrence)
		}
	}

	notes := make(Notes)
	for _, ev := range events {
		if ev.RRule == "" || ev.Recurrence != nil {
			if overlaps(ev.Start, ev.End, rangeStart, rangeEnd) {
				s.addOccurrence(notes, ev, ev.Start, ev.End, from, to)
			}
			continue
		}

		rule, err := rrule.StrToRRule(ev.RRule)
		if err != nil {
			s.logger.Warn("Failed to parse RRULE",
				zap.String("uid", ev.UID),
				zap.String("rrule", ev.RRule),
				zap.Error(err))
			continue
		}
		rule.DTStart(ev.Start)

		var set rrule.Set
		set.RRule(rule)
		for _, ex := range ev.ExDates {
			set.ExDate(ex.In(ev.Start.Location()))
		}
		for _, rid := range overridden[ev.UID] {
			set.ExDate(rid.In(ev.Start.Location()))
		}

		// Widen the window by the event length so a multi-day occurrence
		// that began before the range still marks the days it covers.
		dur := ev.End.Sub(ev.Start)
		starts := set.Between(rangeStart.Add(-dur).In(ev.Start.Location()), rangeEnd.In(ev.Start.Location()), true)
		if len(starts) > s.maxOccurrences {
			s.logger.Warn("Truncating recurring event",
				zap.String("uid", ev.UID),
				zap.Int("occurrences", len(starts)),
				zap.Int("cap", s.maxOccurrences))
			starts = starts[:s.maxOccurrences]
		}

		for _, start := range starts {
			end := start.Add(dur)
			if ev.AllDay {
				start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
				end = start.AddDate(0, 0, int(dur.Hours()/24+0.5))
			}
			s.addOccurrence(notes, ev, start, end, from, to)
		}
	}
	return notes
}

// addOccurrence adds notes for one occurrence. All-day events get a note on
// every day they cover; timed events are noted on their start day.
func (s *ICSSource) addOccurrence(notes Notes, ev icsEvent, start, end time.Time, from, to dateutil.Date) {
	if ev.AllDay {
		first := dateutil.Date{Year: start.Year(), Month: start.Month(), Day: start.Day()}
		last := dateutil.Date{Year: end.Year(), Month: end.Month(), Day: end.Day()}.AddDays(-1)
		for d := first; !d.After(last); d = d.AddDays(1) {
			if inRange(d, from, to) {
				notes.Add(Note{Date: d, Kind: KindEvent, Title: ev.Summary})
			}
		}
		return
	}

	localStart := start.In(s.loc)
	d := dateutil.Of(localStart)
	if !inRange(d, from, to) {
		return
	}

	st := dateutil.TimeOfDayOf(localStart)
	note := Note{Date: d, Kind: KindEvent, Title: ev.Summary, Start: &st}
	if localEnd := end.In(s.loc); end.After(start) && dateutil.Of(localEnd) == d {
		et := dateutil.TimeOfDayOf(localEnd)
		note.End = &et
	}
	notes.Add(note)
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(bStart) {
		return false
	}
	return !bEnd.Before(aStart)
}
