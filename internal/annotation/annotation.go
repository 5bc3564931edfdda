// Package annotation supplies notes (holidays, shortened days, events) that
// views attach to calendar dates.
package annotation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/username/calview/pkg/dateutil"
)

// Kind represents the type of note
type Kind string

const (
	KindHoliday   Kind = "holiday"
	KindShortened Kind = "shortened"
	KindEvent     Kind = "event"
	KindNote      Kind = "note"
)

// ParseKind parses a note kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindHoliday, KindShortened, KindEvent, KindNote:
		return k, nil
	}
	return "", fmt.Errorf("unknown note kind %q: %w", s, dateutil.ErrInvalidInput)
}

// Note is one annotation on a date. Start and End are nil for untimed
// notes; End may be nil when only a start time is known.
type Note struct {
	Date  dateutil.Date
	Kind  Kind
	Title string
	Start *dateutil.TimeOfDay
	End   *dateutil.TimeOfDay
}

// Timed reports whether the note has a start time
func (n Note) Timed() bool {
	return n.Start != nil
}

// Notes groups notes by date
type Notes map[dateutil.Date][]Note

// Add appends note under its date
func (ns Notes) Add(note Note) {
	ns[note.Date] = append(ns[note.Date], note)
}

// On returns the notes for d
func (ns Notes) On(d dateutil.Date) []Note {
	return ns[d]
}

// Has reports whether d has at least one note
func (ns Notes) Has(d dateutil.Date) bool {
	return len(ns[d]) > 0
}

// Merge adds every note of other
func (ns Notes) Merge(other Notes) {
	for d, notes := range other {
		ns[d] = append(ns[d], notes...)
	}
}

// Count returns the total number of notes
func (ns Notes) Count() int {
	n := 0
	for _, notes := range ns {
		n += len(notes)
	}
	return n
}

// Sort orders each day's notes: untimed first, then by start time, then by
// title.
func (ns Notes) Sort() {
	for _, notes := range ns {
		sort.SliceStable(notes, func(i, j int) bool {
			a, b := notes[i], notes[j]
			if a.Timed() != b.Timed() {
				return !a.Timed()
			}
			if a.Timed() && *a.Start != *b.Start {
				return a.Start.Before(*b.Start)
			}
			return a.Title < b.Title
		})
	}
}

// Source provides notes for an inclusive date range
type Source interface {
	// Name identifies the source in logs
	Name() string

	// Notes returns all notes dated from..to inclusive
	Notes(ctx context.Context, from, to dateutil.Date) (Notes, error)
}

func checkRange(from, to dateutil.Date) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("date range %v..%v: %w", from, to, dateutil.ErrInvalidInput)
	}
	if to.Before(from) {
		return fmt.Errorf("date range %v..%v is reversed: %w", from, to, dateutil.ErrInvalidInput)
	}
	return nil
}

func inRange(d, from, to dateutil.Date) bool {
	return !d.Before(from) && !d.After(to)
}
