// Package render prints calendar views as plain text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/calview/internal/annotation"
	"github.com/username/calview/internal/calendar"
	"github.com/username/calview/pkg/dateutil"
)

const (
	rule       = "═══════════════════════════════════════════════════════"
	weekColumn = 10
	hourColumn = 8
)

// Renderer writes views to w
type Renderer struct {
	w       io.Writer
	labeler *calendar.Labeler
	err     error
}

// New creates a renderer using labeler for every display string
func New(w io.Writer, labeler *calendar.Labeler) *Renderer {
	return &Renderer{w: w, labeler: labeler}
}

func (r *Renderer) printf(format string, a ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, a...)
}

func (r *Renderer) println(a ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintln(r.w, a...)
}

// flush returns and clears the first write error
func (r *Renderer) flush() error {
	err := r.err
	r.err = nil
	return err
}

// Month prints the month grid. Days outside the month are bracketed, today
// is marked with * and days carrying notes with +. stats may be nil.
func (r *Renderer) Month(v calendar.MonthView, notes annotation.Notes, stats *annotation.MonthStats) error {
	r.printf("📅 %s\n", v.Title)
	r.println(rule)

	for _, h := range v.Headers {
		r.printf(" %-4s ", h)
	}
	r.println()

	for _, row := range v.Grid.Rows {
		for _, cell := range row {
			r.printf("%s", monthCell(cell, v.Nav.Today, notes))
		}
		r.println()
	}

	var listed []annotation.Note
	for _, cell := range v.Grid.Cells() {
		if cell.InFocusedMonth {
			listed = append(listed, notes.On(cell.Date)...)
		}
	}
	if len(listed) > 0 {
		r.println("\nNotes:")
		for _, n := range listed {
			r.printf("  %-7s %s\n", r.shortDate(n.Date), r.noteText(n))
		}
	}

	if stats != nil {
		r.printf("\n  Working days: %d (%dh), holidays: %d, weekends: %d\n",
			stats.WorkDays, stats.WorkingHours, stats.Holidays, stats.Weekends)
	}

	prev, next := "", ""
	if v.Prev != nil {
		prev, _ = r.labeler.MonthYearLabel(v.Prev.Year, v.Prev.Month)
	}
	if v.Next != nil {
		next, _ = r.labeler.MonthYearLabel(v.Next.Year, v.Next.Month)
	}
	r.navLine(prev, next)

	return r.flush()
}

func monthCell(cell calendar.DayCell, today dateutil.Date, notes annotation.Notes) string {
	todayMark, noteMark := ' ', ' '
	if cell.IsToday(today) {
		todayMark = '*'
	}
	if notes.Has(cell.Date) {
		noteMark = '+'
	}
	if cell.InFocusedMonth {
		return fmt.Sprintf("%c %2d %c", todayMark, cell.Date.Day, noteMark)
	}
	return fmt.Sprintf("%c[%2d]%c", todayMark, cell.Date.Day, noteMark)
}

// Week prints the week as a table: an all-day row, then one row per hour
// slot. now marks the current hour when today is in the week.
func (r *Renderer) Week(v calendar.WeekView, notes annotation.Notes, now dateutil.TimeOfDay) error {
	r.printf("📅 Week %d, %d: %s\n", v.Week.Week, v.Week.Year, v.Title)
	r.println(rule)

	r.printf("%-*s", hourColumn, "")
	todayInWeek := false
	for i, d := range v.Dates {
		head := fmt.Sprintf("%s %d", v.Headers[i], d.Day)
		if d == v.Nav.Today {
			head += "*"
			todayInWeek = true
		}
		r.printf("%-*s", weekColumn, head)
	}
	r.println()

	r.printf("%-*s", hourColumn, "all day")
	for _, d := range v.Dates {
		r.printf("%-*s", weekColumn, cellText(untimed(notes.On(d))))
	}
	r.println()

	for _, slot := range v.Hours {
		mark := " "
		if todayInWeek && slot.Hour == now.Hour {
			mark = ">"
		}
		r.printf("%s%-*s", mark, hourColumn-1, slot.Label)
		for _, d := range v.Dates {
			r.printf("%-*s", weekColumn, cellText(inSlot(notes.On(d), slot.Hour, v.Hours)))
		}
		r.println()
	}

	prev, next := "", ""
	if v.Prev != nil {
		prev = fmt.Sprintf("Week %d, %d", v.Prev.Week, v.Prev.Year)
	}
	if v.Next != nil {
		next = fmt.Sprintf("Week %d, %d", v.Next.Week, v.Next.Year)
	}
	r.navLine(prev, next)

	return r.flush()
}

// Day prints the agenda of one day. now marks the current hour when the day
// is today. status is the production calendar status of the day, nil when
// unknown.
func (r *Renderer) Day(v calendar.DayView, notes annotation.Notes, status *annotation.DayStatus, now dateutil.TimeOfDay) error {
	title := v.Title
	if v.IsToday {
		title += " (today)"
	}
	r.printf("📅 %s\n", title)
	r.println(rule)
	if status != nil {
		r.printf("  %s\n", *status)
	}

	dayNotes := notes.On(v.Date)
	for _, n := range untimed(dayNotes) {
		r.printf("  all day │ %s\n", r.noteText(n))
	}

	for _, slot := range v.Hours {
		mark := " "
		if v.IsToday && slot.Hour == now.Hour {
			mark = ">"
		}
		slotNotes := inSlot(dayNotes, slot.Hour, v.Hours)
		if len(slotNotes) == 0 {
			r.printf("%s %7s │\n", mark, slot.Label)
			continue
		}
		for i, n := range slotNotes {
			label := slot.Label
			if i > 0 {
				label = ""
			}
			r.printf("%s %7s │ %s\n", mark, label, r.noteText(n))
		}
	}

	prev, next := "", ""
	if v.Prev != nil {
		prev, _ = r.labeler.FormatDateLong(*v.Prev)
	}
	if v.Next != nil {
		next, _ = r.labeler.FormatDateLong(*v.Next)
	}
	r.navLine(prev, next)

	return r.flush()
}

// IsoWeek prints the ISO week of d and the dates of its display week
func (r *Renderer) IsoWeek(d dateutil.Date, ref calendar.IsoWeekRef, dates [7]dateutil.Date) error {
	label, err := r.labeler.FormatWeekLabel(dates)
	if err != nil {
		return err
	}
	r.printf("%s is in ISO week %d of %d (%d weeks)\n", d, ref.Week, ref.Year, calendar.IsoWeeksInYear(ref.Year))
	r.printf("  %s\n", label)
	r.printf("  %04d-W%02d-%d\n", ref.Year, ref.Week, d.ISOWeekday())
	return r.flush()
}

func (r *Renderer) navLine(prev, next string) {
	if prev == "" && next == "" {
		return
	}
	r.println()
	if prev != "" {
		r.printf("← %s", prev)
	}
	if prev != "" && next != "" {
		r.printf("  |  ")
	}
	if next != "" {
		r.printf("%s →", next)
	}
	r.println()
}

func (r *Renderer) shortDate(d dateutil.Date) string {
	abbrev, _ := r.labeler.MonthAbbrev(d.Month)
	return fmt.Sprintf("%s %d", abbrev, d.Day)
}

func (r *Renderer) noteText(n annotation.Note) string {
	var b strings.Builder
	if span := r.labeler.FormatTimeRange(n.Start, n.End); span != "" {
		b.WriteString(span)
		b.WriteString(" ")
	}
	title := n.Title
	if title == "" {
		title = string(n.Kind)
	} else if n.Kind != annotation.KindEvent {
		title += " (" + string(n.Kind) + ")"
	}
	b.WriteString(title)
	return b.String()
}

func untimed(notes []annotation.Note) []annotation.Note {
	var out []annotation.Note
	for _, n := range notes {
		if !n.Timed() {
			out = append(out, n)
		}
	}
	return out
}

// inSlot returns the timed notes starting in hour. Notes before the first
// slot are shown in it, notes after the last slot in the last one.
func inSlot(notes []annotation.Note, hour int, slots []calendar.HourSlot) []annotation.Note {
	first, last := slots[0].Hour, slots[len(slots)-1].Hour
	var out []annotation.Note
	for _, n := range notes {
		if !n.Timed() {
			continue
		}
		h := n.Start.Hour
		if h < first {
			h = first
		}
		if h > last {
			h = last
		}
		if h == hour {
			out = append(out, n)
		}
	}
	return out
}

// cellText fits the first note title into a week column, noting how many
// more there are.
func cellText(notes []annotation.Note) string {
	if len(notes) == 0 {
		return ""
	}
	title := notes[0].Title
	if title == "" {
		title = string(notes[0].Kind)
	}
	if len(notes) > 1 {
		title = fmt.Sprintf("%s+%d", truncate(title, weekColumn-4), len(notes)-1)
	}
	return truncate(title, weekColumn-1)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
