package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/calview/internal/annotation"
	"github.com/username/calview/internal/calendar"
	"github.com/username/calview/internal/config"
	"github.com/username/calview/pkg/dateutil"
)

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		year, month string
		wantYear    int
		wantMonth   time.Month
		wantErr     bool
	}{
		{"2024", "2", 2024, time.February, false},
		{"9999", "12", 9999, time.December, false},
		{"2024", "13", 0, 0, true},
		{"0", "1", 0, 0, true},
		{"twenty", "1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.year+"-"+tt.month, func(t *testing.T) {
			year, month, err := parseYearMonth(tt.year, tt.month)
			if tt.wantErr {
				require.ErrorIs(t, err, dateutil.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantYear, year)
			require.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestParseIsoWeek(t *testing.T) {
	ref, err := parseIsoWeek("2020", "53")
	require.NoError(t, err)
	require.Equal(t, calendar.IsoWeekRef{Year: 2020, Week: 53}, ref)

	_, err = parseIsoWeek("2021", "53")
	require.ErrorIs(t, err, dateutil.ErrInvalidInput)
}

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	notesFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notesFile, []byte("2024-01-01 holiday New Year's Day\n2024-01-15 event 09:00-10:00 Standup\n"), 0o644))

	cfg := config.Default()
	cfg.View.FirstWeekday = "monday"
	cfg.Annotations.File = notesFile
	cfg.State.File = filepath.Join(dir, "state.json")

	a, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	a.out = &buf
	a.now = func() time.Time { return time.Date(2024, 1, 15, 9, 20, 0, 0, time.UTC) }
	return a, &buf
}

func TestApp_ShowViews(t *testing.T) {
	a, buf := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.state.SetMonth(2024, time.January))
	require.NoError(t, a.show(ctx, *a.state.State()))
	require.Contains(t, buf.String(), "📅 January 2024")
	require.Contains(t, buf.String(), "New Year's Day (holiday)")

	buf.Reset()
	st, err := a.state.Next(a.today(), calendar.ViewMonth)
	require.NoError(t, err)
	require.NoError(t, a.show(ctx, st))
	require.Contains(t, buf.String(), "📅 February 2024")

	buf.Reset()
	require.NoError(t, a.state.SetDay(a.today()))
	require.NoError(t, a.show(ctx, *a.state.State()))
	require.Contains(t, buf.String(), "(today)")
	require.Contains(t, buf.String(), ">    9 AM │ 9 AM – 10 AM Standup")

	buf.Reset()
	require.NoError(t, a.state.SetWeek(2024, 3))
	require.NoError(t, a.show(ctx, *a.state.State()))
	require.Contains(t, buf.String(), "📅 Week 3, 2024: Jan 15 – 21, 2024")
}

func TestApp_MissingNotesFile(t *testing.T) {
	a, buf := newTestApp(t)
	require.NoError(t, os.Remove(a.cfg.Annotations.File))

	require.NoError(t, a.state.SetMonth(2024, time.January))
	require.NoError(t, a.show(context.Background(), *a.state.State()), "views render without notes")
	require.NotContains(t, buf.String(), "Notes:")
}

func TestApp_DayShowsProductionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("month") != "1" {
			http.Error(w, "unexpected month", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("1111111100001100000110000011000"))
	}))
	t.Cleanup(srv.Close)

	a, buf := newTestApp(t)
	a.dayOff = annotation.NewDayOffSource(srv.URL, "", time.Hour, zap.NewNop())

	require.NoError(t, a.state.SetDay(a.today()))
	require.NoError(t, a.show(context.Background(), *a.state.State()))
	require.Contains(t, buf.String(), "\n  Working day\n")

	buf.Reset()
	require.NoError(t, a.state.SetDay(dateutil.MustNew(2024, 1, 7)))
	require.NoError(t, a.show(context.Background(), *a.state.State()))
	require.Contains(t, buf.String(), "\n  Day off\n")
}

func TestApp_DayStatusUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	a, buf := newTestApp(t)
	a.dayOff = annotation.NewDayOffSource(srv.URL, "", time.Hour, zap.NewNop())

	require.NoError(t, a.state.SetDay(a.today()))
	require.NoError(t, a.show(context.Background(), *a.state.State()), "the day renders without a status")
	require.Contains(t, buf.String(), "📅 Monday, January 15, 2024 (today)")
	require.NotContains(t, buf.String(), "Working day")
}
