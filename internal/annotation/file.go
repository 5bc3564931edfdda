package annotation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/username/calview/pkg/dateutil"
)

// FileSource implements Source using a local text file
type FileSource struct {
	filePath string
	logger   *zap.Logger

	mu     sync.RWMutex
	loaded bool
	data   Notes
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
		data:     make(Notes),
	}
}

// Name returns the source name
func (fs *FileSource) Name() string {
	return "file:" + fs.filePath
}

// Load (re)reads the notes file
func (fs *FileSource) Load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open notes file: %w", err)
	}
	defer file.Close()

	data, err := fs.parse(file)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	fs.data = data
	fs.loaded = true
	fs.mu.Unlock()

	fs.logger.Info("Notes file loaded",
		zap.String("file", fs.filePath),
		zap.Int("days", len(data)),
		zap.Int("notes", data.Count()))

	return nil
}

// Notes returns the notes dated from..to. The file is loaded on first use.
func (fs *FileSource) Notes(ctx context.Context, from, to dateutil.Date) (Notes, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	loaded := fs.loaded
	fs.mu.RUnlock()
	if !loaded {
		if err := fs.Load(); err != nil {
			return nil, err
		}
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := make(Notes)
	for d, notes := range fs.data {
		if inRange(d, from, to) {
			out[d] = append([]Note(nil), notes...)
		}
	}
	return out, nil
}

// parse reads lines of the form
//
//	YYYY-MM-DD kind [HH:MM[-HH:MM]] [title]
//
// Blank lines and lines starting with # are ignored. Malformed lines are
// logged and skipped.
func (fs *FileSource) parse(r io.Reader) (Notes, error) {
	data := make(Notes)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		note, err := ParseLine(line)
		if err != nil {
			fs.logger.Warn("Invalid notes line",
				zap.Int("line", lineNo),
				zap.String("text", line),
				zap.Error(err))
			continue
		}
		data.Add(note)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading notes file: %w", err)
	}

	data.Sort()
	return data, nil
}

// ParseLine parses a single notes line
func ParseLine(line string) (Note, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Note{}, fmt.Errorf("want date and kind: %w", dateutil.ErrInvalidInput)
	}

	date, err := dateutil.Parse(fields[0])
	if err != nil {
		return Note{}, err
	}
	kind, err := ParseKind(fields[1])
	if err != nil {
		return Note{}, err
	}

	note := Note{Date: date, Kind: kind}
	rest := fields[2:]

	if len(rest) > 0 && looksLikeTime(rest[0]) {
		start, end, err := parseTimeRange(rest[0])
		if err != nil {
			return Note{}, err
		}
		note.Start, note.End = start, end
		rest = rest[1:]
	}

	note.Title = strings.Join(rest, " ")
	return note, nil
}

func looksLikeTime(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9' && strings.Contains(s, ":")
}

func parseTimeRange(s string) (*dateutil.TimeOfDay, *dateutil.TimeOfDay, error) {
	startStr, endStr, hasEnd := strings.Cut(s, "-")

	start, err := dateutil.ParseTimeOfDay(startStr)
	if err != nil {
		return nil, nil, err
	}
	if !hasEnd {
		return &start, nil, nil
	}

	end, err := dateutil.ParseTimeOfDay(endStr)
	if err != nil {
		return nil, nil, err
	}
	if end.Before(start) {
		return nil, nil, fmt.Errorf("time range %s ends before it starts: %w", s, dateutil.ErrInvalidInput)
	}
	return &start, &end, nil
}
