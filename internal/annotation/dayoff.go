package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/calview/pkg/dateutil"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour

	workdayHours   = 8
	shortenedHours = 7
)

// DayStatus is the working-day status of a date in the production calendar
type DayStatus int

const (
	StatusWorkday DayStatus = iota + 1
	StatusDayOff
	StatusShortened
)

func (s DayStatus) String() string {
	switch s {
	case StatusWorkday:
		return "Working day"
	case StatusDayOff:
		return "Day off"
	case StatusShortened:
		return "Shortened working day"
	}
	return "Unknown"
}

// MonthStats summarises a month of the production calendar
type MonthStats struct {
	Year         int
	Month        time.Month
	WorkDays     int // including shortened days
	Weekends     int
	Holidays     int // days off that fall on Monday-Friday
	WorkingHours int
}

// DayOffSource implements Source using the isdayoff.ru production calendar,
// falling back to xmlcalendar.ru when the API is unavailable. Weekday days
// off become holiday notes, shortened days become shortened notes and
// working weekends become plain notes.
type DayOffSource struct {
	httpClient   *http.Client
	logger       *zap.Logger
	baseURL      string
	fallbackURL  string
	cacheTTL     time.Duration
	now          func() time.Time
	cacheMu      sync.RWMutex
	cache        map[string]*cachedMonth  // "YYYY-MM" → statuses
	fallbackData map[int]*xmlCalendarYear // year → calendar data
}

type cachedMonth struct {
	days      []DayStatus
	fetchedAt time.Time
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year   int                `json:"year"`
	Months []xmlCalendarMonth `json:"months"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// NewDayOffSource creates a new DayOffSource. An empty baseURL selects
// isdayoff.ru; fallbackURL may contain a {year} placeholder.
func NewDayOffSource(baseURL, fallbackURL string, cacheTTL time.Duration, logger *zap.Logger) *DayOffSource {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &DayOffSource{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:       logger,
		baseURL:      strings.TrimRight(baseURL, "/"),
		fallbackURL:  fallbackURL,
		cacheTTL:     cacheTTL,
		now:          time.Now,
		cache:        make(map[string]*cachedMonth),
		fallbackData: make(map[int]*xmlCalendarYear),
	}
}

// Name returns the source name
func (c *DayOffSource) Name() string {
	return "isdayoff"
}

// Notes returns production calendar notes for from..to
func (c *DayOffSource) Notes(ctx context.Context, from, to dateutil.Date) (Notes, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	notes := make(Notes)
	for ym := (dateutil.Date{Year: from.Year, Month: from.Month, Day: 1}); !ym.After(to); ym = ym.AddMonths(1) {
		days, err := c.monthStatuses(ctx, ym.Year, ym.Month)
		if err != nil {
			return nil, err
		}
		for i, status := range days {
			d := dateutil.Date{Year: ym.Year, Month: ym.Month, Day: i + 1}
			if !inRange(d, from, to) {
				continue
			}
			if note, ok := statusNote(d, status); ok {
				notes.Add(note)
			}
		}
	}
	return notes, nil
}

func statusNote(d dateutil.Date, status DayStatus) (Note, bool) {
	weekend := dateutil.IsWeekend(d)
	switch {
	case status == StatusDayOff && !weekend:
		return Note{Date: d, Kind: KindHoliday, Title: "Non-working day"}, true
	case status == StatusShortened:
		return Note{Date: d, Kind: KindShortened, Title: "Shortened day"}, true
	case status == StatusWorkday && weekend:
		return Note{Date: d, Kind: KindNote, Title: "Working day"}, true
	}
	return Note{}, false
}

// Status returns the working-day status of d
func (c *DayOffSource) Status(ctx context.Context, d dateutil.Date) (DayStatus, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("day status: date %v: %w", d, dateutil.ErrInvalidInput)
	}
	days, err := c.monthStatuses(ctx, d.Year, d.Month)
	if err != nil {
		return 0, err
	}
	return days[d.Day-1], nil
}

// MonthStats returns working-day totals for year/month
func (c *DayOffSource) MonthStats(ctx context.Context, year int, month time.Month) (MonthStats, error) {
	days, err := c.monthStatuses(ctx, year, month)
	if err != nil {
		return MonthStats{}, err
	}
	return summarise(year, month, days), nil
}

func summarise(year int, month time.Month, days []DayStatus) MonthStats {
	stats := MonthStats{Year: year, Month: month}
	for i, status := range days {
		d := dateutil.Date{Year: year, Month: month, Day: i + 1}
		switch status {
		case StatusWorkday:
			stats.WorkDays++
			stats.WorkingHours += workdayHours
		case StatusShortened:
			stats.WorkDays++
			stats.WorkingHours += shortenedHours
		case StatusDayOff:
			if dateutil.IsWeekend(d) {
				stats.Weekends++
			} else {
				stats.Holidays++
			}
		}
	}
	return stats
}

// monthStatuses returns one status per day of the month from cache, the
// API or the fallback, in that order. The slice is a copy the caller owns.
func (c *DayOffSource) monthStatuses(ctx context.Context, year int, month time.Month) ([]DayStatus, error) {
	if _, err := dateutil.New(year, month, 1); err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("%04d-%02d", year, int(month))

	c.cacheMu.RLock()
	if cached, ok := c.cache[cacheKey]; ok {
		if c.now().Sub(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached month", zap.String("month", cacheKey))
			return append([]DayStatus(nil), cached.days...), nil
		}
	}
	c.cacheMu.RUnlock()

	days, err := c.fetchMonthFromAPI(ctx, year, month)
	if err != nil {
		c.logger.Warn("Failed to fetch month from API, trying fallback",
			zap.String("month", cacheKey),
			zap.Error(err))

		var fallbackErr error
		days, fallbackErr = c.fetchMonthFromFallback(ctx, year, month)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}

		c.logger.Info("Using fallback data", zap.String("month", cacheKey))
	}

	c.cacheMu.Lock()
	c.cache[cacheKey] = &cachedMonth{
		days:      append([]DayStatus(nil), days...),
		fetchedAt: c.now(),
	}
	c.cacheMu.Unlock()

	return days, nil
}

// fetchMonthFromAPI fetches entire month from isdayoff.ru bulk API
func (c *DayOffSource) fetchMonthFromAPI(ctx context.Context, year int, month time.Month) ([]DayStatus, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1", c.baseURL, year, int(month))

	c.logger.Debug("Fetching month from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	days, err := parseBulkResponse(year, month, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}
	return days, nil
}

func (c *DayOffSource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day
func parseBulkResponse(year int, month time.Month, data string) ([]DayStatus, error) {
	daysInMonth := dateutil.DaysInMonth(year, month)

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	days := make([]DayStatus, 0, daysInMonth)
	for i, code := range data {
		switch code {
		case '0':
			days = append(days, StatusWorkday)
		case '1':
			days = append(days, StatusDayOff)
		case '2':
			days = append(days, StatusShortened)
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}
	return days, nil
}

// fetchMonthFromFallback fetches month from xmlcalendar.ru
func (c *DayOffSource) fetchMonthFromFallback(ctx context.Context, year int, month time.Month) ([]DayStatus, error) {
	if c.fallbackURL == "" {
		return nil, fmt.Errorf("no fallback configured")
	}

	c.cacheMu.RLock()
	yearData, exists := c.fallbackData[year]
	c.cacheMu.RUnlock()

	if !exists {
		var err error
		yearData, err = c.downloadFallbackYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		c.cacheMu.Lock()
		c.fallbackData[year] = yearData
		c.cacheMu.Unlock()
	}

	for _, m := range yearData.Months {
		if m.Month == int(month) {
			return c.parseXMLCalendarMonth(year, month, m.Days), nil
		}
	}
	return nil, fmt.Errorf("month %d not found in fallback data for year %d", month, year)
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (c *DayOffSource) downloadFallbackYear(ctx context.Context, year int) (*xmlCalendarYear, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var yearData xmlCalendarYear
	if err := json.Unmarshal(body, &yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}
	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day off, others = weekends/holidays
func (c *DayOffSource) parseXMLCalendarMonth(year int, month time.Month, spec string) []DayStatus {
	daysInMonth := dateutil.DaysInMonth(year, month)
	days := make([]DayStatus, daysInMonth)
	for i := range days {
		days[i] = StatusWorkday
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		status := StatusDayOff
		dayStr := part
		if strings.HasSuffix(part, "*") {
			status = StatusShortened
			dayStr = strings.TrimSuffix(part, "*")
		} else if strings.HasSuffix(part, "+") {
			dayStr = strings.TrimSuffix(part, "+")
		}

		day, err := strconv.Atoi(dayStr)
		if err != nil || day < 1 || day > daysInMonth {
			c.logger.Warn("Failed to parse day number", zap.String("part", part))
			continue
		}
		days[day-1] = status
	}
	return days
}

// ClearCache clears the cache
func (c *DayOffSource) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[string]*cachedMonth)
	c.fallbackData = make(map[int]*xmlCalendarYear)
	c.logger.Info("Calendar cache cleared")
}
