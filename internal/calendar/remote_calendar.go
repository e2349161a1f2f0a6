package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIURL      = "https://date.nager.at"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
	defaultFailureTTL  = 5 * time.Minute
	defaultRetries     = 3
)

// RemoteCalendar implements Calendar using the Nager.Date public holiday API
type RemoteCalendar struct {
	apiURL     string
	country    string
	cacheTTL   time.Duration
	failureTTL time.Duration
	retryDelay time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	cache      map[int]*cachedYear
	cacheMu    sync.RWMutex
}

// cachedYear is a fetched year, or a failed fetch when err is set
type cachedYear struct {
	data      []Holiday
	err       error
	fetchedAt time.Time
}

// publicHoliday represents a single entry of the API response
type publicHoliday struct {
	Date        string   `json:"date"` // YYYY-MM-DD
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}

// NewRemoteCalendar creates a new RemoteCalendar instance
func NewRemoteCalendar(apiURL, country string, cacheTTL time.Duration, logger *zap.Logger) *RemoteCalendar {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &RemoteCalendar{
		apiURL:     strings.TrimRight(apiURL, "/"),
		country:    strings.ToUpper(country),
		cacheTTL:   cacheTTL,
		failureTTL: defaultFailureTTL,
		retryDelay: time.Second,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger,
		cache:  make(map[int]*cachedYear),
	}
}

// HolidayName returns the holiday name for the given date, if any
func (rc *RemoteCalendar) HolidayName(date time.Time) (string, bool, error) {
	holidays, err := rc.Holidays(date.Year())
	if err != nil {
		return "", false, err
	}

	h, ok := findHoliday(holidays, date)
	return h.Name, ok, nil
}

// Holidays returns all holidays of the year, sorted by date.
// A failed fetch is remembered for failureTTL and its error returned
// without contacting the API again.
func (rc *RemoteCalendar) Holidays(year int) ([]Holiday, error) {
	rc.cacheMu.RLock()
	if cached, ok := rc.cache[year]; ok {
		if cached.err != nil && time.Since(cached.fetchedAt) < rc.failureTTL {
			rc.cacheMu.RUnlock()
			return nil, cached.err
		}
		if cached.err == nil && time.Since(cached.fetchedAt) < rc.cacheTTL {
			rc.cacheMu.RUnlock()
			return cached.data, nil
		}
	}
	rc.cacheMu.RUnlock()

	holidays, err := rc.fetchYear(year)
	if err != nil {
		rc.cacheMu.Lock()
		rc.cache[year] = &cachedYear{
			err:       err,
			fetchedAt: time.Now(),
		}
		rc.cacheMu.Unlock()

		rc.logger.Warn("Holiday fetch failed, not retrying until failure TTL expires",
			zap.Int("year", year),
			zap.Duration("failure_ttl", rc.failureTTL),
			zap.Error(err))
		return nil, err
	}

	rc.cacheMu.Lock()
	rc.cache[year] = &cachedYear{
		data:      holidays,
		fetchedAt: time.Now(),
	}
	rc.cacheMu.Unlock()

	rc.logger.Info("Holidays fetched and cached",
		zap.Int("year", year),
		zap.String("country", rc.country),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

// fetchYear fetches a year of holidays, retrying transient failures
func (rc *RemoteCalendar) fetchYear(year int) ([]Holiday, error) {
	// Build URL: https://date.nager.at/api/v3/PublicHolidays/{year}/{country}
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", rc.apiURL, year, rc.country)

	var lastErr error
	for attempt := 1; attempt <= defaultRetries; attempt++ {
		holidays, err := rc.fetchOnce(url)
		if err == nil {
			return holidays, nil
		}

		lastErr = err
		rc.logger.Warn("Holiday request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", defaultRetries),
			zap.Error(err))

		if attempt < defaultRetries {
			time.Sleep(rc.retryDelay * time.Duration(attempt))
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", defaultRetries, lastErr)
}

func (rc *RemoteCalendar) fetchOnce(url string) ([]Holiday, error) {
	rc.logger.Debug("Fetching holidays", zap.String("url", url))

	resp, err := rc.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holiday data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var entries []publicHoliday
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return rc.convert(entries), nil
}

// convert keeps nationwide public holidays and drops regional or observance entries
func (rc *RemoteCalendar) convert(entries []publicHoliday) []Holiday {
	holidays := make([]Holiday, 0, len(entries))

	for _, e := range entries {
		if !e.Global || !hasType(e.Types, "Public") {
			continue
		}

		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			rc.logger.Warn("Failed to parse date",
				zap.String("date", e.Date),
				zap.Error(err))
			continue
		}

		name := e.LocalName
		if name == "" {
			name = e.Name
		}

		holidays = append(holidays, Holiday{
			Date:       date,
			Name:       name,
			Substitute: strings.Contains(strings.ToLower(e.Name), "substitute"),
		})
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays
}

// ClearCache clears the cache
func (rc *RemoteCalendar) ClearCache() {
	rc.cacheMu.Lock()
	defer rc.cacheMu.Unlock()

	rc.cache = make(map[int]*cachedYear)
	rc.logger.Info("Holiday cache cleared")
}

func hasType(types []string, want string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
