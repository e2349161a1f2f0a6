package calendar

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileCalendar implements Calendar using a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	data     map[int][]Holiday // key: year
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[int][]Holiday),
	}
}

// Load loads holiday data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	data := make(map[int][]Holiday)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD name
		// Example: 2025-06-03 대통령선거일
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		name := strings.TrimSpace(parts[1])
		substitute := strings.HasPrefix(name, "대체")

		data[date.Year()] = append(data[date.Year()], Holiday{
			Date:       date,
			Name:       name,
			Substitute: substitute,
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	for year := range data {
		holidays := data[year]
		sort.SliceStable(holidays, func(i, j int) bool {
			return holidays[i].Date.Before(holidays[j].Date)
		})
	}
	fc.data = data

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("years", len(fc.data)))

	return nil
}

// HolidayName returns the holiday name for the given date, if any
func (fc *FileCalendar) HolidayName(date time.Time) (string, bool, error) {
	holidays, err := fc.Holidays(date.Year())
	if err != nil {
		return "", false, err
	}

	h, ok := findHoliday(holidays, date)
	return h.Name, ok, nil
}

// Holidays returns all holidays of the year, sorted by date
func (fc *FileCalendar) Holidays(year int) ([]Holiday, error) {
	holidays, ok := fc.data[year]
	if !ok {
		return nil, fmt.Errorf("year not found in calendar file: %d", year)
	}

	return holidays, nil
}
