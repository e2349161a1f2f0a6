package calendar

import (
	"time"

	"go.uber.org/zap"
)

// Holiday represents a single public holiday
type Holiday struct {
	Date       time.Time
	Name       string
	Substitute bool // substitute holiday granted for another one
}

// Calendar interface for looking up public holidays
type Calendar interface {
	// HolidayName returns the holiday name for the given date, if any
	HolidayName(date time.Time) (string, bool, error)

	// Holidays returns all holidays of the year, sorted by date
	Holidays(year int) ([]Holiday, error)
}

// HolidayFunc is a total holiday lookup: it never fails.
type HolidayFunc func(date time.Time) (string, bool)

// NoHolidays is a HolidayFunc that knows no holidays
func NoHolidays(time.Time) (string, bool) {
	return "", false
}

// Oracle adapts a Calendar into a HolidayFunc.
// Provider errors are logged and the date is treated as a regular day.
func Oracle(cal Calendar, logger *zap.Logger) HolidayFunc {
	return func(date time.Time) (string, bool) {
		name, ok, err := cal.HolidayName(date)
		if err != nil {
			logger.Warn("Holiday lookup failed, treating date as regular day",
				zap.String("date", date.Format("2006-01-02")),
				zap.Error(err))
			return "", false
		}
		return name, ok
	}
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func findHoliday(holidays []Holiday, date time.Time) (Holiday, bool) {
	key := dateKey(date)
	for _, h := range holidays {
		if dateKey(h.Date) == key {
			return h, true
		}
	}
	return Holiday{}, false
}
