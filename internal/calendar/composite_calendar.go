package calendar

import (
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar implements Calendar with fallback strategy
// Primary: RemoteCalendar (API)
// Fallback: BuiltinCalendar or FileCalendar
type CompositeCalendar struct {
	primary  Calendar
	fallback Calendar
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Calendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// HolidayName returns the holiday name for the given date, if any
func (cc *CompositeCalendar) HolidayName(date time.Time) (string, bool, error) {
	name, ok, err := cc.primary.HolidayName(date)
	if err == nil {
		return name, ok, nil
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.String("date", dateKey(date)),
		zap.Error(err))

	return cc.fallback.HolidayName(date)
}

// Holidays returns all holidays of the year, sorted by date
func (cc *CompositeCalendar) Holidays(year int) ([]Holiday, error) {
	holidays, err := cc.primary.Holidays(year)
	if err == nil {
		return holidays, nil
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.Int("year", year),
		zap.Error(err))

	return cc.fallback.Holidays(year)
}
