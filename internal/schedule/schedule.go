// Package schedule computes training schedules: which calendar days carry
// instructional hours, and how many, until an hour budget is used up.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/academy-tools/internal/calendar"
	"github.com/username/academy-tools/pkg/dateutil"
)

// MaxDays bounds the simulation to three years from the start date
const MaxDays = 365 * 3

// WeekPattern marks training weekdays, indexed by time.Weekday (0=Sunday)
type WeekPattern [7]bool

// Override is a manual per-date exception that wins over pattern and holidays
type Override struct {
	IsTraining bool    `json:"isTraining" yaml:"isTraining"`
	Hours      float64 `json:"hours" yaml:"hours"`
	Memo       string  `json:"memo,omitempty" yaml:"memo,omitempty"`
}

// Request holds the inputs of a single calculation
type Request struct {
	StartDate         time.Time // zero means "not set"
	TotalHours        float64
	DefaultDailyHours float64
	WeekPatternA      WeekPattern
	WeekPatternB      *WeekPattern // nil: no alternating week
	Overrides         Overrides
}

// Result is the computed schedule
type Result struct {
	TrainingDates   []time.Time
	EndDate         *time.Time
	TotalDays       int
	ScheduledHours  map[string]float64 // YYYY-MM-DD -> credited hours
	BudgetSatisfied bool
}

// Empty returns the result of a calculation that had nothing to schedule
func Empty() Result {
	return Result{
		TrainingDates:  []time.Time{},
		ScheduledHours: map[string]float64{},
	}
}

// Calculate walks forward from the start date one calendar day at a time and
// credits hours to training days until the budget is spent or MaxDays
// days have been visited. Invalid input yields Empty().
func Calculate(req Request, isHoliday calendar.HolidayFunc) Result {
	if req.StartDate.IsZero() || req.TotalHours <= 0 || req.DefaultDailyHours <= 0 {
		return Empty()
	}
	if isHoliday == nil {
		isHoliday = calendar.NoHolidays
	}

	start := normalize(req.StartDate)
	current := start
	remaining := decimal.NewFromFloat(req.TotalHours)
	result := Empty()

	for daysVisited := 0; remaining.IsPositive() && daysVisited < MaxDays; daysVisited++ {
		dateKey := dateutil.FormatDate(current)

		training, dailyHours := resolveDay(req, start, current, dateKey, isHoliday)

		if training {
			hours := decimal.Min(remaining, decimal.NewFromFloat(dailyHours))

			result.ScheduledHours[dateKey] = hours.InexactFloat64()
			result.TrainingDates = append(result.TrainingDates, current)
			remaining = remaining.Sub(hours)
		}

		if remaining.IsPositive() {
			current = current.AddDate(0, 0, 1)
		}
	}

	result.TotalDays = len(result.TrainingDates)
	if result.TotalDays > 0 {
		end := result.TrainingDates[result.TotalDays-1]
		result.EndDate = &end
	}
	result.BudgetSatisfied = !remaining.IsPositive()

	return result
}

// resolveDay decides whether the day is a training day and its nominal hours
func resolveDay(req Request, start, current time.Time, dateKey string, isHoliday calendar.HolidayFunc) (bool, float64) {
	if override, ok := req.Overrides[dateKey]; ok {
		return override.IsTraining, override.Hours
	}

	pattern := ActivePattern(req, start, current)
	if !pattern[current.Weekday()] {
		return false, 0
	}

	if _, holiday := isHoliday(current); holiday {
		return false, 0
	}

	return true, req.DefaultDailyHours
}

// ActivePattern returns the week pattern in effect on date. With an
// alternating pattern, odd Monday-anchored weeks counted from the start
// date's week use pattern B.
func ActivePattern(req Request, start, date time.Time) WeekPattern {
	if req.WeekPatternB == nil {
		return req.WeekPatternA
	}

	if dateutil.CalendarWeeksBetween(start, date)%2 != 0 {
		return *req.WeekPatternB
	}
	return req.WeekPatternA
}

// Contains reports whether date is a scheduled training day
func (r Result) Contains(date time.Time) bool {
	_, ok := r.ScheduledHours[dateutil.FormatDate(date)]
	return ok
}

// HoursOn returns the hours credited on date
func (r Result) HoursOn(date time.Time) (float64, bool) {
	hours, ok := r.ScheduledHours[dateutil.FormatDate(date)]
	return hours, ok
}

// TotalScheduledHours sums the credited hours
func (r Result) TotalScheduledHours() float64 {
	total := decimal.Zero
	for _, h := range r.ScheduledHours {
		total = total.Add(decimal.NewFromFloat(h))
	}
	return total.InexactFloat64()
}

func normalize(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}
