package calendar

import (
	"sort"
	"sync"
	"time"

	"github.com/username/academy-tools/pkg/dateutil"
	"go.uber.org/zap"
)

// substituteRule describes when a holiday earns a substitute day off
type substituteRule int

const (
	noSubstitute      substituteRule = iota
	weekendSubstitute                // falls on Saturday or Sunday
	overlapSubstitute                // weekend, or shares the date with another holiday
	periodSubstitute                 // multi-day period touching a Sunday or another holiday
)

type holidayEvent struct {
	start time.Time
	end   time.Time
	name  string
	rule  substituteRule
}

// lunarDates holds the solar dates of lunar-calendar holidays, "MM-DD"
type lunarDates struct {
	seollal string
	buddha  string
	chuseok string
}

var lunarTable = map[int]lunarDates{
	2023: {seollal: "01-22", buddha: "05-27", chuseok: "09-29"},
	2024: {seollal: "02-10", buddha: "05-15", chuseok: "09-17"},
	2025: {seollal: "01-29", buddha: "05-05", chuseok: "10-06"},
	2026: {seollal: "02-17", buddha: "05-24", chuseok: "09-25"},
	2027: {seollal: "02-07", buddha: "05-13", chuseok: "09-15"},
	2028: {seollal: "01-26", buddha: "05-02", chuseok: "10-03"},
	2029: {seollal: "02-13", buddha: "05-20", chuseok: "09-22"},
	2030: {seollal: "02-03", buddha: "05-09", chuseok: "09-12"},
}

// BuiltinCalendar implements Calendar with the Korean public-holiday rules
type BuiltinCalendar struct {
	logger  *zap.Logger
	cache   map[int][]Holiday
	cacheMu sync.Mutex
}

// NewBuiltinCalendar creates a new BuiltinCalendar instance
func NewBuiltinCalendar(logger *zap.Logger) *BuiltinCalendar {
	return &BuiltinCalendar{
		logger: logger,
		cache:  make(map[int][]Holiday),
	}
}

// HolidayName returns the holiday name for the given date, if any
func (bc *BuiltinCalendar) HolidayName(date time.Time) (string, bool, error) {
	holidays, err := bc.Holidays(date.Year())
	if err != nil {
		return "", false, err
	}

	h, ok := findHoliday(holidays, date)
	return h.Name, ok, nil
}

// Holidays returns all holidays of the year, sorted by date
func (bc *BuiltinCalendar) Holidays(year int) ([]Holiday, error) {
	bc.cacheMu.Lock()
	defer bc.cacheMu.Unlock()

	if cached, ok := bc.cache[year]; ok {
		return cached, nil
	}

	events := bc.events(year)
	holidays := expandEvents(events)

	bc.cache[year] = holidays
	bc.logger.Debug("Builtin holidays computed",
		zap.Int("year", year),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

func (bc *BuiltinCalendar) events(year int) []holidayEvent {
	day := func(month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	}
	single := func(date time.Time, name string, rule substituteRule) holidayEvent {
		return holidayEvent{start: date, end: date, name: name, rule: rule}
	}

	events := []holidayEvent{
		single(day(time.January, 1), "신정", noSubstitute),
		single(day(time.March, 1), "3·1절", weekendSubstitute),
		single(day(time.May, 5), "어린이날", weekendSubstitute),
		single(day(time.June, 6), "현충일", noSubstitute),
		single(day(time.August, 15), "광복절", weekendSubstitute),
		single(day(time.October, 3), "개천절", weekendSubstitute),
		single(day(time.October, 9), "한글날", weekendSubstitute),
		single(day(time.December, 25), "기독탄신일", weekendSubstitute),
	}

	lunar, ok := lunarTable[year]
	if !ok {
		bc.logger.Debug("No lunar holiday data for year, using solar holidays only",
			zap.Int("year", year))
		return events
	}

	parse := func(mmdd string) time.Time {
		t, _ := time.Parse("01-02", mmdd)
		return day(t.Month(), t.Day())
	}

	seollal := parse(lunar.seollal)
	chuseok := parse(lunar.chuseok)

	events = append(events,
		holidayEvent{start: seollal.AddDate(0, 0, -1), end: seollal.AddDate(0, 0, 1), name: "설날", rule: periodSubstitute},
		single(parse(lunar.buddha), "부처님오신날", overlapSubstitute),
		holidayEvent{start: chuseok.AddDate(0, 0, -1), end: chuseok.AddDate(0, 0, 1), name: "추석", rule: periodSubstitute},
	)

	return events
}

// expandEvents turns holiday events into individual days and appends the
// substitute holidays they earn
func expandEvents(events []holidayEvent) []Holiday {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].start.Before(events[j].start)
	})

	var holidays []Holiday
	taken := make(map[string]int) // date -> number of holidays on it

	for _, ev := range events {
		for d := ev.start; !d.After(ev.end); d = d.AddDate(0, 0, 1) {
			name := ev.name
			if !ev.start.Equal(ev.end) && !d.Equal(ev.start.AddDate(0, 0, 1)) {
				name = ev.name + " 연휴"
			}
			holidays = append(holidays, Holiday{Date: d, Name: name})
			taken[dateKey(d)]++
		}
	}

	for _, ev := range events {
		if !earnsSubstitute(ev, taken) {
			continue
		}

		sub := ev.end.AddDate(0, 0, 1)
		for dateutil.IsWeekend(sub) || taken[dateKey(sub)] > 0 {
			sub = sub.AddDate(0, 0, 1)
		}

		holidays = append(holidays, Holiday{
			Date:       sub,
			Name:       "대체공휴일(" + ev.name + ")",
			Substitute: true,
		})
		taken[dateKey(sub)]++
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays
}

func earnsSubstitute(ev holidayEvent, taken map[string]int) bool {
	switch ev.rule {
	case weekendSubstitute:
		return dateutil.IsWeekend(ev.start)
	case overlapSubstitute:
		return dateutil.IsWeekend(ev.start) || taken[dateKey(ev.start)] > 1
	case periodSubstitute:
		for d := ev.start; !d.After(ev.end); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Sunday || taken[dateKey(d)] > 1 {
				return true
			}
		}
	}
	return false
}
