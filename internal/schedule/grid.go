package schedule

import (
	"time"

	"github.com/username/academy-tools/internal/calendar"
	"github.com/username/academy-tools/pkg/dateutil"
)

// DayCell is one day of a month grid
type DayCell struct {
	Date        time.Time
	Training    bool
	Hours       float64
	Start       bool
	End         bool
	Weekend     bool
	Holiday     bool
	HolidayName string
	Overridden  bool
	Memo        string
}

// MonthGrid lays out a month Sunday-first. Leading is the number of blank
// cells before the first day.
type MonthGrid struct {
	Year    int
	Month   time.Month
	Leading int
	Days    []DayCell
}

// Weeks splits the grid into rows of seven cells; blanks are nil
func (g MonthGrid) Weeks() [][]*DayCell {
	cells := make([]*DayCell, g.Leading, g.Leading+len(g.Days)+6)
	for i := range g.Days {
		cells = append(cells, &g.Days[i])
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}

	weeks := make([][]*DayCell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// Months builds count consecutive month grids starting at the month of
// start, marking the days of result, holidays and overrides.
func Months(start time.Time, count int, result Result, overrides Overrides, isHoliday calendar.HolidayFunc) []MonthGrid {
	if isHoliday == nil {
		isHoliday = calendar.NoHolidays
	}

	first := dateutil.StartOfMonth(normalize(start))
	grids := make([]MonthGrid, 0, count)

	for m := 0; m < count; m++ {
		monthStart := first.AddDate(0, m, 0)
		n := dateutil.DaysInMonth(monthStart)

		grid := MonthGrid{
			Year:    monthStart.Year(),
			Month:   monthStart.Month(),
			Leading: int(monthStart.Weekday()),
			Days:    make([]DayCell, 0, n),
		}

		for d := 0; d < n; d++ {
			date := monthStart.AddDate(0, 0, d)
			cell := DayCell{
				Date:    date,
				Weekend: dateutil.IsWeekend(date),
				Start:   len(result.TrainingDates) > 0 && dateutil.IsSameDay(date, result.TrainingDates[0]),
				End:     result.EndDate != nil && dateutil.IsSameDay(date, *result.EndDate),
			}

			cell.Hours, cell.Training = result.HoursOn(date)
			cell.HolidayName, cell.Holiday = isHoliday(date)
			if ov, ok := overrides.Lookup(date); ok {
				cell.Overridden = true
				cell.Memo = ov.Memo
			}

			grid.Days = append(grid.Days, cell)
		}

		grids = append(grids, grid)
	}

	return grids
}
