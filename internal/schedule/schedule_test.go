package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func keys(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func holidaysOn(days ...string) func(time.Time) (string, bool) {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return func(t time.Time) (string, bool) {
		if set[t.Format("2006-01-02")] {
			return "holiday", true
		}
		return "", false
	}
}

func monFri(start time.Time, total, daily float64) Request {
	return Request{
		StartDate:         start,
		TotalHours:        total,
		DefaultDailyHours: daily,
		WeekPatternA:      patternMonFri,
	}
}

func TestCalculate_FullDays(t *testing.T) {
	result := Calculate(monFri(date(2024, 3, 4), 16, 8), nil)

	assert.Equal(t, []string{"2024-03-04", "2024-03-05"}, keys(result.TrainingDates))
	require.NotNil(t, result.EndDate)
	assert.Equal(t, date(2024, 3, 5), *result.EndDate)
	assert.Equal(t, 2, result.TotalDays)
	assert.True(t, result.BudgetSatisfied)
}

func TestCalculate_PartialLastDay(t *testing.T) {
	result := Calculate(monFri(date(2024, 3, 4), 12, 8), nil)

	assert.Equal(t, map[string]float64{"2024-03-04": 8, "2024-03-05": 4}, result.ScheduledHours)
	assert.Equal(t, 12.0, result.TotalScheduledHours())
}

func TestCalculate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"no start date", monFri(time.Time{}, 16, 8)},
		{"zero total", monFri(date(2024, 3, 4), 0, 8)},
		{"negative total", monFri(date(2024, 3, 4), -5, 8)},
		{"zero daily", monFri(date(2024, 3, 4), 16, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Calculate(tt.req, nil)

			assert.Empty(t, result.TrainingDates)
			assert.Nil(t, result.EndDate)
			assert.Zero(t, result.TotalDays)
			assert.Empty(t, result.ScheduledHours)
		})
	}
}

func TestCalculate_HolidaySuppressesPatternDay(t *testing.T) {
	result := Calculate(monFri(date(2024, 3, 4), 16, 8), holidaysOn("2024-03-05"))

	assert.Equal(t, []string{"2024-03-04", "2024-03-06"}, keys(result.TrainingDates))
}

func TestCalculate_OverrideBeatsHoliday(t *testing.T) {
	req := monFri(date(2024, 3, 4), 16, 8)
	req.Overrides = Overrides{"2024-03-05": {IsTraining: true, Hours: 8}}

	result := Calculate(req, holidaysOn("2024-03-05"))

	assert.Equal(t, []string{"2024-03-04", "2024-03-05"}, keys(result.TrainingDates))
}

func TestCalculate_Overrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		total     float64
		wantDates []string
		wantHours map[string]float64
	}{
		{
			name:      "non-training override skips a pattern day",
			overrides: Overrides{"2024-03-05": {IsTraining: false}},
			total:     16,
			wantDates: []string{"2024-03-04", "2024-03-06"},
			wantHours: map[string]float64{"2024-03-04": 8, "2024-03-06": 8},
		},
		{
			name:      "training override on a weekend with custom hours",
			overrides: Overrides{"2024-03-09": {IsTraining: true, Hours: 4}},
			total:     44,
			wantDates: []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09"},
			wantHours: map[string]float64{
				"2024-03-04": 8, "2024-03-05": 8, "2024-03-06": 8,
				"2024-03-07": 8, "2024-03-08": 8, "2024-03-09": 4,
			},
		},
		{
			name:      "zero-hour training override is listed but consumes nothing",
			overrides: Overrides{"2024-03-04": {IsTraining: true, Hours: 0}},
			total:     16,
			wantDates: []string{"2024-03-04", "2024-03-05", "2024-03-06"},
			wantHours: map[string]float64{"2024-03-04": 0, "2024-03-05": 8, "2024-03-06": 8},
		},
		{
			name:      "override larger than the remaining budget is capped",
			overrides: Overrides{"2024-03-05": {IsTraining: true, Hours: 10}},
			total:     12,
			wantDates: []string{"2024-03-04", "2024-03-05"},
			wantHours: map[string]float64{"2024-03-04": 8, "2024-03-05": 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := monFri(date(2024, 3, 4), tt.total, 8)
			req.Overrides = tt.overrides

			result := Calculate(req, nil)

			assert.Equal(t, tt.wantDates, keys(result.TrainingDates))
			assert.Equal(t, tt.wantHours, result.ScheduledHours)
			assert.True(t, result.BudgetSatisfied)
		})
	}
}

func TestCalculate_AlternatingWeeks(t *testing.T) {
	b := patternMW
	req := Request{
		StartDate:         date(2024, 3, 4),
		TotalHours:        40,
		DefaultDailyHours: 8,
		WeekPatternA:      patternMWF,
		WeekPatternB:      &b,
	}

	result := Calculate(req, nil)

	assert.Equal(t, []string{"2024-03-04", "2024-03-06", "2024-03-08", "2024-03-11", "2024-03-13"}, keys(result.TrainingDates))
}

func TestCalculate_AlternatingWeeksStartOnSunday(t *testing.T) {
	// Sunday belongs to the previous Monday-anchored week, so the following
	// Monday already uses pattern B.
	b := patternTT
	req := Request{
		StartDate:         date(2024, 3, 3),
		TotalHours:        8,
		DefaultDailyHours: 8,
		WeekPatternA:      patternMWF,
		WeekPatternB:      &b,
	}

	result := Calculate(req, nil)

	assert.Equal(t, []string{"2024-03-05"}, keys(result.TrainingDates))
}

func TestCalculate_Horizon(t *testing.T) {
	req := Request{
		StartDate:         date(2024, 3, 4),
		TotalHours:        10000,
		DefaultDailyHours: 8,
		WeekPatternA:      patternSat,
	}

	result := Calculate(req, nil)

	assert.Equal(t, 156, result.TotalDays)
	assert.False(t, result.BudgetSatisfied)
	require.NotNil(t, result.EndDate)
	assert.Equal(t, date(2027, 2, 27), *result.EndDate)
}

func TestCalculate_EmptyPattern(t *testing.T) {
	req := Request{StartDate: date(2024, 3, 4), TotalHours: 8, DefaultDailyHours: 8}

	result := Calculate(req, nil)

	assert.Empty(t, result.TrainingDates)
	assert.Nil(t, result.EndDate)
	assert.False(t, result.BudgetSatisfied)
}

func TestCalculate_FractionalHours(t *testing.T) {
	result := Calculate(monFri(date(2024, 3, 4), 10, 3.3), nil)

	assert.Equal(t, map[string]float64{
		"2024-03-04": 3.3, "2024-03-05": 3.3, "2024-03-06": 3.3, "2024-03-07": 0.1,
	}, result.ScheduledHours)
	assert.Equal(t, 10.0, result.TotalScheduledHours())
}

func TestCalculate_StartTimeIgnored(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	result := Calculate(monFri(time.Date(2024, 3, 4, 23, 30, 0, 0, loc), 8, 8), nil)

	assert.Equal(t, []string{"2024-03-04"}, keys(result.TrainingDates))
}

func TestCalculate_Idempotent(t *testing.T) {
	req := monFri(date(2024, 3, 4), 100, 6)
	req.Overrides = Overrides{"2024-03-06": {IsTraining: false}}

	assert.Equal(t, Calculate(req, holidaysOn("2024-03-11")), Calculate(req, holidaysOn("2024-03-11")))
}

func TestCalculate_Properties(t *testing.T) {
	req := monFri(date(2024, 1, 1), 333, 7)
	result := Calculate(req, holidaysOn("2024-02-09", "2024-02-12", "2024-03-01"))

	for i := 1; i < len(result.TrainingDates); i++ {
		assert.True(t, result.TrainingDates[i].After(result.TrainingDates[i-1]), "dates must be strictly increasing")
	}
	assert.Len(t, result.ScheduledHours, result.TotalDays)
	assert.InDelta(t, 333, result.TotalScheduledHours(), 1e-9)
	for _, h := range result.ScheduledHours {
		assert.LessOrEqual(t, h, 7.0)
	}
	assert.False(t, result.Contains(date(2024, 2, 9)))
}

func TestActivePattern(t *testing.T) {
	b := patternTT
	req := Request{WeekPatternA: patternMWF, WeekPatternB: &b}
	start := date(2024, 3, 6) // Wednesday

	assert.Equal(t, patternMWF, ActivePattern(req, start, date(2024, 3, 10)))
	assert.Equal(t, patternTT, ActivePattern(req, start, date(2024, 3, 11)))
	assert.Equal(t, patternMWF, ActivePattern(req, start, date(2024, 3, 18)))

	req.WeekPatternB = nil
	assert.Equal(t, patternMWF, ActivePattern(req, start, date(2024, 3, 11)))
}
