package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrides_Toggle(t *testing.T) {
	current := Calculate(monFri(date(2024, 3, 4), 40, 8), nil)

	t.Run("scheduled day becomes a day off", func(t *testing.T) {
		got := Overrides(nil).Toggle(date(2024, 3, 5), current, 8)
		assert.Equal(t, Override{IsTraining: false, Hours: 8}, got["2024-03-05"])
	})

	t.Run("weekend becomes a training day", func(t *testing.T) {
		got := Overrides(nil).Toggle(date(2024, 3, 9), current, 8)
		assert.Equal(t, Override{IsTraining: true, Hours: 8}, got["2024-03-09"])
	})

	t.Run("existing override flips and keeps hours and memo", func(t *testing.T) {
		o := Overrides{"2024-03-09": {IsTraining: true, Hours: 3, Memo: "특강"}}
		got := o.Toggle(date(2024, 3, 9), current, 8)

		assert.Equal(t, Override{IsTraining: false, Hours: 3, Memo: "특강"}, got["2024-03-09"])
		assert.True(t, o["2024-03-09"].IsTraining, "receiver must not change")
	})

	t.Run("zero override hours fall back to the default", func(t *testing.T) {
		o := Overrides{"2024-03-05": {IsTraining: false, Hours: 0}}
		got := o.Toggle(date(2024, 3, 5), current, 6)
		assert.Equal(t, Override{IsTraining: true, Hours: 6}, got["2024-03-05"])
	})
}

func TestOverrides_SetHours(t *testing.T) {
	o := Overrides{"2024-03-05": {IsTraining: false, Hours: 8, Memo: "보강"}}

	got := o.SetHours(date(2024, 3, 5), 4)

	assert.Equal(t, Override{IsTraining: true, Hours: 4, Memo: "보강"}, got["2024-03-05"])
	assert.False(t, o["2024-03-05"].IsTraining)
}

func TestOverrides_SetMemo(t *testing.T) {
	current := Calculate(monFri(date(2024, 3, 4), 40, 8), nil)

	got := Overrides(nil).SetMemo(date(2024, 3, 6), "현장실습", current, 8)
	assert.Equal(t, Override{IsTraining: true, Hours: 8, Memo: "현장실습"}, got["2024-03-06"])

	got = Overrides(nil).SetMemo(date(2024, 3, 10), "휴무", current, 8)
	assert.Equal(t, Override{IsTraining: false, Hours: 8, Memo: "휴무"}, got["2024-03-10"])

	o := Overrides{"2024-03-06": {IsTraining: false, Hours: 2}}
	got = o.SetMemo(date(2024, 3, 6), "변경", current, 8)
	assert.Equal(t, Override{IsTraining: false, Hours: 2, Memo: "변경"}, got["2024-03-06"])
}

func TestOverrides_MemoDoesNotChangeSchedule(t *testing.T) {
	req := monFri(date(2024, 3, 4), 40, 8)
	before := Calculate(req, nil)

	req.Overrides = req.Overrides.SetMemo(date(2024, 3, 6), "메모", before, req.DefaultDailyHours)
	after := Calculate(req, nil)

	assert.Equal(t, before.ScheduledHours, after.ScheduledHours)
}

func TestOverrides_ClearAndDates(t *testing.T) {
	o := Overrides{
		"2024-03-09": {IsTraining: true, Hours: 4},
		"2024-03-05": {IsTraining: false},
	}

	assert.Equal(t, []string{"2024-03-05", "2024-03-09"}, o.Dates())

	cleared := o.Clear(date(2024, 3, 9))
	assert.Equal(t, []string{"2024-03-05"}, cleared.Dates())
	assert.Len(t, o, 2)

	_, ok := cleared.Lookup(date(2024, 3, 9))
	assert.False(t, ok)
}

func TestOverrides_Validate(t *testing.T) {
	assert.NoError(t, Overrides{}.Validate())
	assert.NoError(t, Overrides{"2024-03-04": {IsTraining: true, Hours: 0}}.Validate())

	err := Overrides{
		"2024-03-09": {IsTraining: true, Hours: -1},
		"2024-03-05": {IsTraining: true, Hours: -3},
	}.Validate()
	assert.ErrorIs(t, err, ErrNegativeHours)
	assert.Contains(t, err.Error(), "2024-03-05")
}
