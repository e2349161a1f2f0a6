package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/username/academy-tools/pkg/dateutil"
)

// Overrides maps YYYY-MM-DD to the manual exception for that date.
// Editing methods never modify the receiver; they return an updated copy.
type Overrides map[string]Override

var ErrNegativeHours = errors.New("override hours must not be negative")

// Validate reports the first date, in date order, whose override carries
// negative hours
func (o Overrides) Validate() error {
	for _, key := range o.Dates() {
		if o[key].Hours < 0 {
			return fmt.Errorf("%s: %w", key, ErrNegativeHours)
		}
	}
	return nil
}

// Lookup returns the override for date, if any
func (o Overrides) Lookup(date time.Time) (Override, bool) {
	ov, ok := o[dateutil.FormatDate(date)]
	return ov, ok
}

// Set stores ov for date
func (o Overrides) Set(date time.Time, ov Override) Overrides {
	next := o.clone()
	next[dateutil.FormatDate(date)] = ov
	return next
}

// Clear drops the override for date, restoring pattern and holiday rules
func (o Overrides) Clear(date time.Time) Overrides {
	next := o.clone()
	delete(next, dateutil.FormatDate(date))
	return next
}

// Toggle flips the training status of date. The current status comes from
// the existing override, or from the current schedule when there is none.
// Non-zero override hours are kept, otherwise defaultHours is used.
func (o Overrides) Toggle(date time.Time, current Result, defaultHours float64) Overrides {
	existing, ok := o.Lookup(date)

	training := current.Contains(date)
	if ok {
		training = existing.IsTraining
	}

	hours := defaultHours
	if ok && existing.Hours != 0 {
		hours = existing.Hours
	}

	return o.Set(date, Override{
		IsTraining: !training,
		Hours:      hours,
		Memo:       existing.Memo,
	})
}

// SetHours makes date a training day with the given hours, keeping its memo
func (o Overrides) SetHours(date time.Time, hours float64) Overrides {
	existing, _ := o.Lookup(date)

	return o.Set(date, Override{
		IsTraining: true,
		Hours:      hours,
		Memo:       existing.Memo,
	})
}

// SetMemo attaches a memo to date without changing whether it is a
// training day: an existing override keeps its status and hours, a new one
// mirrors the current schedule.
func (o Overrides) SetMemo(date time.Time, memo string, current Result, defaultHours float64) Overrides {
	existing, ok := o.Lookup(date)
	if !ok {
		existing = Override{
			IsTraining: current.Contains(date),
			Hours:      defaultHours,
		}
	}
	existing.Memo = memo

	return o.Set(date, existing)
}

// Dates returns the overridden dates in chronological order
func (o Overrides) Dates() []string {
	dates := make([]string, 0, len(o))
	for d := range o {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (o Overrides) clone() Overrides {
	next := make(Overrides, len(o)+1)
	for k, v := range o {
		next[k] = v
	}
	return next
}
