// Package state persists calculator inputs, the notepad and the page
// collection in a single JSON document.
package state

import (
	"fmt"
	"time"

	"github.com/username/academy-tools/internal/schedule"
	"github.com/username/academy-tools/pkg/dateutil"
)

// CurrentVersion is the document format written by Save
const CurrentVersion = 1

// State is the persisted document
type State struct {
	Version    int        `json:"version"`
	Calculator Calculator `json:"calculator"`
	Notepad    Notepad    `json:"notepad"`
	Pages      Pages      `json:"pages"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Calculator holds the inputs of the schedule calculator
type Calculator struct {
	StartDate         string                `json:"startDate,omitempty"`
	TotalHours        float64               `json:"totalHours"`
	DefaultDailyHours float64               `json:"defaultDailyHours"`
	Preset            string                `json:"preset,omitempty"`
	WeekPatternA      schedule.WeekPattern  `json:"weekPatternA"`
	WeekPatternB      *schedule.WeekPattern `json:"weekPatternB,omitempty"`
	Overrides         schedule.Overrides    `json:"overrides,omitempty"`
}

// Default returns a fresh document
func Default() *State {
	return &State{
		Version:    CurrentVersion,
		Calculator: Calculator{Overrides: schedule.Overrides{}},
		Notepad:    NewNotepad(),
	}
}

// Request converts the stored inputs into a calculation request.
// An empty start date yields a request with a zero StartDate.
func (c Calculator) Request() (schedule.Request, error) {
	req := schedule.Request{
		TotalHours:        c.TotalHours,
		DefaultDailyHours: c.DefaultDailyHours,
		WeekPatternA:      c.WeekPatternA,
		WeekPatternB:      c.WeekPatternB,
		Overrides:         c.Overrides,
	}

	if err := c.Overrides.Validate(); err != nil {
		return schedule.Request{}, fmt.Errorf("invalid override: %w", err)
	}

	if c.StartDate != "" {
		start, err := dateutil.ParseDate(c.StartDate)
		if err != nil {
			return schedule.Request{}, fmt.Errorf("invalid start date: %w", err)
		}
		req.StartDate = start
	}

	return req, nil
}

// Defaults supplies calculator inputs the stored document leaves unset
type Defaults struct {
	TotalHours float64
	DailyHours float64
	Preset     string
}

// ResolveRequest converts the stored inputs like Request and fills unset
// hours and an unset week pattern from def. A stored preset name takes
// precedence over def.Preset.
func (c Calculator) ResolveRequest(def Defaults) (schedule.Request, error) {
	req, err := c.Request()
	if err != nil {
		return schedule.Request{}, err
	}

	if req.TotalHours <= 0 {
		req.TotalHours = def.TotalHours
	}
	if req.DefaultDailyHours <= 0 {
		req.DefaultDailyHours = def.DailyHours
	}
	if req.WeekPatternA.IsEmpty() && req.WeekPatternB == nil {
		name := c.Preset
		if name == "" {
			name = def.Preset
		}
		if name != "" {
			preset, ok := schedule.LookupPreset(name)
			if !ok {
				return schedule.Request{}, fmt.Errorf("unknown preset %q", name)
			}
			req.WeekPatternA, req.WeekPatternB = preset.A, preset.B
		}
	}

	return req, nil
}

// SetRequest stores req as the calculator inputs
func (c *Calculator) SetRequest(req schedule.Request) {
	c.StartDate = ""
	if !req.StartDate.IsZero() {
		c.StartDate = dateutil.FormatDate(req.StartDate)
	}
	c.TotalHours = req.TotalHours
	c.DefaultDailyHours = req.DefaultDailyHours
	c.WeekPatternA = req.WeekPatternA
	c.WeekPatternB = req.WeekPatternB
	c.Overrides = req.Overrides
}
