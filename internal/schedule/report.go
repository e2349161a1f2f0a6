package schedule

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/username/academy-tools/pkg/dateutil"
)

// ErrEmptySchedule is returned when there is no end date to report
var ErrEmptySchedule = errors.New("schedule has no training days")

// Entry is one training day of a report
type Entry struct {
	Day     int     `json:"day" yaml:"day"`
	Date    string  `json:"date" yaml:"date"`
	Weekday string  `json:"weekday" yaml:"weekday"`
	Hours   float64 `json:"hours" yaml:"hours"`
	Memo    string  `json:"memo,omitempty" yaml:"memo,omitempty"`
}

// Document is the serializable form of a calculated schedule
type Document struct {
	StartDate       string              `json:"startDate" yaml:"startDate"`
	EndDate         string              `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	TotalHours      float64             `json:"totalHours" yaml:"totalHours"`
	ScheduledHours  float64             `json:"scheduledHours" yaml:"scheduledHours"`
	TotalDays       int                 `json:"totalDays" yaml:"totalDays"`
	BudgetSatisfied bool                `json:"budgetSatisfied" yaml:"budgetSatisfied"`
	Entries         []Entry             `json:"entries" yaml:"entries"`
	Overrides       map[string]Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Entries lists the training days in order with their credited hours and memos
func Entries(result Result, overrides Overrides) []Entry {
	entries := make([]Entry, 0, len(result.TrainingDates))
	for i, date := range result.TrainingDates {
		hours, _ := result.HoursOn(date)
		ov, _ := overrides.Lookup(date)

		entries = append(entries, Entry{
			Day:     i + 1,
			Date:    dateutil.FormatDate(date),
			Weekday: dateutil.KoreanWeekday(date),
			Hours:   hours,
			Memo:    ov.Memo,
		})
	}
	return entries
}

// NewDocument builds the serializable form of result for req
func NewDocument(req Request, result Result) Document {
	doc := Document{
		TotalHours:      req.TotalHours,
		ScheduledHours:  result.TotalScheduledHours(),
		TotalDays:       result.TotalDays,
		BudgetSatisfied: result.BudgetSatisfied,
		Entries:         Entries(result, req.Overrides),
		Overrides:       req.Overrides,
	}
	if !req.StartDate.IsZero() {
		doc.StartDate = dateutil.FormatDate(req.StartDate)
	}
	if result.EndDate != nil {
		doc.EndDate = dateutil.FormatDate(*result.EndDate)
	}
	return doc
}

// WriteText writes the plain-text schedule report. Nothing is written and
// ErrEmptySchedule is returned when the result has no end date.
func WriteText(w io.Writer, req Request, result Result) error {
	if result.EndDate == nil {
		return ErrEmptySchedule
	}

	bw := &errWriter{w: w}
	bw.printf("[훈련 일정표]\n")
	bw.printf("개강일: %s\n", dateutil.FormatDate(req.StartDate))
	bw.printf("종강일: %s\n", dateutil.FormatDate(*result.EndDate))
	bw.printf("총 훈련시간: %s시간\n", formatHours(req.TotalHours))
	bw.printf("\n[상세 일정]\n")

	for _, e := range Entries(result, req.Overrides) {
		bw.printf("%d일차: %s (%s) (%s시간)", e.Day, e.Date, e.Weekday, formatHours(e.Hours))
		if e.Memo != "" {
			bw.printf(" (%s)", e.Memo)
		}
		bw.printf("\n")
	}

	if bw.err != nil {
		return fmt.Errorf("failed to write report: %w", bw.err)
	}
	return nil
}

// ExportFileName returns the conventional report file name
func ExportFileName(start, end time.Time) string {
	return fmt.Sprintf("훈련일정_%s_to_%s.txt", dateutil.FormatDate(start), dateutil.FormatDate(end))
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
