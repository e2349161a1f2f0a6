package schedule

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteText(t *testing.T) {
	req := monFri(date(2024, 3, 4), 12, 8)
	result := Calculate(req, nil)
	req.Overrides = req.Overrides.SetMemo(date(2024, 3, 5), "오후 수업", result, 8)
	result = Calculate(req, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, req, result))

	want := "[훈련 일정표]\n" +
		"개강일: 2024-03-04\n" +
		"종강일: 2024-03-05\n" +
		"총 훈련시간: 12시간\n" +
		"\n" +
		"[상세 일정]\n" +
		"1일차: 2024-03-04 (월) (8시간)\n" +
		"2일차: 2024-03-05 (화) (4시간) (오후 수업)\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteText_FractionalHours(t *testing.T) {
	req := monFri(date(2024, 3, 4), 7.5, 3.3)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, req, Calculate(req, nil)))

	assert.Contains(t, buf.String(), "총 훈련시간: 7.5시간\n")
	assert.Contains(t, buf.String(), "3일차: 2024-03-06 (수) (0.9시간)\n")
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer

	err := WriteText(&buf, Request{}, Empty())

	assert.ErrorIs(t, err, ErrEmptySchedule)
	assert.Zero(t, buf.Len())
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "훈련일정_2024-03-04_to_2024-03-05.txt", ExportFileName(date(2024, 3, 4), date(2024, 3, 5)))
}

func TestNewDocument(t *testing.T) {
	req := monFri(date(2024, 3, 4), 12, 8)
	doc := NewDocument(req, Calculate(req, nil))

	assert.Equal(t, "2024-03-04", doc.StartDate)
	assert.Equal(t, "2024-03-05", doc.EndDate)
	assert.Equal(t, 12.0, doc.ScheduledHours)
	assert.True(t, doc.BudgetSatisfied)
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, Entry{Day: 2, Date: "2024-03-05", Weekday: "화", Hours: 4}, doc.Entries[1])

	js, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"endDate":"2024-03-05"`)

	ym, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(ym), "budgetSatisfied: true")
}

func TestNewDocument_Empty(t *testing.T) {
	doc := NewDocument(Request{}, Empty())

	assert.Empty(t, doc.StartDate)
	assert.Empty(t, doc.EndDate)
	assert.Empty(t, doc.Entries)
}
