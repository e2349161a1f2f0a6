package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t          *testing.T
	dir        string
	configPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`calendar:
  type: builtin
state:
  file: %s
log:
  level: error
`, filepath.Join(dir, "state.json"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	return &cli{t: t, dir: dir, configPath: configPath}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.configPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func TestCalculate_Text(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("calculate", "--start", "2024-03-04", "--total", "12", "--daily", "8", "--preset", "mon-fri")

	assert.Contains(t, out, "[훈련 일정표]\n개강일: 2024-03-04\n종강일: 2024-03-05\n총 훈련시간: 12시간\n")
	assert.Contains(t, out, "1일차: 2024-03-04 (월) (8시간)\n2일차: 2024-03-05 (화) (4시간)\n")
}

func TestCalculate_SkipsBuiltinHolidays(t *testing.T) {
	c := newCLI(t)

	// 2024-02-09..12 are the Seollal holidays and their substitute
	out := c.mustRun("calculate", "--start", "2024-02-08", "--total", "16", "--daily", "8", "--preset", "mon-fri")

	assert.Contains(t, out, "2일차: 2024-02-13 (화) (8시간)")
}

func TestCalculate_SaveAndJSON(t *testing.T) {
	c := newCLI(t)

	c.mustRun("calculate", "--start", "2024-03-04", "--total", "40", "--daily", "8", "--preset", "mwf-mw", "--save")
	out := c.mustRun("calculate", "--format", "json")

	var doc struct {
		StartDate       string `json:"startDate"`
		EndDate         string `json:"endDate"`
		TotalDays       int    `json:"totalDays"`
		BudgetSatisfied bool   `json:"budgetSatisfied"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2024-03-04", doc.StartDate)
	assert.Equal(t, "2024-03-13", doc.EndDate)
	assert.Equal(t, 5, doc.TotalDays)
	assert.True(t, doc.BudgetSatisfied)
}

func TestCalculate_YAMLAndExport(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("calculate", "--start", "2024-03-04", "--total", "16", "--format", "yaml", "--export", c.dir)

	assert.Regexp(t, `endDate: "?2024-03-05"?`, out)
	exported, err := os.ReadFile(filepath.Join(c.dir, "훈련일정_2024-03-04_to_2024-03-05.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(exported), "2일차: 2024-03-05 (화) (8시간)")
}

type failingCloser struct {
	bytes.Buffer
}

func (failingCloser) Close() error { return errors.New("disk full") }

func TestCalculate_ExportReportsCloseError(t *testing.T) {
	c := newCLI(t)

	orig := createExportFile
	createExportFile = func(string) (io.WriteCloser, error) { return &failingCloser{}, nil }
	t.Cleanup(func() { createExportFile = orig })

	_, err := c.run("calculate", "--start", "2024-03-04", "--total", "16", "--export", filepath.Join(c.dir, "out.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCalculate_InvalidFlags(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("calculate", "--start", "someday")
	assert.Error(t, err)
	_, err = c.run("calculate", "--preset", "daily")
	assert.Error(t, err)
	_, err = c.run("calculate", "--pattern-a", "mon,funday")
	assert.Error(t, err)
	_, err = c.run("calculate", "--format", "xml", "--start", "2024-03-04")
	assert.Error(t, err)
}

func TestCalculate_NoStartDate(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("calculate")
	assert.Contains(t, out, "No training days scheduled")
}

func TestOverride_Flow(t *testing.T) {
	c := newCLI(t)
	c.mustRun("calculate", "--start", "2024-03-04", "--total", "12", "--daily", "8", "--preset", "mon-fri", "--save")

	_, err := c.run("override", "hours", "--", "2024-03-05", "-2")
	assert.Error(t, err)

	out := c.mustRun("override", "hours", "2024-03-05", "2")
	assert.Contains(t, out, "2024-03-05 (화) 훈련 2시간")

	out = c.mustRun("calculate")
	assert.Contains(t, out, "3일차: 2024-03-06 (수) (2시간)")

	out = c.mustRun("override", "memo", "2024-03-05", "보강")
	assert.Contains(t, out, "(보강)")

	out = c.mustRun("override", "toggle", "2024-03-01")
	assert.Contains(t, out, "2024-03-01 (금) 훈련 8시간 [3·1절]")

	out = c.mustRun("override", "list")
	assert.Equal(t, "2024-03-01 (금) 훈련 8시간 [3·1절]\n2024-03-05 (화) 훈련 2시간 (보강)\n", out)

	c.mustRun("override", "clear", "2024-03-01")
	_, err = c.run("override", "clear", "2024-03-01")
	assert.Error(t, err)

	out = c.mustRun("override", "set", "2024-03-04", "--off")
	assert.Contains(t, out, "2024-03-04 (월) 휴무")

	out = c.mustRun("calculate")
	assert.Contains(t, out, "1일차: 2024-03-05 (화) (2시간) (보강)")
}

func TestCalendar_Render(t *testing.T) {
	c := newCLI(t)
	c.mustRun("calculate", "--start", "2024-03-04", "--total", "16", "--save")

	out := c.mustRun("calendar", "--months", "1")

	assert.Contains(t, out, "2024년 3월\n")
	assert.Contains(t, out, "( 1)")
	assert.Contains(t, out, "[ 4]>")
	assert.Contains(t, out, "[ 5]<")
	assert.Contains(t, out, "1일 3·1절")

	_, err := c.run("calendar", "--months", "0")
	assert.Error(t, err)
}

func TestHolidays(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("holidays", "--year", "2024")

	assert.Contains(t, out, "2024-02-09 (금) 설날 연휴\n")
	assert.Contains(t, out, "2024-05-06 (월) 대체공휴일(어린이날)\n")
}

func TestPresets(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("presets")
	assert.Contains(t, out, "mwf-mw")
	assert.Contains(t, out, "A: 월수금, B: 월수")
}

func TestNotes_Flow(t *testing.T) {
	c := newCLI(t)
	idPattern := regexp.MustCompile(`[0-9a-f-]{36}`)

	out := c.mustRun("notes", "folder", "add", "수업 준비")
	folderID := idPattern.FindString(out)
	require.NotEmpty(t, folderID)

	out = c.mustRun("notes", "add", "--folder", folderID, "--title", "3월 계획", "--content", "<p>오리엔테이션</p>")
	noteID := idPattern.FindString(out)
	require.NotEmpty(t, noteID)

	out = c.mustRun("notes", "list", "--folder", folderID)
	assert.Contains(t, out, "3월 계획 - 오리엔테이션")

	out = c.mustRun("notes", "folder", "list")
	assert.Contains(t, out, "나의 메모 (1)")
	assert.Contains(t, out, "수업 준비 (1)")

	c.mustRun("notes", "edit", noteID, "--title", "4월 계획")
	out = c.mustRun("notes", "show", noteID)
	assert.Contains(t, out, "4월 계획")

	_, err := c.run("notes", "folder", "rm", "default")
	assert.Error(t, err)

	c.mustRun("notes", "folder", "rm", folderID)
	_, err = c.run("notes", "show", noteID)
	assert.Error(t, err)
}

func TestPages_Flow(t *testing.T) {
	c := newCLI(t)
	idPattern := regexp.MustCompile(`[0-9a-f-]{36}`)

	out := c.mustRun("pages", "add", "handout.pdf", "--count", "3")
	ids := idPattern.FindAllString(out, -1)
	require.Len(t, ids, 3)

	c.mustRun("pages", "move", ids[2], ids[0])
	c.mustRun("pages", "rotate", ids[1])
	c.mustRun("pages", "select", ids[0])
	out = c.mustRun("pages", "select", ids[2], "--multi")
	assert.Contains(t, out, "2 pages selected")

	out = c.mustRun("pages", "list")
	assert.Contains(t, out, "*  1. "+ids[2]+"  handout.pdf p.3  0°")
	assert.Contains(t, out, "*  2. "+ids[0]+"  handout.pdf p.1  0°")
	assert.Contains(t, out, "   3. "+ids[1]+"  handout.pdf p.2  90°")

	out = c.mustRun("pages", "rm", "--selected")
	assert.Contains(t, out, "Removed 2 pages")

	_, err := c.run("pages", "rm")
	assert.Error(t, err)
	_, err = c.run("pages", "rotate", ids[0])
	assert.Error(t, err)

	c.mustRun("pages", "clear")
	out = c.mustRun("pages", "list")
	assert.Equal(t, "No pages\n", out)
}
