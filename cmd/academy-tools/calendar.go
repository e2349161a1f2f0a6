package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/username/academy-tools/internal/schedule"
	"github.com/username/academy-tools/pkg/dateutil"
)

func calendarCmd() *cobra.Command {
	var months int
	var from string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the schedule as month calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			if months <= 0 {
				return fmt.Errorf("--months must be positive")
			}

			isHoliday, _, err := holidayOracle()
			if err != nil {
				return err
			}

			_, req, result, err := currentSchedule(openStore(), isHoliday)
			if err != nil {
				return err
			}

			start := req.StartDate
			if from != "" {
				if start, err = dateutil.ParseDate(from); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			if start.IsZero() {
				start = dateutil.TodayUTC()
			}

			out := cmd.OutOrStdout()
			for i, grid := range schedule.Months(start, months, result, req.Overrides, isHoliday) {
				if i > 0 {
					fmt.Fprintln(out)
				}
				renderMonth(out, grid)
			}
			fmt.Fprintln(out, "\n[n] training day   (n) holiday   n* memo   > start   < end")
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 12, "Number of months to show")
	cmd.Flags().StringVar(&from, "from", "", "First month to show (default: start date)")

	return cmd
}

func renderMonth(out io.Writer, grid schedule.MonthGrid) {
	fmt.Fprintf(out, "%d년 %d월\n", grid.Year, int(grid.Month))
	fmt.Fprintln(out, "  일    월    화    수    목    금    토")

	for _, week := range grid.Weeks() {
		var line strings.Builder
		for _, cell := range week {
			line.WriteString(formatCell(cell))
		}
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))

		var names []string
		for _, cell := range week {
			if cell != nil && cell.Holiday {
				names = append(names, fmt.Sprintf("%d일 %s", cell.Date.Day(), cell.HolidayName))
			}
			if cell != nil && cell.Memo != "" {
				names = append(names, fmt.Sprintf("%d일 메모: %s", cell.Date.Day(), cell.Memo))
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(out, "      %s\n", strings.Join(names, ", "))
		}
	}
}

func formatCell(cell *schedule.DayCell) string {
	if cell == nil {
		return "      "
	}

	left, right := " ", " "
	switch {
	case cell.Training:
		left, right = "[", "]"
	case cell.Holiday:
		left, right = "(", ")"
	}

	mark := " "
	switch {
	case cell.Start:
		mark = ">"
	case cell.End:
		mark = "<"
	case cell.Memo != "":
		mark = "*"
	}

	return fmt.Sprintf("%s%2d%s%s ", left, cell.Date.Day(), right, mark)
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = dateutil.TodayUTC().Year()
			}

			_, cal, err := holidayOracle()
			if err != nil {
				return err
			}

			holidays, err := cal.Holidays(year)
			if err != nil {
				return fmt.Errorf("failed to get holidays for %d: %w", year, err)
			}

			out := cmd.OutOrStdout()
			for _, h := range holidays {
				fmt.Fprintf(out, "%s (%s) %s\n", dateutil.FormatDate(h.Date), dateutil.KoreanWeekday(h.Date), h.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current year)")

	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List weekly pattern presets",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range schedule.PresetNames() {
				p, _ := schedule.LookupPreset(name)
				if p.B != nil {
					fmt.Fprintf(out, "%-8s %s (A: %s, B: %s)\n", p.Name, p.Label, p.A, *p.B)
				} else {
					fmt.Fprintf(out, "%-8s %s\n", p.Name, p.Label)
				}
			}
		},
	}
}
