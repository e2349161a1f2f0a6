package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/username/academy-tools/internal/schedule"
	"github.com/username/academy-tools/internal/state"
	"github.com/username/academy-tools/pkg/dateutil"
)

type calculateFlags struct {
	start    string
	total    float64
	daily    float64
	preset   string
	patternA string
	patternB string
	format   string
	export   string
	save     bool
}

func calculateCmd() *cobra.Command {
	var f calculateFlags

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the training schedule",
		Long: "Calculate training dates and the end date from the persisted inputs. " +
			"Flags override the persisted inputs for this run; --save stores them.",
		Example: "  academy-tools calculate --start 2024-03-04 --total 600 --daily 8 --preset mwf-mw\n" +
			"  academy-tools calculate --pattern-a 월수금 --format json --save",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openStore()

			st, err := store.Load()
			if err != nil {
				return err
			}

			req, err := storedRequest(st)
			if err != nil {
				return err
			}
			if err := applyCalculateFlags(cmd, &f, &req); err != nil {
				return err
			}

			isHoliday, _, err := holidayOracle()
			if err != nil {
				return err
			}

			result := schedule.Calculate(req, isHoliday)

			logger.Info("Schedule calculated",
				zap.Int("total_days", result.TotalDays),
				zap.Bool("budget_satisfied", result.BudgetSatisfied))

			if f.save {
				if _, err := store.Update(func(s *state.State) error {
					s.Calculator.SetRequest(req)
					if cmd.Flags().Changed("preset") {
						s.Calculator.Preset = f.preset
					}
					return nil
				}); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if err := writeSchedule(out, f.format, req, result); err != nil {
				return err
			}

			if f.export != "" {
				if err := exportSchedule(out, f.export, req, result); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&f.total, "total", 0, "Total training hours")
	cmd.Flags().Float64Var(&f.daily, "daily", 0, "Default hours per training day")
	cmd.Flags().StringVar(&f.preset, "preset", "", "Weekly preset: "+strings.Join(schedule.PresetNames(), ", "))
	cmd.Flags().StringVar(&f.patternA, "pattern-a", "", "Training weekdays, e.g. mon,wed,fri or 월수금")
	cmd.Flags().StringVar(&f.patternB, "pattern-b", "", "Alternating-week weekdays; 'none' disables alternation")
	cmd.Flags().StringVarP(&f.format, "format", "o", "text", "Output format: text, json, yaml")
	cmd.Flags().StringVar(&f.export, "export", "", "Write the text report to a file or directory")
	cmd.Flags().BoolVar(&f.save, "save", false, "Persist the inputs")

	return cmd
}

func applyCalculateFlags(cmd *cobra.Command, f *calculateFlags, req *schedule.Request) error {
	flags := cmd.Flags()

	if flags.Changed("start") {
		start, err := dateutil.ParseDate(f.start)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		req.StartDate = start
	}
	if flags.Changed("total") {
		req.TotalHours = f.total
	}
	if flags.Changed("daily") {
		req.DefaultDailyHours = f.daily
	}

	if flags.Changed("preset") {
		preset, ok := schedule.LookupPreset(f.preset)
		if !ok {
			return fmt.Errorf("unknown preset %q (available: %s)", f.preset, strings.Join(schedule.PresetNames(), ", "))
		}
		req.WeekPatternA, req.WeekPatternB = preset.A, preset.B
	}

	if flags.Changed("pattern-a") {
		p, err := schedule.ParseWeekPattern(f.patternA)
		if err != nil {
			return fmt.Errorf("invalid --pattern-a: %w", err)
		}
		req.WeekPatternA = p
	}

	if flags.Changed("pattern-b") {
		switch strings.ToLower(strings.TrimSpace(f.patternB)) {
		case "", "-", "none":
			req.WeekPatternB = nil
		default:
			p, err := schedule.ParseWeekPattern(f.patternB)
			if err != nil {
				return fmt.Errorf("invalid --pattern-b: %w", err)
			}
			req.WeekPatternB = &p
		}
	}

	return nil
}

func writeSchedule(out io.Writer, format string, req schedule.Request, result schedule.Result) error {
	switch strings.ToLower(format) {
	case "text", "":
		err := schedule.WriteText(out, req, result)
		if errors.Is(err, schedule.ErrEmptySchedule) {
			fmt.Fprintln(out, "No training days scheduled: check the start date, hours and weekly pattern.")
			return nil
		}
		if err != nil {
			return err
		}
		if !result.BudgetSatisfied {
			fmt.Fprintf(out, "\n경고: %d일 이내에 총 훈련시간을 채우지 못했습니다 (%g/%g시간)\n",
				schedule.MaxDays, result.TotalScheduledHours(), req.TotalHours)
		}
		return nil

	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(schedule.NewDocument(req, result))

	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(schedule.NewDocument(req, result)); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown format %q (text, json, yaml)", format)
	}
}

var createExportFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func exportSchedule(out io.Writer, target string, req schedule.Request, result schedule.Result) error {
	if result.EndDate == nil {
		return schedule.ErrEmptySchedule
	}

	path := target
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		path = filepath.Join(target, schedule.ExportFileName(req.StartDate, *result.EndDate))
	}

	file, err := createExportFile(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := schedule.WriteText(file, req, result); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	logger.Info("Schedule exported", zap.String("path", path))
	fmt.Fprintf(out, "Exported to %s\n", path)
	return nil
}
