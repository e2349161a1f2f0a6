package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/academy-tools/internal/calendar"
	"github.com/username/academy-tools/internal/schedule"
	"github.com/username/academy-tools/internal/state"
	"github.com/username/academy-tools/pkg/dateutil"
)

// overrideEdit computes the new overrides from the current ones and schedule
type overrideEdit func(date time.Time, req schedule.Request, current schedule.Result) (schedule.Overrides, error)

func overrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "override",
		Aliases: []string{"ov"},
		Short:   "Edit per-date overrides of the schedule",
	}

	cmd.AddCommand(
		overrideSetCmd(),
		overrideEditCmd("toggle DATE", "Switch a day between training and day off", cobra.ExactArgs(1),
			func(args []string) (overrideEdit, error) {
				return func(date time.Time, req schedule.Request, current schedule.Result) (schedule.Overrides, error) {
					return req.Overrides.Toggle(date, current, req.DefaultDailyHours), nil
				}, nil
			}),
		overrideEditCmd("hours DATE HOURS", "Make a day a training day with custom hours", cobra.ExactArgs(2),
			func(args []string) (overrideEdit, error) {
				hours, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return nil, fmt.Errorf("invalid hours %q", args[1])
				}
				if hours < 0 {
					return nil, fmt.Errorf("%s: %w", args[1], schedule.ErrNegativeHours)
				}
				return func(date time.Time, req schedule.Request, _ schedule.Result) (schedule.Overrides, error) {
					return req.Overrides.SetHours(date, hours), nil
				}, nil
			}),
		overrideEditCmd("memo DATE TEXT", "Attach a memo to a day", cobra.ExactArgs(2),
			func(args []string) (overrideEdit, error) {
				return func(date time.Time, req schedule.Request, current schedule.Result) (schedule.Overrides, error) {
					return req.Overrides.SetMemo(date, args[1], current, req.DefaultDailyHours), nil
				}, nil
			}),
		overrideEditCmd("clear DATE", "Remove the override of a day", cobra.ExactArgs(1),
			func(args []string) (overrideEdit, error) {
				return func(date time.Time, req schedule.Request, _ schedule.Result) (schedule.Overrides, error) {
					if _, ok := req.Overrides.Lookup(date); !ok {
						return nil, fmt.Errorf("no override on %s", dateutil.FormatDate(date))
					}
					return req.Overrides.Clear(date), nil
				}, nil
			}),
		overrideListCmd(),
	)

	return cmd
}

func overrideSetCmd() *cobra.Command {
	var off bool
	var hours float64
	var memo string

	cmd := &cobra.Command{
		Use:   "set DATE",
		Short: "Set an override explicitly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hours < 0 {
				return fmt.Errorf("--hours: %w", schedule.ErrNegativeHours)
			}
			return runOverrideEdit(cmd, args[0], func(date time.Time, req schedule.Request, _ schedule.Result) (schedule.Overrides, error) {
				h := hours
				if !cmd.Flags().Changed("hours") {
					h = req.DefaultDailyHours
				}
				return req.Overrides.Set(date, schedule.Override{IsTraining: !off, Hours: h, Memo: memo}), nil
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Mark the day as a day off")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Training hours (default: daily hours)")
	cmd.Flags().StringVar(&memo, "memo", "", "Memo")

	return cmd
}

func overrideEditCmd(use, short string, args cobra.PositionalArgs, build func(args []string) (overrideEdit, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			edit, err := build(args)
			if err != nil {
				return err
			}
			return runOverrideEdit(cmd, args[0], edit)
		},
	}
}

func runOverrideEdit(cmd *cobra.Command, dateArg string, edit overrideEdit) error {
	date, err := dateutil.ParseDate(dateArg)
	if err != nil {
		return err
	}

	isHoliday, _, err := holidayOracle()
	if err != nil {
		return err
	}

	var updated schedule.Override
	_, err = openStore().Update(func(st *state.State) error {
		req, err := storedRequest(st)
		if err != nil {
			return err
		}

		current := schedule.Calculate(req, isHoliday)
		overrides, err := edit(date, req, current)
		if err != nil {
			return err
		}

		st.Calculator.Overrides = overrides
		updated, _ = overrides.Lookup(date)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Override updated",
		zap.String("date", dateutil.FormatDate(date)),
		zap.Bool("is_training", updated.IsTraining),
		zap.Float64("hours", updated.Hours))

	printOverride(cmd, date, updated, isHoliday)
	return nil
}

func overrideListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore().Load()
			if err != nil {
				return err
			}

			isHoliday, _, err := holidayOracle()
			if err != nil {
				return err
			}

			overrides := st.Calculator.Overrides
			if len(overrides) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No overrides")
				return nil
			}
			for _, key := range overrides.Dates() {
				date, err := dateutil.ParseDate(key)
				if err != nil {
					return err
				}
				printOverride(cmd, date, overrides[key], isHoliday)
			}
			return nil
		},
	}
}

func printOverride(cmd *cobra.Command, date time.Time, ov schedule.Override, isHoliday calendar.HolidayFunc) {
	status := "휴무"
	if ov.IsTraining {
		status = fmt.Sprintf("훈련 %s시간", strconv.FormatFloat(ov.Hours, 'f', -1, 64))
	}

	line := fmt.Sprintf("%s (%s) %s", dateutil.FormatDate(date), dateutil.KoreanWeekday(date), status)
	if name, ok := isHoliday(date); ok {
		line += " [" + name + "]"
	}
	if ov.Memo != "" {
		line += " (" + ov.Memo + ")"
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}
