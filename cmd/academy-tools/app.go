package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/username/academy-tools/internal/calendar"
	"github.com/username/academy-tools/internal/config"
	"github.com/username/academy-tools/internal/schedule"
	"github.com/username/academy-tools/internal/state"
)

// initializeCalendar builds the holiday calendar selected in the config
func initializeCalendar(cfg *config.Config) (calendar.Calendar, error) {
	builtin := calendar.NewBuiltinCalendar(logger)

	switch cfg.Calendar.Type {
	case config.CalendarBuiltin, "":
		logger.Debug("Using builtin holiday calendar")
		return builtin, nil

	case config.CalendarFile:
		logger.Info("Using holiday file", zap.String("file", cfg.Calendar.File))
		fileCal := calendar.NewFileCalendar(cfg.Calendar.File, logger)
		if err := fileCal.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		return calendar.NewCompositeCalendar(fileCal, builtin, logger), nil

	case config.CalendarRemote:
		logger.Info("Using remote holiday API",
			zap.String("api_url", cfg.Calendar.APIURL),
			zap.String("country", cfg.Calendar.Country))
		remote := calendar.NewRemoteCalendar(
			cfg.Calendar.APIURL,
			cfg.Calendar.Country,
			cfg.Calendar.GetCacheTTL(),
			logger,
		)
		return calendar.NewCompositeCalendar(remote, builtin, logger), nil

	default:
		return nil, fmt.Errorf("unknown calendar type: %s", cfg.Calendar.Type)
	}
}

func holidayOracle() (calendar.HolidayFunc, calendar.Calendar, error) {
	cal, err := initializeCalendar(cfg)
	if err != nil {
		return nil, nil, err
	}
	return calendar.Oracle(cal, logger), cal, nil
}

func openStore() *state.Store {
	return state.NewStore(cfg.State.File, logger)
}

// calculatorDefaults maps the config's calculator section onto state defaults
func calculatorDefaults() state.Defaults {
	return state.Defaults{
		TotalHours: cfg.Calculator.TotalHours,
		DailyHours: cfg.Calculator.DailyHours,
		Preset:     cfg.Calculator.Preset,
	}
}

// storedRequest returns the persisted calculator inputs, filling unset
// values from the config defaults
func storedRequest(st *state.State) (schedule.Request, error) {
	return st.Calculator.ResolveRequest(calculatorDefaults())
}

// currentSchedule loads the state and computes the schedule it describes
func currentSchedule(store *state.Store, isHoliday calendar.HolidayFunc) (*state.State, schedule.Request, schedule.Result, error) {
	st, err := store.Load()
	if err != nil {
		return nil, schedule.Request{}, schedule.Result{}, err
	}

	req, err := storedRequest(st)
	if err != nil {
		return nil, schedule.Request{}, schedule.Result{}, err
	}

	return st, req, schedule.Calculate(req, isHoliday), nil
}
