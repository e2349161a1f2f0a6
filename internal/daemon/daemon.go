package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/username/academy-tools/internal/calendar"
	"github.com/username/academy-tools/internal/schedule"
	"github.com/username/academy-tools/internal/state"
	"github.com/username/academy-tools/pkg/dateutil"
)

// Summary describes the schedule computed from the persisted inputs
type Summary struct {
	StartDate       string
	EndDate         string
	TotalDays       int
	TotalHours      float64
	ScheduledHours  float64
	BudgetSatisfied bool
	Overrides       int
	CalculatedAt    time.Time
}

// String renders the summary for notifications and the tray tooltip
func (s Summary) String() string {
	if s.EndDate == "" {
		return "No schedule: set a start date, total hours and training days"
	}
	text := fmt.Sprintf("개강일: %s\n종강일: %s\n훈련일수: %d일\n총 훈련시간: %g시간",
		s.StartDate, s.EndDate, s.TotalDays, s.ScheduledHours)
	if !s.BudgetSatisfied {
		text += fmt.Sprintf("\n(목표 %g시간 미달)", s.TotalHours)
	}
	return text
}

// Daemon recalculates the schedule whenever the state file changes
type Daemon struct {
	store      *state.Store
	defaults   state.Defaults
	isHoliday  calendar.HolidayFunc
	debounce   time.Duration
	systemTray bool
	logger     *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	trayApp *TrayApp

	mu          sync.Mutex
	last        Summary
	lastErr     error
	onRecompute func(Summary, error)
}

// NewDaemon creates a watch-mode daemon
func NewDaemon(store *state.Store, defaults state.Defaults, isHoliday calendar.HolidayFunc, debounce time.Duration, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		store:      store,
		defaults:   defaults,
		isHoliday:  isHoliday,
		debounce:   debounce,
		systemTray: systemTray,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// OnRecalculate registers a callback invoked after every recalculation
func (d *Daemon) OnRecalculate(fn func(Summary, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onRecompute = fn
}

// Start runs the daemon until a signal, Stop or the tray's Quit
func (d *Daemon) Start() error {
	// Initialize system tray if enabled (Windows only)
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			return d.runWithSignals()
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	return d.runWithSignals()
}

func (d *Daemon) runWithSignals() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
		case <-d.ctx.Done():
		}
	}()

	return d.Run(d.ctx)
}

// Run watches the state file and recalculates until ctx is done
func (d *Daemon) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// The store replaces the file by rename, so watch the directory
	path, err := filepath.Abs(d.store.Path())
	if err != nil {
		return fmt.Errorf("resolve state file path: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	d.logger.Info("Watching state file",
		zap.String("path", path),
		zap.Duration("debounce", d.debounce))

	d.recalculate("startup")

	timer := time.NewTimer(d.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Daemon stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				d.logger.Debug("State file event", zap.String("op", event.Op.String()))
				timer.Reset(d.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("fsnotify error", zap.Error(err))

		case <-timer.C:
			d.recalculate("state file changed")
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// Recalculate loads the state and computes the schedule
func (d *Daemon) Recalculate() (Summary, error) {
	st, err := d.store.Load()
	if err != nil {
		return Summary{}, err
	}

	req, err := st.Calculator.ResolveRequest(d.defaults)
	if err != nil {
		return Summary{}, err
	}

	result := schedule.Calculate(req, d.isHoliday)

	summary := Summary{
		TotalDays:       result.TotalDays,
		TotalHours:      req.TotalHours,
		ScheduledHours:  result.TotalScheduledHours(),
		BudgetSatisfied: result.BudgetSatisfied,
		Overrides:       len(req.Overrides),
		CalculatedAt:    time.Now(),
	}
	if !req.StartDate.IsZero() {
		summary.StartDate = dateutil.FormatDate(req.StartDate)
	}
	if result.EndDate != nil {
		summary.EndDate = dateutil.FormatDate(*result.EndDate)
	}

	return summary, nil
}

// Status returns the latest summary and the error of the latest attempt
func (d *Daemon) Status() (Summary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.lastErr
}

// RecalculateNow triggers an immediate recalculation (called from tray menu)
func (d *Daemon) RecalculateNow() {
	d.recalculate("manual")
}

func (d *Daemon) recalculate(reason string) {
	summary, err := d.Recalculate()

	d.mu.Lock()
	if err == nil {
		d.last = summary
	}
	d.lastErr = err
	callback := d.onRecompute
	d.mu.Unlock()

	if err != nil {
		d.logger.Error("Recalculation failed", zap.String("reason", reason), zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Recalculation Failed", err.Error())
		}
	} else {
		d.logger.Info("Schedule recalculated",
			zap.String("reason", reason),
			zap.String("start_date", summary.StartDate),
			zap.String("end_date", summary.EndDate),
			zap.Int("total_days", summary.TotalDays),
			zap.Float64("scheduled_hours", summary.ScheduledHours),
			zap.Bool("budget_satisfied", summary.BudgetSatisfied))
		if !summary.BudgetSatisfied && summary.EndDate != "" {
			d.logger.Warn("Hour budget not reached within the scheduling horizon",
				zap.Float64("total_hours", summary.TotalHours),
				zap.Float64("scheduled_hours", summary.ScheduledHours))
		}
		if d.trayApp != nil {
			d.trayApp.Update(summary)
		}
	}

	if callback != nil {
		callback(summary, err)
	}
}
