//go:build windows

package daemon

import (
	"sync"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
)

// TrayApp represents system tray application
type TrayApp struct {
	daemon   *Daemon
	logger   *zap.Logger
	quit     chan struct{}
	stopOnce sync.Once
}

// NewTrayApp creates a new system tray application
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		daemon: daemon,
		logger: logger,
		quit:   make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetIcon(calendarIcon())
	systray.SetTitle("AT")
	systray.SetTooltip("Academy Tools: training schedule")

	mRecalc := systray.AddMenuItem("Recalculate", "Recalculate the schedule now")
	systray.AddSeparator()
	mStatus := systray.AddMenuItem("Schedule", "Show the current schedule")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	// Start watching in background
	go func() {
		if err := t.daemon.runWithSignals(); err != nil {
			t.logger.Error("Watch loop failed", zap.Error(err))
			t.Stop()
		}
	}()

	go func() {
		for {
			select {
			case <-mRecalc.ClickedCh:
				t.logger.Info("Recalculate clicked from tray")
				go t.daemon.RecalculateNow()
			case <-mStatus.ClickedCh:
				t.logger.Info("Schedule clicked from tray")
				t.showStatus()
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	t.stopOnce.Do(func() { close(t.quit) })
}

// Update refreshes the tooltip with a new summary
func (t *TrayApp) Update(summary Summary) {
	systray.SetTooltip(summary.String())
}

// ShowNotification shows a notification (Windows only)
func (t *TrayApp) ShowNotification(title, message string) {
	// fyne.io/systray has no balloon notifications
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
}

func (t *TrayApp) showStatus() {
	summary, err := t.daemon.Status()

	message := summary.String()
	if err != nil {
		message += "\n\n마지막 계산 실패: " + err.Error()
	}

	showMessageBox("훈련 일정", message)
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONINFORMATION),
	)
}
