//go:build windows

package daemon

import (
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"github.com/username/woffu-attendance-bot/internal/attendance"
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
	daemon *Daemon
	logger *zap.Logger
	quit   chan struct{}
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
	systray.SetIcon(getClockIcon())
	systray.SetTitle("Woffu")
	systray.SetTooltip("Woffu attendance bot")

	mCheckIn := systray.AddMenuItem("Check in now", "Check in using today's location")
	mCheckOut := systray.AddMenuItem("Check out now", "Check out immediately")
	systray.AddSeparator()
	mStatus := systray.AddMenuItem("Status", "Show current status")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	// Start daemon logic in background
	go t.daemon.runScheduledLogic()

	// Handle menu item clicks
	go func() {
		for {
			select {
			case <-mCheckIn.ClickedCh:
				t.logger.Info("Check in clicked from tray")
				go t.daemon.RunNow(attendance.ActionScheduledCheckIn)
			case <-mCheckOut.ClickedCh:
				t.logger.Info("Check out clicked from tray")
				go t.daemon.RunNow(attendance.ActionCheckOut)
			case <-mStatus.ClickedCh:
				t.logger.Info("Status clicked from tray")
				go t.showStatus()
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
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
}

// ShowNotification updates the tooltip with the latest run result
func (t *TrayApp) ShowNotification(title, message string) {
	// fyne.io/systray has no balloon notifications
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
	systray.SetTooltip(title + ": " + message)
}

// showStatus shows current sign state
func (t *TrayApp) showStatus() {
	message := t.daemon.StatusMessage()
	t.logger.Info("Current status", zap.String("status", message))
	showMessageBox("Woffu Status", message)
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
