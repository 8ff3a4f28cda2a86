package viewer

import (
	"fmt"
	"os/exec"
	"runtime"

	"FinCharts/internal/model"

	"go.uber.org/zap"
)

// Launcher opens files with the host OS's default application.
type Launcher struct {
	GOOS   string
	Logger *zap.Logger
	start  func(cmd *exec.Cmd) error
}

// NewLauncher creates a launcher for the running OS.
func NewLauncher(logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{GOOS: runtime.GOOS, Logger: logger, start: startDetached}
}

// Command returns the OS command that opens path.
func Command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform %q", goos)
	}
}

// Open starts the viewer and returns without waiting for it to exit.
func (l *Launcher) Open(path string) error {
	cmd, err := Command(l.GOOS, path)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrViewerLaunch, err)
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrViewerLaunch, cmd.Path, err)
	}
	l.Logger.Debug("viewer started", zap.String("path", path), zap.String("command", cmd.Path))
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Disabled is a no-op viewer used when opening images is turned off.
type Disabled struct{}

func (Disabled) Open(string) error { return nil }
