// Package debug provides the development log enabled by --debug.
//
// The terminal belongs to the TUI while it runs, so diagnostics go to a file
// that can be followed with tail -f.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// FileName is the log file name inside the data directory.
const FileName = "debug.log"

const stamp = "15:04:05.000"

var (
	enabled bool
	logFile *os.File
	mu      sync.Mutex
	logPath string
)

// DefaultPath returns the log location under the XDG data directory.
func DefaultPath(appName string) string {
	return filepath.Join(xdg.DataHome, appName, FileName)
}

// Enable turns on debug logging to the specified file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logFile = f
	logPath = path
	enabled = true

	now := time.Now()
	writeLocked(now, "=== chatdesk debug session %s ===", now.Format(time.RFC3339))
	writeLocked(now, "log file: %s", path)

	return nil
}

// Disable turns off debug logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}

	if logFile != nil {
		_ = logFile.Close() //nolint:errcheck // Nothing useful to do on close failure
		logFile = nil
	}
	enabled = false
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a debug message if logging is enabled.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logFile == nil {
		return
	}
	writeLocked(time.Now(), format, args...)
}

func writeLocked(at time.Time, format string, args ...any) {
	line := fmt.Sprintf("[%s] %s\n", at.Format(stamp), fmt.Sprintf(format, args...))
	_, _ = logFile.WriteString(line) //nolint:errcheck // Best-effort logging
	_ = logFile.Sync()               //nolint:errcheck // Flush for tail -f
}

// LogPath returns the path to the log file.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Event logs an event with component context.
func Event(component, eventType, details string) {
	Log("[%s] %s: %s", component, eventType, details)
}

// Error logs an error with context.
func Error(component string, err error, context string) {
	Log("[%s] ERROR: %s - %v", component, context, err)
}
