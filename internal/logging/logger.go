package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// logFile is the file handle for the log file
	logFile *os.File
)

// DefaultPath returns ~/.moviecards/logs/moviecards-<date>.log
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	logFileName := fmt.Sprintf("moviecards-%s.log", time.Now().Format("2006-01-02"))
	return filepath.Join(homeDir, ".moviecards", "logs", logFileName), nil
}

// Init initializes the logging system. An empty path selects DefaultPath.
// The terminal UI owns stdout, so everything goes to the file.
func Init(path string) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	// Create logger that writes to file
	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
		Prefix:          "moviecards",
	})

	Logger.Info("Movie cards started", "log", path)
	return nil
}

// Close closes the log file
func Close() {
	if Logger != nil {
		Logger.Info("Movie cards shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Printf logs a formatted warning. It lets the package stand in wherever a
// Printf-style logger is expected.
type Printf struct{}

// Printf implements the Printf-style logger interface
func (Printf) Printf(format string, v ...any) {
	if Logger != nil {
		Logger.Warnf(format, v...)
	}
}
