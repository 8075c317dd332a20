// Package debuglog is newsdeck's file logger. The TUI owns the
// terminal, so anything worth recording goes to a log file instead of
// stdout; the relay server shares the same sink.
package debuglog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Level represents the severity level of a log message
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown strings disable
// logging, matching the config default.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelOff
	}
}

var (
	currentLevel = LevelOff
	logger       *log.Logger
	logFile      *os.File
)

// Setup configures the logging system with the specified level and
// optional file path. An empty path defaults to ~/.newsdeck/newsdeck.log.
func Setup(level Level, path string) error {
	currentLevel = level

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if level == LevelOff {
		logger = nil
		return nil
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		dir := filepath.Join(home, ".newsdeck")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		path = filepath.Join(dir, "newsdeck.log")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	logFile = f
	logger = log.New(f, "newsdeck ", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// SetLevel changes the current logging level
func SetLevel(level Level) {
	currentLevel = level
}

// GetLevel returns the current logging level
func GetLevel() Level {
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		logger = nil
		return err
	}
	return nil
}

func logf(level Level, format string, args ...any) {
	if level < currentLevel || logger == nil {
		return
	}

	message := fmt.Sprintf(format, args...)
	logger.Printf("[%s] %s", level.String(), message)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}
