// Package logging provides structured logging with file output support.
// It uses environment variables for configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// LogFilePattern matches the debug log files written when SIM8086_LOG_TO_FILE=1.
const LogFilePattern = "sim8086-*-debug.log"

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// ParseLevel maps a SIM8086_LOG_LEVEL value to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLoggerWithWriter creates a new logger with the provided writer
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	lg.SetLevel(ParseLevel(os.Getenv("SIM8086_LOG_LEVEL")))

	prefix := os.Getenv("SIM8086_LOG_PREFIX")
	if prefix == "" {
		prefix = "sim8086 "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables
// SIM8086_LOG_LEVEL: debug, info, warn, error (default: info)
// SIM8086_LOG_PREFIX: prefix for log messages (default: "sim8086 ")
// SIM8086_LOG_TO_FILE: when set to "1", logs to a timestamped file in dir instead of stderr
func NewLogger(dir string) *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv("SIM8086_LOG_TO_FILE") == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := filepath.Join(dir, fmt.Sprintf("sim8086-%s-debug.log", timestamp))

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr
	}

	return NewLoggerWithWriter(output)
}

// LatestLogFile returns the most recent debug log file in dir.
func LatestLogFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, LogFilePattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s files in %s", LogFilePattern, dir)
	}
	// Timestamps in the name sort lexically.
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return os.Getenv("SIM8086_LOG_LEVEL") == "debug"
}
