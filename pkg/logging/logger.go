// Package logging builds the hclog loggers shared by the bootstrapper and
// the builder.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// EnvLogLevel selects the level; "json:<level>" switches to JSON output.
	EnvLogLevel = "SETUP_LOG_LEVEL"
	// EnvLogPath redirects output to a rotated log file.
	EnvLogPath = "SETUP_LOG_PATH"

	defaultLevel = "warn"
)

// Open builds a binary's logger from SETUP_LOG_LEVEL and SETUP_LOG_PATH;
// a non-empty level overrides SETUP_LOG_LEVEL. The returned function
// flushes a held partial line and closes the log file, and must run
// before the process exits.
func Open(name, level string) (hclog.Logger, func() error) {
	if level == "" {
		level = GetLogLevel()
	}
	output := Output()
	logger, pw := newLogger(name, level, output)

	return logger, func() error {
		var err error
		if pw != nil {
			err = pw.Flush()
		}
		if c, ok := output.(io.Closer); ok {
			if cErr := c.Close(); err == nil {
				err = cErr
			}
		}
		return err
	}
}

// newLogger creates an hclog logger with standard settings. A nil output
// means stderr. Text output goes through the returned PrefixWriter.
func newLogger(name string, level string, output io.Writer) (hclog.Logger, *PrefixWriter) {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat, actualLevel := ParseLevel(level)

	var pw *PrefixWriter
	if !jsonFormat {
		pw = NewPrefixWriter(linePrefix(), output)
		output = pw
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(actualLevel),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts), pw
}

// ParseLevel splits a level string such as "json:debug" into the JSON flag
// and the bare level. A bare "json" means JSON at info.
func ParseLevel(level string) (bool, string) {
	if level == "" {
		return false, defaultLevel
	}
	if !strings.HasPrefix(level, "json") {
		return false, level
	}
	parts := strings.SplitN(level, ":", 2)
	if len(parts) == 2 && parts[1] != "" {
		return true, parts[1]
	}
	return true, "info"
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv(EnvLogLevel)
	if level == "" {
		level = defaultLevel
	}
	return level
}

// Output returns the writer named by SETUP_LOG_PATH, or nil when unset so
// that the logger falls back to stderr. The bootstrapper is a GUI-subsystem
// binary on Windows, so the file is the only place its logs survive.
func Output() io.Writer {
	logPath := os.Getenv(EnvLogPath)
	if logPath == "" || logPath == "console" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   filepath.ToSlash(logPath),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	}
}

func linePrefix() string {
	if runtime.GOOS == "windows" {
		return "[SETUP] "
	}
	return "📦 "
}
