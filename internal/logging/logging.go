// internal/logging/logging.go

// Package logging constructs the per-run zerolog handle. The logger is
// created once per run and passed explicitly into every component; nothing
// in the codebase logs through a package-level global.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the configured level when set.
const EnvLogLevel = "POSTOGA_LOG_LEVEL"

// ParseLevel maps the CLI/profile level names onto zerolog levels.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "", "info":
		return zerolog.InfoLevel, raw != ""
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "off", "disabled":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func resolveLevel(level string) zerolog.Level {
	if env, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		return env
	}
	lvl, _ := ParseLevel(level)
	return lvl
}

// New returns a console logger writing human-readable lines to w.
func New(level string, w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	return zerolog.New(console).Level(resolveLevel(level)).With().Timestamp().Logger()
}

// NewRunLogger returns a logger that duplicates every event to the console
// writer and the run log file. The returned closer owns the file handle;
// close it at run end.
func NewRunLogger(level string, console io.Writer, logPath string) (zerolog.Logger, io.Closer, error) {
	fh, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	cw := zerolog.ConsoleWriter{Out: console, TimeFormat: "2006-01-02 15:04:05"}
	fw := zerolog.ConsoleWriter{Out: fh, TimeFormat: time.RFC3339, NoColor: true}
	log := zerolog.New(zerolog.MultiLevelWriter(cw, fw)).
		Level(resolveLevel(level)).
		With().Timestamp().Logger()
	return log, fh, nil
}
