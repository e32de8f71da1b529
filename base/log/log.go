// Package log provides leveled, package-style logging
// (Debugf/Infof/Warningf/Errorf/Criticalf) used throughout the settings
// resolver, backed by a direct, synchronous slog call. The resolver does
// not run on a hot path that needs a buffered writer pipeline.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Severity orders log levels from least to most urgent.
type Severity uint32

// Log severities, from least to most urgent.
const (
	TraceLevel Severity = iota
	DebugLevel
	InfoLevel
	WarningLevel
	ErrorLevel
	CriticalLevel
)

func (s Severity) toSlogLevel() slog.Level {
	switch s {
	case TraceLevel, DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarningLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

var (
	setupOnce sync.Once
	logger    *slog.Logger
)

func setup() {
	w := os.Stderr
	logger = slog.New(tint.NewHandler(w, &tint.Options{
		AddSource:  true,
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	}))
}

func get() *slog.Logger {
	setupOnce.Do(setup)
	return logger
}

// SetOutput redirects log output, mainly for tests that want to assert on
// log content.
func SetOutput(w io.Writer) {
	logger = slog.New(tint.NewHandler(w, &tint.Options{
		AddSource: false,
		Level:     slog.LevelDebug,
		NoColor:   true,
	}))
}

// Debugf logs minor, expected-to-be-noisy events.
func Debugf(format string, args ...interface{}) {
	get().Debug(fmt.Sprintf(format, args...))
}

// Infof logs mildly significant, user-visible events.
func Infof(format string, args ...interface{}) {
	get().Info(fmt.Sprintf(format, args...))
}

// Warningf logs recoverable problems that did not abort the current
// operation.
func Warningf(format string, args ...interface{}) {
	get().Warn(fmt.Sprintf(format, args...))
}

// Errorf logs errors that impaired, but did not abort, the current
// operation.
func Errorf(format string, args ...interface{}) {
	get().Error(fmt.Sprintf(format, args...))
}

// Criticalf logs events that made the current operation impossible to
// complete.
func Criticalf(format string, args ...interface{}) {
	get().Log(context.Background(), slog.LevelError+4, fmt.Sprintf(format, args...))
}
