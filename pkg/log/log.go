// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

var (
	globalOnce   sync.Once
	globalLogger *slog.Logger
	globalLevel  atomic.Int64
)

func init() {
	globalLevel.Store(int64(slog.LevelDebug))
}

// NewDefaultLogger creates a new structured logger backed by zerolog's
// console writer, with timestamps and debug-level logging.
func NewDefaultLogger() *slog.Logger {
	zeroLogger := zerolog.
		New(zerolog.NewConsoleWriter()).
		With().
		Timestamp().
		Logger()

	return slog.New(slogzerolog.Option{Level: slog.LevelDebug, Logger: &zeroLogger}.NewZerologHandler())
}

// GetGlobalLogger returns the process-wide logger, creating it on first use.
// Every component calls this instead of constructing its own logger, so log
// formatting and level stay consistent across the board firmware.
func GetGlobalLogger() *slog.Logger {
	globalOnce.Do(func() {
		globalLogger = NewDefaultLogger()
	})
	return globalLogger
}

// SetGlobalLogger overrides the process-wide logger returned by
// GetGlobalLogger. Used by internal/commandproto's SET_LOG_LEVEL handling
// to rebuild the logger at a new minimum level at runtime.
func SetGlobalLogger(l *slog.Logger) {
	globalLogger = l
}

// NewLoggerAt builds a zerolog-backed logger identical to
// NewDefaultLogger's console writer, but at the given minimum level.
func NewLoggerAt(level slog.Level) *slog.Logger {
	zeroLogger := zerolog.
		New(zerolog.NewConsoleWriter()).
		With().
		Timestamp().
		Logger()

	return slog.New(slogzerolog.Option{Level: level, Logger: &zeroLogger}.NewZerologHandler())
}

// CurrentLevel returns the minimum level last installed through SetLevel.
func CurrentLevel() slog.Level {
	return slog.Level(globalLevel.Load())
}

// SetLevel rebuilds the global logger at level and records it so a later
// CurrentLevel reflects it. Used by internal/commandproto's GET/SET_LOG_LEVEL
// handlers to let the host adjust verbosity without a reboot.
func SetLevel(level slog.Level) {
	globalLevel.Store(int64(level))
	SetGlobalLogger(NewLoggerAt(level))
}
