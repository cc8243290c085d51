// SPDX-License-Identifier: BSD-3-Clause

// Package log provides structured logging built on Go's standard library
// slog, backed by a zerolog console writer. It also provides small adapters
// so third-party components (the embedded NATS server, the oversight
// supervision tree) can log through the same slog.Logger as the rest of the
// firmware.
//
//	logger := log.GetGlobalLogger()
//	logger.Info("scan loop starting", "period_hz", 1000)
//
// GetGlobalLogger returns the process-wide *slog.Logger; components should
// use it rather than constructing their own logger. SetLevel (driven by the
// SET_LOG_LEVEL command in internal/commandproto) replaces that logger with
// one built at the new level, so only later GetGlobalLogger calls see it: a
// component that already holds a logger from an earlier call keeps logging
// at the old level.
package log
