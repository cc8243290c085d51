// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openhmk/hmkcore/internal/capability"
)

// realTimer measures elapsed milliseconds since it was constructed, the
// hosted equivalent of the original firmware's free-running hardware
// tick counter.
type realTimer struct {
	start time.Time
}

func newRealTimer() realTimer {
	return realTimer{start: time.Now()}
}

// NowMs implements capability.Timer.
func (t realTimer) NowMs() uint32 {
	return uint32(time.Since(t.start).Milliseconds())
}

var _ capability.Timer = realTimer{}

// consoleBoard implements capability.BoardControl by logging instead of
// touching real hardware; there is no bootloader or status LED to drive
// on a host.
type consoleBoard struct {
	logger *slog.Logger
}

var _ capability.BoardControl = (*consoleBoard)(nil)

func (b *consoleBoard) EnterBootloader() error {
	b.logger.Warn("bootloader entry requested, simulator has no bootloader to hand off to")
	return nil
}

func (b *consoleBoard) Reboot() error {
	b.logger.Warn("reboot requested, simulator ignores it")
	return nil
}

func (b *consoleBoard) SetStatusLED(on bool) {
	b.logger.Debug("status LED", "on", on)
}

// consoleTransport implements capability.UsbTransport by logging report
// traffic and immediately acking every send. It registers whatever
// raw-HID callback commandsrv gives it, but nothing in the simulator
// drives raw-HID OUT traffic — cmd/hmkctl talks to commandsrv directly
// over the IPC bus instead, so onRawHID is never actually invoked here.
type consoleTransport struct {
	logger *slog.Logger

	mu         sync.Mutex
	onComplete map[capability.ReportKind]func()
	onRawHID   func(ctx context.Context, req []byte) []byte
}

var _ capability.UsbTransport = (*consoleTransport)(nil)

func newConsoleTransport(logger *slog.Logger) *consoleTransport {
	return &consoleTransport{
		logger:     logger,
		onComplete: make(map[capability.ReportKind]func()),
	}
}

func (t *consoleTransport) Ready(capability.ReportKind) bool { return true }

func (t *consoleTransport) SendReport(kind capability.ReportKind, buf []byte) error {
	t.logger.Debug("HID report sent", "kind", kind, "bytes", len(buf))
	t.mu.Lock()
	cb := t.onComplete[kind]
	t.mu.Unlock()
	if cb != nil {
		cb()
	}
	return nil
}

func (t *consoleTransport) OnReportComplete(kind capability.ReportKind, cb func()) {
	t.mu.Lock()
	t.onComplete[kind] = cb
	t.mu.Unlock()
}

func (t *consoleTransport) RequestRemoteWakeup() error { return nil }

func (t *consoleTransport) RawHIDReceived(cb func(ctx context.Context, req []byte) []byte) {
	t.mu.Lock()
	t.onRawHID = cb
	t.mu.Unlock()
}
