// SPDX-License-Identifier: BSD-3-Clause

// Package hid composes the keyboard's USB HID reports: a hybrid NKRO+6KRO
// keyboard report plus system/consumer/mouse reports, chain-sent in a
// fixed priority order with change detection so idle keys never cost a
// USB frame.
package hid

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/keycode"
)

// Composer owns the four staging reports and chains their delivery to the
// USB transport in fixed priority order: Keyboard, System, Consumer,
// Mouse, matching §5's ordering guarantee.
type Composer struct {
	mu sync.Mutex

	transport capability.UsbTransport
	onDrain   func()

	kb, prevKb             KeyboardReport
	system, prevSystem     uint16
	consumer, prevConsumer uint16
	mouse, prevMouse       MouseReport
}

// New constructs a Composer. onDrain is invoked once per SendReports call
// in which no staging report had changed — this is DeferredStack's drain
// hook, per §4.7's "post-HID-report" task.
func New(transport capability.UsbTransport, onDrain func()) *Composer {
	return &Composer{transport: transport, onDrain: onDrain}
}

// AddKeycode stages kc for transmission in the report its range belongs
// to. It does not itself send anything; SendReports does.
func (c *Composer) AddKeycode(kc keycode.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addKeycode(kc)
}

// RemoveKeycode is the mirror of AddKeycode.
func (c *Composer) RemoveKeycode(kc keycode.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeKeycode(kc)
}

// SendReports walks Keyboard < System < Consumer < Mouse, sends the first
// changed report it finds, waits for the transport's report-complete
// callback, and returns; a later call picks up the next changed report.
// Only when nothing in the chain changed does it run the deferred-action
// drain hook instead.
//
// The real firmware resumes this scan from a USB interrupt callback across
// many `tud_task` iterations; here each call blocks for at most one
// report's completion and then returns control to the caller.
func (c *Composer) SendReports(ctx context.Context) error {
	if c.transport == nil {
		return ErrTransportNil
	}

	for kind := capability.ReportKeyboard; kind <= capability.ReportMouse; kind++ {
		changed, buf := c.stageFor(kind)
		if !changed {
			continue
		}
		if err := c.waitReady(ctx, kind); err != nil {
			return err
		}
		if err := c.sendAndWait(ctx, kind, buf); err != nil {
			return err
		}
		c.commit(kind)
		return nil
	}

	if c.onDrain != nil {
		c.onDrain()
	}
	return nil
}

func (c *Composer) stageFor(kind capability.ReportKind) (bool, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case capability.ReportKeyboard:
		if c.kb == c.prevKb {
			return false, nil
		}
		return true, encodeKeyboard(c.kb)
	case capability.ReportSystem:
		if c.system == c.prevSystem {
			return false, nil
		}
		return true, encodeU16(c.system)
	case capability.ReportConsumer:
		if c.consumer == c.prevConsumer {
			return false, nil
		}
		return true, encodeU16(c.consumer)
	case capability.ReportMouse:
		if c.mouse.equal(c.prevMouse) {
			return false, nil
		}
		return true, encodeMouse(c.mouse)
	default:
		return false, nil
	}
}

func (c *Composer) commit(kind capability.ReportKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case capability.ReportKeyboard:
		c.prevKb = c.kb
	case capability.ReportSystem:
		c.prevSystem = c.system
	case capability.ReportConsumer:
		c.prevConsumer = c.consumer
	case capability.ReportMouse:
		c.prevMouse = c.mouse
	}
}

// waitReady polls the transport's readiness probe, requesting a remote
// wakeup if the host looks suspended.
func (c *Composer) waitReady(ctx context.Context, kind capability.ReportKind) error {
	if c.transport.Ready(kind) {
		return nil
	}
	if err := c.transport.RequestRemoteWakeup(); err != nil {
		return fmt.Errorf("%w: %w", ErrSuspended, err)
	}
	for !c.transport.Ready(kind) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

func (c *Composer) sendAndWait(ctx context.Context, kind capability.ReportKind, buf []byte) error {
	done := make(chan struct{})
	c.transport.OnReportComplete(kind, func() { close(done) })
	if err := c.transport.SendReport(kind, buf); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func encodeKeyboard(r KeyboardReport) []byte {
	buf := make([]byte, 2+len(r.Keycodes)+len(r.Bitmap))
	buf[0] = r.Modifiers
	buf[1] = r.Reserved
	copy(buf[2:], r.Keycodes[:])
	copy(buf[2+len(r.Keycodes):], r.Bitmap[:])
	return buf
}

func encodeU16(v uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return buf
}

func encodeMouse(m MouseReport) []byte {
	return []byte{m.Buttons, byte(m.X), byte(m.Y), byte(m.Wheel), byte(m.Pan)}
}
