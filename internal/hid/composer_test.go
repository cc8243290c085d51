// SPDX-License-Identifier: BSD-3-Clause

package hid

import (
	"context"
	"testing"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/keycode"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	ready     map[capability.ReportKind]bool
	sent      []capability.ReportKind
	callbacks map[capability.ReportKind]func()
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		ready:     map[capability.ReportKind]bool{},
		callbacks: map[capability.ReportKind]func(){},
	}
}

func (f *fakeTransport) Ready(kind capability.ReportKind) bool {
	if v, ok := f.ready[kind]; ok {
		return v
	}
	return true
}

func (f *fakeTransport) SendReport(kind capability.ReportKind, buf []byte) error {
	f.sent = append(f.sent, kind)
	if cb, ok := f.callbacks[kind]; ok {
		cb()
	}
	return nil
}

func (f *fakeTransport) OnReportComplete(kind capability.ReportKind, cb func()) {
	f.callbacks[kind] = cb
}

func (f *fakeTransport) RequestRemoteWakeup() error { return nil }

func (f *fakeTransport) RawHIDReceived(cb func(ctx context.Context, req []byte) []byte) {}

func TestAddThenRemoveLeavesReportUnchanged(t *testing.T) {
	transport := newFakeTransport()
	c := New(transport, nil)

	before := c.kb
	c.AddKeycode(keycode.KCA)
	c.RemoveKeycode(keycode.KCA)
	require.Equal(t, before, c.kb)
}

func TestSendReportsOrdersKeyboardBeforeConsumer(t *testing.T) {
	transport := newFakeTransport()
	c := New(transport, nil)

	c.AddKeycode(keycode.KCA)
	c.AddKeycode(keycode.KCAudioMute)

	require.NoError(t, c.SendReports(context.Background()))
	require.Equal(t, []capability.ReportKind{capability.ReportKeyboard}, transport.sent)

	require.NoError(t, c.SendReports(context.Background()))
	require.Equal(t, []capability.ReportKind{capability.ReportKeyboard, capability.ReportConsumer}, transport.sent)
}

func TestSendReportsRunsDrainWhenNothingChanged(t *testing.T) {
	transport := newFakeTransport()
	drained := false
	c := New(transport, func() { drained = true })

	require.NoError(t, c.SendReports(context.Background()))
	require.True(t, drained)
}

func TestSixKRODropsOldestWhenFull(t *testing.T) {
	transport := newFakeTransport()
	c := New(transport, nil)

	keys := []keycode.Code{keycode.KCA, keycode.KCB, keycode.KCC, keycode.KCD, keycode.KCE, keycode.KCF, keycode.KCG}
	for _, k := range keys {
		c.AddKeycode(k)
	}
	require.NotContains(t, c.kb.Keycodes[:], keycode.ToHIDUsage(keycode.KCA))
	require.Contains(t, c.kb.Keycodes[:], keycode.ToHIDUsage(keycode.KCG))
}
