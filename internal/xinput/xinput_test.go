// SPDX-License-Identifier: BSD-3-Clause

package xinput

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
)

type fakeTransport struct {
	ready bool
	sent  [][]byte
}

func (f *fakeTransport) Ready(capability.ReportKind) bool { return f.ready }

func (f *fakeTransport) SendReport(kind capability.ReportKind, buf []byte) error {
	f.sent = append(f.sent, buf)
	return nil
}

func (f *fakeTransport) OnReportComplete(capability.ReportKind, func()) {}

func (f *fakeTransport) RequestRemoteWakeup() error { return nil }

func (f *fakeTransport) RawHIDReceived(cb func(ctx context.Context, req []byte) []byte) {}

func straightCurve() [4][2]uint8 {
	return [4][2]uint8{{0, 0}, {85, 85}, {170, 170}, {255, 255}}
}

func TestDigitalButtonSetsBitmask(t *testing.T) {
	transport := &fakeTransport{ready: true}
	m := New(transport)

	var buttons [configstore.MaxKeys]uint8
	buttons[0] = uint8(BtnA)
	require.NoError(t, m.LoadProfile(buttons, configstore.GamepadOptions{AnalogCurve: straightCurve()}))

	m.Process(0, true, 0)
	sent, err := m.Finalize()
	require.NoError(t, err)
	require.True(t, sent)
	require.Equal(t, uint16(bitA), m.prev.Buttons)
}

func TestUnchangedReportIsNotResent(t *testing.T) {
	transport := &fakeTransport{ready: true}
	m := New(transport)

	var buttons [configstore.MaxKeys]uint8
	buttons[0] = uint8(BtnA)
	require.NoError(t, m.LoadProfile(buttons, configstore.GamepadOptions{AnalogCurve: straightCurve()}))

	m.Process(0, true, 0)
	sent, err := m.Finalize()
	require.NoError(t, err)
	require.True(t, sent)

	m.Process(0, true, 0)
	sent, err = m.Finalize()
	require.NoError(t, err)
	require.False(t, sent)
	require.Len(t, transport.sent, 1)
}

func TestTriggerFollowsCurve(t *testing.T) {
	transport := &fakeTransport{ready: true}
	m := New(transport)

	var buttons [configstore.MaxKeys]uint8
	buttons[0] = uint8(BtnRT)
	require.NoError(t, m.LoadProfile(buttons, configstore.GamepadOptions{AnalogCurve: straightCurve()}))

	m.Process(0, true, 200)
	_, err := m.Finalize()
	require.NoError(t, err)
	require.Equal(t, uint8(200), m.prev.RightTrigger)
}

func TestJoystickOpposingKeysCancel(t *testing.T) {
	transport := &fakeTransport{ready: true}
	m := New(transport)

	var buttons [configstore.MaxKeys]uint8
	buttons[0] = uint8(BtnLSLeft)
	buttons[1] = uint8(BtnLSRight)
	require.NoError(t, m.LoadProfile(buttons, configstore.GamepadOptions{AnalogCurve: straightCurve()}))

	m.Process(0, true, 255)
	m.Process(1, true, 255)
	_, err := m.Finalize()
	require.NoError(t, err)
	require.Equal(t, int16(0), m.prev.ThumbLX)
}

func TestJoystickFullDeflectionReachesMax(t *testing.T) {
	transport := &fakeTransport{ready: true}
	m := New(transport)

	var buttons [configstore.MaxKeys]uint8
	buttons[0] = uint8(BtnLSRight)
	require.NoError(t, m.LoadProfile(buttons, configstore.GamepadOptions{AnalogCurve: straightCurve(), SquareJoystick: true}))

	m.Process(0, true, 255)
	_, err := m.Finalize()
	require.NoError(t, err)
	require.InDelta(t, 32640, int(m.prev.ThumbLX), 128)
}

func TestInvalidButtonCodeRejected(t *testing.T) {
	transport := &fakeTransport{ready: true}
	m := New(transport)

	var buttons [configstore.MaxKeys]uint8
	buttons[0] = 255
	require.ErrorIs(t, m.LoadProfile(buttons, configstore.GamepadOptions{}), ErrInvalidButton)
}
