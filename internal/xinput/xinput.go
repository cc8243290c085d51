// SPDX-License-Identifier: BSD-3-Clause

// Package xinput assembles the keyboard's secondary XInput gamepad report
// from the same per-key distance/press data internal/matrix produces,
// mapping physical keys to digital buttons or accumulated analog axes per
// the active profile's gamepad button map and shaping options.
package xinput

import (
	"math"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
)

// Manager owns one tick's worth of accumulated digital/analog gamepad
// state and the previously sent report for change detection.
type Manager struct {
	transport capability.UsbTransport

	buttons [configstore.MaxKeys]Button
	curve   [4][2]uint8
	square  bool
	snappy  bool

	buttonBits uint16
	analog     [axisCount]uint8

	prev Report
	sent bool
}

// New constructs a Manager bound to transport. Call LoadProfile before the
// first Process/Finalize pair.
func New(transport capability.UsbTransport) *Manager {
	return &Manager{transport: transport}
}

// LoadProfile installs profile's gamepad button map and shaping options,
// typically at boot and on every profile switch.
func (m *Manager) LoadProfile(buttons [configstore.MaxKeys]uint8, opts configstore.GamepadOptions) error {
	for i, raw := range buttons {
		b := Button(raw)
		if b > BtnRT {
			return ErrInvalidButton
		}
		m.buttons[i] = b
	}
	m.curve = opts.AnalogCurve
	m.square = opts.SquareJoystick
	m.snappy = opts.SnappyJoystick
	m.buttonBits = 0
	for i := range m.analog {
		m.analog[i] = 0
	}
	return nil
}

// Process folds one physical key's scan result into this tick's digital
// bitmask or analog accumulator. Safe to call for every key every scan
// tick, matching the Matrix.Scan result order.
func (m *Manager) Process(key int, pressed bool, distance uint8) {
	if key < 0 || key >= len(m.buttons) {
		return
	}
	btn := m.buttons[key]
	if btn == BtnNone {
		return
	}
	if bit, ok := digitalBit[btn]; ok {
		if pressed {
			m.buttonBits |= bit
		} else {
			m.buttonBits &^= bit
		}
		return
	}
	if axis, ok := IsAnalog(btn); ok {
		if distance > m.analog[axis] {
			m.analog[axis] = distance
		}
	}
}

// Finalize builds the tick's report from the accumulated state, sends it
// if it differs from the last one sent and the transport endpoint is
// idle, and resets the analog accumulator for the next tick. Reports
// sent is true only when a report was actually transmitted.
func (m *Manager) Finalize() (sent bool, err error) {
	defer func() {
		for i := range m.analog {
			m.analog[i] = 0
		}
	}()

	r := Report{Buttons: m.buttonBits}
	r.LeftTrigger = applyCurve(m.curve, m.analog[AxisLT])
	r.RightTrigger = applyCurve(m.curve, m.analog[AxisRT])

	lx, ly := m.joystickAxis(AxisLSLeft, AxisLSRight, AxisLSDown, AxisLSUp)
	rx, ry := m.joystickAxis(AxisRSLeft, AxisRSRight, AxisRSDown, AxisRSUp)
	r.ThumbLX, r.ThumbLY = lx, ly
	r.ThumbRX, r.ThumbRY = rx, ry

	if m.sent && r == m.prev {
		return false, nil
	}
	if m.transport == nil {
		return false, ErrTransportNil
	}
	if !m.transport.Ready(capability.ReportXInput) {
		return false, nil
	}
	if err := m.transport.SendReport(capability.ReportXInput, encodeReport(r)); err != nil {
		return false, err
	}
	m.prev, m.sent = r, true
	return true, nil
}

func (m *Manager) joystickAxis(left, right, down, up Axis) (int16, int16) {
	xMag, xPos := combineAxis(m.analog[right], m.analog[left], m.snappy)
	yMag, yPos := combineAxis(m.analog[up], m.analog[down], m.snappy)

	x := signedFloat(xMag, xPos)
	y := signedFloat(yMag, yPos)

	sx, sy := shapeJoystick(m.curve, m.square, x, y)
	return scaleAxis(sx), scaleAxis(sy)
}

func signedFloat(mag uint8, positive bool) float64 {
	if positive {
		return float64(mag)
	}
	return -float64(mag)
}

// scaleAxis maps a shaped [-255,255] magnitude to the XInput thumbstick's
// signed 16-bit range via a left shift by 7, per the fixed-point
// convention the rest of this package's math assumes.
func scaleAxis(v float64) int16 {
	scaled := math.Round(v) * 128
	if scaled > math.MaxInt16 {
		scaled = math.MaxInt16
	}
	if scaled < math.MinInt16 {
		scaled = math.MinInt16
	}
	return int16(scaled)
}
