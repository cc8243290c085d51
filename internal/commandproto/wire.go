// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import (
	"encoding/binary"

	"github.com/openhmk/hmkcore/internal/configstore"
)

// Wire sizes of the fixed-layout structs this package marshals directly
// (mirroring internal/configstore's own persisted layout, since the host
// protocol and the flash schema happen to share the same per-record shape).
const (
	actuationSize      = 4
	advancedKeySize    = 1 + 1 + 1 + 9
	gamepadOptionsSize = 8 + 4
)

func calibrationFromBytes(b []byte) configstore.Calibration {
	return configstore.Calibration{
		InitialRest:      binary.LittleEndian.Uint16(b[0:2]),
		InitialBottomOut: binary.LittleEndian.Uint16(b[2:4]),
	}
}

func requirePayload(payload []byte, n int) error {
	if len(payload) < n {
		return ErrShortPayload
	}
	return nil
}

func encodeActuation(a configstore.Actuation) [actuationSize]byte {
	var b [actuationSize]byte
	b[0] = a.ActuationPoint
	b[1] = a.RtDown
	b[2] = a.RtUp
	if a.Continuous {
		b[3] = 1
	}
	return b
}

func encodeAdvancedKey(k configstore.AdvancedKey) [advancedKeySize]byte {
	var b [advancedKeySize]byte
	b[0] = k.Layer
	b[1] = k.Key
	b[2] = byte(k.Kind)
	payload := b[3:]
	switch k.Kind {
	case configstore.AkNullBind:
		payload[0] = k.NullBind.SecondaryKey
		payload[1] = byte(k.NullBind.Behavior)
		payload[2] = k.NullBind.BottomOutPoint
	case configstore.AkDKS:
		copy(payload[0:4], k.DKS.Keycodes[:])
		copy(payload[4:8], k.DKS.Bitmap[:])
		payload[8] = k.DKS.BottomOutPoint
	case configstore.AkTapHold:
		payload[0] = k.TapHold.TapKeycode
		payload[1] = k.TapHold.HoldKeycode
		binary.LittleEndian.PutUint16(payload[2:4], k.TapHold.TappingTermMs)
		if k.TapHold.HoldOnOtherKeyPress {
			payload[4] = 1
		}
	case configstore.AkToggle:
		payload[0] = k.Toggle.Keycode
		binary.LittleEndian.PutUint16(payload[1:3], k.Toggle.TappingTermMs)
	}
	return b
}

func encodeGamepadOptions(o configstore.GamepadOptions) [gamepadOptionsSize]byte {
	var b [gamepadOptionsSize]byte
	for i, pt := range o.AnalogCurve {
		b[i*2] = pt[0]
		b[i*2+1] = pt[1]
	}
	var flags byte
	if o.KbEnabled {
		flags |= 1 << 0
	}
	if o.GamepadOverride {
		flags |= 1 << 1
	}
	if o.SquareJoystick {
		flags |= 1 << 2
	}
	if o.SnappyJoystick {
		flags |= 1 << 3
	}
	b[8] = flags
	return b
}

func decodeGamepadOptions(b []byte) configstore.GamepadOptions {
	var o configstore.GamepadOptions
	for i := range o.AnalogCurve {
		o.AnalogCurve[i][0] = b[i*2]
		o.AnalogCurve[i][1] = b[i*2+1]
	}
	flags := b[8]
	o.KbEnabled = flags&(1<<0) != 0
	o.GamepadOverride = flags&(1<<1) != 0
	o.SquareJoystick = flags&(1<<2) != 0
	o.SnappyJoystick = flags&(1<<3) != 0
	return o
}
