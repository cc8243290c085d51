// SPDX-License-Identifier: BSD-3-Clause

package configstore

import "encoding/binary"

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func marshalActuation(a Actuation) [sizeofActuation]byte {
	var b [sizeofActuation]byte
	b[0] = a.ActuationPoint
	b[1] = a.RtDown
	b[2] = a.RtUp
	b[3] = boolByte(a.Continuous)
	return b
}

func unmarshalActuation(b []byte) Actuation {
	return Actuation{
		ActuationPoint: b[0],
		RtDown:         b[1],
		RtUp:           b[2],
		Continuous:     b[3] != 0,
	}
}

func marshalAdvancedKey(k AdvancedKey) [sizeofAdvancedKey]byte {
	var b [sizeofAdvancedKey]byte
	b[0] = k.Layer
	b[1] = k.Key
	b[2] = byte(k.Kind)
	payload := b[3:]
	switch k.Kind {
	case AkNullBind:
		payload[0] = k.NullBind.SecondaryKey
		payload[1] = byte(k.NullBind.Behavior)
		payload[2] = k.NullBind.BottomOutPoint
	case AkDKS:
		copy(payload[0:4], k.DKS.Keycodes[:])
		copy(payload[4:8], k.DKS.Bitmap[:])
		payload[8] = k.DKS.BottomOutPoint
	case AkTapHold:
		payload[0] = k.TapHold.TapKeycode
		payload[1] = k.TapHold.HoldKeycode
		binary.LittleEndian.PutUint16(payload[2:4], k.TapHold.TappingTermMs)
		payload[4] = boolByte(k.TapHold.HoldOnOtherKeyPress)
	case AkToggle:
		payload[0] = k.Toggle.Keycode
		binary.LittleEndian.PutUint16(payload[1:3], k.Toggle.TappingTermMs)
	}
	return b
}

func unmarshalAdvancedKey(b []byte) AdvancedKey {
	k := AdvancedKey{Layer: b[0], Key: b[1], Kind: AdvancedKeyKind(b[2])}
	payload := b[3:]
	switch k.Kind {
	case AkNullBind:
		k.NullBind = NullBindPayload{
			SecondaryKey:   payload[0],
			Behavior:       NullBindBehavior(payload[1]),
			BottomOutPoint: payload[2],
		}
	case AkDKS:
		copy(k.DKS.Keycodes[:], payload[0:4])
		copy(k.DKS.Bitmap[:], payload[4:8])
		k.DKS.BottomOutPoint = payload[8]
	case AkTapHold:
		k.TapHold = TapHoldPayload{
			TapKeycode:          payload[0],
			HoldKeycode:         payload[1],
			TappingTermMs:       binary.LittleEndian.Uint16(payload[2:4]),
			HoldOnOtherKeyPress: payload[4] != 0,
		}
	case AkToggle:
		k.Toggle = TogglePayload{
			Keycode:       payload[0],
			TappingTermMs: binary.LittleEndian.Uint16(payload[1:3]),
		}
	}
	return k
}

func marshalGamepadOptions(o GamepadOptions) [sizeofGamepadOpts]byte {
	var b [sizeofGamepadOpts]byte
	for i, pt := range o.AnalogCurve {
		b[i*2] = pt[0]
		b[i*2+1] = pt[1]
	}
	flags := byte(0)
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

func unmarshalGamepadOptions(b []byte) GamepadOptions {
	var o GamepadOptions
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

func marshalProfile(p Profile) []byte {
	b := make([]byte, sizeofProfile)
	for l := 0; l < NumLayers; l++ {
		copy(b[profileKeymapOffset+l*MaxKeys:profileKeymapOffset+(l+1)*MaxKeys], p.Keymap[l][:])
	}
	for i, a := range p.ActuationMap {
		enc := marshalActuation(a)
		copy(b[profileActuationOffset+i*sizeofActuation:], enc[:])
	}
	for i, k := range p.AdvancedKeys {
		enc := marshalAdvancedKey(k)
		copy(b[profileAdvancedKeysOffset+i*sizeofAdvancedKey:], enc[:])
	}
	b[profileTickRateOffset] = p.TickRate
	copy(b[profileGamepadButtonsOffset:profileGamepadButtonsOffset+MaxKeys], p.GamepadButtons[:])
	opts := marshalGamepadOptions(p.GamepadOptions)
	copy(b[profileGamepadOptsOffset:], opts[:])
	return b
}

func unmarshalProfile(b []byte) Profile {
	var p Profile
	for l := 0; l < NumLayers; l++ {
		copy(p.Keymap[l][:], b[profileKeymapOffset+l*MaxKeys:profileKeymapOffset+(l+1)*MaxKeys])
	}
	for i := range p.ActuationMap {
		off := profileActuationOffset + i*sizeofActuation
		p.ActuationMap[i] = unmarshalActuation(b[off : off+sizeofActuation])
	}
	for i := range p.AdvancedKeys {
		off := profileAdvancedKeysOffset + i*sizeofAdvancedKey
		p.AdvancedKeys[i] = unmarshalAdvancedKey(b[off : off+sizeofAdvancedKey])
	}
	p.TickRate = b[profileTickRateOffset]
	copy(p.GamepadButtons[:], b[profileGamepadButtonsOffset:profileGamepadButtonsOffset+MaxKeys])
	p.GamepadOptions = unmarshalGamepadOptions(b[profileGamepadOptsOffset:])
	return p
}

// Marshal encodes the root into its packed little-endian wire form.
func (r Root) Marshal() []byte {
	b := make([]byte, sizeofRoot)
	binary.LittleEndian.PutUint32(b[0:4], r.MagicStart)
	binary.LittleEndian.PutUint16(b[4:6], r.Version)
	binary.LittleEndian.PutUint16(b[6:8], r.Calibration.InitialRest)
	binary.LittleEndian.PutUint16(b[8:10], r.Calibration.InitialBottomOut)
	b[10] = r.CurrentProfile
	b[11] = r.LastNonDefaultProfile
	for i, p := range r.Profiles {
		copy(b[ProfileOffset(i):], marshalProfile(p))
	}
	binary.LittleEndian.PutUint32(b[sizeofRoot-4:], r.MagicEnd)
	return b
}

// UnmarshalRoot decodes a root previously produced by Root.Marshal.
func UnmarshalRoot(b []byte) Root {
	var r Root
	r.MagicStart = binary.LittleEndian.Uint32(b[0:4])
	r.Version = binary.LittleEndian.Uint16(b[4:6])
	r.Calibration.InitialRest = binary.LittleEndian.Uint16(b[6:8])
	r.Calibration.InitialBottomOut = binary.LittleEndian.Uint16(b[8:10])
	r.CurrentProfile = b[10]
	r.LastNonDefaultProfile = b[11]
	for i := range r.Profiles {
		off := ProfileOffset(i)
		r.Profiles[i] = unmarshalProfile(b[off : off+sizeofProfile])
	}
	r.MagicEnd = binary.LittleEndian.Uint32(b[sizeofRoot-4:])
	return r
}
