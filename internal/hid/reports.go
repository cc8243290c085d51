// SPDX-License-Identifier: BSD-3-Clause

package hid

import "github.com/openhmk/hmkcore/internal/keycode"

// nkroBitmapSize covers all 160 keyboard-usage-page codes (0x00..0x9F) as
// a bit each, per §3's 20-byte bitmap.
const nkroBitmapSize = 20

// sixKroSlots is the boot-protocol fallback buffer size.
const sixKroSlots = 6

// KeyboardReport is the hybrid NKRO+6KRO keyboard report (28 bytes,
// no report ID, per §6).
type KeyboardReport struct {
	Modifiers uint8
	Reserved  uint8
	Keycodes  [sixKroSlots]uint8
	Bitmap    [nkroBitmapSize]uint8
}

func (r *KeyboardReport) setBit(usage uint8, on bool) {
	idx, bit := usage/8, usage%8
	if int(idx) >= len(r.Bitmap) {
		return
	}
	if on {
		r.Bitmap[idx] |= 1 << bit
	} else {
		r.Bitmap[idx] &^= 1 << bit
	}
}

// push6KRO appends usage to the boot-protocol buffer, dropping the oldest
// entry (FIFO) when full, unless usage is already present.
func (r *KeyboardReport) push6KRO(usage uint8) {
	for _, k := range r.Keycodes {
		if k == usage {
			return
		}
	}
	for i, k := range r.Keycodes {
		if k == 0 {
			r.Keycodes[i] = usage
			return
		}
	}
	copy(r.Keycodes[:], r.Keycodes[1:])
	r.Keycodes[sixKroSlots-1] = usage
}

func (r *KeyboardReport) pop6KRO(usage uint8) {
	for i, k := range r.Keycodes {
		if k == usage {
			copy(r.Keycodes[i:], r.Keycodes[i+1:])
			r.Keycodes[sixKroSlots-1] = 0
			return
		}
	}
}

// MouseReport mirrors the standard TinyUSB boot-mouse report shape.
type MouseReport struct {
	Buttons uint8
	X       int8
	Y       int8
	Wheel   int8
	Pan     int8
}

func (r *MouseReport) equal(o MouseReport) bool { return *r == o }

// addKeycode applies kc to the appropriate staging report(s).
func (c *Composer) addKeycode(kc keycode.Code) {
	switch {
	case keycode.IsModifier(kc):
		c.kb.Modifiers |= keycode.ToModifier(kc)
	case keycode.IsKeyboard(kc):
		usage := keycode.ToHIDUsage(kc)
		c.kb.setBit(usage, true)
		c.kb.push6KRO(usage)
	case keycode.IsSystem(kc):
		c.system = keycode.ToSystem(kc)
	case keycode.IsConsumer(kc):
		c.consumer = keycode.ToConsumer(kc)
	case keycode.IsMouse(kc):
		c.applyMouse(kc, true)
	}
}

func (c *Composer) removeKeycode(kc keycode.Code) {
	switch {
	case keycode.IsModifier(kc):
		c.kb.Modifiers &^= keycode.ToModifier(kc)
	case keycode.IsKeyboard(kc):
		usage := keycode.ToHIDUsage(kc)
		c.kb.setBit(usage, false)
		c.kb.pop6KRO(usage)
	case keycode.IsSystem(kc):
		if c.system == keycode.ToSystem(kc) {
			c.system = 0
		}
	case keycode.IsConsumer(kc):
		if c.consumer == keycode.ToConsumer(kc) {
			c.consumer = 0
		}
	case keycode.IsMouse(kc):
		c.applyMouse(kc, false)
	}
}

func (c *Composer) applyMouse(kc keycode.Code, pressed bool) {
	var bit uint8
	switch kc {
	case keycode.KCMouseBtnL:
		bit = 1 << 0
	case keycode.KCMouseBtnR:
		bit = 1 << 1
	case keycode.KCMouseBtnM:
		bit = 1 << 2
	default:
		return
	}
	if pressed {
		c.mouse.Buttons |= bit
	} else {
		c.mouse.Buttons &^= bit
	}
}
