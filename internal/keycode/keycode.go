// SPDX-License-Identifier: BSD-3-Clause

// Package keycode defines the single-byte keycode space shared by every
// layer of the firmware core: the persistent keymap, the layout resolver,
// the advanced-key engine, and the HID/XInput composers all exchange plain
// Code values instead of passing strings or interface{} around.
package keycode

// Code is a keycode as stored in a Profile's keymap, distinct from the
// wider 16-bit keycode space the original firmware used: the persistent
// schema (§3) fixes keymap entries at one byte, so every range below had
// to be renumbered to fit u8 rather than reusing the original's u16
// layout wholesale. Where a value fits both, the numeric value was kept
// identical to the corresponding USB HID usage ID for convenience.
type Code uint8

const (
	KCNo          Code = 0x00
	KCTransparent Code = 0x01
)

// Keyboard-usage-page keys, 0x02..=0x7A. Values equal the real USB HID
// keyboard usage ID for the same key, matching original_source's
// lib/app/keycodes.c numbering in the range it shares with this u8 space.
const (
	KCA Code = 0x04 + iota
	KCB
	KCC
	KCD
	KCE
	KCF
	KCG
	KCH
	KCI
	KCJ
	KCK
	KCL
	KCM
	KCN
	KCO
	KCP
	KCQ
	KCR
	KCS
	KCT
	KCU
	KCV
	KCW
	KCX
	KCY
	KCZ
	KC1
	KC2
	KC3
	KC4
	KC5
	KC6
	KC7
	KC8
	KC9
	KC0
	KCEnter
	KCEscape
	KCBackspace
	KCTab
	KCSpace
	KCMinus
	KCEqual
	KCLeftBracket
	KCRightBracket
	KCBackslash
	KCNonusHash
	KCSemicolon
	KCQuote
	KCGrave
	KCComma
	KCDot
	KCSlash
	KCCapsLock
	KCF1
	KCF2
	KCF3
	KCF4
	KCF5
	KCF6
	KCF7
	KCF8
	KCF9
	KCF10
	KCF11
	KCF12
	KCPrintScreen
	KCScrollLock
	KCPause
	KCInsert
	KCHome
	KCPageUp
	KCDelete
	KCEnd
	KCPageDown
	KCRight
	KCLeft
	KCDown
	KCUp
	KCNumLock
	KCKpSlash
	KCKpAsterisk
	KCKpMinus
	KCKpPlus
	KCKpEnter
	KCKp1
	KCKp2
	KCKp3
	KCKp4
	KCKp5
	KCKp6
	KCKp7
	KCKp8
	KCKp9
	KCKp0
	KCKpDot
	KCNonusBackslash
	KCApplication
	KCKbPower
	KCKpEqual
	KCF13
	KCF14
	KCF15
	KCF16
	KCF17
	KCF18
	KCF19
	KCF20
	KCF21
	KCF22
	KCF23
	KCF24 // = 0x73
)

// Aliases preserved exactly as original_source resolved them: one alias
// (KC_BRMD -> KC_SCROLL_LOCK) looks like a leftover brightness-down binding
// but the original's own tables never exercise it, so it is kept pointing
// at Scroll Lock rather than invented a separate meaning.
const (
	KCTrns = KCTransparent
	KCEsc  = KCEscape
	KCBspc = KCBackspace
	KCEnt  = KCEnter
	KCDel  = KCDelete
	KCIns  = KCInsert
	KCCaps = KCCapsLock
	KCScrl = KCScrollLock
	KCBrmd = KCScrollLock
)

// Modifiers, 0x7B..=0x82.
const (
	KCLeftCtrl Code = 0x7B + iota
	KCLeftShift
	KCLeftAlt
	KCLeftGui
	KCRightCtrl
	KCRightShift
	KCRightAlt
	KCRightGui // = 0x82
)

// System/consumer/mouse, 0x83..=0x9F.
const (
	KCSystemPower Code = 0x83 + iota
	KCSystemSleep
	KCSystemWake

	KCAudioMute
	KCAudioVolUp
	KCAudioVolDown
	KCMediaNextTrack
	KCMediaPrevTrack
	KCMediaStop
	KCMediaPlayPause

	KCMouseBtnL
	KCMouseBtnR
	KCMouseBtnM
	KCMouseUp
	KCMouseDown
	KCMouseLeft
	KCMouseRight
	KCMouseWheelUp
	KCMouseWheelDown // = 0x95
)

// Momentary-layer keycodes, 0xC0..=0xC7: low 3 bits select layer 0..7.
const layerMoBase Code = 0xC0

// LayerMo builds the momentary-layer-activation keycode for layer (0..7).
func LayerMo(layer uint8) Code { return layerMoBase | Code(layer&0x7) }

// IsLayerMo reports whether kc is a momentary-layer keycode, and if so its
// target layer.
func IsLayerMo(kc Code) (layer uint8, ok bool) {
	if kc >= layerMoBase && kc < layerMoBase+8 {
		return uint8(kc - layerMoBase), true
	}
	return 0, false
}

// Profile keycodes, 0xC8..=0xCF: low 3 bits select profile 0..7.
const profileBase Code = 0xC8

// Profile builds the profile-activation keycode for profile (0..7).
func Profile(profile uint8) Code { return profileBase | Code(profile&0x7) }

// IsProfile reports whether kc is a profile-activation keycode, and if so
// its target profile.
func IsProfile(kc Code) (profile uint8, ok bool) {
	if kc >= profileBase && kc < profileBase+8 {
		return uint8(kc - profileBase), true
	}
	return 0, false
}

// Specials and magic keycodes.
const (
	KCKeyLock Code = 0xD0 + iota
	KCLayerLock
	KCProfileSwap
	KCProfileNext
	KCBoot

	KCMagicBootloader
	KCMagicReboot
	KCMagicFactoryReset
	KCMagicRecalibrate // = 0xD8
)

// Range predicates, mirroring original_source's IS_*_KEYCODE macros
// renumbered for the u8 space.
func IsKeyboard(kc Code) bool  { return kc >= KCA && kc <= KCF24 }
func IsModifier(kc Code) bool  { return kc >= KCLeftCtrl && kc <= KCRightGui }
func IsSystem(kc Code) bool    { return kc >= KCSystemPower && kc <= KCSystemWake }
func IsConsumer(kc Code) bool  { return kc >= KCAudioMute && kc <= KCMediaPlayPause }
func IsMouse(kc Code) bool     { return kc >= KCMouseBtnL && kc <= KCMouseWheelDown }
func IsMagic(kc Code) bool     { return kc >= KCMagicBootloader && kc <= KCMagicRecalibrate }

// ToModifier converts a modifier keycode to its HID modifier bitmask bit,
// mirroring original_source/lib/app/keycodes.c's keycode_to_modifier.
func ToModifier(kc Code) uint8 {
	if !IsModifier(kc) {
		return 0
	}
	return 1 << uint8(kc-KCLeftCtrl)
}

// ToSystem converts a system keycode to its HID Generic Desktop usage ID
// (table in original_source/lib/app/keycodes.c's keycode_to_system).
func ToSystem(kc Code) uint16 {
	switch kc {
	case KCSystemPower:
		return 0x0081
	case KCSystemSleep:
		return 0x0082
	case KCSystemWake:
		return 0x0083
	default:
		return 0
	}
}

// ToConsumer converts a consumer keycode to its HID Consumer Page usage ID.
func ToConsumer(kc Code) uint16 {
	switch kc {
	case KCAudioMute:
		return 0x00E2
	case KCAudioVolUp:
		return 0x00E9
	case KCAudioVolDown:
		return 0x00EA
	case KCMediaNextTrack:
		return 0x00B5
	case KCMediaPrevTrack:
		return 0x00B6
	case KCMediaStop:
		return 0x00B7
	case KCMediaPlayPause:
		return 0x00CD
	default:
		return 0
	}
}

// ToHIDUsage returns the raw keyboard-usage-page HID code for a keyboard
// key, used both as the bitmap bit index and the 6KRO buffer byte value.
func ToHIDUsage(kc Code) uint8 {
	if !IsKeyboard(kc) {
		return 0
	}
	return uint8(kc)
}
