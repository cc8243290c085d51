// SPDX-License-Identifier: BSD-3-Clause

package keycode

import "strconv"

// names maps the KC_* identifiers a board TOML file's default_keymap uses
// to their Code. Only a board definition's bootstrap path needs this —
// everywhere else in the firmware core, Code values flow as plain bytes.
var names = map[string]Code{
	"KC_NO":   KCNo,
	"KC_TRNS": KCTransparent,

	"KC_A": KCA, "KC_B": KCB, "KC_C": KCC, "KC_D": KCD, "KC_E": KCE,
	"KC_F": KCF, "KC_G": KCG, "KC_H": KCH, "KC_I": KCI, "KC_J": KCJ,
	"KC_K": KCK, "KC_L": KCL, "KC_M": KCM, "KC_N": KCN, "KC_O": KCO,
	"KC_P": KCP, "KC_Q": KCQ, "KC_R": KCR, "KC_S": KCS, "KC_T": KCT,
	"KC_U": KCU, "KC_V": KCV, "KC_W": KCW, "KC_X": KCX, "KC_Y": KCY,
	"KC_Z": KCZ,

	"KC_1": KC1, "KC_2": KC2, "KC_3": KC3, "KC_4": KC4, "KC_5": KC5,
	"KC_6": KC6, "KC_7": KC7, "KC_8": KC8, "KC_9": KC9, "KC_0": KC0,

	"KC_ENTER": KCEnter, "KC_ENT": KCEnt,
	"KC_ESCAPE": KCEscape, "KC_ESC": KCEsc,
	"KC_BACKSPACE": KCBackspace, "KC_BSPC": KCBspc,
	"KC_TAB":   KCTab,
	"KC_SPACE": KCSpace,
	"KC_MINUS": KCMinus, "KC_EQUAL": KCEqual,
	"KC_LEFT_BRACKET": KCLeftBracket, "KC_RIGHT_BRACKET": KCRightBracket,
	"KC_BACKSLASH": KCBackslash, "KC_NONUS_HASH": KCNonusHash,
	"KC_SEMICOLON": KCSemicolon, "KC_QUOTE": KCQuote, "KC_GRAVE": KCGrave,
	"KC_COMMA": KCComma, "KC_DOT": KCDot, "KC_SLASH": KCSlash,
	"KC_CAPS_LOCK": KCCapsLock, "KC_CAPS": KCCaps,

	"KC_F1": KCF1, "KC_F2": KCF2, "KC_F3": KCF3, "KC_F4": KCF4,
	"KC_F5": KCF5, "KC_F6": KCF6, "KC_F7": KCF7, "KC_F8": KCF8,
	"KC_F9": KCF9, "KC_F10": KCF10, "KC_F11": KCF11, "KC_F12": KCF12,

	"KC_PRINT_SCREEN": KCPrintScreen,
	"KC_SCROLL_LOCK":  KCScrollLock, "KC_SCRL": KCScrl, "KC_BRMD": KCBrmd,
	"KC_PAUSE":  KCPause,
	"KC_INSERT": KCInsert, "KC_INS": KCIns,
	"KC_HOME": KCHome, "KC_PAGE_UP": KCPageUp,
	"KC_DELETE": KCDelete, "KC_DEL": KCDel,
	"KC_END": KCEnd, "KC_PAGE_DOWN": KCPageDown,
	"KC_RIGHT": KCRight, "KC_LEFT": KCLeft, "KC_DOWN": KCDown, "KC_UP": KCUp,

	"KC_LEFT_CTRL": KCLeftCtrl, "KC_LEFT_SHIFT": KCLeftShift,
	"KC_LEFT_ALT": KCLeftAlt, "KC_LEFT_GUI": KCLeftGui,
	"KC_RIGHT_CTRL": KCRightCtrl, "KC_RIGHT_SHIFT": KCRightShift,
	"KC_RIGHT_ALT": KCRightAlt, "KC_RIGHT_GUI": KCRightGui,

	"KC_SYSTEM_POWER": KCSystemPower, "KC_SYSTEM_SLEEP": KCSystemSleep,
	"KC_SYSTEM_WAKE": KCSystemWake,
	"KC_AUDIO_MUTE":  KCAudioMute, "KC_AUDIO_VOL_UP": KCAudioVolUp,
	"KC_AUDIO_VOL_DOWN": KCAudioVolDown,
	"KC_MEDIA_NEXT_TRACK": KCMediaNextTrack, "KC_MEDIA_PREV_TRACK": KCMediaPrevTrack,
	"KC_MEDIA_STOP": KCMediaStop, "KC_MEDIA_PLAY_PAUSE": KCMediaPlayPause,

	"KC_MOUSE_BTN_L": KCMouseBtnL, "KC_MOUSE_BTN_R": KCMouseBtnR,
	"KC_MOUSE_BTN_M": KCMouseBtnM,
	"KC_MOUSE_UP": KCMouseUp, "KC_MOUSE_DOWN": KCMouseDown,
	"KC_MOUSE_LEFT": KCMouseLeft, "KC_MOUSE_RIGHT": KCMouseRight,
	"KC_MOUSE_WHEEL_UP": KCMouseWheelUp, "KC_MOUSE_WHEEL_DOWN": KCMouseWheelDown,

	"KC_KEY_LOCK": KCKeyLock, "KC_LAYER_LOCK": KCLayerLock,
	"KC_PROFILE_SWAP": KCProfileSwap, "KC_PROFILE_NEXT": KCProfileNext,
	"KC_BOOT": KCBoot,
	"KC_MAGIC_BOOTLOADER": KCMagicBootloader, "KC_MAGIC_REBOOT": KCMagicReboot,
	"KC_MAGIC_FACTORY_RESET": KCMagicFactoryReset, "KC_MAGIC_RECALIBRATE": KCMagicRecalibrate,
}

// Lookup resolves a board TOML file's KC_* identifier to its Code,
// including the parametric KC_LAYER_MO_<n> and KC_PROFILE_<n> forms.
func Lookup(name string) (Code, bool) {
	if kc, ok := names[name]; ok {
		return kc, true
	}
	if n, ok := parseSuffix(name, "KC_LAYER_MO_"); ok {
		return LayerMo(n), true
	}
	if n, ok := parseSuffix(name, "KC_PROFILE_"); ok {
		return Profile(n), true
	}
	return 0, false
}

func parseSuffix(name, prefix string) (uint8, bool) {
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return 0, false
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 0 || n > 7 {
		return 0, false
	}
	return uint8(n), true
}
