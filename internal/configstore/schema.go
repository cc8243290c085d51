// SPDX-License-Identifier: BSD-3-Clause

// Package configstore implements the versioned configuration schema of
// §3 layered on top of internal/wearlevel: typed getters, partial-range
// setters that delegate to WearLevel.Write with a precomputed (offset,
// length) pair, migration, and factory reset. The persistent schema is
// represented as fixed-size Go structs with a hand-rolled packed
// little-endian codec rather than pointer arithmetic into a raw buffer.
package configstore

// Compile-time bounds for the persistent schema. Chosen generously enough
// for a full-size board while keeping the root well under WL_VIRTUAL_SIZE's
// 8192-byte ceiling.
const (
	NumProfiles     = 4
	NumLayers       = 8
	MaxKeys         = 100
	MaxAdvancedKeys = 32

	MagicStart     = uint32(0x0A42494C)
	MagicEnd       = uint32(0x0A4B4D48)
	CurrentVersion = uint16(1)
)

// Calibration holds the board-wide sensor calibration seed values used
// before per-key runtime calibration has converged.
type Calibration struct {
	InitialRest       uint16
	InitialBottomOut  uint16
}

// Actuation is the per-key actuation/Rapid-Trigger configuration.
type Actuation struct {
	ActuationPoint uint8
	RtDown         uint8
	RtUp           uint8
	Continuous     bool
}

// AdvancedKeyKind discriminates the AdvancedKey payload union.
type AdvancedKeyKind uint8

const (
	AkNone AdvancedKeyKind = iota
	AkNullBind
	AkDKS
	AkTapHold
	AkToggle
)

// NullBindBehavior selects how simultaneous NullBind presses resolve.
type NullBindBehavior uint8

const (
	NullBindLast NullBindBehavior = iota
	NullBindPrimary
	NullBindSecondary
	NullBindNeutral
	NullBindDistance
)

// NullBindPayload is the AdvancedKey payload for AkNullBind.
type NullBindPayload struct {
	SecondaryKey   uint8
	Behavior       NullBindBehavior
	BottomOutPoint uint8
}

// DksAction is one of the four 2-bit actions in a DKS bitmap slot.
type DksAction uint8

const (
	DksHold DksAction = iota
	DksPress
	DksRelease
	DksTap
)

// DksEvent indexes the 4 DKS bitmap slots; order matches AkEvent ordering.
type DksEvent uint8

const (
	DksEventPress DksEvent = iota
	DksEventBottomOut
	DksEventReleaseFromBottomOut
	DksEventRelease
)

// DksPayload is the AdvancedKey payload for AkDKS.
type DksPayload struct {
	Keycodes       [4]uint8
	Bitmap         [4]uint8 // 4 x 2-bit DksAction, indexed by DksEvent
	BottomOutPoint uint8
}

// Action returns the DksAction programmed for the given event on the given
// keycode slot (0-3).
func (p DksPayload) Action(slot int, ev DksEvent) DksAction {
	return DksAction((p.Bitmap[slot] >> (uint(ev) * 2)) & 0x3)
}

// TapHoldPayload is the AdvancedKey payload for AkTapHold.
type TapHoldPayload struct {
	TapKeycode          uint8
	HoldKeycode         uint8
	TappingTermMs       uint16
	HoldOnOtherKeyPress bool
}

// TogglePayload is the AdvancedKey payload for AkToggle.
type TogglePayload struct {
	Keycode       uint8
	TappingTermMs uint16
}

// AdvancedKey is a per-physical-key behavior overlay binding. Payload
// fields for kinds other than Kind are zero and ignored.
type AdvancedKey struct {
	Layer    uint8
	Key      uint8
	Kind     AdvancedKeyKind
	NullBind NullBindPayload
	DKS      DksPayload
	TapHold  TapHoldPayload
	Toggle   TogglePayload
}

// GamepadOptions is the per-profile XInput shaping configuration.
type GamepadOptions struct {
	AnalogCurve     [4][2]uint8
	KbEnabled       bool
	GamepadOverride bool
	SquareJoystick  bool
	SnappyJoystick  bool
}

// Profile is one fully self-contained keymap/actuation/behavior/gamepad
// configuration; boards switch between NumProfiles of these at runtime.
type Profile struct {
	Keymap         [NumLayers][MaxKeys]uint8
	ActuationMap   [MaxKeys]Actuation
	AdvancedKeys   [MaxAdvancedKeys]AdvancedKey
	TickRate       uint8
	GamepadButtons [MaxKeys]uint8
	GamepadOptions GamepadOptions
}

// Root is the full persistent configuration image, stamped at the front
// and back of the wear-leveled virtual region with magic words so Init can
// detect a foreign or corrupt image cheaply.
type Root struct {
	MagicStart            uint32
	Version               uint16
	Calibration           Calibration
	CurrentProfile        uint8
	LastNonDefaultProfile uint8
	Profiles              [NumProfiles]Profile
	MagicEnd              uint32
}

// Byte sizes of the fixed-layout wire structs, used to build the offset
// tables below instead of pointer arithmetic into a raw buffer.
const (
	sizeofCalibration  = 4
	sizeofActuation    = 4
	sizeofAdvancedKey  = 1 + 1 + 1 + 9 // layer, key, kind, max(payload)=DKS(9)
	sizeofGamepadOpts  = 8 + 4
	sizeofKeymap       = NumLayers * MaxKeys
	sizeofActuationMap = MaxKeys * sizeofActuation
	sizeofAdvKeys      = MaxAdvancedKeys * sizeofAdvancedKey
	sizeofTickRate     = 1
	sizeofGamepadBtns  = MaxKeys

	profileKeymapOffset         = 0
	profileActuationOffset      = profileKeymapOffset + sizeofKeymap
	profileAdvancedKeysOffset   = profileActuationOffset + sizeofActuationMap
	profileTickRateOffset       = profileAdvancedKeysOffset + sizeofAdvKeys
	profileGamepadButtonsOffset = profileTickRateOffset + sizeofTickRate
	profileGamepadOptsOffset    = profileGamepadButtonsOffset + sizeofGamepadBtns
	sizeofProfile               = profileGamepadOptsOffset + sizeofGamepadOpts

	rootProfilesOffset = 4 + 2 + sizeofCalibration + 1 + 1
	sizeofRoot          = rootProfilesOffset + NumProfiles*sizeofProfile + 4
)

// ProfileOffset returns the byte offset of profile idx within the root.
func ProfileOffset(idx int) int { return rootProfilesOffset + idx*sizeofProfile }

// KeymapOffset returns the byte offset of layer's keymap row within
// profile idx.
func KeymapOffset(idx, layer int) int {
	return ProfileOffset(idx) + profileKeymapOffset + layer*MaxKeys
}

// ActuationMapOffset returns the byte offset of the actuation map within
// profile idx.
func ActuationMapOffset(idx int) int { return ProfileOffset(idx) + profileActuationOffset }

// AdvancedKeysOffset returns the byte offset of the advanced-key table
// within profile idx.
func AdvancedKeysOffset(idx int) int { return ProfileOffset(idx) + profileAdvancedKeysOffset }

// TickRateOffset returns the byte offset of the tick-rate byte within
// profile idx.
func TickRateOffset(idx int) int { return ProfileOffset(idx) + profileTickRateOffset }

// GamepadButtonsOffset returns the byte offset of the gamepad button map
// within profile idx.
func GamepadButtonsOffset(idx int) int { return ProfileOffset(idx) + profileGamepadButtonsOffset }

// GamepadOptionsOffset returns the byte offset of the gamepad options
// struct within profile idx.
func GamepadOptionsOffset(idx int) int { return ProfileOffset(idx) + profileGamepadOptsOffset }
