// SPDX-License-Identifier: BSD-3-Clause

package configstore

import (
	"fmt"
	"sync"

	"github.com/openhmk/hmkcore/internal/boarddef"
	"github.com/openhmk/hmkcore/internal/wearlevel"
)

// ConfigStore is a typed, in-RAM-cached view over a WearLevel region
// implementing the schema in schema.go. All mutation flows through
// WearLevel.Write so that a crash between the setter returning and the next
// boot is observed as either the pre- or post-write state.
type ConfigStore struct {
	mu    sync.RWMutex
	wl    *wearlevel.WearLevel
	board *boarddef.Definition
	root  Root
}

// New wraps wl with the configuration schema, using board for factory
// reset defaults.
func New(wl *wearlevel.WearLevel, board *boarddef.Definition) *ConfigStore {
	return &ConfigStore{wl: wl, board: board}
}

// Init initializes the underlying WearLevel and reads the root; if magics
// and version match CurrentVersion, the in-RAM cache is populated and Init
// returns. Otherwise it attempts Migrate, falling back to Reset if
// migration fails.
func (c *ConfigStore) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.wl.Init(); err != nil {
		return err
	}
	buf := make([]byte, sizeofRoot)
	if err := c.wl.Read(0, buf); err != nil {
		return err
	}
	root := UnmarshalRoot(buf)

	if root.MagicStart == MagicStart && root.MagicEnd == MagicEnd && root.Version == CurrentVersion {
		c.root = root
		return nil
	}

	if root.MagicStart == MagicStart && root.MagicEnd == MagicEnd {
		if migrated, err := migrate(root); err == nil {
			c.root = migrated
			return c.writeWholeLocked()
		}
	}

	return c.resetLocked()
}

// Reset overwrites the whole configuration with board defaults.
func (c *ConfigStore) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked()
}

func (c *ConfigStore) resetLocked() error {
	c.root = defaultRoot(c.board)
	return c.writeWholeLocked()
}

func (c *ConfigStore) writeWholeLocked() error {
	return c.wl.Write(0, c.root.Marshal())
}

func defaultRoot(board *boarddef.Definition) Root {
	r := Root{
		MagicStart: MagicStart,
		MagicEnd:   MagicEnd,
		Version:    CurrentVersion,
		Calibration: Calibration{
			InitialRest:      board.DefaultRestValue,
			InitialBottomOut: board.DefaultBottomOutValue,
		},
		CurrentProfile:        0,
		LastNonDefaultProfile: uint8(min(1, NumProfiles-1)),
	}
	for i := range r.Profiles {
		r.Profiles[i] = defaultProfile(board)
	}
	return r
}

func defaultProfile(board *boarddef.Definition) Profile {
	var p Profile
	for k := 0; k < MaxKeys && k < board.NumKeys; k++ {
		p.ActuationMap[k] = Actuation{ActuationPoint: board.DefaultActuationPoint}
		if k < len(board.DefaultKeymap) {
			// Layout resolves KC_ name strings; layer 0 carries the
			// board's default keymap, higher layers start transparent (1).
			p.Keymap[0][k] = 0 // resolved by internal/layout from board.DefaultKeymap at load time
		}
		for l := 1; l < NumLayers; l++ {
			p.Keymap[l][k] = 1 // KC_TRANSPARENT
		}
	}
	p.TickRate = 1
	p.GamepadOptions = GamepadOptions{
		AnalogCurve: [4][2]uint8{{0, 0}, {85, 85}, {170, 170}, {255, 255}},
	}
	return p
}

func (c *ConfigStore) checkProfile(profile int) error {
	if profile < 0 || profile >= NumProfiles {
		return fmt.Errorf("%w: profile %d", ErrOutOfRange, profile)
	}
	return nil
}

func (c *ConfigStore) checkRange(start, length, limit int) error {
	if start < 0 || length < 0 || start+length > limit {
		return fmt.Errorf("%w: start=%d len=%d limit=%d", ErrOutOfRange, start, length, limit)
	}
	return nil
}

// Board returns the board definition this store was constructed with, so
// callers that need factory-default context (internal/layout resolving
// KC_ names for a freshly reset keymap) don't need their own copy.
func (c *ConfigStore) Board() *boarddef.Definition {
	return c.board
}

// GetCalibration returns the current board-wide calibration seed.
func (c *ConfigStore) GetCalibration() Calibration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root.Calibration
}

// SetCalibration overwrites the board-wide calibration seed.
func (c *ConfigStore) SetCalibration(cal Calibration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	enc := [4]byte{}
	enc[0], enc[1] = byte(cal.InitialRest), byte(cal.InitialRest>>8)
	enc[2], enc[3] = byte(cal.InitialBottomOut), byte(cal.InitialBottomOut>>8)
	if err := c.wl.Write(4+2, enc[:]); err != nil {
		return err
	}
	c.root.Calibration = cal
	return nil
}

// GetCurrentProfile returns the active profile index.
func (c *ConfigStore) GetCurrentProfile() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root.CurrentProfile
}

// SetCurrentProfile switches the active profile.
func (c *ConfigStore) SetCurrentProfile(profile uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(int(profile)); err != nil {
		return err
	}
	last := c.root.LastNonDefaultProfile
	if c.root.CurrentProfile != 0 {
		last = c.root.CurrentProfile
	}
	if err := c.wl.Write(10, []byte{profile, last}); err != nil {
		return err
	}
	c.root.CurrentProfile = profile
	c.root.LastNonDefaultProfile = last
	return nil
}

// SwapToLastNonDefaultProfile implements PROFILE_SWAP.
func (c *ConfigStore) SwapToLastNonDefaultProfile() error {
	c.mu.RLock()
	target := c.root.LastNonDefaultProfile
	c.mu.RUnlock()
	return c.SetCurrentProfile(target)
}

// NextProfile implements PROFILE_NEXT.
func (c *ConfigStore) NextProfile() error {
	c.mu.RLock()
	next := (c.root.CurrentProfile + 1) % NumProfiles
	c.mu.RUnlock()
	return c.SetCurrentProfile(next)
}

// GetOptions returns the keyboard-enabled/gamepad-override flags for a
// profile (the COMMAND_GET_OPTIONS view, distinct from the full
// gamepad analog options).
func (c *ConfigStore) GetOptions(profile int) (kbEnabled, gamepadOverride bool, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.checkProfile(profile); err != nil {
		return false, false, err
	}
	o := c.root.Profiles[profile].GamepadOptions
	return o.KbEnabled, o.GamepadOverride, nil
}

// SetOptions updates the keyboard-enabled/gamepad-override flags for a
// profile without touching the analog curve or joystick shape flags.
func (c *ConfigStore) SetOptions(profile int, kbEnabled, gamepadOverride bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	opts := c.root.Profiles[profile].GamepadOptions
	opts.KbEnabled, opts.GamepadOverride = kbEnabled, gamepadOverride
	enc := marshalGamepadOptions(opts)
	if err := c.wl.Write(GamepadOptionsOffset(profile), enc[:]); err != nil {
		return err
	}
	c.root.Profiles[profile].GamepadOptions = opts
	return nil
}

// GetKeymap returns a copy of layer's keymap row for profile.
func (c *ConfigStore) GetKeymap(profile, layer int) ([MaxKeys]uint8, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.checkProfile(profile); err != nil {
		return [MaxKeys]uint8{}, err
	}
	if layer < 0 || layer >= NumLayers {
		return [MaxKeys]uint8{}, fmt.Errorf("%w: layer %d", ErrOutOfRange, layer)
	}
	return c.root.Profiles[profile].Keymap[layer], nil
}

// SetKeymap writes data as keycodes [start, start+len) of layer's keymap
// row in profile.
func (c *ConfigStore) SetKeymap(profile, layer, start int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	if layer < 0 || layer >= NumLayers {
		return fmt.Errorf("%w: layer %d", ErrOutOfRange, layer)
	}
	if err := c.checkRange(start, len(data), MaxKeys); err != nil {
		return err
	}
	if err := c.wl.Write(KeymapOffset(profile, layer)+start, data); err != nil {
		return err
	}
	copy(c.root.Profiles[profile].Keymap[layer][start:], data)
	return nil
}

// SetActuationMap writes raw per-key actuation bytes [start, start+len) for
// profile; len must be a multiple of sizeofActuation.
func (c *ConfigStore) SetActuationMap(profile, start int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	if len(data)%sizeofActuation != 0 {
		return fmt.Errorf("%w: actuation payload must be a multiple of %d", ErrInvalidPayload, sizeofActuation)
	}
	if err := c.checkRange(start, len(data), sizeofActuationMap); err != nil {
		return err
	}
	if err := c.wl.Write(ActuationMapOffset(profile)+start, data); err != nil {
		return err
	}
	for i := 0; i*sizeofActuation < len(data); i++ {
		key := start/sizeofActuation + i
		off := i * sizeofActuation
		c.root.Profiles[profile].ActuationMap[key] = unmarshalActuation(data[off : off+sizeofActuation])
	}
	return nil
}

// SetAdvancedKeys writes raw advanced-key table bytes [start, start+len)
// for profile; len must be a multiple of sizeofAdvancedKey.
func (c *ConfigStore) SetAdvancedKeys(profile, start int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	if len(data)%sizeofAdvancedKey != 0 {
		return fmt.Errorf("%w: advanced key payload must be a multiple of %d", ErrInvalidPayload, sizeofAdvancedKey)
	}
	if err := c.checkRange(start, len(data), sizeofAdvKeys); err != nil {
		return err
	}
	if err := c.wl.Write(AdvancedKeysOffset(profile)+start, data); err != nil {
		return err
	}
	for i := 0; i*sizeofAdvancedKey < len(data); i++ {
		idx := start/sizeofAdvancedKey + i
		off := i * sizeofAdvancedKey
		c.root.Profiles[profile].AdvancedKeys[idx] = unmarshalAdvancedKey(data[off : off+sizeofAdvancedKey])
	}
	return nil
}

// GetAdvancedKeys returns a copy of profile's advanced-key table.
func (c *ConfigStore) GetAdvancedKeys(profile int) ([MaxAdvancedKeys]AdvancedKey, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.checkProfile(profile); err != nil {
		return [MaxAdvancedKeys]AdvancedKey{}, err
	}
	return c.root.Profiles[profile].AdvancedKeys, nil
}

// GetActuationMap returns a copy of profile's actuation map.
func (c *ConfigStore) GetActuationMap(profile int) ([MaxKeys]Actuation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.checkProfile(profile); err != nil {
		return [MaxKeys]Actuation{}, err
	}
	return c.root.Profiles[profile].ActuationMap, nil
}

// SetTickRate sets profile's scan tick divisor.
func (c *ConfigStore) SetTickRate(profile int, rate uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	if err := c.wl.Write(TickRateOffset(profile), []byte{rate}); err != nil {
		return err
	}
	c.root.Profiles[profile].TickRate = rate
	return nil
}

// GetTickRate returns profile's scan tick divisor.
func (c *ConfigStore) GetTickRate(profile int) (uint8, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.checkProfile(profile); err != nil {
		return 0, err
	}
	return c.root.Profiles[profile].TickRate, nil
}

// SetGamepadButtons writes raw gamepad-button-map bytes [start, start+len)
// for profile.
func (c *ConfigStore) SetGamepadButtons(profile, start int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	if err := c.checkRange(start, len(data), MaxKeys); err != nil {
		return err
	}
	if err := c.wl.Write(GamepadButtonsOffset(profile)+start, data); err != nil {
		return err
	}
	copy(c.root.Profiles[profile].GamepadButtons[start:], data)
	return nil
}

// GetGamepadButtons returns a copy of profile's gamepad button map.
func (c *ConfigStore) GetGamepadButtons(profile int) ([MaxKeys]uint8, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.checkProfile(profile); err != nil {
		return [MaxKeys]uint8{}, err
	}
	return c.root.Profiles[profile].GamepadButtons, nil
}

// SetGamepadOptions overwrites profile's full gamepad options (curve and
// joystick shape flags, in addition to kb/override flags).
func (c *ConfigStore) SetGamepadOptions(profile int, opts GamepadOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	enc := marshalGamepadOptions(opts)
	if err := c.wl.Write(GamepadOptionsOffset(profile), enc[:]); err != nil {
		return err
	}
	c.root.Profiles[profile].GamepadOptions = opts
	return nil
}

// GetGamepadOptions returns profile's full gamepad options.
func (c *ConfigStore) GetGamepadOptions(profile int) (GamepadOptions, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.checkProfile(profile); err != nil {
		return GamepadOptions{}, err
	}
	return c.root.Profiles[profile].GamepadOptions, nil
}

// ResetProfile restores profile to the board's factory default.
func (c *ConfigStore) ResetProfile(profile int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(profile); err != nil {
		return err
	}
	fresh := defaultProfile(c.board)
	if err := c.wl.Write(ProfileOffset(profile), marshalProfile(fresh)); err != nil {
		return err
	}
	c.root.Profiles[profile] = fresh
	return nil
}

// DuplicateProfile copies src's full configuration into dst.
func (c *ConfigStore) DuplicateProfile(dst, src int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkProfile(dst); err != nil {
		return err
	}
	if err := c.checkProfile(src); err != nil {
		return err
	}
	srcProfile := c.root.Profiles[src]
	if err := c.wl.Write(ProfileOffset(dst), marshalProfile(srcProfile)); err != nil {
		return err
	}
	c.root.Profiles[dst] = srcProfile
	return nil
}

// Version returns the in-RAM cached schema version.
func (c *ConfigStore) Version() uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root.Version
}
