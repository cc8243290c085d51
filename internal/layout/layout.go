// SPDX-License-Identifier: BSD-3-Clause

// Package layout resolves a physical key press into a keycode against the
// active profile's layered keymap, and carries out the side effects bound
// to layer/profile/magic keycodes.
package layout

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/hid"
	"github.com/openhmk/hmkcore/internal/keycode"
	"github.com/openhmk/hmkcore/internal/matrix"
)

// Layout holds the runtime layer state and the keymap cache for the
// active profile.
type Layout struct {
	mu sync.Mutex

	numKeys int
	keymap  [configstore.NumLayers][]keycode.Code

	layerMask    uint16
	defaultLayer uint8
	keyLocked    []bool
	pressed      []keycode.Code // resolved keycode last pressed per key; KCNo if none

	composer *hid.Composer
	cfg      *configstore.ConfigStore
	mat      *matrix.Matrix
	board    capability.BoardControl

	// OnProfileChange is invoked after a profile switch (PF/PROFILE_SWAP/
	// PROFILE_NEXT) with the new profile index, so the scan-loop owner can
	// clear AdvancedKeys state per §4.4's "clear on profile change" rule.
	OnProfileChange func(profile uint8)
}

// New constructs a Layout for numKeys physical keys.
func New(numKeys int, composer *hid.Composer, cfg *configstore.ConfigStore, mat *matrix.Matrix, board capability.BoardControl) *Layout {
	l := &Layout{
		numKeys:   numKeys,
		keyLocked: make([]bool, numKeys),
		pressed:   make([]keycode.Code, numKeys),
		composer:  composer,
		cfg:       cfg,
		mat:       mat,
		board:     board,
	}
	for i := range l.keymap {
		l.keymap[i] = make([]keycode.Code, numKeys)
	}
	return l
}

// ReloadKeymap re-reads every layer's keymap for the active profile from
// ConfigStore. Must be called at boot and after every profile switch.
//
// ConfigStore's factory reset leaves layer 0 holding KC_NO placeholders
// where the board definition names a default key (see its defaultProfile
// comment) — resolving those KC_ names is this package's job, so a fresh
// board boots with its advertised default keymap instead of a blank one.
func (l *Layout) ReloadKeymap() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	profile := int(l.cfg.GetCurrentProfile())
	board := l.cfg.Board()
	for layer := 0; layer < configstore.NumLayers; layer++ {
		raw, err := l.cfg.GetKeymap(profile, layer)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReloadFailed, err)
		}
		for k := 0; k < l.numKeys && k < len(raw); k++ {
			kc := keycode.Code(raw[k])
			if layer == 0 && kc == keycode.KCNo && board != nil && k < len(board.DefaultKeymap) {
				if resolved, ok := keycode.Lookup(board.DefaultKeymap[k]); ok {
					kc = resolved
				}
			}
			l.keymap[layer][k] = kc
		}
	}
	return nil
}

// currentLayerLocked computes current_layer := layer_mask == 0 ?
// default_layer : 31-clz(layer_mask), expressed over a 16-bit mask as the
// index of its highest set bit.
func (l *Layout) currentLayerLocked() uint8 {
	if l.layerMask == 0 {
		return l.defaultLayer
	}
	return uint8(bits.Len16(l.layerMask) - 1)
}

func (l *Layout) resolveLocked(key int) keycode.Code {
	cur := l.currentLayerLocked()
	for layer := int(cur); layer >= 0; layer-- {
		active := l.layerMask&(1<<uint(layer)) != 0 || uint8(layer) == l.defaultLayer
		if !active {
			continue
		}
		if kc := l.keymap[layer][key]; kc != keycode.KCTransparent {
			return kc
		}
	}
	return l.keymap[l.defaultLayer][key]
}

// Press resolves and applies the press-side effect of physical key.
func (l *Layout) Press(key int) error {
	l.mu.Lock()
	if key < 0 || key >= l.numKeys {
		l.mu.Unlock()
		return ErrKeyOutOfRange
	}

	kc := l.resolveLocked(key)

	if kc == keycode.KCKeyLock {
		l.keyLocked[key] = !l.keyLocked[key]
		l.mu.Unlock()
		return nil
	}
	if l.keyLocked[key] && l.currentLayerLocked() == 0 {
		l.mu.Unlock()
		return nil
	}

	l.pressed[key] = kc
	l.mu.Unlock()

	return l.applyPress(key, kc)
}

// Release applies the release-side effect matching the keycode that was
// resolved at Press time for the same physical key.
func (l *Layout) Release(key int) error {
	l.mu.Lock()
	if key < 0 || key >= l.numKeys {
		l.mu.Unlock()
		return ErrKeyOutOfRange
	}
	if l.keyLocked[key] && l.currentLayerLocked() == 0 {
		l.mu.Unlock()
		return nil
	}
	kc := l.pressed[key]
	l.pressed[key] = keycode.KCNo
	l.mu.Unlock()

	return l.applyRelease(key, kc)
}

func (l *Layout) applyPress(key int, kc keycode.Code) error {
	switch {
	case keycode.IsKeyboard(kc) || keycode.IsModifier(kc) || keycode.IsSystem(kc) || keycode.IsConsumer(kc) || keycode.IsMouse(kc):
		l.composer.AddKeycode(kc)
		return nil
	}
	if layer, ok := keycode.IsLayerMo(kc); ok {
		l.layerOn(layer)
		return nil
	}
	if profile, ok := keycode.IsProfile(kc); ok {
		return l.switchProfile(uint8(profile))
	}
	switch kc {
	case keycode.KCLayerLock:
		l.mu.Lock()
		cur := l.currentLayerLocked()
		if cur == l.defaultLayer {
			l.defaultLayer = 0
		} else {
			l.defaultLayer = cur
		}
		l.mu.Unlock()
	case keycode.KCProfileSwap:
		if err := l.cfg.SwapToLastNonDefaultProfile(); err != nil {
			return err
		}
		return l.afterProfileSwitch()
	case keycode.KCProfileNext:
		if err := l.cfg.NextProfile(); err != nil {
			return err
		}
		return l.afterProfileSwitch()
	case keycode.KCMagicBootloader:
		return l.board.EnterBootloader()
	case keycode.KCMagicReboot:
		return l.board.Reboot()
	case keycode.KCMagicFactoryReset:
		return l.cfg.Reset()
	case keycode.KCMagicRecalibrate:
		l.mat.Recalibrate()
	}
	return nil
}

func (l *Layout) applyRelease(key int, kc keycode.Code) error {
	switch {
	case keycode.IsKeyboard(kc) || keycode.IsModifier(kc) || keycode.IsSystem(kc) || keycode.IsConsumer(kc) || keycode.IsMouse(kc):
		l.composer.RemoveKeycode(kc)
		return nil
	}
	if layer, ok := keycode.IsLayerMo(kc); ok {
		l.layerOff(layer)
	}
	return nil
}

func (l *Layout) layerOn(layer uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.layerMask |= 1 << uint(layer&0x7)
}

func (l *Layout) layerOff(layer uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.layerMask &^= 1 << uint(layer&0x7)
}

func (l *Layout) switchProfile(profile uint8) error {
	if err := l.cfg.SetCurrentProfile(profile); err != nil {
		return err
	}
	return l.afterProfileSwitch()
}

func (l *Layout) afterProfileSwitch() error {
	if err := l.ReloadKeymap(); err != nil {
		return err
	}
	if l.OnProfileChange != nil {
		l.OnProfileChange(l.cfg.GetCurrentProfile())
	}
	return nil
}

// Register is the direct injection path AdvancedKeys and DeferredStack use
// — it bypasses layer resolution and writes straight to the composer.
func (l *Layout) Register(key int, kc keycode.Code) {
	l.composer.AddKeycode(kc)
}

// Unregister mirrors Register.
func (l *Layout) Unregister(key int, kc keycode.Code) {
	l.composer.RemoveKeycode(kc)
}

// Resolve returns the keycode normal layout resolution would have
// produced for key without applying any press/release side effect. This
// is AdvancedKeys' view into Layout for the keycodes of both NullBind keys.
func (l *Layout) Resolve(key int) keycode.Code {
	l.mu.Lock()
	defer l.mu.Unlock()
	if key < 0 || key >= l.numKeys {
		return keycode.KCNo
	}
	return l.resolveLocked(key)
}

// CurrentLayer exposes the resolved active layer, mostly for diagnostics
// and tests.
func (l *Layout) CurrentLayer() uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentLayerLocked()
}
