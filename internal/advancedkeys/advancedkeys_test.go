// SPDX-License-Identifier: BSD-3-Clause

package advancedkeys_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openhmk/hmkcore/internal/advancedkeys"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/deferredstack"
	"github.com/openhmk/hmkcore/internal/keycode"
)

type fakeExec struct {
	registered   []keycode.Code
	unregistered []keycode.Code
}

func (f *fakeExec) Register(key int, kc keycode.Code)   { f.registered = append(f.registered, kc) }
func (f *fakeExec) Unregister(key int, kc keycode.Code) { f.unregistered = append(f.unregistered, kc) }

type fakeResolver struct{ kc keycode.Code }

func (f fakeResolver) Resolve(key int) keycode.Code { return f.kc }

type fakeTimer struct{ ms uint32 }

func (f *fakeTimer) NowMs() uint32 { return f.ms }

func newManager(t *testing.T, exec *fakeExec, resolver advancedkeys.Resolver, timer *fakeTimer) *advancedkeys.Manager {
	t.Helper()
	ds := deferredstack.New(exec)
	return advancedkeys.New(exec, ds, resolver, timer, nil)
}

func TestTapHoldTapsWithinTerm(t *testing.T) {
	exec := &fakeExec{}
	timer := &fakeTimer{}
	m := newManager(t, exec, fakeResolver{}, timer)

	aks := []configstore.AdvancedKey{{
		Key:  0,
		Kind: configstore.AkTapHold,
		TapHold: configstore.TapHoldPayload{
			TapKeycode:    uint8(keycode.KCA),
			HoldKeycode:   uint8(keycode.KCLeftShift),
			TappingTermMs: 200,
		},
	}}
	require.NoError(t, m.LoadProfile(aks))

	require.NoError(t, m.Process(0, true, 10))
	timer.ms = 50
	require.NoError(t, m.Process(0, false, 0))

	require.Contains(t, exec.registered, keycode.KCA)
	require.NotContains(t, exec.registered, keycode.KCLeftShift)
}

func TestTapHoldHoldsPastTappingTerm(t *testing.T) {
	exec := &fakeExec{}
	timer := &fakeTimer{}
	m := newManager(t, exec, fakeResolver{}, timer)

	aks := []configstore.AdvancedKey{{
		Key:  0,
		Kind: configstore.AkTapHold,
		TapHold: configstore.TapHoldPayload{
			TapKeycode:    uint8(keycode.KCA),
			HoldKeycode:   uint8(keycode.KCLeftShift),
			TappingTermMs: 200,
		},
	}}
	require.NoError(t, m.LoadProfile(aks))

	require.NoError(t, m.Process(0, true, 10))
	timer.ms = 250
	m.Tick(context.Background(), false)
	require.Contains(t, exec.registered, keycode.KCLeftShift)

	require.NoError(t, m.Process(0, false, 0))
	require.Contains(t, exec.unregistered, keycode.KCLeftShift)
}

func TestToggleLatchesUntilSecondPressWithinTerm(t *testing.T) {
	exec := &fakeExec{}
	timer := &fakeTimer{}
	m := newManager(t, exec, fakeResolver{}, timer)

	aks := []configstore.AdvancedKey{{
		Key:  0,
		Kind: configstore.AkToggle,
		Toggle: configstore.TogglePayload{
			Keycode:       uint8(keycode.KCCapsLock),
			TappingTermMs: 500,
		},
	}}
	require.NoError(t, m.LoadProfile(aks))

	require.NoError(t, m.Process(0, true, 255))
	require.NoError(t, m.Process(0, false, 0))
	require.Equal(t, 1, len(exec.registered))
	require.Empty(t, exec.unregistered)

	require.NoError(t, m.Process(0, true, 255))
	require.NoError(t, m.Process(0, false, 0))
	require.Equal(t, 2, len(exec.registered))
	require.Contains(t, exec.unregistered, keycode.KCCapsLock)
}

func TestToggleRevertsToMomentaryAfterTappingTerm(t *testing.T) {
	exec := &fakeExec{}
	timer := &fakeTimer{}
	m := newManager(t, exec, fakeResolver{}, timer)

	aks := []configstore.AdvancedKey{{
		Key:  0,
		Kind: configstore.AkToggle,
		Toggle: configstore.TogglePayload{
			Keycode:       uint8(keycode.KCCapsLock),
			TappingTermMs: 100,
		},
	}}
	require.NoError(t, m.LoadProfile(aks))

	require.NoError(t, m.Process(0, true, 255))
	timer.ms = 150
	m.Tick(context.Background(), false)
	require.NoError(t, m.Process(0, false, 0))

	require.Contains(t, exec.unregistered, keycode.KCCapsLock)
}

func TestNullBindLastPressWins(t *testing.T) {
	exec := &fakeExec{}
	timer := &fakeTimer{}
	m := newManager(t, exec, fakeResolver{kc: keycode.KCW}, timer)

	aks := []configstore.AdvancedKey{{
		Key:  0,
		Kind: configstore.AkNullBind,
		NullBind: configstore.NullBindPayload{
			SecondaryKey: uint8(keycode.KCS),
			Behavior:     configstore.NullBindLast,
		},
	}}
	require.NoError(t, m.LoadProfile(aks))

	require.NoError(t, m.Process(0, true, 100))           // primary pressed, registers KC_W
	require.NoError(t, m.Process(int(keycode.KCS), true, 120)) // secondary pressed -> Last wins, unregisters W

	require.Contains(t, exec.registered, keycode.KCW)
	require.Contains(t, exec.unregistered, keycode.KCW)
}

func TestDKSBottomOutRegistersMappedSlot(t *testing.T) {
	exec := &fakeExec{}
	timer := &fakeTimer{}
	ds := deferredstack.New(exec)
	m := advancedkeys.New(exec, ds, fakeResolver{}, timer, nil)

	aks := []configstore.AdvancedKey{{
		Key:  0,
		Kind: configstore.AkDKS,
		DKS: configstore.DksPayload{
			Keycodes:       [4]uint8{uint8(keycode.KCA), uint8(keycode.KCB), 0, 0},
			BottomOutPoint: 200,
		},
	}}
	aks[0].DKS.Bitmap[0] = uint8(configstore.DksPress) << (uint(configstore.DksEventPress) * 2)
	aks[0].DKS.Bitmap[0] |= uint8(configstore.DksPress) << (uint(configstore.DksEventBottomOut) * 2)
	require.NoError(t, m.LoadProfile(aks))

	require.NoError(t, m.Process(0, true, 50))
	require.NoError(t, m.Process(0, true, 220))
	ds.Drain()

	require.Contains(t, exec.registered, keycode.KCA)
}

func TestDKSPressDefersToNextDrain(t *testing.T) {
	exec := &fakeExec{}
	timer := &fakeTimer{}
	ds := deferredstack.New(exec)
	m := advancedkeys.New(exec, ds, fakeResolver{}, timer, nil)

	aks := []configstore.AdvancedKey{{
		Key:  0,
		Kind: configstore.AkDKS,
		DKS: configstore.DksPayload{
			Keycodes:       [4]uint8{uint8(keycode.KCA), 0, 0, 0},
			BottomOutPoint: 200,
		},
	}}
	aks[0].DKS.Bitmap[0] = uint8(configstore.DksPress) << (uint(configstore.DksEventBottomOut) * 2)
	require.NoError(t, m.LoadProfile(aks))

	require.NoError(t, m.Process(0, true, 50))
	require.NoError(t, m.Process(0, true, 220))

	require.NotContains(t, exec.registered, keycode.KCA)

	ds.Drain()

	require.Contains(t, exec.registered, keycode.KCA)
}
