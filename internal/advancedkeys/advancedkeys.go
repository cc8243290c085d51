// SPDX-License-Identifier: BSD-3-Clause

// Package advancedkeys implements the per-physical-key behavioral overlays
// that sit between Matrix and Layout: NullBind, Dynamic Keystroke,
// Tap-Hold, and Toggle. A key bound to one of these on the active layer
// is intercepted before normal layout resolution and driven through
// Layout's direct register/unregister injection path instead.
package advancedkeys

import (
	"context"
	"fmt"
	"sync"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/deferredstack"
	"github.com/openhmk/hmkcore/internal/keycode"
	"github.com/openhmk/hmkcore/pkg/fsm"
)

// EventType is the synthesized edge driving a bound key's behavior this
// scan. Ordering matches the bitmap index DKS programs its four 2-bit
// actions against for Press/BottomOut/ReleaseFromBottomOut/Release.
type EventType uint8

const (
	EventNone EventType = iota
	EventHold
	EventPress
	EventBottomOut
	EventReleaseFromBottomOut
	EventRelease
)

// Event is the per-key, per-scan input to the behavior engine.
type Event struct {
	Type    EventType
	Key     int
	Keycode keycode.Code
	AkIndex int
}

// Executor is Layout's direct injection surface — register/unregister
// bypasses normal keymap resolution, which is exactly what a bound key's
// effective press/release needs.
type Executor interface {
	Register(key int, kc keycode.Code)
	Unregister(key int, kc keycode.Code)
}

// Resolver supplies the keycode normal layout resolution would have
// produced for a physical key, which NullBind needs for both of its halves.
type Resolver interface {
	Resolve(key int) keycode.Code
}

// RapidTriggerDisabler lets DKS suspend a key's Rapid Trigger state
// machine for the duration of an active DKS action, per §4.4.
type RapidTriggerDisabler interface {
	Disable(key int)
	Enable(key int)
}

type trackedKey struct {
	lastPressed  bool
	lastDistance uint8
	bottomedOut  bool
}

type binding struct {
	akIndex int
	slot    int // 0 for the AK's own Key, 1 for NullBind's SecondaryKey
}

// Manager owns every advanced-key binding for the active profile and the
// runtime state behind it. All state is cleared on profile change.
type Manager struct {
	mu sync.Mutex

	aks    []configstore.AdvancedKey
	nb     []nullBindState
	dks    []dksState
	th     []tapHoldState
	tg     []toggleState

	byKey map[int]binding // physical key -> owning AK binding, rebuilt per LoadProfile

	track map[int]*trackedKey

	exec     Executor
	deferred *deferredstack.Stack
	resolver Resolver
	timer    capability.Timer
	rt       RapidTriggerDisabler
}

// New constructs a Manager with no bindings loaded; call LoadProfile
// before Process. rt may be nil if the board doesn't need DKS's
// rapid-trigger suspension wired in (e.g. tests).
func New(exec Executor, deferred *deferredstack.Stack, resolver Resolver, timer capability.Timer, rt RapidTriggerDisabler) *Manager {
	return &Manager{
		exec:     exec,
		deferred: deferred,
		resolver: resolver,
		timer:    timer,
		rt:       rt,
		track:    make(map[int]*trackedKey),
	}
}

// LoadProfile installs aks as the active profile's advanced-key table and
// resets all runtime state, matching §4.4's "clear on profile change."
func (m *Manager) LoadProfile(aks []configstore.AdvancedKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseAllLocked()

	m.aks = make([]configstore.AdvancedKey, len(aks))
	copy(m.aks, aks)
	m.nb = make([]nullBindState, len(aks))
	m.dks = make([]dksState, len(aks))
	m.th = make([]tapHoldState, len(aks))
	m.tg = make([]toggleState, len(aks))
	m.byKey = make(map[int]binding)
	m.track = make(map[int]*trackedKey)

	for i, ak := range aks {
		if ak.Kind == configstore.AkNone {
			continue
		}
		m.byKey[int(ak.Key)] = binding{akIndex: i, slot: 0}
		if ak.Kind == configstore.AkNullBind {
			m.byKey[int(ak.NullBind.SecondaryKey)] = binding{akIndex: i, slot: 1}
		}
		if ak.Kind == configstore.AkTapHold {
			machine, err := fsm.NewTapHoldMachine(
				fmt.Sprintf("taphold-%d", ak.Key),
				m.th[i].tapTimeoutGuard(ak.TapHold.TappingTermMs, m.timer),
				m.th[i].onHoldAction(m, i, keycode.Code(ak.TapHold.HoldKeycode)),
				m.th[i].onTapAction(m, i, keycode.Code(ak.TapHold.TapKeycode)),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUnknownKind, err)
			}
			if err := machine.Start(context.Background()); err != nil {
				return fmt.Errorf("%w: %w", ErrUnknownKind, err)
			}
			m.th[i].machine = machine
		}
		if ak.Kind == configstore.AkToggle {
			machine, err := fsm.NewToggleMachine(fmt.Sprintf("toggle-%d", ak.Key))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUnknownKind, err)
			}
			if err := machine.Start(context.Background()); err != nil {
				return fmt.Errorf("%w: %w", ErrUnknownKind, err)
			}
			m.tg[i].machine = machine
		}
	}
	return nil
}

func (m *Manager) releaseAllLocked() {
	for i, ak := range m.aks {
		switch ak.Kind {
		case configstore.AkTapHold:
			if m.th[i].machine != nil && m.th[i].machine.IsInState(fsm.StateTapHoldHold) {
				m.exec.Unregister(int(ak.Key), keycode.Code(ak.TapHold.HoldKeycode))
			}
		case configstore.AkToggle:
			if m.tg[i].isToggled {
				m.exec.Unregister(int(ak.Key), keycode.Code(ak.Toggle.Keycode))
			}
		}
	}
}

// Bound reports whether physical key key has an active binding, and its
// index into the loaded AK table.
func (m *Manager) Bound(key int) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byKey[key]
	if !ok {
		return 0, false
	}
	return b.akIndex, true
}

// Process feeds one physical key's current matrix reading through its
// bound behavior. It must be called every scan tick for every bound key
// (not only on a press/release edge), since NullBind's Distance behavior
// and DKS's bottom-out detection both depend on continuous travel, not
// just edges.
func (m *Manager) Process(key int, pressed bool, distance uint8) error {
	m.mu.Lock()
	b, ok := m.byKey[key]
	if !ok {
		m.mu.Unlock()
		return ErrNotBound
	}
	ak := m.aks[b.akIndex]
	tk := m.track[key]
	if tk == nil {
		tk = &trackedKey{}
		m.track[key] = tk
	}
	ev := synthesize(tk, pressed, distance, bottomOutPointOf(ak))
	m.mu.Unlock()

	switch ak.Kind {
	case configstore.AkNullBind:
		return m.processNullBind(b.akIndex, ak, b.slot, ev)
	case configstore.AkDKS:
		return m.processDKS(b.akIndex, ak, ev)
	case configstore.AkTapHold:
		return m.processTapHold(b.akIndex, ak, ev)
	case configstore.AkToggle:
		return m.processToggle(b.akIndex, ak, ev)
	default:
		return fmt.Errorf("%w: kind=%d", ErrUnknownKind, ak.Kind)
	}
}

func bottomOutPointOf(ak configstore.AdvancedKey) uint8 {
	switch ak.Kind {
	case configstore.AkNullBind:
		return ak.NullBind.BottomOutPoint
	case configstore.AkDKS:
		return ak.DKS.BottomOutPoint
	default:
		return 0
	}
}

// synthesize derives this tick's edge from the previous and current
// matrix reading, updating tk in place.
func synthesize(tk *trackedKey, pressed bool, distance uint8, bottomOutPoint uint8) EventType {
	var ev EventType = EventNone

	switch {
	case pressed && !tk.lastPressed:
		ev = EventPress
	case !pressed && tk.lastPressed:
		ev = EventRelease
		tk.bottomedOut = false
	case pressed && bottomOutPoint > 0:
		if distance >= bottomOutPoint && !tk.bottomedOut {
			ev = EventBottomOut
			tk.bottomedOut = true
		} else if distance < bottomOutPoint && tk.bottomedOut {
			ev = EventReleaseFromBottomOut
			tk.bottomedOut = false
		}
	case pressed:
		ev = EventHold
	}

	tk.lastPressed = pressed
	tk.lastDistance = distance
	return ev
}

// Tick drives the timeout-based transitions for TapHold and Toggle
// bindings, which fire on elapsed time rather than a matrix edge.
// hasNonTapHoldPress reports whether any other, non-tap-hold key is
// currently pressed, feeding TapHold's hold_on_other_key_press option.
func (m *Manager) Tick(ctx context.Context, hasNonTapHoldPress bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, ak := range m.aks {
		switch ak.Kind {
		case configstore.AkTapHold:
			m.tickTapHold(ctx, i, ak, hasNonTapHoldPress)
		case configstore.AkToggle:
			m.tickToggle(ctx, i, ak)
		}
	}
}

// ClearOnProfileChange unregisters any still-held overlay keycodes and
// clears the NullBind, DKS, and key-tracking state plus the Tap-Hold
// timers and Toggle latches. The Tap-Hold and Toggle state machines keep
// their current state; LoadProfile rebuilds them.
func (m *Manager) ClearOnProfileChange() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseAllLocked()
	m.nb = make([]nullBindState, len(m.aks))
	m.dks = make([]dksState, len(m.aks))
	for i := range m.th {
		m.th[i].since = 0
	}
	for i := range m.tg {
		m.tg[i].isToggled = false
		m.tg[i].since = 0
	}
	m.track = make(map[int]*trackedKey)
}
