// SPDX-License-Identifier: BSD-3-Clause

package advancedkeys

import (
	"context"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/deferredstack"
	"github.com/openhmk/hmkcore/internal/keycode"
	"github.com/openhmk/hmkcore/pkg/fsm"
)

// tapHoldState is the runtime half of an AkTapHold binding, backed by the
// pkg/fsm None/Tap/Hold machine. hasOtherPress is refreshed each Tick and
// consulted by the guard so a same-tick other-key press can promote the
// binding to Hold before the tapping term elapses.
type tapHoldState struct {
	machine       *fsm.Machine
	since         uint32
	hasOtherPress bool
}

func (s *tapHoldState) tapTimeoutGuard(tappingTermMs uint16, timer capability.Timer) fsm.GuardFunc {
	return func(ctx context.Context) bool {
		if s.hasOtherPress {
			return true
		}
		if tappingTermMs == 0 {
			return false
		}
		return timer.NowMs()-s.since >= uint32(tappingTermMs)
	}
}

func (s *tapHoldState) onHoldAction(m *Manager, idx int, holdKeycode keycode.Code) fsm.ActionFunc {
	return func(ctx context.Context, from, to string) error {
		ak := m.aks[idx]
		m.exec.Register(int(ak.Key), holdKeycode)
		return nil
	}
}

// onTapAction fires when the machine transitions Tap->None on release
// while still within the tapping term: the tap registers immediately and
// a matching release is deferred one drain, so the tap is visible for at
// least one HID report before it disappears.
func (s *tapHoldState) onTapAction(m *Manager, idx int, tapKeycode keycode.Code) fsm.ActionFunc {
	return func(ctx context.Context, from, to string) error {
		ak := m.aks[idx]
		m.exec.Register(int(ak.Key), tapKeycode)
		return m.deferred.Push(deferredstack.Action{
			Kind:    deferredstack.KindRelease,
			Key:     int(ak.Key),
			Keycode: tapKeycode,
		})
	}
}

func (m *Manager) processTapHold(idx int, ak configstore.AdvancedKey, ev EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &m.th[idx]
	if st.machine == nil {
		return ErrUnknownKind
	}

	switch ev {
	case EventPress:
		st.since = m.timer.NowMs()
		return st.machine.Fire(context.Background(), fsm.TriggerPress)
	case EventRelease:
		wasHold := st.machine.IsInState(fsm.StateTapHoldHold)
		if wasHold {
			m.exec.Unregister(int(ak.Key), keycode.Code(ak.TapHold.HoldKeycode))
		}
		return st.machine.Fire(context.Background(), fsm.TriggerRelease)
	}
	return nil
}

func (m *Manager) tickTapHold(ctx context.Context, idx int, ak configstore.AdvancedKey, hasNonTapHoldPress bool) {
	st := &m.th[idx]
	if st.machine == nil || !st.machine.IsInState(fsm.StateTapHoldTap) {
		return
	}
	st.hasOtherPress = ak.TapHold.HoldOnOtherKeyPress && hasNonTapHoldPress
	_ = st.machine.Fire(ctx, fsm.TriggerHoldTimeout)
}
