// SPDX-License-Identifier: BSD-3-Clause

package advancedkeys

import (
	"context"

	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/keycode"
	"github.com/openhmk/hmkcore/pkg/fsm"
)

// toggleState is the runtime half of an AkToggle binding: a single
// keycode that either behaves momentarily or latches on, depending on
// whether it's released before its tapping term elapses.
type toggleState struct {
	machine   *fsm.Machine
	isToggled bool
	since     uint32
}

func (m *Manager) processToggle(idx int, ak configstore.AdvancedKey, ev EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &m.tg[idx]
	kc := keycode.Code(ak.Toggle.Keycode)

	switch ev {
	case EventPress:
		m.exec.Register(int(ak.Key), kc)
		st.isToggled = !st.isToggled
		if st.isToggled {
			st.since = m.timer.NowMs()
			if st.machine != nil {
				_ = st.machine.Fire(context.Background(), fsm.TriggerPress)
			}
		} else if st.machine != nil && st.machine.IsInState(fsm.StateToggleActive) {
			_ = st.machine.Fire(context.Background(), fsm.TriggerPress)
		}
	case EventRelease:
		if !st.isToggled {
			m.exec.Unregister(int(ak.Key), kc)
		} else if st.machine != nil && st.machine.IsInState(fsm.StateToggleActive) {
			// Released within the term: the latch holds and the term no
			// longer applies.
			_ = st.machine.Fire(context.Background(), fsm.TriggerPress)
		}
	}
	return nil
}

func (m *Manager) tickToggle(_ context.Context, idx int, ak configstore.AdvancedKey) {
	st := &m.tg[idx]
	if st.machine == nil || !st.isToggled {
		return
	}
	if !st.machine.IsInState(fsm.StateToggleActive) {
		return
	}
	elapsed := m.timer.NowMs() - st.since
	if uint32(ak.Toggle.TappingTermMs) != 0 && elapsed >= uint32(ak.Toggle.TappingTermMs) {
		st.isToggled = false
		_ = st.machine.Fire(context.Background(), fsm.TriggerPress)
	}
}
