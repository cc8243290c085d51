// SPDX-License-Identifier: BSD-3-Clause

package advancedkeys

import (
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/deferredstack"
	"github.com/openhmk/hmkcore/internal/keycode"
)

// dksState tracks, per of the four programmable keycode slots, whether
// that slot is currently "held" (registered by a prior Press action),
// so a later Release/Tap knows whether it needs to unregister first.
type dksState struct {
	held [4]bool
}

func dksEventFor(ev EventType) (configstore.DksEvent, bool) {
	switch ev {
	case EventPress:
		return configstore.DksEventPress, true
	case EventBottomOut:
		return configstore.DksEventBottomOut, true
	case EventReleaseFromBottomOut:
		return configstore.DksEventReleaseFromBottomOut, true
	case EventRelease:
		return configstore.DksEventRelease, true
	default:
		return 0, false
	}
}

// processDKS runs Dynamic Keystroke: each of up to 4 keycode slots has its
// own 2-bit action programmed for this event kind, independent of the
// other three.
func (m *Manager) processDKS(idx int, ak configstore.AdvancedKey, ev EventType) error {
	dksEv, ok := dksEventFor(ev)
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	st := &m.dks[idx]
	key := int(ak.Key)

	for slot := 0; slot < 4; slot++ {
		kc := keycode.Code(ak.DKS.Keycodes[slot])
		if kc == keycode.KCNo {
			continue
		}
		switch ak.DKS.Action(slot, dksEv) {
		case configstore.DksHold:
			// no transition
		case configstore.DksPress:
			if st.held[slot] {
				m.exec.Unregister(key, kc)
			}
			_ = m.deferred.Push(deferredstack.Action{Kind: deferredstack.KindPress, Key: key, Keycode: kc})
			st.held[slot] = true
		case configstore.DksRelease:
			if st.held[slot] {
				m.exec.Unregister(key, kc)
			}
			st.held[slot] = false
		case configstore.DksTap:
			if st.held[slot] {
				m.exec.Unregister(key, kc)
			}
			_ = m.deferred.Push(deferredstack.Action{Kind: deferredstack.KindTap, Key: key, Keycode: kc})
			st.held[slot] = false
		}
	}

	if m.rt != nil {
		if st.anyHeld() {
			m.rt.Disable(key)
		} else {
			m.rt.Enable(key)
		}
	}
	return nil
}

func (st *dksState) anyHeld() bool {
	for _, h := range st.held {
		if h {
			return true
		}
	}
	return false
}
