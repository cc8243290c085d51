// SPDX-License-Identifier: BSD-3-Clause

package advancedkeys

import (
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/keycode"
)

// nullBindState is the runtime half of an AkNullBind binding: the two
// physical keys it links (ak.Key and ak.NullBind.SecondaryKey) are slots
// 0 and 1 respectively.
type nullBindState struct {
	keycodes    [2]keycode.Code
	isPressed   [2]bool
	registered  [2]bool
	lastPressed int // last slot (0/1) to transition to pressed, for Last/tie-break
}

func physicalKeyForSlot(ak configstore.AdvancedKey, slot int) int {
	if slot == 0 {
		return int(ak.Key)
	}
	return int(ak.NullBind.SecondaryKey)
}

func (m *Manager) resolveSlotKeycode(ak configstore.AdvancedKey, slot int) keycode.Code {
	if slot == 0 {
		return m.resolver.Resolve(int(ak.Key))
	}
	return m.resolver.Resolve(int(ak.NullBind.SecondaryKey))
}

func (m *Manager) processNullBind(idx int, ak configstore.AdvancedKey, slot int, ev EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &m.nb[idx]

	switch ev {
	case EventPress:
		st.keycodes[slot] = m.resolveSlotKeycode(ak, slot)
		st.isPressed[slot] = true
		st.lastPressed = slot
		if !st.isPressed[1-slot] {
			m.nullBindRegister(ak, st, slot)
		} else {
			m.nullBindResolve(ak, st)
		}
	case EventRelease:
		if st.registered[slot] {
			m.nullBindUnregister(ak, st, slot)
		}
		st.isPressed[slot] = false
	case EventBottomOut, EventReleaseFromBottomOut, EventHold:
		if st.isPressed[0] && st.isPressed[1] {
			m.nullBindResolve(ak, st)
		}
	}
	return nil
}

// nullBindResolve re-decides which half(es) of a simultaneously-held pair
// should be registered, per §4.4's priority rules.
func (m *Manager) nullBindResolve(ak configstore.AdvancedKey, st *nullBindState) {
	bottomOutPoint := ak.NullBind.BottomOutPoint
	d0 := m.distanceOf(physicalKeyForSlot(ak, 0))
	d1 := m.distanceOf(physicalKeyForSlot(ak, 1))

	if bottomOutPoint > 0 && d0 >= bottomOutPoint && d1 >= bottomOutPoint {
		m.nullBindRegister(ak, st, 0)
		m.nullBindRegister(ak, st, 1)
		return
	}

	var winner int
	switch ak.NullBind.Behavior {
	case configstore.NullBindDistance:
		switch {
		case d0 > d1:
			winner = 0
		case d1 > d0:
			winner = 1
		default:
			winner = st.lastPressed
		}
	case configstore.NullBindPrimary:
		winner = 0
	case configstore.NullBindSecondary:
		winner = 1
	case configstore.NullBindNeutral:
		m.nullBindUnregister(ak, st, 0)
		m.nullBindUnregister(ak, st, 1)
		return
	default: // NullBindLast
		winner = st.lastPressed
	}

	m.nullBindUnregister(ak, st, 1-winner)
	m.nullBindRegister(ak, st, winner)
}

func (m *Manager) nullBindRegister(ak configstore.AdvancedKey, st *nullBindState, slot int) {
	if st.registered[slot] {
		return
	}
	m.exec.Register(physicalKeyForSlot(ak, slot), st.keycodes[slot])
	st.registered[slot] = true
}

func (m *Manager) nullBindUnregister(ak configstore.AdvancedKey, st *nullBindState, slot int) {
	if !st.registered[slot] {
		return
	}
	m.exec.Unregister(physicalKeyForSlot(ak, slot), st.keycodes[slot])
	st.registered[slot] = false
}

func (m *Manager) distanceOf(key int) uint8 {
	if tk, ok := m.track[key]; ok {
		return tk.lastDistance
	}
	return 0
}
