// SPDX-License-Identifier: BSD-3-Clause

package matrix

import (
	"testing"

	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct{ now uint32 }

func (f *fakeTimer) NowMs() uint32 { return f.now }

func flatAct(actuationPoint, rtDown, rtUp uint8, continuous bool) configstore.Actuation {
	return configstore.Actuation{ActuationPoint: actuationPoint, RtDown: rtDown, RtUp: rtUp, Continuous: continuous}
}

func settle(m *Matrix, key int, raw uint16, ticks int) {
	for i := 0; i < ticks; i++ {
		m.StoreADC(key, raw)
	}
}

func TestNormalModeActuatesAtThreshold(t *testing.T) {
	timer := &fakeTimer{}
	m := New(1, 255, timer, false)
	require.NoError(t, m.SetActuationMap([]configstore.Actuation{flatAct(64, 0, 0, false)}))

	m.Recalibrate()
	settle(m, 0, 0, 40)
	m.Scan()

	settle(m, 0, 3000, 40)
	results := m.Scan()
	require.True(t, results[0].IsPressed)
}

func TestRapidTriggerReleasesOnReversal(t *testing.T) {
	timer := &fakeTimer{}
	m := New(1, 255, timer, false)
	require.NoError(t, m.SetActuationMap([]configstore.Actuation{flatAct(64, 10, 0, false)}))

	m.Recalibrate()
	settle(m, 0, 0, 40)
	m.Scan()

	settle(m, 0, 4095, 40)
	res := m.Scan()
	require.True(t, res[0].IsPressed)
	require.Equal(t, DirDown, res[0].Dir)

	settle(m, 0, 0, 40)
	res = m.Scan()
	require.False(t, res[0].IsPressed)
}

func TestSetActuationMapRejectsSizeMismatch(t *testing.T) {
	timer := &fakeTimer{}
	m := New(2, 255, timer, false)
	err := m.SetActuationMap([]configstore.Actuation{flatAct(64, 0, 0, false)})
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestRtUpNormalizedFromRtDown(t *testing.T) {
	timer := &fakeTimer{}
	m := New(1, 255, timer, false)
	require.NoError(t, m.SetActuationMap([]configstore.Actuation{flatAct(64, 10, 0, false)}))
	m.mu.Lock()
	rtUp := m.actuation[0].RtUp
	m.mu.Unlock()
	require.Equal(t, uint8(10), rtUp)
}

func TestInvertedKeyTracksDescendingRaw(t *testing.T) {
	timer := &fakeTimer{}
	m := New(1, 255, timer, true)
	require.NoError(t, m.SetActuationMap([]configstore.Actuation{flatAct(64, 0, 0, false)}))

	m.Recalibrate()
	settle(m, 0, adcMax, 40)
	m.Scan()

	settle(m, 0, 0, 40)
	res := m.Scan()
	require.True(t, res[0].IsPressed)
}
