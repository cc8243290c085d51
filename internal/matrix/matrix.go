// SPDX-License-Identifier: BSD-3-Clause

// Package matrix implements the per-key analog sensor pipeline: EMA
// filtering, runtime min/max calibration, the ADC-to-distance curve, and
// the per-key Normal/Rapid-Trigger actuation state machine.
package matrix

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/pkg/fsm"
)

// Direction is the per-key Rapid-Trigger travel direction.
type Direction uint8

const (
	DirInactive Direction = iota
	DirDown
	DirUp
)

const (
	// defaultEmaAlpha is the EMA shift; adc_filtered moves 1/2^alpha of the
	// way toward the new sample each store.
	defaultEmaAlpha = 4
	// calibrationEpsilon is how far a filtered reading must pass an endpoint
	// before that endpoint moves to it, absorbing small noise spikes.
	calibrationEpsilon = 4
	// initialThreshold pins adc_bottom_out during the calibration window,
	// before any key has actually bottomed out.
	initialThreshold    = 600
	calibrationDuration = 500 * time.Millisecond

	adcMax = 4095
)

// keyState is the per-physical-key runtime record.
type keyState struct {
	adcFiltered atomic.Uint32 // holds the ISR-EMA'd uint16 sample

	adcRest      uint16
	adcBottomOut uint16
	distance     uint8
	extremum     uint8
	dir          Direction
	isPressed    bool
	invert       bool
	suspended    bool // Rapid Trigger forced off by an active AdvancedKeys action

	rt *fsm.Machine // non-nil only while Rapid Trigger is enabled for this key
}

// KeyResult is one key's §4.3 pipeline output for a scan tick.
type KeyResult struct {
	Key       int
	Distance  uint8
	IsPressed bool
	Dir       Direction
	Changed   bool // IsPressed flipped since the previous Scan
}

// Matrix owns every physical key's sensor state and actuation
// configuration for the currently active profile.
type Matrix struct {
	mu sync.Mutex

	keys         []keyState
	actuation    []configstore.Actuation
	switchTravel uint8

	timer            capability.Timer
	calibrationUntil uint32 // NowMs() deadline; 0 once elapsed
}

// New constructs a Matrix for numKeys physical keys.
func New(numKeys int, switchTravel uint8, timer capability.Timer, invert bool) *Matrix {
	m := &Matrix{
		keys:         make([]keyState, numKeys),
		actuation:    make([]configstore.Actuation, numKeys),
		switchTravel: switchTravel,
		timer:        timer,
	}
	for i := range m.keys {
		m.keys[i].invert = invert
	}
	return m
}

// Recalibrate restarts the calibration window: only adc_rest is lowered
// during the window, and adc_bottom_out is pinned near adc_rest until a
// real bottom-out is observed afterward.
func (m *Matrix) Recalibrate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.timer.NowMs()
	m.calibrationUntil = now + uint32(calibrationDuration.Milliseconds())
	for i := range m.keys {
		m.keys[i].adcRest = adcMax
		m.keys[i].adcBottomOut = min16(m.keys[i].adcRest+initialThreshold, adcMax)
	}
}

// Disable forces key into plain actuation-point mode regardless of its
// Rapid-Trigger configuration, for the duration an AdvancedKeys Dynamic
// Keystroke action holds it.
func (m *Matrix) Disable(key int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key >= 0 && key < len(m.keys) {
		m.keys[key].suspended = true
	}
}

// Enable reverses Disable, letting key resume its configured
// Rapid-Trigger behavior.
func (m *Matrix) Enable(key int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key >= 0 && key < len(m.keys) {
		m.keys[key].suspended = false
	}
}

func min16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

// SetActuationMap updates the per-key actuation/Rapid-Trigger settings,
// typically called on boot and on every profile switch. rt_up==0 is
// normalized to rt_down per §3's Actuation invariant.
func (m *Matrix) SetActuationMap(act []configstore.Actuation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(act) != len(m.keys) {
		return fmt.Errorf("%w: got %d want %d", ErrInvalidProfile, len(act), len(m.keys))
	}
	for i, a := range act {
		if a.RtDown > 0 && a.RtUp == 0 {
			a.RtUp = a.RtDown
		}
		m.actuation[i] = a
		if a.RtDown > 0 && m.keys[i].rt == nil {
			rt, err := newRapidTriggerMachine(fmt.Sprintf("rt-%d", i))
			if err != nil {
				return err
			}
			if err := rt.Start(context.Background()); err != nil {
				return err
			}
			m.keys[i].rt = rt
		} else if a.RtDown == 0 {
			m.keys[i].rt = nil
			m.keys[i].dir = DirInactive
		}
	}
	return nil
}

func newRapidTriggerMachine(name string) (*fsm.Machine, error) {
	// Guards are unused: this machine mirrors keyState.dir for
	// observability/tracing, it does not itself gate the transition
	// decision (which Scan computes directly against extremum/rt_up/
	// rt_down so it stays allocation-free on the hot path).
	always := func(context.Context) bool { return true }
	return fsm.NewRapidTriggerMachine(name, always, always)
}

// StoreADC implements capability.AdcSink. Performs §4.3 steps 1-2 (optional
// inversion, EMA) and stores the result atomically so a concurrent Scan
// never observes a torn 16-bit value.
func (m *Matrix) StoreADC(key int, raw uint16) {
	if key < 0 || key >= len(m.keys) {
		return
	}
	k := &m.keys[key]
	x := raw
	if k.invert {
		x = adcMax - raw
	}
	prev := uint32(uint16(k.adcFiltered.Load()))
	next := (uint32(x) + prev*((1<<defaultEmaAlpha)-1)) >> defaultEmaAlpha
	k.adcFiltered.Store(next)
}

// Scan runs §4.3 steps 3-5 for every key and returns one result per key,
// in key order; Changed marks the keys whose is_pressed flipped.
func (m *Matrix) Scan() []KeyResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timer.NowMs()
	calibrating := m.calibrationUntil != 0 && now < m.calibrationUntil
	if m.calibrationUntil != 0 && now >= m.calibrationUntil {
		m.calibrationUntil = 0
	}

	results := make([]KeyResult, len(m.keys))
	for i := range m.keys {
		k := &m.keys[i]
		filtered := uint16(k.adcFiltered.Load())

		m.updateEndpoints(k, filtered, calibrating)

		distance := computeDistance(filtered, k.adcRest, k.adcBottomOut, m.switchTravel)

		act := m.actuation[i]
		var isPressed bool
		var dir Direction
		if act.RtDown == 0 || k.suspended {
			isPressed = distance >= act.ActuationPoint
			dir = DirInactive
		} else {
			isPressed, dir = m.rapidTrigger(k, distance, act)
		}

		changed := isPressed != k.isPressed
		k.distance, k.isPressed, k.dir = distance, isPressed, dir

		results[i] = KeyResult{Key: i, Distance: distance, IsPressed: isPressed, Dir: dir, Changed: changed}
	}
	return results
}

func (m *Matrix) updateEndpoints(k *keyState, filtered uint16, calibrating bool) {
	if filtered+calibrationEpsilon < k.adcRest {
		k.adcRest = filtered
	}
	if calibrating {
		k.adcBottomOut = min16(k.adcRest+initialThreshold, adcMax)
		return
	}
	if uint32(filtered) >= uint32(k.adcBottomOut)+calibrationEpsilon {
		k.adcBottomOut = filtered
	}
}

func (m *Matrix) rapidTrigger(k *keyState, distance uint8, act configstore.Actuation) (bool, Direction) {
	resetPoint := act.ActuationPoint
	if act.Continuous {
		resetPoint = 0
	}
	ctx := context.Background()

	switch k.dir {
	case DirInactive:
		if distance > act.ActuationPoint {
			k.extremum = distance
			fireRT(ctx, k.rt, "press")
			return true, DirDown
		}
		return false, DirInactive

	case DirDown:
		if distance <= resetPoint {
			fireRT(ctx, k.rt, "release")
			return false, DirInactive
		}
		if int(distance)+int(act.RtUp) < int(k.extremum) {
			k.extremum = distance
			fireRT(ctx, k.rt, "release_far")
			return false, DirUp
		}
		if distance > k.extremum {
			k.extremum = distance
		}
		return true, DirDown

	case DirUp:
		if distance <= resetPoint {
			fireRT(ctx, k.rt, "release")
			return false, DirInactive
		}
		if int(k.extremum)+int(act.RtDown) < int(distance) {
			k.extremum = distance
			fireRT(ctx, k.rt, "press")
			return true, DirDown
		}
		if distance < k.extremum {
			k.extremum = distance
		}
		return false, DirUp
	}
	return false, DirInactive
}

func fireRT(ctx context.Context, m *fsm.Machine, trigger string) {
	if m == nil {
		return
	}
	_ = m.Fire(ctx, trigger)
}

// Distance returns key's last-computed travel distance.
func (m *Matrix) Distance(key int) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key < 0 || key >= len(m.keys) {
		return 0
	}
	return m.keys[key].distance
}

// NumKeys returns the number of physical keys this Matrix tracks.
func (m *Matrix) NumKeys() int { return len(m.keys) }
