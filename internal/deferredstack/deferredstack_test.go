// SPDX-License-Identifier: BSD-3-Clause

package deferredstack

import (
	"testing"

	"github.com/openhmk/hmkcore/internal/keycode"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	registered   []keycode.Code
	unregistered []keycode.Code
}

func (r *recordingExecutor) Register(key int, kc keycode.Code)   { r.registered = append(r.registered, kc) }
func (r *recordingExecutor) Unregister(key int, kc keycode.Code) { r.unregistered = append(r.unregistered, kc) }

func TestDrainExecutesLIFOOrder(t *testing.T) {
	exec := &recordingExecutor{}
	s := New(exec)
	require.NoError(t, s.Push(Action{Kind: KindPress, Keycode: keycode.KCA}))
	require.NoError(t, s.Push(Action{Kind: KindPress, Keycode: keycode.KCB}))

	s.Drain()
	require.Equal(t, []keycode.Code{keycode.KCB, keycode.KCA}, exec.registered)
	require.Equal(t, 0, s.Len())
}

func TestPushRejectedWhenFull(t *testing.T) {
	exec := &recordingExecutor{}
	s, err := NewWithCapacity(exec, 2)
	require.NoError(t, err)
	require.NoError(t, s.Push(Action{Kind: KindPress}))
	require.NoError(t, s.Push(Action{Kind: KindPress}))
	require.ErrorIs(t, s.Push(Action{Kind: KindPress}), ErrFull)
}

func TestTapDegradesToPressOnlyDuringDrain(t *testing.T) {
	exec := &recordingExecutor{}
	s := New(exec)
	require.NoError(t, s.Push(Action{Kind: KindTap, Keycode: keycode.KCA}))

	s.Drain()
	require.Equal(t, []keycode.Code{keycode.KCA}, exec.registered)
	require.Empty(t, exec.unregistered)
	require.Equal(t, 0, s.Len())
}

func TestNewWithCapacityRejectsNonPowerOfTwo(t *testing.T) {
	_, err := NewWithCapacity(&recordingExecutor{}, 10)
	require.ErrorIs(t, err, ErrNotPowerOf2)
}
