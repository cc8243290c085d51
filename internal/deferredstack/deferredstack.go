// SPDX-License-Identifier: BSD-3-Clause

// Package deferredstack implements a bounded LIFO of post-HID-report
// actions: presses, releases, and taps that AdvancedKeys schedules to run
// one scan tick after the key edge that triggered them, so they never
// share a USB frame with the triggering press.
package deferredstack

import (
	"fmt"
	"sync"

	"github.com/openhmk/hmkcore/internal/keycode"
)

// DefaultCapacity resolves §9's open question (16 vs. 32 across headers)
// in favor of 16, which the spec notes is sufficient for observed bursts.
const DefaultCapacity = 16

// Kind is the action a deferred entry performs when drained.
type Kind uint8

const (
	KindPress Kind = iota
	KindRelease
	KindTap
)

// Action is one deferred (key, keycode) operation.
type Action struct {
	Kind    Kind
	Key     int
	Keycode keycode.Code
}

// Executor is the injection path a drained action runs against — Layout's
// register/unregister, which bypasses normal layer re-resolution.
type Executor interface {
	Register(key int, kc keycode.Code)
	Unregister(key int, kc keycode.Code)
}

// Stack is the bounded LIFO described by §4.5.
type Stack struct {
	mu       sync.Mutex
	items    []Action
	capacity int
	locked   bool
	exec     Executor
}

// New constructs a Stack with DefaultCapacity, executing drained actions
// against exec.
func New(exec Executor) *Stack {
	return &Stack{capacity: DefaultCapacity, exec: exec}
}

// NewWithCapacity is as New but with an explicit power-of-two capacity.
func NewWithCapacity(exec Executor, capacity int) (*Stack, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOf2, capacity)
	}
	return &Stack{capacity: capacity, exec: exec}, nil
}

// Push schedules action for the next Drain. It fails if the stack is
// locked (a Drain is in progress) or full. ISRs must never call Push —
// this is a main-loop-only operation per §5.
func (s *Stack) Push(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return ErrLocked
	}
	if len(s.items) >= s.capacity {
		return ErrFull
	}
	s.items = append(s.items, a)
	return nil
}

// Drain takes the lock for the duration of the call, snapshots and clears
// the stack, then executes each action in LIFO order (most recently
// pushed first). A Tap action re-pushes a Release so it fires on a later
// drain; since the stack stays locked for this whole call, that re-push
// is rejected and the tap degrades to press-only, which §4.5 accepts.
func (s *Stack) Drain() {
	s.mu.Lock()
	s.locked = true
	buf := make([]Action, len(s.items))
	copy(buf, s.items)
	s.items = s.items[:0]
	s.mu.Unlock()

	for i := len(buf) - 1; i >= 0; i-- {
		s.execute(buf[i])
	}

	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

func (s *Stack) execute(a Action) {
	switch a.Kind {
	case KindPress:
		s.exec.Register(a.Key, a.Keycode)
	case KindRelease:
		s.exec.Unregister(a.Key, a.Keycode)
	case KindTap:
		s.exec.Register(a.Key, a.Keycode)
		_ = s.Push(Action{Kind: KindRelease, Key: a.Key, Keycode: a.Keycode})
	}
}

// Len reports the number of pending actions, for tests/diagnostics.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
