// SPDX-License-Identifier: BSD-3-Clause

// Package fsm provides a thread-safe finite state machine wrapper around
// github.com/qmuntal/stateless, with optional persistence, broadcast, and
// tracing hooks around every transition.
//
// A state machine is built from a Config produced by NewConfig with
// functional options:
//
//	cfg := fsm.NewConfig(
//		fsm.WithName("rapid-trigger"),
//		fsm.WithInitialState("inactive"),
//		fsm.WithStates("inactive", "down", "up"),
//		fsm.WithTransition("inactive", "down", "press"),
//		fsm.WithGuardedTransition("down", "up", "release", releasedFarEnough),
//	)
//	m, err := fsm.New(cfg)
//
// Transitions carry an optional Guard (consulted before the transition is
// permitted) and an optional Action (run once the new state is entered).
// Both receive the context passed to Fire, so they can read deadlines or
// request-scoped values instead of closing over mutable state.
//
// Fire is safe to call from multiple goroutines; it serializes transitions
// under an internal mutex and bounds each one with Config.StateTimeout.
package fsm
