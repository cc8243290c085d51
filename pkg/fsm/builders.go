// SPDX-License-Identifier: BSD-3-Clause

package fsm

import "time"

// State names shared by the per-key behavior state machines. Every advanced
// key that needs a machine (rather than a flat event table) builds on one of
// these three shapes.
const (
	StateRapidTriggerInactive = "inactive"
	StateRapidTriggerDown     = "down"
	StateRapidTriggerUp       = "up"

	StateTapHoldNone = "none"
	StateTapHoldTap  = "tap"
	StateTapHoldHold = "hold"

	StateToggleNormal = "normal"
	StateToggleActive = "toggled"
)

// Trigger names fired into the machines built below.
const (
	TriggerPress       = "press"
	TriggerRelease     = "release"
	TriggerReleaseFar  = "release_far"
	TriggerHoldTimeout = "hold_timeout"
	TriggerTapTimeout  = "tap_timeout"
)

// NewStateMachine creates a bare state machine from the provided options,
// with no domain states or transitions pre-filled.
func NewStateMachine(opts ...Option) (*Machine, error) {
	config := NewConfig(opts...)
	return New(config)
}

// NewRapidTriggerMachine builds the three-state machine behind per-key Rapid
// Trigger: Inactive, Down, and Up. continuousGuard reports whether continuous
// mode is enabled for the key, which permits Down->Down re-triggers without
// passing back through Inactive. releaseFarGuard reports whether travel has
// receded past the release-distance threshold from the deepest point seen in
// the current Down run, which is what actually drives Down->Up.
func NewRapidTriggerMachine(name string, continuousGuard, releaseFarGuard GuardFunc, opts ...Option) (*Machine, error) {
	baseOpts := []Option{
		WithName(name),
		WithDescription("rapid trigger travel-direction state machine"),
		WithInitialState(StateRapidTriggerInactive),
		WithStates(StateRapidTriggerInactive, StateRapidTriggerDown, StateRapidTriggerUp),
		WithTransition(StateRapidTriggerInactive, StateRapidTriggerDown, TriggerPress),
		WithTransition(StateRapidTriggerDown, StateRapidTriggerInactive, TriggerRelease),
		WithGuardedTransition(StateRapidTriggerDown, StateRapidTriggerUp, TriggerReleaseFar, releaseFarGuard),
		WithTransition(StateRapidTriggerUp, StateRapidTriggerInactive, TriggerRelease),
		WithGuardedTransition(StateRapidTriggerUp, StateRapidTriggerDown, TriggerPress, continuousGuard),
		WithStateTimeout(time.Second),
	}

	allOpts := append(baseOpts, opts...)
	return NewStateMachine(allOpts...)
}

// NewTapHoldMachine builds the three-state machine behind a dual-role key:
// None (idle), Tap (pressed, still inside the tapping-term window), and Hold
// (pressed, tapping term elapsed). tapTimeoutGuard should report whether the
// tapping-term deadline has passed; it is evaluated on the hold_timeout
// trigger, which callers fire on every scan tick while the key is held.
func NewTapHoldMachine(name string, tapTimeoutGuard GuardFunc, onHold, onTap ActionFunc, opts ...Option) (*Machine, error) {
	baseOpts := []Option{
		WithName(name),
		WithDescription("tap-hold dual-role key state machine"),
		WithInitialState(StateTapHoldNone),
		WithStates(StateTapHoldNone, StateTapHoldTap, StateTapHoldHold),
		WithTransition(StateTapHoldNone, StateTapHoldTap, TriggerPress),
		WithCompleteTransition(StateTapHoldTap, StateTapHoldHold, TriggerHoldTimeout, tapTimeoutGuard, onHold),
		WithActionTransition(StateTapHoldTap, StateTapHoldNone, TriggerRelease, onTap),
		WithTransition(StateTapHoldHold, StateTapHoldNone, TriggerRelease),
		WithStateTimeout(time.Second),
	}

	allOpts := append(baseOpts, opts...)
	return NewStateMachine(allOpts...)
}

// NewToggleMachine builds the two-state machine behind a Toggle advanced
// key: Normal and Toggled. Each press flips the state; a toggled key reports
// held until pressed again.
func NewToggleMachine(name string, opts ...Option) (*Machine, error) {
	baseOpts := []Option{
		WithName(name),
		WithDescription("toggle key state machine"),
		WithInitialState(StateToggleNormal),
		WithStates(StateToggleNormal, StateToggleActive),
		WithTransition(StateToggleNormal, StateToggleActive, TriggerPress),
		WithTransition(StateToggleActive, StateToggleNormal, TriggerPress),
		WithStateTimeout(time.Second),
	}

	allOpts := append(baseOpts, opts...)
	return NewStateMachine(allOpts...)
}

// MigrationBuilder assembles a configuration-store migration machine: one
// state per schema version, with a single "upgrade" trigger wired from each
// version to the next. Each step's Action performs the in-place field
// reshuffle for that version bump and is expected to be idempotent, since a
// partially-applied upgrade may be retried after a power loss.
type MigrationBuilder struct {
	name  string
	steps []migrationStep
}

type migrationStep struct {
	from, to string
	upgrade  ActionFunc
}

// NewMigrationBuilder starts a migration machine named after the config
// schema it upgrades, e.g. "configstore".
func NewMigrationBuilder(name string) *MigrationBuilder {
	return &MigrationBuilder{name: name}
}

// WithStep appends an upgrade step from one schema version to the next.
// Versions are opaque strings (callers typically use "v0", "v1", ...);
// steps must be added in ascending order.
func (b *MigrationBuilder) WithStep(from, to string, upgrade ActionFunc) *MigrationBuilder {
	b.steps = append(b.steps, migrationStep{from: from, to: to, upgrade: upgrade})
	return b
}

// Build produces the migration Machine, starting in the version of the
// first step added (the oldest schema this machine knows how to read).
func (b *MigrationBuilder) Build() (*Machine, error) {
	if len(b.steps) == 0 {
		return nil, ErrInvalidConfig
	}

	states := make([]string, 0, len(b.steps)+1)
	states = append(states, b.steps[0].from)
	opts := []Option{
		WithName(b.name),
		WithDescription("configuration schema migration ladder"),
		WithInitialState(b.steps[0].from),
	}

	for _, step := range b.steps {
		states = append(states, step.to)
		opts = append(opts, WithActionTransition(step.from, step.to, "upgrade", step.upgrade))
	}

	opts = append([]Option{}, opts...)
	opts = append(opts, WithStates(states...))

	return NewStateMachine(opts...)
}
