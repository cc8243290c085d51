// SPDX-License-Identifier: BSD-3-Clause

package fsm

import (
	"context"
	"fmt"
	"time"
)

// Config holds the configuration for a state machine wrapper.
type Config struct {
	// Name is the unique identifier for the state machine
	Name string
	// Description provides human-readable information about the state machine
	Description string
	// InitialState is the starting state of the machine
	InitialState string
	// States defines all possible states (simplified as string slice)
	States []string
	// Transitions defines allowed transitions including from/to states, triggers, and optional guard and action handlers
	Transitions []Transition
	// StateTimeout is the maximum time a state transition can take
	StateTimeout time.Duration
	// PersistState enables invoking PersistenceCallback after Start and after every Fire
	PersistState bool
	// EnableTracing attaches an OpenTelemetry tracer to Fire calls
	EnableTracing bool
	// PersistenceCallback is called when state changes need to be persisted
	PersistenceCallback PersistenceCallback
	// BroadcastCallback is called when state changes need to be broadcast
	BroadcastCallback BroadcastCallback
	// OnStateEntry is called when entering any state
	OnStateEntry EntryCallback
	// OnStateExit is called when exiting any state
	OnStateExit ExitCallback
}

// Transition represents a state transition.
type Transition struct {
	From    string
	To      string
	Trigger string
	Guard   GuardFunc
	Action  ActionFunc
}

// PersistenceCallback is called when state needs to be persisted.
type PersistenceCallback func(ctx context.Context, machineName, state string) error

// BroadcastCallback is called when state changes need to be broadcast.
type BroadcastCallback func(ctx context.Context, machineName, previousState, currentState, trigger string) error

// EntryCallback is called when entering a state.
type EntryCallback func(ctx context.Context, machineName, state string) error

// ExitCallback is called when exiting a state.
type ExitCallback func(ctx context.Context, machineName, state string) error

// GuardFunc determines if a transition is allowed. Guards receive the
// context the trigger was fired with, so a guard can read deadline or
// request-scoped values rather than closing over mutable state.
type GuardFunc func(ctx context.Context) bool

// ActionFunc is executed during a transition, after the guard passes and
// before the new state is considered entered.
type ActionFunc func(ctx context.Context, from, to string) error

// Option represents a configuration option for the state machine.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// WithName sets the name of the state machine.
func WithName(name string) Option {
	return optionFunc(func(c *Config) { c.Name = name })
}

// WithDescription sets the description of the state machine.
func WithDescription(description string) Option {
	return optionFunc(func(c *Config) { c.Description = description })
}

// WithInitialState sets the initial state of the state machine.
func WithInitialState(state string) Option {
	return optionFunc(func(c *Config) { c.InitialState = state })
}

// WithStates sets the available states for the state machine.
func WithStates(states ...string) Option {
	return optionFunc(func(c *Config) { c.States = append([]string(nil), states...) })
}

// WithTransition adds a transition to the state machine.
func WithTransition(from, to, trigger string) Option {
	return optionFunc(func(c *Config) {
		c.Transitions = append(c.Transitions, Transition{From: from, To: to, Trigger: trigger})
	})
}

// WithGuardedTransition adds a transition with a guard condition.
func WithGuardedTransition(from, to, trigger string, guard GuardFunc) Option {
	return optionFunc(func(c *Config) {
		c.Transitions = append(c.Transitions, Transition{From: from, To: to, Trigger: trigger, Guard: guard})
	})
}

// WithActionTransition adds a transition with an action.
func WithActionTransition(from, to, trigger string, action ActionFunc) Option {
	return optionFunc(func(c *Config) {
		c.Transitions = append(c.Transitions, Transition{From: from, To: to, Trigger: trigger, Action: action})
	})
}

// WithCompleteTransition adds a transition with both guard and action.
func WithCompleteTransition(from, to, trigger string, guard GuardFunc, action ActionFunc) Option {
	return optionFunc(func(c *Config) {
		c.Transitions = append(c.Transitions, Transition{From: from, To: to, Trigger: trigger, Guard: guard, Action: action})
	})
}

// WithStateTimeout sets the maximum duration for state transitions.
func WithStateTimeout(timeout time.Duration) Option {
	return optionFunc(func(c *Config) { c.StateTimeout = timeout })
}

// WithPersistState enables persisting the current state after Start and after every Fire.
func WithPersistState(enabled bool) Option {
	return optionFunc(func(c *Config) { c.PersistState = enabled })
}

// WithTracing enables OpenTelemetry spans around Fire.
func WithTracing(enabled bool) Option {
	return optionFunc(func(c *Config) { c.EnableTracing = enabled })
}

// WithPersistence sets the persistence callback.
func WithPersistence(callback PersistenceCallback) Option {
	return optionFunc(func(c *Config) { c.PersistenceCallback = callback })
}

// WithBroadcast sets the broadcast callback.
func WithBroadcast(callback BroadcastCallback) Option {
	return optionFunc(func(c *Config) { c.BroadcastCallback = callback })
}

// WithStateEntry sets the state entry callback, invoked on entry to any state.
func WithStateEntry(callback EntryCallback) Option {
	return optionFunc(func(c *Config) { c.OnStateEntry = callback })
}

// WithStateExit sets the state exit callback, invoked on exit from any state.
func WithStateExit(callback ExitCallback) Option {
	return optionFunc(func(c *Config) { c.OnStateExit = callback })
}

// NewConfig creates a new state machine configuration with the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		States:       []string{},
		Transitions:  []Transition{},
		StateTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt.apply(cfg)
	}

	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidConfig)
	}

	if c.InitialState == "" {
		return fmt.Errorf("%w: initial state cannot be empty", ErrInvalidConfig)
	}

	if len(c.States) == 0 {
		return fmt.Errorf("%w: at least one state must be defined", ErrInvalidConfig)
	}

	initialStateFound := false
	stateNames := make(map[string]bool, len(c.States))
	for _, state := range c.States {
		if state == "" {
			return fmt.Errorf("%w: state name cannot be empty", ErrInvalidConfig)
		}
		if stateNames[state] {
			return fmt.Errorf("%w: duplicate state name: %s", ErrInvalidConfig, state)
		}
		stateNames[state] = true
		if state == c.InitialState {
			initialStateFound = true
		}
	}

	if !initialStateFound {
		return fmt.Errorf("%w: initial state %s not found in states list", ErrInvalidConfig, c.InitialState)
	}

	for _, transition := range c.Transitions {
		if transition.From == "" || transition.To == "" {
			return fmt.Errorf("%w: transition from and to states cannot be empty", ErrInvalidConfig)
		}
		if transition.Trigger == "" {
			return fmt.Errorf("%w: transition trigger cannot be empty", ErrInvalidConfig)
		}
		if !stateNames[transition.From] {
			return fmt.Errorf("%w: transition from state %s not found", ErrInvalidConfig, transition.From)
		}
		if !stateNames[transition.To] {
			return fmt.Errorf("%w: transition to state %s not found", ErrInvalidConfig, transition.To)
		}
	}

	if c.StateTimeout <= 0 {
		return fmt.Errorf("%w: state timeout must be positive", ErrInvalidConfig)
	}

	return nil
}
