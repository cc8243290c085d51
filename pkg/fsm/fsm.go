// SPDX-License-Identifier: BSD-3-Clause

package fsm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/qmuntal/stateless"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Machine is a thread-safe finite state machine built on top of
// qmuntal/stateless, with optional persistence, broadcast, and tracing
// hooks around every transition.
type Machine struct {
	config  *Config
	machine *stateless.StateMachine
	mu      sync.RWMutex
	tracer  trace.Tracer
	started bool
	stopped bool

	currentState      string
	transitionMap     map[string]map[string]Transition
	persistCallback   PersistenceCallback
	broadcastCallback BroadcastCallback
}

// New creates a new state machine with the provided configuration.
func New(config *Config) (*Machine, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{
		config:            config,
		currentState:      config.InitialState,
		transitionMap:     make(map[string]map[string]Transition),
		persistCallback:   config.PersistenceCallback,
		broadcastCallback: config.BroadcastCallback,
	}

	if config.EnableTracing {
		m.tracer = otel.Tracer("fsm")
	}

	m.machine = stateless.NewStateMachine(config.InitialState)

	for _, state := range config.States {
		m.configureState(state)
	}

	for _, transition := range config.Transitions {
		m.configureTransition(transition)
	}

	return m, nil
}

// SetPersistenceCallback sets the callback for state persistence.
func (m *Machine) SetPersistenceCallback(callback PersistenceCallback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrStateMachineAlreadyStarted
	}

	m.persistCallback = callback
	return nil
}

// SetBroadcastCallback sets the callback for state change broadcasts.
func (m *Machine) SetBroadcastCallback(callback BroadcastCallback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrStateMachineAlreadyStarted
	}

	m.broadcastCallback = callback
	return nil
}

// Start initializes and starts the state machine.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return nil
	}

	if m.stopped {
		return ErrStateMachineStopped
	}

	m.started = true

	if m.config.PersistState && m.persistCallback != nil {
		if err := m.persistCallback(ctx, m.config.Name, m.currentState); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
		}
	}

	return nil
}

// Stop gracefully stops the state machine.
func (m *Machine) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started || m.stopped {
		return nil
	}

	m.stopped = true
	return nil
}

// Fire triggers a state transition with the specified trigger.
func (m *Machine) Fire(ctx context.Context, trigger string, args ...any) error {
	m.mu.Lock()

	if !m.started {
		m.mu.Unlock()
		return ErrStateMachineNotStarted
	}

	if m.stopped {
		m.mu.Unlock()
		return ErrStateMachineStopped
	}

	var span trace.Span
	if m.tracer != nil {
		ctx, span = m.tracer.Start(ctx, "fsm.Fire",
			trace.WithAttributes(
				attribute.String("state_machine.name", m.config.Name),
				attribute.String("state.current", m.currentState),
				attribute.String("trigger", trigger),
			))
		defer span.End()
	}

	if ok, err := m.machine.CanFire(trigger, args...); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: trigger %s not valid in state %s: %w", ErrInvalidTrigger, trigger, m.currentState, err)
	} else if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: trigger %s not valid in state %s", ErrInvalidTrigger, trigger, m.currentState)
	}

	previousState := m.currentState

	timeout := m.config.StateTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	fireCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		if err := m.machine.FireCtx(fireCtx, trigger, args...); err != nil {
			done <- fmt.Errorf("%w: %w", ErrInvalidTransition, err)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			if span != nil {
				span.RecordError(err)
			}
			m.mu.Unlock()
			return err
		}
	case <-fireCtx.Done():
		if fireCtx.Err() == context.DeadlineExceeded {
			m.mu.Unlock()
			return ErrTransitionTimeout
		}
		m.mu.Unlock()
		return fireCtx.Err()
	}

	state, err := m.machine.State(ctx)
	if err != nil {
		if span != nil {
			span.RecordError(err)
		}
		m.mu.Unlock()
		return fmt.Errorf("failed to get current state: %w", err)
	}
	m.currentState = fmt.Sprintf("%v", state)

	// Capture values and callbacks, then unlock before invoking external code.
	name := m.config.Name
	curr := m.currentState
	persistEnabled := m.config.PersistState
	persistCb := m.persistCallback
	broadcastCb := m.broadcastCallback
	m.mu.Unlock()

	if persistEnabled && persistCb != nil {
		if perr := persistCb(ctx, name, curr); perr != nil {
			if span != nil {
				span.RecordError(perr)
			}
			return fmt.Errorf("%w: %w", ErrPersistenceFailed, perr)
		}
	}
	if broadcastCb != nil {
		if berr := broadcastCb(ctx, name, previousState, curr, trigger); berr != nil && span != nil {
			span.RecordError(berr)
		}
	}

	if span != nil {
		span.SetAttributes(
			attribute.String("state.previous", previousState),
			attribute.String("state.new", curr),
		)
	}

	return nil
}

// CurrentState returns the current state of the state machine.
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentState
}

// CanFire checks if the specified trigger can be fired from the current state.
func (m *Machine) CanFire(trigger string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.machine.CanFire(trigger)
}

// PermittedTriggers returns all triggers that can be fired from the current state.
func (m *Machine) PermittedTriggers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	triggers, err := m.machine.PermittedTriggers()
	if err != nil {
		return []string{}
	}

	result := make([]string, len(triggers))
	for i, t := range triggers {
		result[i] = fmt.Sprintf("%v", t)
	}
	return result
}

// IsInState checks if the state machine is in the specified state.
func (m *Machine) IsInState(state string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentState == state
}

// Name returns the name of the state machine.
func (m *Machine) Name() string {
	return m.config.Name
}

// Description returns the description of the state machine.
func (m *Machine) Description() string {
	return m.config.Description
}

// ToGraph returns a DOT graph representation of the state machine.
func (m *Machine) ToGraph() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.machine.ToGraph()
}

func (m *Machine) configureState(state string) {
	stateConfig := m.machine.Configure(state)

	if m.config.OnStateEntry != nil {
		entry := m.config.OnStateEntry
		name := m.config.Name
		stateConfig.OnEntry(func(ctx context.Context, args ...any) error {
			return entry(ctx, name, state)
		})
	}

	if m.config.OnStateExit != nil {
		exit := m.config.OnStateExit
		name := m.config.Name
		stateConfig.OnExit(func(ctx context.Context, args ...any) error {
			return exit(ctx, name, state)
		})
	}
}

func (m *Machine) configureTransition(transition Transition) {
	if m.transitionMap[transition.From] == nil {
		m.transitionMap[transition.From] = make(map[string]Transition)
	}
	m.transitionMap[transition.From][transition.Trigger] = transition

	fromCfg := m.machine.Configure(transition.From)

	if transition.Guard != nil {
		fromCfg.PermitDynamic(transition.Trigger, func(ctx context.Context, args ...any) (any, error) {
			if transition.Guard(ctx) {
				return transition.To, nil
			}
			return nil, ErrTransitionGuardFailed
		})
	} else {
		fromCfg.Permit(transition.Trigger, transition.To)
	}

	if transition.Action != nil {
		toCfg := m.machine.Configure(transition.To)
		toCfg.OnEntryFrom(transition.Trigger, func(ctx context.Context, args ...any) error {
			return transition.Action(ctx, transition.From, transition.To)
		})
	}
}

// Manager manages multiple named state machines.
type Manager struct {
	machines map[string]*Machine
	mu       sync.RWMutex
}

// NewManager creates a new state machine manager.
func NewManager() *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
	}
}

// AddStateMachine adds a state machine to the manager.
func (m *Manager) AddStateMachine(sm *Machine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sm == nil {
		return fmt.Errorf("%w: nil state machine", ErrInvalidConfig)
	}

	if _, exists := m.machines[sm.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrStateMachineExists, sm.Name())
	}

	m.machines[sm.Name()] = sm
	return nil
}

// RemoveStateMachine removes a state machine from the manager.
func (m *Manager) RemoveStateMachine(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.machines[name]; !exists {
		return fmt.Errorf("%w: %s", ErrStateMachineNotFound, name)
	}

	delete(m.machines, name)
	return nil
}

// GetStateMachine retrieves a state machine by name.
func (m *Manager) GetStateMachine(name string) (*Machine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sm, exists := m.machines[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStateMachineNotFound, name)
	}

	return sm, nil
}

// ListStateMachines returns the names of all managed state machines.
func (m *Manager) ListStateMachines() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.machines))
	for name := range m.machines {
		names = append(names, name)
	}

	return names
}

// StopAll stops all managed state machines.
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, sm := range m.machines {
		if err := sm.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
