// SPDX-License-Identifier: BSD-3-Clause

// Package operator provides a service orchestrator that manages and supervises
// the firmware's services in a fault-tolerant manner. It handles service lifecycle,
// inter-process communication setup, and provides a supervision tree for automatic
// service recovery.
package operator

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"cirello.io/oversight/v2"
	"github.com/arunsworld/nursery"
	"github.com/nats-io/nats.go"

	"github.com/openhmk/hmkcore/pkg/id"
	ipcPkg "github.com/openhmk/hmkcore/pkg/ipc"
	"github.com/openhmk/hmkcore/pkg/log"
	"github.com/openhmk/hmkcore/pkg/process"
	"github.com/openhmk/hmkcore/pkg/telemetry"
	"github.com/openhmk/hmkcore/service"
	"github.com/openhmk/hmkcore/service/ipc"
)

const defaultLogo = `
⠀⠀⠀⠀⠀⠀⣀⣠⣤⣤⣄⣀⠀⠀⠀⠀⠀⠀
⠀⠀⠀⠀⢀⣾⠟⠉⠀⠀⠉⠻⣷⡀⠀⠀⠀⠀
⠀⠀⠀⠀⣾⠏⠀⢀⣶⣶⡀⠀⠙⣷⠀⠀⠀⠀
⠀⠀⠀⢸⡿⠀⠀⠸⣿⣿⠇⠀⠀⢿⡇⠀⠀⠀
⠀⠀⠀⢸⡇⠀⠀⠀⠀⠀⠀⠀⠀⢸⡇⠀⠀⠀
⠀⣠⣴⣾⣷⣤⣄⠀⠀⠀⢀⣠⣴⣾⣷⣦⣄⠀
⠀⠛⠋⠁⠈⠙⠛⠷⠶⠶⠾⠟⠋⠁⠈⠙⠛⠃

h m k c o r e
`

// Compile-time assertion that Operator implements service.Service.
var _ service.Service = (*Operator)(nil)

// Operator manages the lifecycle of the firmware's services in a supervised
// environment. It provides service orchestration, fault tolerance, and
// inter-process communication coordination between the scan loop, the
// command protocol bridge, and any extra services a board wires in.
type Operator struct {
	config
}

// New creates a new Operator instance with the provided configuration
// options. The scan loop and command server must be supplied via
// WithScanLoop and WithCommandSrv; the operator itself only knows how to
// supervise service.Service values, not how to build the keyboard's
// components.
//
// Example usage:
//
//	op := operator.New(
//		operator.WithName("hmkcore"),
//		operator.WithScanLoop(scanloop.New(...)),
//		operator.WithCommandSrv(commandsrv.New(...)),
//		operator.WithTimeout(15*time.Second),
//	)
func New(opts ...Option) *Operator {
	cfg := &config{
		name:        "operator",
		id:          "",
		disableLogo: false,
		otelSetup:   telemetry.DefaultSetup,
		logger:      log.NewDefaultLogger(),
		timeout:     10 * time.Second,
		ipc:         ipc.New(),
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &Operator{
		config: *cfg,
	}
}

// Name returns the configured name of the operator service.
func (s *Operator) Name() string {
	return s.name
}

// Run starts the operator and all configured services under supervision.
// It sets up the supervision tree, configures inter-process communication,
// and manages the lifecycle of the scan loop, command server, and any extra
// services. The operator will run until the provided context is canceled or
// a fatal error occurs.
//
// The ipcConn parameter can be nil if an IPC service is configured via
// options. If both ipcConn and IPC service are provided, the external
// ipcConn takes precedence.
//
// Returns an error if initialization fails or if any critical service cannot be started.
func (s *Operator) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) (err error) {
	if s.name == "" {
		return ErrNameEmpty
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s %w: %v", s.Name(), ErrPanicked, r)
		}
	}()

	// Several services create tracers when they start, so the telemetry
	// setup runs here, before any of them is added to the supervision tree.
	s.otelSetup()

	// l logs the operator's own messages and backs the supervision tree's logger.
	l := log.GetGlobalLogger()

	if s.id == "" {
		idStr, err := id.GetOrCreatePersistentID(s.Name(), "/var/hmkcore/id")
		if err != nil {
			l.ErrorContext(ctx, "Failed to get/create persistent ID, using ephemeral ID", "error", err)
			s.id = id.NewID()
		} else {
			s.id = idStr
		}
	}

	if !s.disableLogo {
		if s.customLogo != "" {
			l.Info(s.customLogo)
		} else {
			l.Info(defaultLogo)
		}
	}

	supervisionTree := oversight.New(
		oversight.NeverHalt(),
		oversight.DefaultRestartStrategy(),
		oversight.WithLogger(log.NewOversightLogger(l)),
	)

	// A user needs to either provide a valid ipcConn when starting the operator
	// or let us create an IPC service ourselves from the configuration.
	// If both are provided we will NOT start another IPC service but re-use the provided ipcConn!
	if s.ipc == nil && ipcConn == nil {
		return ErrIPCNil
	}

	if s.ipc != nil && ipcConn == nil {
		if err := supervisionTree.Add(
			process.New(s.ipc, nil),
			oversight.Transient(),
			oversight.Timeout(s.timeout),
			s.ipc.Name(),
		); err != nil {
			return fmt.Errorf("%w %s to tree: %w", ErrAddProcess, s.ipc.Name(), err)
		}
	} else {
		if err := supervisionTree.Add(
			process.New(ipcPkg.NewStub(), nil),
			oversight.Transient(),
			oversight.Timeout(s.timeout),
			"ipc-stub",
		); err != nil {
			return fmt.Errorf("%w %s to tree: %w", ErrAddProcess, "ipc-stub", err)
		}
	}

	supervise := func(ctx context.Context, c chan error) {
		c <- supervisionTree.Start(ctx)
	}

	spawnProcs := func(ctx context.Context, c chan error) {
		var conn nats.InProcessConnProvider
		if ipcConn != nil {
			conn = ipcConn
		} else {
			conn = s.ipc.GetConnProvider()
		}

		// Dynamically add all service.Service fields to supervision tree
		configValue := reflect.ValueOf(s.config)
		for i := range configValue.NumField() {
			field := configValue.Field(i)

			// Check if field implements service.Service interface
			if field.IsValid() && field.CanInterface() {
				v := field.Interface()
				if v == nil {
					continue
				}
				if svc, ok := v.(service.Service); ok {
					if err := supervisionTree.Add(
						process.New(svc, conn),
						oversight.Transient(),
						oversight.Timeout(s.timeout),
						svc.Name(),
					); err != nil {
						c <- fmt.Errorf("%w %s to tree: %w", ErrAddProcess, svc.Name(), err)
						return
					}
				}
			}
		}

		for _, svc := range s.extraServices {
			if err := supervisionTree.Add(
				process.New(svc, conn),
				oversight.Transient(),
				oversight.Timeout(s.timeout),
				svc.Name(),
			); err != nil {
				c <- fmt.Errorf("%w %s to tree: %w", ErrAddExtraService, svc.Name(), err)
				return
			}
		}
	}

	l.InfoContext(ctx, "Starting child routines", "service", s.name)
	return nursery.RunConcurrentlyWithContext(ctx, supervise, spawnProcs)
}
