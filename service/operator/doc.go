// SPDX-License-Identifier: BSD-3-Clause

// Package operator provides a service orchestrator that manages and supervises
// the firmware core's two always-on services — the scan loop and the command
// protocol bridge — in a fault-tolerant manner. It acts as the central
// coordinator for the keyboard's runtime, handling service lifecycle
// management, inter-process communication setup, and providing a supervision
// tree for automatic service recovery.
//
// The operator service is the main entry point for the hosted simulator (and
// for any real board target built on hmkcore) and is responsible for
// starting, monitoring, and coordinating every other service. It implements a
// supervision strategy that automatically restarts failed services and keeps
// the keyboard responding even when one subsystem crash-loops.
//
// # Core Features
//
//   - Service lifecycle management and orchestration
//   - Fault-tolerant supervision with automatic restart policies
//   - Inter-process communication coordination via NATS
//   - Configurable service selection via the functional-options pattern
//   - OpenTelemetry integration for observability
//   - Graceful shutdown handling
//
// # Architecture
//
// The operator follows a supervision tree pattern where services are organized
// in a hierarchical structure with well-defined restart policies. The operator
// itself acts as the root supervisor, managing child services and handling
// their failures according to configured strategies.
//
// The supervision tree includes:
//   - IPC service (highest priority, started first)
//   - ScanLoop: Matrix, AdvancedKeys, Layout, HidComposer (which drains
//     DeferredStack), and XInput driven on a fixed tick
//   - CommandSrv: the raw-HID/NATS command protocol bridge
//   - Additional custom services
//
// # Service Management
//
// The operator manages the IPC bus and two named services, plus whatever a
// board target adds through WithExtraServices:
//
//   - IPC: Inter-process communication service (embedded NATS server)
//   - ScanLoop: the cooperative per-tick driver for every input component
//   - CommandSrv: bridges raw-HID OUT reports to the protocol handlers
//
// # Configuration
//
// The operator supports configuration through the options pattern. Services
// are supplied by the caller rather than built in by the operator itself:
//
//	op := operator.New(
//		operator.WithName("hmkcore"),
//		operator.WithTimeout(15*time.Second),
//		operator.WithIPC(
//			ipc.WithServerName("hmkcore-ipc"),
//		),
//		operator.WithScanLoop(scanloop.New(
//			scanloop.WithConfigStore(cfgStore),
//			scanloop.WithMatrix(mat),
//			scanloop.WithLayout(lay),
//			scanloop.WithComposer(composer),
//		)),
//		operator.WithCommandSrv(commandsrv.New(commandsrv.WithHandlers(handlers))),
//	)
//
// # Supervision and Fault Tolerance
//
// The operator implements a robust supervision strategy:
//
//   - Transient restart policy: Services are restarted on failure
//   - Configurable timeouts for service startup and shutdown
//   - Isolation: Service failures don't affect other services
//   - Logging of all service state changes
//
// # Inter-Process Communication
//
// The operator coordinates IPC setup for all services:
//
//   - Starts the IPC service first to provide communication infrastructure
//   - Provides connection providers to all other services
//   - Handles IPC service failures and recovery
//   - Supports both embedded and external IPC configurations
//
// # Usage Patterns
//
// ## Basic Usage
//
//	op := operator.New(
//		operator.WithScanLoop(scanloop.New(...)),
//		operator.WithCommandSrv(commandsrv.New(...)),
//	)
//	err := op.Run(ctx, nil)
//
// ## External IPC Integration
//
// When integrating with external IPC infrastructure:
//
//	// Use external IPC connection
//	err := op.Run(ctx, externalIPCConn)
//
// ## Adding Custom Services
//
// Custom services can be added to the supervision tree:
//
//	myService := &MyCustomService{}
//	op := operator.New(
//		operator.WithExtraServices(myService),
//	)
//
// # Error Handling
//
// The operator provides comprehensive error handling:
//
//   - Configuration validation before startup
//   - Graceful handling of service startup failures
//   - Detailed error reporting with context
//   - Automatic recovery from transient failures
//
// # Observability
//
// The operator integrates with OpenTelemetry for observability:
//
//   - Distributed tracing across all services
//   - Structured logging with correlation IDs
//   - Metrics collection and reporting
//
// # Example Implementation
//
//	package main
//
//	import (
//		"context"
//		"os"
//		"os/signal"
//		"syscall"
//		"time"
//
//		"github.com/openhmk/hmkcore/service/operator"
//		"github.com/openhmk/hmkcore/service/ipc"
//	)
//
//	func main() {
//		op := operator.New(
//			operator.WithName("hmksim"),
//			operator.WithTimeout(20*time.Second),
//			operator.WithIPC(
//				ipc.WithServerName("hmksim-ipc"),
//			),
//			operator.WithScanLoop(scanloop.New(
//				scanloop.WithConfigStore(cfg),
//				scanloop.WithMatrix(mat),
//				scanloop.WithLayout(lay),
//				scanloop.WithComposer(composer),
//			)),
//			operator.WithCommandSrv(commandsrv.New(commandsrv.WithHandlers(handlers))),
//		)
//
//		ctx, cancel := context.WithCancel(context.Background())
//		defer cancel()
//
//		sigChan := make(chan os.Signal, 1)
//		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
//
//		go func() {
//			<-sigChan
//			cancel()
//		}()
//
//		if err := op.Run(ctx, nil); err != nil {
//			if err != context.Canceled {
//				log.Fatal("Operator failed", "error", err)
//			}
//		}
//	}
//
// # Service Dependencies
//
// The operator manages service dependencies automatically:
//
//  1. IPC service starts first (communication infrastructure)
//  2. ScanLoop and CommandSrv start in parallel
//  3. Extra services start alongside them
//
// Services communicate with each other through the IPC infrastructure once
// all services are running and ready.
package operator
