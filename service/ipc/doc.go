// SPDX-License-Identifier: BSD-3-Clause

// Package ipc provides an in-process NATS server for inter-process communication
// between the firmware's services. This service acts as the central message
// bus that service/scanloop, service/commandsrv, and every other service
// attach to.
//
// The IPC service creates and manages a NATS server instance that runs embedded
// within the firmware process, eliminating the need for external NATS server
// dependencies. It provides JetStream capabilities for persistent messaging
// and state management across firmware components.
//
// # Core Features
//
//   - Embedded NATS server with JetStream support
//   - In-process connection provider for other services
//   - Configurable server options and storage directories
//   - Graceful startup and shutdown handling
//   - Integration with the service supervision framework
//
// # Usage
//
// The IPC service is started first, as every other service depends on it for
// communication:
//
//	ipcService := ipc.New(
//		ipc.WithServiceName("ipc"),
//		ipc.WithServerName("hmk-ipc"),
//		ipc.WithStoreDir("/var/lib/hmkcore/ipc"),
//		ipc.WithJetStream(true),
//	)
//
//	// Start the service
//	err := ipcService.Run(ctx, nil)
//
// Other services can obtain connection providers to communicate through the IPC:
//
//	connProvider := ipcService.GetConnProvider()
//	conn, err := connProvider.InProcessConn()
//	if err != nil {
//		// Handle connection error
//	}
//
// # Configuration
//
// The IPC service can be configured with various options, covering both the
// service's own identity and the embedded server's resource limits:
//
//   - WithServiceName, WithServiceDescription, WithServiceVersion: service identity
//   - WithServerName, WithStoreDir, WithJetStream, WithDontListen: server identity and storage
//   - WithMaxMemory, WithMaxStorage, WithMaxConnections, WithMaxControlLine, WithMaxPayload: resource limits
//   - WithStartupTimeout, WithShutdownTimeout: lifecycle timeouts
//   - WithWriteDeadline, WithPingInterval, WithMaxPingsOut: connection health
//   - WithSlowConsumerDetection, WithSlowConsumerThreshold: slow-consumer settings (recorded in the config, not passed to the server)
//
// # Architecture
//
// The IPC service follows the standard service pattern used throughout this
// module:
//
//   - Implements the service.Service interface
//   - Provides a Run method for lifecycle management
//   - Supports graceful shutdown via context cancellation
//   - Integrates with the global logging system
//
// The service creates an embedded NATS server that other services connect to
// using in-process connections, providing high-performance message passing
// without network overhead.
package ipc
