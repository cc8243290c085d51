// SPDX-License-Identifier: BSD-3-Clause

package ipc

import "errors"

var (
	// ErrInvalidConfiguration indicates the service configuration failed
	// validation (empty name, non-positive timeout, negative connection
	// limit, or JetStream enabled with no memory/storage budget).
	ErrInvalidConfiguration = errors.New("ipc: invalid service configuration")
	// ErrServerCreationFailed indicates the embedded NATS server could not
	// be constructed from the validated configuration.
	ErrServerCreationFailed = errors.New("ipc: failed to create embedded server")
	// ErrServerNotReady indicates an in-process connection was requested but
	// the server did not become ready for connections within one minute.
	ErrServerNotReady = errors.New("ipc: server not ready for connections")
	// ErrServerTimeout indicates Start gave up waiting for the server to
	// report ready.
	ErrServerTimeout = errors.New("ipc: server startup timed out")
	// ErrInProcessConnFailed indicates the embedded server rejected an
	// in-process connection request.
	ErrInProcessConnFailed = errors.New("ipc: in-process connection failed")
	// ErrConnectionNotAvailable indicates InProcessConn was called before
	// the server was constructed.
	ErrConnectionNotAvailable = errors.New("ipc: connection not available")
)
