// SPDX-License-Identifier: BSD-3-Clause

package commandsrv

import "errors"

var (
	ErrHandlersNil          = errors.New("commandsrv: command handlers not configured")
	ErrAlreadyStarted       = errors.New("commandsrv: service already started")
	ErrNATSConnectionFailed = errors.New("commandsrv: failed to connect to IPC bus")
	ErrMicroServiceFailed   = errors.New("commandsrv: failed to create micro service")
	ErrEndpointRegistration = errors.New("commandsrv: failed to register command endpoint")
)
