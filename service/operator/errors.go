// SPDX-License-Identifier: BSD-3-Clause

package operator

import "errors"

var (
	// ErrNameEmpty indicates a supervised process was registered without a name.
	ErrNameEmpty = errors.New("operator: process name cannot be empty")
	// ErrIPCNil indicates the operator was started without an IPC
	// connection, either an ipcConn or a WithIPC option.
	ErrIPCNil = errors.New("operator: IPC service not configured: provide either ipcConn or WithIPC option")
	// ErrAddProcess indicates a process could not be added to the
	// supervision tree.
	ErrAddProcess = errors.New("operator: failed to add process to supervision tree")
	// ErrAddExtraService indicates an extra service could not be added to
	// the supervision tree.
	ErrAddExtraService = errors.New("operator: failed to add extra service to supervision tree")
	// ErrPanicked indicates a supervised process's Run panicked and was
	// recovered into an error instead of crashing the operator.
	ErrPanicked = errors.New("operator: process panicked")
)
