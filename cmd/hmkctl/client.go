// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/openhmk/hmkcore/pkg/ipc"
)

// ErrCommandFailed is returned when the firmware's command handler
// reports failure through the status-prefix byte service/commandsrv
// prepends to every reply.
var ErrCommandFailed = errors.New("hmkctl: command failed")

// sendCommand issues one command/payload pair to the running firmware
// (real or simulated) over the IPC bus and strips the status-prefix byte
// service/commandsrv adds to every NATS reply.
func sendCommand(nc *nats.Conn, timeout time.Duration, cmd uint8, payload []byte) ([]byte, error) {
	subject := fmt.Sprintf("%s.%d", ipc.SubjectCommandPrefix, cmd)
	msg, err := nc.Request(subject, payload, timeout)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", subject, err)
	}
	if len(msg.Data) == 0 {
		return nil, fmt.Errorf("%w: empty reply", ErrCommandFailed)
	}
	if msg.Data[0] != 0 {
		return nil, ErrCommandFailed
	}
	return msg.Data[1:], nil
}
