// SPDX-License-Identifier: BSD-3-Clause

package commandsrv

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/openhmk/hmkcore/pkg/ipc"
	"github.com/openhmk/hmkcore/pkg/log"
	"github.com/openhmk/hmkcore/service"
)

// DefaultServiceVersion is reported to NATS micro clients introspecting
// the service (e.g. via `nats micro info`).
const DefaultServiceVersion = "0.1.0"

var _ service.Service = (*CommandSrv)(nil)

// CommandSrv exposes internal/commandproto's handlers as one NATS micro
// endpoint per command ID, and optionally bridges a raw-HID transport's
// 64-byte OUT/IN buffers onto those same endpoints.
type CommandSrv struct {
	config

	mu      sync.Mutex
	started bool

	logger *slog.Logger
	tracer trace.Tracer

	nc  *nats.Conn
	svc micro.Service
}

// New constructs a CommandSrv. WithHandlers is required.
func New(opts ...Option) *CommandSrv {
	cfg := config{
		serviceName:    DefaultServiceName,
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return &CommandSrv{config: cfg}
}

// Name implements service.Service.
func (c *CommandSrv) Name() string { return c.serviceName }

// Run implements service.Service: it connects to the IPC bus, registers one
// micro endpoint per command ID, wires the raw-HID bridge if a transport
// was supplied, and blocks until ctx is canceled.
func (c *CommandSrv) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	c.tracer = otel.Tracer(c.serviceName)
	ctx, span := c.tracer.Start(ctx, "Run")
	defer span.End()

	c.logger = log.GetGlobalLogger().With("service", c.serviceName)

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	if c.handlers == nil {
		span.RecordError(ErrHandlersNil)
		return ErrHandlersNil
	}

	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrNATSConnectionFailed, err)
	}
	c.nc = nc
	defer nc.Drain() //nolint:errcheck

	svc, err := micro.AddService(nc, micro.Config{
		Name:        c.serviceName,
		Description: "raw-HID command protocol bridge",
		Version:     DefaultServiceVersion,
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrMicroServiceFailed, err)
	}
	c.svc = svc

	for _, cmd := range c.handlers.Commands() {
		if err := svc.AddEndpoint(commandSubject(cmd), c.microHandler(cmd)); err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: subject %s: %w", ErrEndpointRegistration, commandSubject(cmd), err)
		}
	}

	if c.transport != nil {
		c.transport.RawHIDReceived(c.bridge)
	}

	c.logger.InfoContext(ctx, "Command protocol service started",
		"endpoints", len(c.handlers.Commands()), "raw_hid_bridge", c.transport != nil)

	<-ctx.Done()
	c.logger.InfoContext(ctx, "Command protocol service stopping", "reason", ctx.Err())
	return ctx.Err()
}

func commandSubject(cmd uint8) string {
	return fmt.Sprintf("%s.%d", ipc.SubjectCommandPrefix, cmd)
}

// microHandler wraps one command ID's handler as a NATS micro endpoint.
// The wire convention on the bus is a 1-byte status prefix (0 success,
// 1 failure) followed by the response payload, letting the raw-HID bridge
// tell success from failure without depending on micro's own error framing.
func (c *CommandSrv) microHandler(cmd uint8) micro.HandlerFunc {
	return func(req micro.Request) {
		resp, err := c.handlers.Call(context.Background(), cmd, req.Data())
		if err != nil {
			c.logger.Warn("Command failed", "command", cmd, "error", err)
			if respErr := req.Respond([]byte{1}); respErr != nil {
				c.logger.Error("Failed to send command error response", "command", cmd, "error", respErr)
			}
			return
		}
		if respErr := req.Respond(append([]byte{0}, resp...)); respErr != nil {
			c.logger.Error("Failed to send command response", "command", cmd, "error", respErr)
		}
	}
}

// bridge adapts a raw-HID 64-byte OUT buffer into a synchronous request on
// the matching command subject and folds the reply back into the raw-HID
// IN convention: command_id echoed on success, CommandUnknown on any
// failure (unknown command, handler error, or bus timeout).
func (c *CommandSrv) bridge(ctx context.Context, req []byte) []byte {
	if len(req) == 0 {
		return []byte{ipc.CommandUnknown}
	}
	cmd := req[0]
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	msg, err := c.nc.RequestWithContext(ctx, commandSubject(cmd), req[1:])
	if err != nil || len(msg.Data) == 0 || msg.Data[0] != 0 {
		return []byte{ipc.CommandUnknown}
	}
	return append([]byte{cmd}, msg.Data[1:]...)
}
