// SPDX-License-Identifier: BSD-3-Clause

package commandsrv

import (
	"time"

	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/commandproto"
)

// DefaultServiceName is the supervision-tree name used when WithName is
// not given.
const DefaultServiceName = "commandsrv"

// DefaultRequestTimeout bounds each raw-HID-to-NATS bridge round trip. The
// host expects a synchronous reply within the same or following tud_task
// iteration, so this stays well under a USB frame budget's worth of
// slack for an in-process bus.
const DefaultRequestTimeout = 50 * time.Millisecond

type config struct {
	serviceName    string
	handlers       *commandproto.Handlers
	transport      capability.UsbTransport
	requestTimeout time.Duration
}

// Option configures a CommandSrv.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithName overrides the service's supervision-tree name.
func WithName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithHandlers supplies the command implementations. Required.
func WithHandlers(h *commandproto.Handlers) Option {
	return optionFunc(func(c *config) { c.handlers = h })
}

// WithTransport supplies the raw-HID endpoint to bridge into NATS requests.
// Omit it on a build with no raw-HID interface; the NATS endpoints are
// still registered and reachable directly over the IPC bus.
func WithTransport(t capability.UsbTransport) Option {
	return optionFunc(func(c *config) { c.transport = t })
}

// WithRequestTimeout overrides the raw-HID bridge's per-request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.requestTimeout = d })
}
