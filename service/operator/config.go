// SPDX-License-Identifier: BSD-3-Clause

package operator

import (
	"log/slog"
	"time"

	"github.com/openhmk/hmkcore/service"
	"github.com/openhmk/hmkcore/service/ipc"
)

// config holds every service the operator's supervision tree can run. Only
// ScanLoop and CommandSrv are populated for a real board; ExtraServices lets
// a board target (or the hosted simulator) add its own long-running
// processes, e.g. a telemetry sink.
type config struct {
	name        string
	id          string
	disableLogo bool
	customLogo  string
	otelSetup   func()
	logger      *slog.Logger
	timeout     time.Duration

	// ipc needs special handling: it provides the in-process connection
	// every other service consumes, so the operator must start it first.
	ipc *ipc.IPC

	// Everything of type service.Service is discovered by reflection in
	// operator.Run and added to the supervision tree.
	ScanLoop   service.Service
	CommandSrv service.Service

	extraServices []service.Service
}

type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithName sets the name for the operator configuration.
func WithName(name string) Option {
	return optionFunc(func(c *config) { c.name = name })
}

// WithID sets the unique identifier for the operator configuration.
func WithID(id string) Option {
	return optionFunc(func(c *config) { c.id = id })
}

// WithDisableLogo controls whether the logo display is disabled.
func WithDisableLogo(disableLogo bool) Option {
	return optionFunc(func(c *config) { c.disableLogo = disableLogo })
}

// WithCustomLogo sets a custom logo to be displayed instead of the default logo.
func WithCustomLogo(customLogo string) Option {
	return optionFunc(func(c *config) { c.customLogo = customLogo })
}

// WithOtelSetup sets up OpenTelemetry configuration by providing a setup function.
func WithOtelSetup(otelSetup func()) Option {
	return optionFunc(func(c *config) { c.otelSetup = otelSetup })
}

// WithLogger sets a custom structured logger for the operator.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *config) { c.logger = logger })
}

// WithTimeout sets the timeout duration for operator startup/shutdown operations.
func WithTimeout(timeout time.Duration) Option {
	return optionFunc(func(c *config) { c.timeout = timeout })
}

// WithIPC configures the embedded message bus the rest of the firmware uses
// in place of direct function calls.
func WithIPC(opts ...ipc.Option) Option {
	return optionFunc(func(c *config) { c.ipc = ipc.New(opts...) })
}

// WithScanLoop sets the cooperative scan-tick service: Matrix, AdvancedKeys,
// Layout, HidComposer, DeferredStack, and XInput driven in that fixed order
// from one goroutine.
func WithScanLoop(svc service.Service) Option {
	return optionFunc(func(c *config) { c.ScanLoop = svc })
}

// WithCommandSrv sets the raw-HID/NATS command protocol bridge service.
func WithCommandSrv(svc service.Service) Option {
	return optionFunc(func(c *config) { c.CommandSrv = svc })
}

// WithExtraServices adds additional custom services to the operator
// configuration, run alongside ScanLoop and CommandSrv.
func WithExtraServices(services ...service.Service) Option {
	return optionFunc(func(c *config) { c.extraServices = services })
}
