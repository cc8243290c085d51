// SPDX-License-Identifier: BSD-3-Clause

package ipc

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// Defaults applied by New before Option values are layered on.
const (
	DefaultServiceName        = "ipc"
	DefaultServiceDescription = "embedded NATS bus for board-internal IPC"
	DefaultServiceVersion     = "0.1.0"
	DefaultServerName         = "hmk-ipc"
	DefaultStoreDir           = "" // empty disables JetStream file storage
	DefaultMaxMemory          = int64(16 * 1024 * 1024)
	DefaultMaxStorage         = int64(0)
	DefaultStartupTimeout     = 5 * time.Second
	DefaultShutdownTimeout    = 2 * time.Second
)

type config struct {
	serviceName        string
	serviceDescription string
	serviceVersion      string
	serverName          string
	storeDir            string
	enableJetStream     bool
	dontListen          bool
	maxMemory           int64
	maxStorage          int64
	startupTimeout      time.Duration
	shutdownTimeout     time.Duration
	maxConnections      int
	maxControlLine      int32
	maxPayload          int32
	writeDeadline       time.Duration
	pingInterval        time.Duration
	maxPingsOut         int

	enableSlowConsumerDetection bool
	slowConsumerThreshold       time.Duration
}

// Validate rejects a config that would produce a nonsensical or unsafe
// NATS server (negative limits, a zero startup timeout that would never
// let ReadyForConnections succeed).
func (c *config) Validate() error {
	if c.serviceName == "" {
		return fmt.Errorf("%w: service name must not be empty", ErrInvalidConfiguration)
	}
	if c.startupTimeout <= 0 {
		return fmt.Errorf("%w: startup timeout must be positive", ErrInvalidConfiguration)
	}
	if c.shutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfiguration)
	}
	if c.maxConnections < 0 {
		return fmt.Errorf("%w: max connections must not be negative", ErrInvalidConfiguration)
	}
	if c.enableJetStream && c.maxMemory <= 0 && c.maxStorage <= 0 {
		return fmt.Errorf("%w: jetstream enabled with no memory or storage budget", ErrInvalidConfiguration)
	}
	return nil
}

// ToServerOptions builds the embedded NATS server configuration this
// config describes. dontListen keeps the server off any TCP socket —
// every client reaches it exclusively through server.InProcessConn.
func (c *config) ToServerOptions() *server.Options {
	return &server.Options{
		ServerName:             c.serverName,
		DontListen:             c.dontListen,
		JetStream:              c.enableJetStream,
		StoreDir:               c.storeDir,
		JetStreamMaxMemory:     c.maxMemory,
		JetStreamMaxStore:      c.maxStorage,
		MaxConn:                c.maxConnections,
		MaxControlLine:         c.maxControlLine,
		MaxPayload:             c.maxPayload,
		WriteDeadline:          c.writeDeadline,
		PingInterval:           c.pingInterval,
		MaxPingsOut:            c.maxPingsOut,
		NoSigs:                 true,
	}
}

// Option configures an IPC service.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithServiceName overrides the service's supervision-tree name.
func WithServiceName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithServiceDescription overrides the description reported to NATS
// introspection tools.
func WithServiceDescription(desc string) Option {
	return optionFunc(func(c *config) { c.serviceDescription = desc })
}

// WithServiceVersion overrides the reported service version.
func WithServiceVersion(version string) Option {
	return optionFunc(func(c *config) { c.serviceVersion = version })
}

// WithServerName sets the embedded NATS server's own identity, distinct
// from the owning service's name.
func WithServerName(name string) Option {
	return optionFunc(func(c *config) { c.serverName = name })
}

// WithStoreDir sets JetStream's on-disk storage directory. Leave empty to
// keep JetStream memory-only.
func WithStoreDir(dir string) Option {
	return optionFunc(func(c *config) { c.storeDir = dir })
}

// WithJetStream enables or disables JetStream on the embedded server.
func WithJetStream(enabled bool) Option {
	return optionFunc(func(c *config) { c.enableJetStream = enabled })
}

// WithMaxMemory sets JetStream's in-memory storage budget in bytes.
func WithMaxMemory(bytes int64) Option {
	return optionFunc(func(c *config) { c.maxMemory = bytes })
}

// WithMaxStorage sets JetStream's on-disk storage budget in bytes.
func WithMaxStorage(bytes int64) Option {
	return optionFunc(func(c *config) { c.maxStorage = bytes })
}

// WithStartupTimeout bounds how long Run waits for the server to become
// ready for connections before failing.
func WithStartupTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.startupTimeout = d })
}

// WithShutdownTimeout bounds how long Run waits for a lame-duck shutdown
// to drain before forcing the server closed.
func WithShutdownTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.shutdownTimeout = d })
}

// WithMaxConnections caps concurrent client connections; 0 means unlimited.
func WithMaxConnections(n int) Option {
	return optionFunc(func(c *config) { c.maxConnections = n })
}

// WithDontListen controls whether the embedded server opens a TCP listener.
// Board builds leave this true and reach the bus exclusively through
// server.InProcessConn; a hosted build that wants `nats sub` to attach from
// outside the process can set it false.
func WithDontListen(dontListen bool) Option {
	return optionFunc(func(c *config) { c.dontListen = dontListen })
}

// WithMaxControlLine sets the maximum protocol control line length the
// server will accept.
func WithMaxControlLine(n int32) Option {
	return optionFunc(func(c *config) { c.maxControlLine = n })
}

// WithMaxPayload sets the maximum message payload size the server will
// accept.
func WithMaxPayload(n int32) Option {
	return optionFunc(func(c *config) { c.maxPayload = n })
}

// WithWriteDeadline sets the per-write deadline the server applies to
// client connections.
func WithWriteDeadline(d time.Duration) Option {
	return optionFunc(func(c *config) { c.writeDeadline = d })
}

// WithPingInterval sets how often the server pings idle connections.
func WithPingInterval(d time.Duration) Option {
	return optionFunc(func(c *config) { c.pingInterval = d })
}

// WithMaxPingsOut sets how many unanswered pings the server tolerates
// before closing a connection as stale.
func WithMaxPingsOut(n int) Option {
	return optionFunc(func(c *config) { c.maxPingsOut = n })
}

// WithSlowConsumerDetection records whether slow-consumer detection is
// enabled. The value is kept in the config only; ToServerOptions does not
// pass it to the embedded server.
func WithSlowConsumerDetection(enabled bool) Option {
	return optionFunc(func(c *config) { c.enableSlowConsumerDetection = enabled })
}

// WithSlowConsumerThreshold records the latency threshold past which a
// consumer counts as slow. Like WithSlowConsumerDetection, the value is
// kept in the config only; ToServerOptions does not pass it to the
// embedded server.
func WithSlowConsumerThreshold(d time.Duration) Option {
	return optionFunc(func(c *config) { c.slowConsumerThreshold = d })
}
