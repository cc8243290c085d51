// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import "time"

// ExporterType defines the type of telemetry exporter to use.
type ExporterType int

const (
	// NoOp discards all telemetry data with minimal overhead. This is the
	// default for a running board: there is no collector to send spans or
	// metrics to.
	NoOp ExporterType = iota
	// Stdout writes spans and metrics to the process's standard output,
	// for local debugging of the hosted simulator.
	Stdout
)

// Config holds the configuration for telemetry providers.
type Config struct {
	exporterType   ExporterType
	serviceName    string
	serviceVersion string
	enableMetrics  bool
	enableTraces   bool
	samplingRatio  float64
	resourceAttrs  map[string]string
}

// DefaultConfig returns a default configuration for telemetry providers.
func DefaultConfig() *Config {
	return &Config{
		exporterType:   NoOp,
		serviceName:    "hmkcore",
		serviceVersion: "0.0.0",
		enableMetrics:  true,
		enableTraces:   true,
		samplingRatio:  1.0,
		resourceAttrs:  make(map[string]string),
	}
}

// Option defines a function that modifies the telemetry configuration.
type Option func(*Config)

// WithExporterType sets the exporter type for telemetry data.
func WithExporterType(exporterType ExporterType) Option {
	return func(c *Config) { c.exporterType = exporterType }
}

// WithServiceName sets the service name for telemetry data.
func WithServiceName(name string) Option {
	return func(c *Config) { c.serviceName = name }
}

// WithServiceVersion sets the service version for telemetry data.
func WithServiceVersion(version string) Option {
	return func(c *Config) { c.serviceVersion = version }
}

// WithMetrics enables or disables metrics collection.
func WithMetrics(enabled bool) Option {
	return func(c *Config) { c.enableMetrics = enabled }
}

// WithTraces enables or disables trace collection.
func WithTraces(enabled bool) Option {
	return func(c *Config) { c.enableTraces = enabled }
}

// WithSamplingRatio sets the sampling ratio for traces (0.0 to 1.0).
func WithSamplingRatio(ratio float64) Option {
	return func(c *Config) {
		if ratio < 0.0 {
			ratio = 0.0
		}
		if ratio > 1.0 {
			ratio = 1.0
		}
		c.samplingRatio = ratio
	}
}

// WithResourceAttributes sets additional resource attributes for telemetry data.
func WithResourceAttributes(attrs map[string]string) Option {
	return func(c *Config) { c.resourceAttrs = attrs }
}
