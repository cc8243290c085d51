// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Provider encapsulates OpenTelemetry providers for metrics and traces.
// A keyboard board has no OTLP collector to talk to, so this never carries
// a network exporter: the only choices are NoOp (spans/metrics are computed
// and immediately discarded) and Stdout (printed, for local debugging of the
// hosted simulator).
type Provider struct {
	config        *Config
	traceProvider *trace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
	resource      *resource.Resource
}

// NewProvider creates a new telemetry provider with the given configuration options.
func NewProvider(opts ...Option) (*Provider, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	res, err := createResource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := &Provider{
		config:   config,
		resource: res,
	}

	if err := provider.setupProviders(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExporterSetupFailed, err)
	}

	provider.setGlobalProviders()
	setupTextMapPropagator()

	return provider, nil
}

// Tracer returns a tracer with the given name.
func (p *Provider) Tracer(name string) oteltrace.Tracer {
	if p.traceProvider == nil {
		return tracenoop.NewTracerProvider().Tracer(name)
	}
	return p.traceProvider.Tracer(name)
}

// Meter returns a meter with the given name.
func (p *Provider) Meter(name string) metric.Meter {
	if p.meterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return p.meterProvider.Meter(name)
}

// Logger returns a logger with the given name.
func (p *Provider) Logger(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

// Shutdown gracefully shuts down all providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error

	if p.traceProvider != nil {
		if err := p.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrShutdownFailed, errs)
	}

	return nil
}

func validateConfig(config *Config) error {
	switch config.exporterType {
	case NoOp, Stdout:
	default:
		return ErrInvalidExporterType
	}

	if config.samplingRatio < 0.0 || config.samplingRatio > 1.0 {
		return fmt.Errorf("sampling ratio must be between 0.0 and 1.0, got %f", config.samplingRatio)
	}

	return nil
}

func createResource(config *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.serviceName),
		semconv.ServiceVersion(config.serviceVersion),
	}

	for key, value := range config.resourceAttrs {
		attrs = append(attrs, attribute.String(key, value))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

func (p *Provider) setupProviders() error {
	if p.config.enableTraces {
		p.setupTraceProvider()
	}

	if p.config.enableMetrics {
		p.setupMeterProvider()
	}

	return nil
}

func (p *Provider) setupTraceProvider() {
	opts := []trace.TracerProviderOption{
		trace.WithResource(p.resource),
		trace.WithSampler(trace.TraceIDRatioBased(p.config.samplingRatio)),
	}

	if p.config.exporterType == Stdout {
		if exporter, err := stdouttrace.New(); err == nil {
			opts = append(opts, trace.WithBatcher(exporter))
		}
	}

	p.traceProvider = trace.NewTracerProvider(opts...)
}

func (p *Provider) setupMeterProvider() {
	opts := []sdkmetric.Option{
		sdkmetric.WithResource(p.resource),
	}

	if p.config.exporterType == Stdout {
		if exporter, err := stdoutmetric.New(); err == nil {
			opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
		}
	}

	p.meterProvider = sdkmetric.NewMeterProvider(opts...)
}

func (p *Provider) setGlobalProviders() {
	if p.traceProvider != nil {
		otel.SetTracerProvider(p.traceProvider)
	}

	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
	}
}

func setupTextMapPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
