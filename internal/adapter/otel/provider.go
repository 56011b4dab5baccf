package otel

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// instrumentationName scopes every span and instrument coursebridge emits.
const instrumentationName = "github.com/neomorfeo/coursebridge"

// Exporter selects where telemetry goes.
type Exporter string

const (
	ExporterStdout Exporter = "stdout"
	ExporterOTLP   Exporter = "otlp"
	// ExporterNone keeps the global no-op providers. Tests and local runs
	// without a collector use it.
	ExporterNone Exporter = "none"
)

// Config holds OpenTelemetry provider configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string // "development" or "production"
	Exporter       Exporter
	Insecure       bool // plain HTTP to the OTLP collector
}

// ConfigFromEnv reads OTEL_SERVICE_NAME, OTEL_SERVICE_VERSION,
// OTEL_ENVIRONMENT and OTEL_EXPORTER. Development talks to the collector
// over plain HTTP.
func ConfigFromEnv() Config {
	env := envOrDefault("OTEL_ENVIRONMENT", "development")
	return Config{
		ServiceName:    envOrDefault("OTEL_SERVICE_NAME", "coursebridge"),
		ServiceVersion: envOrDefault("OTEL_SERVICE_VERSION", "0.1.0"),
		Environment:    env,
		Exporter:       Exporter(envOrDefault("OTEL_EXPORTER", string(ExporterStdout))),
		Insecure:       env == "development",
	}
}

func (c Config) validate() error {
	switch c.Exporter {
	case ExporterStdout, ExporterOTLP, ExporterNone:
		return nil
	}
	return fmt.Errorf("unsupported exporter: %q (use %q, %q or %q)",
		c.Exporter, ExporterStdout, ExporterOTLP, ExporterNone)
}

// Providers owns the installed SDK providers until Shutdown flushes them.
type Providers struct {
	Shutdown func(ctx context.Context) error
}

// Setup installs the global tracer and meter providers and the W3C
// propagators. The decorators in this package pick them up through tracer
// and meter, so Setup must run before they are constructed.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Exporter == ExporterNone {
		return &Providers{Shutdown: func(context.Context) error { return nil }}, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otel resource: %w", err)
	}

	spans, metrics, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(trace.WithResource(res), trace.WithBatcher(spans))
	mp := metric.NewMeterProvider(metric.WithResource(res), metric.WithReader(metric.NewPeriodicReader(metrics)))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Providers{Shutdown: func(ctx context.Context) error {
		err := errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
		if err != nil {
			return fmt.Errorf("otel shutdown: %w", err)
		}
		return nil
	}}, nil
}

func newExporters(ctx context.Context, cfg Config) (trace.SpanExporter, metric.Exporter, error) {
	if cfg.Exporter == ExporterStdout {
		spans, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("creating span exporter: %w", err)
		}
		metrics, err := stdoutmetric.New()
		if err != nil {
			return nil, nil, fmt.Errorf("creating metric exporter: %w", err)
		}
		return spans, metrics, nil
	}

	var traceOpts []otlptracehttp.Option
	var metricOpts []otlpmetrichttp.Option
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	spans, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating span exporter: %w", err)
	}
	metrics, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	return spans, metrics, nil
}

// tracer is the tracer the repository and bus decorators span through.
func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName)
}

// meter is the meter the bus decorator counts events on.
func meter() otelmetric.Meter {
	return otel.Meter(instrumentationName)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
