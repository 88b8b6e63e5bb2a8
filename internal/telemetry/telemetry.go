// Package telemetry provides opt-in OpenTelemetry tracing (OTLP over HTTP,
// e.g. Honeycomb).
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "duelsim"
	serviceVersion = "0.2.0"

	// HoneycombEndpoint is used when only a Honeycomb API key is configured.
	HoneycombEndpoint = "https://api.honeycomb.io"
)

// Config selects where spans go.
type Config struct {
	// Endpoint is the OTLP HTTP endpoint URL. Empty disables tracing unless
	// HoneycombKey is set.
	Endpoint string

	// HoneycombKey and HoneycombDataset fill the x-honeycomb-* headers.
	HoneycombKey     string
	HoneycombDataset string
}

// Enabled reports whether Setup will export spans.
func (c Config) Enabled() bool {
	return c.Endpoint != "" || c.HoneycombKey != ""
}

func (c Config) headers() map[string]string {
	if c.HoneycombKey == "" {
		return nil
	}
	dataset := c.HoneycombDataset
	if dataset == "" {
		dataset = serviceName
	}
	return map[string]string{
		"x-honeycomb-team":    c.HoneycombKey,
		"x-honeycomb-dataset": dataset,
	}
}

// Setup initializes OpenTelemetry with an OTLP HTTP exporter.
//
// Tracing is opt-in: with no endpoint and no Honeycomb key, Setup registers
// nothing and returns a no-op shutdown function, so Tracer hands out no-op
// tracers.
//
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	nop := func(context.Context) error { return nil }
	if !cfg.Enabled() {
		return nop, nil
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = HoneycombEndpoint
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}
	if h := cfg.headers(); h != nil {
		opts = append(opts, otlptracehttp.WithHeaders(h))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nop, fmt.Errorf("create otlp exporter: %w", err)
	}

	// Own resource rather than merging with resource.Default() to avoid schema URL conflicts.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nop, fmt.Errorf("build otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
