// Package telemetry sets up optional OTLP trace export for layout-engine
// operations (drag gestures, migrations, vault syncs). Tracing is disabled
// unless OTEL_EXPORTER_OTLP_ENDPOINT is set, so normal runs carry zero
// overhead and no network dependency.
package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const defaultServiceName = "notedeck"

// Exporter owns the tracer provider lifecycle. A nil *Exporter is valid and
// means tracing is disabled.
type Exporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// New creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Returns (nil, nil) when the endpoint is not configured.
func New(ctx context.Context) (*Exporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Exporter{
		provider: provider,
		tracer:   provider.Tracer("notedeck/dock"),
	}, nil
}

// Tracer returns the tracer for span creation, or nil when disabled.
func (e *Exporter) Tracer() oteltrace.Tracer {
	if e == nil {
		return nil
	}
	return e.tracer
}

// Shutdown flushes and closes the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
