package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the instrumentation scope used across the service. It follows the
// global provider, which is a no-op until SetupTracing installs one.
var Tracer trace.Tracer = otel.Tracer("github.com/raysh454/seolens")

// TelemetryConfig enables span export.
type TelemetryConfig struct {
	// OTLPEndpoint is a host:port of an OTLP gRPC collector. Empty disables export.
	OTLPEndpoint string `toml:"otlp_endpoint"`
	Insecure     bool   `toml:"insecure"`
	ServiceName  string `toml:"service_name"`
	// SampleRatio in [0,1]; zero means always sample.
	SampleRatio float64 `toml:"sample_ratio"`
}

// DefaultTelemetryConfig leaves export disabled.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{ServiceName: "seolens", Insecure: true}
}

// SetupTracing installs a global tracer provider exporting over OTLP gRPC.
// The returned shutdown flushes pending spans; it is a no-op when export is disabled.
func SetupTracing(ctx context.Context, cfg TelemetryConfig) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "seolens"
	}
	res := resource.NewSchemaless(attribute.String("service.name", name))

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	Tracer = tp.Tracer("github.com/raysh454/seolens")

	return tp.Shutdown, nil
}
