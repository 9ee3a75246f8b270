// Package telemetry wires the OpenTelemetry trace exporter and the Prometheus
// collector used by the HTTP layer.
package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/dmitrijs2005/pessoas/internal/server/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context.Context) error

// NewResource describes this process to the trace backend.
func NewResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceNamespaceKey.String(cfg.ServiceNamespace),
			semconv.ServiceInstanceIDKey.String(cfg.ServiceInstanceID),
		),
	)
}

// InitTracer installs a global tracer provider exporting over OTLP/gRPC and
// the W3C trace context propagator. With an empty endpoint a no-op provider is
// installed and nothing leaves the process.
func InitTracer(ctx context.Context, cfg *config.Config) (trace.TracerProvider, ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if cfg.OTLPEndpoint == "" {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, func(context.Context) error { return nil }, nil
	}

	creds := insecure.NewCredentials()
	if !cfg.OTLPInsecure {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	// the connection is lazy, an unreachable collector only drops spans
	conn, err := grpc.NewClient(cfg.OTLPEndpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("otlp dial: %w", err)
	}

	exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := NewResource(ctx, cfg)
	if err != nil {
		_ = exp.Shutdown(ctx)
		_ = conn.Close()
		return nil, nil, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	shutdown := func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if cerr := conn.Close(); err == nil {
			err = cerr
		}
		return err
	}

	return tp, shutdown, nil
}
