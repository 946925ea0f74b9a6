package tracing

import (
	"context"
	"fmt"

	"github.com/medeiros-dev/notification-template-service/go-producer/configs"
	"github.com/medeiros-dev/notification-template-service/go-producer/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc/credentials"
)

// Tracer starts the producer's spans. It follows the global provider until
// InitTracer installs one.
var Tracer trace.Tracer = otel.Tracer("notification-producer")

var (
	shutdownFunc = func(context.Context) error { return nil }

	newExporterFunc = func(ctx context.Context, cfg *configs.Config) (tracesdk.SpanExporter, error) {
		creds := otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, ""))
		if cfg.OtelInsecure {
			creds = otlptracegrpc.WithInsecure()
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.OtelEndpoint), creds)
	}
)

// InitTracer installs a tracer provider and the W3C propagator globally.
// Without OTEL_EXPORTER_OTLP_ENDPOINT spans are still created, so trace IDs
// reach Kafka headers and logs, but nothing is exported.
func InitTracer(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.OtelServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	opts := []tracesdk.TracerProviderOption{tracesdk.WithResource(res)}

	if cfg.OtelEndpoint != "" {
		exporter, err := newExporterFunc(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, tracesdk.WithBatcher(exporter))
	} else {
		logger.L().Warn("OTEL_EXPORTER_OTLP_ENDPOINT is not set, spans will not be exported")
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	Tracer = tp.Tracer(cfg.OtelServiceName)

	shutdownFunc = tp.Shutdown
	return shutdownFunc, nil
}

// ShutdownTracer flushes pending spans, logging rather than returning errors.
func ShutdownTracer(ctx context.Context) {
	if err := shutdownFunc(ctx); err != nil {
		logger.L().Error("Error shutting down tracer provider", zap.Error(err))
	}
}
