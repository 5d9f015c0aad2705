package otel

import (
	"context"
	"sync"
	"time"

	"loan-case-tracker/internal/pkg/config"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	exporterTimeout = 5 * time.Second
	caseIDKey       = attribute.Key("case.id")
)

var (
	tracer           trace.Tracer
	exporterWarnOnce sync.Once
)

// Setup installs the global tracer provider and propagator and returns its
// shutdown func. Without an exporter, spans go to the no-op tracer.
func Setup(ctx context.Context, serviceName string, cfg config.OtelConfig) (func(context.Context) error, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	exporter, err := otlptracehttp.New(dialCtx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(cfg.CollectorURL),
	)
	if err != nil {
		warnExporterUnavailable(err)
		return func(context.Context) error { return nil }, nil
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	tracer = provider.Tracer(serviceName)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
		defer cancel()
		return provider.Shutdown(ctx)
	}, nil
}

// sampler keeps every trace unless ratio is strictly between 0 and 1.
func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

func Tracer() trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return tracer
}

// StartSpan starts a span tagged with caseID when one is given.
func StartSpan(ctx context.Context, name, caseID string) (context.Context, trace.Span) {
	if caseID == "" {
		return Tracer().Start(ctx, name)
	}
	return Tracer().Start(ctx, name, trace.WithAttributes(caseIDKey.String(caseID)))
}

func warnExporterUnavailable(err error) {
	exporterWarnOnce.Do(func() {
		logger.Error(log_messages.TracingExporterUnavailable, err)
	})
}
