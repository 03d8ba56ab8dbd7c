package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
}

// New wires the OpenTelemetry meter (exported through Prometheus) and, when
// a Jaeger endpoint is configured, a sampled tracer.
func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.jobCounter = jobCounter
	o.jobDuration = jobDuration

	if jaegerEndpoint != "" {
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
			return o
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName(serviceName),
			)),
		)
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
		o.tracer = tp.Tracer(serviceName)
	}

	return o
}

// StartSpan opens a span on the configured tracer. With no tracer wired the
// span is a no-op.
func (o *Observability) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if o.tracer == nil {
		return otel.Tracer("noop").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name)
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
