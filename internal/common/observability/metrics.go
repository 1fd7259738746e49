package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Observability records query-level metrics through OpenTelemetry and
// exposes them on the prometheus registry. It also installs the global
// tracer provider used for reasoning plan spans.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	queryCounter   otelmetric.Int64Counter
	queryDuration  otelmetric.Float64Histogram
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

func New(serviceName string, log Logger) *Observability {
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tracerProvider)

	exporter, err := prometheus.New()
	if err != nil {
		if log != nil {
			log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		}
		return &Observability{tracerProvider: tracerProvider}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o := newWithProvider(provider, serviceName)
	o.tracerProvider = tracerProvider
	return o
}

// RegisterSpanProcessor attaches an exporter or recorder to the tracer provider.
func (o *Observability) RegisterSpanProcessor(sp sdktrace.SpanProcessor) {
	if o.tracerProvider != nil {
		o.tracerProvider.RegisterSpanProcessor(sp)
	}
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	queryCounter, _ := meter.Int64Counter(
		"queries.processed",
		otelmetric.WithDescription("Number of queries processed"),
	)

	queryDuration, _ := meter.Float64Histogram(
		"queries.duration",
		otelmetric.WithDescription("Query processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		queryCounter:  queryCounter,
		queryDuration: queryDuration,
	}
}

// RecordQuery implements the registry observer.
func (o *Observability) RecordQuery(ctx context.Context, intent, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("intent", intent),
		attribute.String("status", status),
	)
	if o.queryCounter != nil {
		o.queryCounter.Add(ctx, 1, attrs)
	}
	if o.queryDuration != nil {
		o.queryDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
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
