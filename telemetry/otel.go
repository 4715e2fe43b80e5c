package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type (
	// OTelMetrics wraps the global OpenTelemetry MeterProvider for runtime
	// instrumentation.
	OTelMetrics struct {
		meter metric.Meter
	}

	// OTelTracer wraps the global OpenTelemetry TracerProvider for runtime tracing.
	OTelTracer struct {
		tracer trace.Tracer
	}

	otelSpan struct {
		span trace.Span
	}
)

// NewOTelMetrics constructs a Metrics recorder that delegates to OpenTelemetry.
// Uses the global MeterProvider; configure one via otel.SetMeterProvider
// before invoking runtime methods.
func NewOTelMetrics(instrumentationName string) Metrics {
	return &OTelMetrics{meter: otel.Meter(instrumentationName)}
}

// NewOTelTracer constructs a Tracer that delegates to OpenTelemetry. Uses the
// global TracerProvider; configure one via otel.SetTracerProvider before
// invoking runtime methods.
func NewOTelTracer(instrumentationName string) Tracer {
	return &OTelTracer{tracer: otel.Tracer(instrumentationName)}
}

// IncCounter increments a counter metric by the given value.
func (m *OTelMetrics) IncCounter(name string, value float64, tags ...string) {
	counter, err := m.meter.Float64Counter(name)
	if err != nil {
		return
	}
	counter.Add(context.Background(), value, metric.WithAttributes(tagsToAttrs(tags)...))
}

// RecordTimer records a duration histogram metric.
func (m *OTelMetrics) RecordTimer(name string, duration time.Duration, tags ...string) {
	histogram, err := m.meter.Float64Histogram(name)
	if err != nil {
		return
	}
	histogram.Record(context.Background(), duration.Seconds(), metric.WithAttributes(tagsToAttrs(tags)...))
}

// RecordGauge records a gauge metric synchronously via a Float64Gauge.
func (m *OTelMetrics) RecordGauge(name string, value float64, tags ...string) {
	gauge, err := m.meter.Float64Gauge(name)
	if err != nil {
		return
	}
	gauge.Record(context.Background(), value, metric.WithAttributes(tagsToAttrs(tags)...))
}

// Start begins a new span and returns the updated context.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, &otelSpan{span: span}
}

// Span returns the current span from the context.
func (t *OTelTracer) Span(ctx context.Context) Span {
	return &otelSpan{span: trace.SpanFromContext(ctx)}
}

// End completes the span.
func (s *otelSpan) End(opts ...trace.SpanEndOption) { s.span.End(opts...) }

// AddEvent attaches a named event with alternating key/value attributes.
func (s *otelSpan) AddEvent(name string, attrs ...any) {
	kvs := make([]attribute.KeyValue, 0, len(attrs)/2)
	for i := 0; i+1 < len(attrs); i += 2 {
		key, _ := attrs[i].(string)
		kvs = append(kvs, attribute.String(key, toString(attrs[i+1])))
	}
	s.span.AddEvent(name, trace.WithAttributes(kvs...))
}

// SetStatus records the span's completion status.
func (s *otelSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

// RecordError attaches an error to the span.
func (s *otelSpan) RecordError(err error, opts ...trace.EventOption) {
	s.span.RecordError(err, opts...)
}

func tagsToAttrs(tags []string) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		kvs = append(kvs, attribute.String(tags[i], tags[i+1]))
	}
	return kvs
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
