// Package telemetry records registry activity into OpenTelemetry. Instruments
// bind to whatever providers are installed globally, which are no-ops unless
// the host process configures an SDK.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scope = "toolenv"

// Observer owns the spans and counters emitted by listing and installs.
type Observer struct {
	tracer trace.Tracer

	entries  metric.Int64Counter
	installs metric.Int64Counter
}

// New creates an observer bound to the provided meter and tracer.
func New(meter metric.Meter, tracer trace.Tracer) (*Observer, error) {
	entries, err := meter.Int64Counter("toolenv.list.entries",
		metric.WithDescription("Tool environments evaluated by list, by outcome"),
	)
	if err != nil {
		return nil, err
	}
	installs, err := meter.Int64Counter("toolenv.install.operations",
		metric.WithDescription("Install and uninstall operations, by result"),
	)
	if err != nil {
		return nil, err
	}
	return &Observer{tracer: tracer, entries: entries, installs: installs}, nil
}

// Global returns an observer bound to the global providers. Instrument
// creation errors fall back to a no-op observer.
func Global() *Observer {
	o, err := New(otel.GetMeterProvider().Meter(scope), otel.GetTracerProvider().Tracer(scope))
	if err != nil {
		return nil
	}
	return o
}

// Start opens a span named op. A nil observer returns ctx unchanged and a
// non-recording span.
func (o *Observer) Start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return o.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
}

// End closes span, recording err when non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Entry counts one listed or excluded environment.
func (o *Observer) Entry(ctx context.Context, outcome string) {
	if o == nil {
		return
	}
	o.entries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Operation counts one install or uninstall.
func (o *Observer) Operation(ctx context.Context, op string, err error) {
	if o == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	o.installs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", result),
	))
}
