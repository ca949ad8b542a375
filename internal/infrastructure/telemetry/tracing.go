package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used for service spans
const TracerName = "erp-dashboard"

// StartServiceSpan starts a span named {service}.{method}, e.g. "creditors.list".
// The caller must end the span.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "creditors", "list")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on the span and marks the span as failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Span attribute keys for dashboard operations.
const (
	SpanAttrIdentity     = attribute.Key("dashboard.identity")
	SpanAttrSupplierName = attribute.Key("dashboard.supplier_name")
	SpanAttrReceivableID = attribute.Key("dashboard.receivable_id")
	SpanAttrRequestID    = attribute.Key("dashboard.procurement_id")
	SpanAttrCount        = attribute.Key("dashboard.count")
	SpanAttrStale        = attribute.Key("dashboard.stale")
)
