// Package outcome reports the result of list loads and writes the same way
// for every dashboard module: a span status, a metric and a log line.
package outcome

import (
	"context"
	"errors"

	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ReadFailed reports a list load that fell back to an empty, stale list
func ReadFailed(ctx context.Context, l *zap.Logger, m *telemetry.DashboardMetrics, span trace.Span, module, endpoint string, err error) {
	logger.Or(ctx, l).Warn("list unavailable, showing empty list",
		zap.String("module", module),
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
	m.RecordStaleRead(ctx, module)
	span.SetAttributes(telemetry.SpanAttrStale.Bool(true))
}

// ReadSucceeded annotates the span with the loaded count
func ReadSucceeded(span trace.Span, count int) {
	span.SetAttributes(telemetry.SpanAttrCount.Int(count))
}

// WriteFailed reports a rejected or failed write. Domain rejections are the
// user's to fix and log at Info; anything else logs at Error.
func WriteFailed(ctx context.Context, l *zap.Logger, m *telemetry.DashboardMetrics, span trace.Span, module, endpoint string, err error) {
	m.RecordMutation(ctx, module, err)
	telemetry.RecordError(span, err)

	log := logger.Or(ctx, l).With(zap.String("module", module), zap.String("endpoint", endpoint))
	var de *shared.DomainError
	if errors.As(err, &de) {
		log.Info("write rejected", zap.String("code", de.Code), zap.String("reason", de.Message))
		return
	}
	log.Error("write failed", zap.Error(err))
}

// WriteSucceeded records a successful write
func WriteSucceeded(ctx context.Context, m *telemetry.DashboardMetrics, module string) {
	m.RecordMutation(ctx, module, nil)
}
