package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/erp/dashboard/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// DashboardMetrics holds the dashboard's own instruments. A nil
// *DashboardMetrics is valid and records nothing.
type DashboardMetrics struct {
	backendRequests *Counter
	backendDuration *Histogram
	staleReads      *Counter
	mutations       *Counter
	guardDecisions  *Counter
	thresholdItems  *Gauge
}

// NewDashboardMetrics creates all dashboard instruments on meter
func NewDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	var (
		m   DashboardMetrics
		err error
	)
	if m.backendRequests, err = NewCounter(meter, "dashboard.backend.requests", "Calls made to the backend API", "{request}"); err != nil {
		return nil, err
	}
	if m.backendDuration, err = NewHistogram(meter, "dashboard.backend.duration", "Backend API call duration", "s", BackendDurationBuckets); err != nil {
		return nil, err
	}
	if m.staleReads, err = NewCounter(meter, "dashboard.reads.stale", "List loads served empty because the backend failed", "{read}"); err != nil {
		return nil, err
	}
	if m.mutations, err = NewCounter(meter, "dashboard.mutations", "Submitted writes by module and outcome", "{write}"); err != nil {
		return nil, err
	}
	if m.guardDecisions, err = NewCounter(meter, "dashboard.guard.decisions", "Route guard decisions", "{decision}"); err != nil {
		return nil, err
	}
	if m.thresholdItems, err = NewGauge(meter, "dashboard.thresholds.items", "Inventory items per alert level", "{item}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// outcome is "ok", "rejected" for domain validation errors, or "error"
func outcome(err error) string {
	var de *shared.DomainError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &de):
		return "rejected"
	default:
		return "error"
	}
}

// RecordBackendCall records one backend API call
func (m *DashboardMetrics) RecordBackendCall(ctx context.Context, endpoint string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.backendRequests.Inc(ctx, AttrEndpoint.String(endpoint), AttrOutcome.String(outcome(err)))
	m.backendDuration.RecordDuration(ctx, d, AttrEndpoint.String(endpoint))
}

// RecordStaleRead records a list load that fell back to an empty list
func (m *DashboardMetrics) RecordStaleRead(ctx context.Context, module string) {
	if m == nil {
		return
	}
	m.staleReads.Inc(ctx, AttrModule.String(module))
}

// RecordMutation records a submitted write
func (m *DashboardMetrics) RecordMutation(ctx context.Context, module string, err error) {
	if m == nil {
		return
	}
	m.mutations.Inc(ctx, AttrModule.String(module), AttrOutcome.String(outcome(err)))
}

// RecordGuardDecision records a route guard outcome
func (m *DashboardMetrics) RecordGuardDecision(ctx context.Context, decision, source string) {
	if m == nil {
		return
	}
	m.guardDecisions.Inc(ctx, AttrDecision.String(decision), AttrSource.String(source))
}

// RecordThresholdLevels records the latest item count per alert level
func (m *DashboardMetrics) RecordThresholdLevels(ctx context.Context, critical, low, normal int) {
	if m == nil {
		return
	}
	m.thresholdItems.Record(ctx, int64(critical), AttrLevel.String("critical"))
	m.thresholdItems.Record(ctx, int64(low), AttrLevel.String("low"))
	m.thresholdItems.Record(ctx, int64(normal), AttrLevel.String("normal"))
}
