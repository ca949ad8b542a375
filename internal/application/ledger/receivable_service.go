package ledger

import (
	"context"
	"time"

	"github.com/erp/dashboard/internal/application/outcome"
	"github.com/erp/dashboard/internal/domain/ledger"
	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const moduleReceivables = "receivables"

// ReceivableGateway is the part of the backend API the receivable service uses
type ReceivableGateway interface {
	Receivables(ctx context.Context, identity string) ([]ledger.Receivable, error)
	AddPayment(ctx context.Context, identity string, in ledger.PaymentRequest) error
	UpdateReceivable(ctx context.Context, identity string, in ledger.ReceivableUpdate) error
}

// ReceivableList is a loaded receivable ledger
type ReceivableList struct {
	Items   []ledger.Receivable
	Summary ledger.Summary
	Stale   bool
}

func newReceivableList(items []ledger.Receivable, stale bool) ReceivableList {
	balances := make([]ledger.Balance, len(items))
	for i, r := range items {
		balances[i] = r.Balance()
	}
	return ReceivableList{Items: items, Summary: ledger.Summarize(balances), Stale: stale}
}

// ReceivableService lists receivables and records customer payments
type ReceivableService struct {
	gateway ReceivableGateway
	metrics *telemetry.DashboardMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewReceivableService creates a receivable service. metrics may be nil.
func NewReceivableService(gateway ReceivableGateway, metrics *telemetry.DashboardMetrics, logger *zap.Logger) *ReceivableService {
	return &ReceivableService{gateway: gateway, metrics: metrics, logger: logger, now: time.Now}
}

// List fetches and normalizes the receivables of identity. Status and
// remaining balance are always derived locally.
func (s *ReceivableService) List(ctx context.Context, identity string) ReceivableList {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleReceivables, "list", telemetry.SpanAttrIdentity.String(identity))
	defer span.End()

	items, err := s.load(ctx, identity)
	if err != nil {
		outcome.ReadFailed(ctx, s.logger, s.metrics, span, moduleReceivables, "receivables.list", err)
		return newReceivableList([]ledger.Receivable{}, true)
	}
	outcome.ReadSucceeded(span, len(items))
	return newReceivableList(items, false)
}

func (s *ReceivableService) load(ctx context.Context, identity string) ([]ledger.Receivable, error) {
	raw, err := s.gateway.Receivables(ctx, identity)
	if err != nil {
		return nil, err
	}
	return ledger.NormalizeReceivables(raw), nil
}

// RecordPayment records a customer payment in two backend writes: the
// payment itself, then the receivable balance update. A failure of either
// aborts the submission.
func (s *ReceivableService) RecordPayment(ctx context.Context, identity, receivableID string, in ledger.PaymentInput) (ReceivableList, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleReceivables, "pay",
		telemetry.SpanAttrIdentity.String(identity),
		telemetry.SpanAttrReceivableID.String(receivableID),
	)
	defer span.End()

	current, err := s.load(ctx, identity)
	if err != nil {
		return s.failed(ctx, span, "receivables.list", err, nil)
	}

	receivable, ok := ledger.FindReceivable(current, receivableID)
	if !ok {
		return s.failed(ctx, span, "receivables.pay", shared.NewDomainError("NOT_FOUND", "Receivable not found"), current)
	}
	payment, update, err := receivable.PreparePayment(in, s.now())
	if err != nil {
		return s.failed(ctx, span, "receivables.pay", err, current)
	}
	if err := s.gateway.AddPayment(ctx, identity, payment); err != nil {
		return s.failed(ctx, span, "receivables.add_payment", err, current)
	}
	if err := s.gateway.UpdateReceivable(ctx, identity, update); err != nil {
		logger.Or(ctx, s.logger).Error("payment recorded but receivable balance not updated",
			zap.String("receivable_id", receivableID),
			zap.String("amount", in.Amount.String()),
		)
		return s.failed(ctx, span, "receivables.update", err, current)
	}

	outcome.WriteSucceeded(ctx, s.metrics, moduleReceivables)
	logger.Or(ctx, s.logger).Info("receivable payment recorded",
		zap.String("receivable_id", receivableID),
		zap.String("amount", in.Amount.String()),
		zap.String("method", string(in.Method)),
	)
	return s.List(ctx, identity), nil
}

func (s *ReceivableService) failed(ctx context.Context, span trace.Span, endpoint string, err error, current []ledger.Receivable) (ReceivableList, error) {
	outcome.WriteFailed(ctx, s.logger, s.metrics, span, moduleReceivables, endpoint, err)
	if current == nil {
		return newReceivableList([]ledger.Receivable{}, true), err
	}
	return newReceivableList(current, false), err
}
