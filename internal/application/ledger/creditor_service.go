// Package ledger loads creditor and receivable ledgers for the signed-in
// identity and submits settlements and payments against them.
package ledger

import (
	"context"
	"time"

	"github.com/erp/dashboard/internal/application/outcome"
	"github.com/erp/dashboard/internal/domain/ledger"
	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const moduleCreditors = "creditors"

// CreditorGateway is the part of the backend API the creditor service uses
type CreditorGateway interface {
	Creditors(ctx context.Context, identity string) ([]ledger.Creditor, error)
	AddCreditor(ctx context.Context, identity string, in ledger.NewCreditor) error
	SettleCreditor(ctx context.Context, identity, supplierName string, in ledger.SettlementRequest) error
}

// CreditorList is a loaded creditor ledger. Stale is set when the load
// failed; Items is then empty.
type CreditorList struct {
	Items   []ledger.Creditor
	Summary ledger.Summary
	Stale   bool
}

func newCreditorList(items []ledger.Creditor, stale bool) CreditorList {
	balances := make([]ledger.Balance, len(items))
	for i, c := range items {
		balances[i] = c.Balance()
	}
	return CreditorList{Items: items, Summary: ledger.Summarize(balances), Stale: stale}
}

// AddCreditorInput is the add-creditor form
type AddCreditorInput struct {
	SupplierName   string
	OriginalAmount decimal.Decimal
}

// CreditorService lists creditors and records settlements
type CreditorService struct {
	gateway CreditorGateway
	metrics *telemetry.DashboardMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewCreditorService creates a creditor service. metrics may be nil.
func NewCreditorService(gateway CreditorGateway, metrics *telemetry.DashboardMetrics, logger *zap.Logger) *CreditorService {
	return &CreditorService{gateway: gateway, metrics: metrics, logger: logger, now: time.Now}
}

// List fetches and normalizes the creditors of identity. A failed fetch is
// not an error: it yields an empty, stale list and a diagnostic.
func (s *CreditorService) List(ctx context.Context, identity string) CreditorList {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleCreditors, "list", telemetry.SpanAttrIdentity.String(identity))
	defer span.End()

	items, err := s.load(ctx, identity)
	if err != nil {
		outcome.ReadFailed(ctx, s.logger, s.metrics, span, moduleCreditors, "creditors.list", err)
		return newCreditorList([]ledger.Creditor{}, true)
	}
	outcome.ReadSucceeded(span, len(items))
	return newCreditorList(items, false)
}

func (s *CreditorService) load(ctx context.Context, identity string) ([]ledger.Creditor, error) {
	raw, err := s.gateway.Creditors(ctx, identity)
	if err != nil {
		return nil, err
	}
	return ledger.NormalizeCreditors(raw), nil
}

// Add creates a creditor and returns the reloaded ledger. Supplier names are
// checked for uniqueness against a fresh load.
func (s *CreditorService) Add(ctx context.Context, identity string, in AddCreditorInput) (CreditorList, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleCreditors, "add",
		telemetry.SpanAttrIdentity.String(identity),
		telemetry.SpanAttrSupplierName.String(in.SupplierName),
	)
	defer span.End()

	current, err := s.load(ctx, identity)
	if err != nil {
		return s.failed(ctx, span, "creditors.list", err, nil)
	}

	draft, err := ledger.NewCreditorDraft(in.SupplierName, in.OriginalAmount, s.now(), current)
	if err != nil {
		return s.failed(ctx, span, "creditors.add", err, current)
	}
	if err := s.gateway.AddCreditor(ctx, identity, draft); err != nil {
		return s.failed(ctx, span, "creditors.add", err, current)
	}

	outcome.WriteSucceeded(ctx, s.metrics, moduleCreditors)
	logger.Or(ctx, s.logger).Info("creditor added", zap.String("supplier_name", draft.SupplierName))
	return s.List(ctx, identity), nil
}

// RecordSettlement records a payment to the supplier and returns the
// reloaded ledger
func (s *CreditorService) RecordSettlement(ctx context.Context, identity, supplierName string, in ledger.SettlementInput) (CreditorList, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleCreditors, "settle",
		telemetry.SpanAttrIdentity.String(identity),
		telemetry.SpanAttrSupplierName.String(supplierName),
	)
	defer span.End()

	current, err := s.load(ctx, identity)
	if err != nil {
		return s.failed(ctx, span, "creditors.list", err, nil)
	}

	creditor, ok := ledger.FindCreditor(current, supplierName)
	if !ok {
		return s.failed(ctx, span, "creditors.settle", shared.NewDomainError("NOT_FOUND", "Creditor not found"), current)
	}
	req, err := creditor.PrepareSettlement(in)
	if err != nil {
		return s.failed(ctx, span, "creditors.settle", err, current)
	}
	if err := s.gateway.SettleCreditor(ctx, identity, creditor.SupplierName, req); err != nil {
		return s.failed(ctx, span, "creditors.settle", err, current)
	}

	outcome.WriteSucceeded(ctx, s.metrics, moduleCreditors)
	logger.Or(ctx, s.logger).Info("settlement recorded",
		zap.String("supplier_name", creditor.SupplierName),
		zap.String("amount", in.Amount.String()),
		zap.String("method", string(in.Method)),
	)
	return s.List(ctx, identity), nil
}

// failed returns the state the write started from alongside err. When the
// write could not even load that state, the list is empty and stale.
func (s *CreditorService) failed(ctx context.Context, span trace.Span, endpoint string, err error, current []ledger.Creditor) (CreditorList, error) {
	outcome.WriteFailed(ctx, s.logger, s.metrics, span, moduleCreditors, endpoint, err)
	if current == nil {
		return newCreditorList([]ledger.Creditor{}, true), err
	}
	return newCreditorList(current, false), err
}
