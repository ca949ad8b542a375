// Package procurement loads procurement requests, adds new ones and records
// approve/reject decisions.
package procurement

import (
	"context"
	"strings"
	"time"

	"github.com/erp/dashboard/internal/application/outcome"
	"github.com/erp/dashboard/internal/domain/procurement"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const moduleProcurement = "procurement"

// Gateway is the part of the backend API the procurement service uses
type Gateway interface {
	Procurements(ctx context.Context, identity string) ([]procurement.Request, error)
	AddProcurement(ctx context.Context, identity string, in procurement.NewRequest) error
}

// RequestView is a request with its total value
type RequestView struct {
	procurement.Request
	TotalValue decimal.Decimal
}

// List is a loaded set of procurement requests
type List struct {
	Items   []RequestView
	Pending int
	Stale   bool
}

func newList(items []procurement.Request, stale bool) List {
	l := List{Items: make([]RequestView, len(items)), Stale: stale}
	for i, r := range items {
		l.Items[i] = RequestView{Request: r, TotalValue: r.TotalValue()}
		if r.Status == procurement.StatusPending {
			l.Pending++
		}
	}
	return l
}

// AddInput is the new-request form: one item per request
type AddInput struct {
	Department    string
	ItemName      string
	Quantity      decimal.Decimal
	EstimatedCost decimal.Decimal
}

// Service lists, adds and decides procurement requests
type Service struct {
	gateway   Gateway
	decisions procurement.DecisionStore
	approver  string
	metrics   *telemetry.DashboardMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a procurement service. Decisions are stamped with the
// signed-in identity; approver is recorded only when that is blank.
func NewService(gateway Gateway, decisions procurement.DecisionStore, approver string, metrics *telemetry.DashboardMetrics, logger *zap.Logger) *Service {
	return &Service{
		gateway:   gateway,
		decisions: decisions,
		approver:  approver,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// List fetches the requests of identity with stored decisions laid over
// the ones still pending
func (s *Service) List(ctx context.Context, identity string) List {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleProcurement, "list", telemetry.SpanAttrIdentity.String(identity))
	defer span.End()

	items, err := s.load(ctx, identity)
	if err != nil {
		outcome.ReadFailed(ctx, s.logger, s.metrics, span, moduleProcurement, "procurements.list", err)
		return newList([]procurement.Request{}, true)
	}
	outcome.ReadSucceeded(span, len(items))
	return newList(items, false)
}

func (s *Service) load(ctx context.Context, identity string) ([]procurement.Request, error) {
	raw, err := s.gateway.Procurements(ctx, identity)
	if err != nil {
		return nil, err
	}
	items := procurement.NormalizeRequests(raw, s.now())

	decided, err := s.decisions.All(ctx, identity)
	if err != nil {
		logger.Or(ctx, s.logger).Warn("procurement decisions unavailable", zap.Error(err))
		return items, nil
	}
	items, superseded := procurement.Overlay(items, decided)
	if len(superseded) > 0 {
		if err := s.decisions.Forget(ctx, identity, superseded...); err != nil {
			logger.Or(ctx, s.logger).Warn("failed to forget superseded decisions", zap.Error(err))
		}
	}
	return items, nil
}

// Add submits a new single-item request and returns the reloaded list
func (s *Service) Add(ctx context.Context, identity string, in AddInput) (List, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleProcurement, "add", telemetry.SpanAttrIdentity.String(identity))
	defer span.End()

	draft, err := procurement.NewRequestDraft(in.Department, in.ItemName, in.Quantity, in.EstimatedCost, s.now())
	if err != nil {
		return s.failed(ctx, span, "procurements.add", err, identity)
	}
	if err := s.gateway.AddProcurement(ctx, identity, draft); err != nil {
		return s.failed(ctx, span, "procurements.add", err, identity)
	}

	outcome.WriteSucceeded(ctx, s.metrics, moduleProcurement)
	logger.Or(ctx, s.logger).Info("procurement request added", zap.String("department", draft.Department))
	return s.List(ctx, identity), nil
}

// Approve moves a pending request to Approved
func (s *Service) Approve(ctx context.Context, identity, requestID string) (List, error) {
	return s.decide(ctx, identity, requestID, procurement.StatusApproved)
}

// Reject moves a pending request to Rejected
func (s *Service) Reject(ctx context.Context, identity, requestID string) (List, error) {
	return s.decide(ctx, identity, requestID, procurement.StatusRejected)
}

func (s *Service) decide(ctx context.Context, identity, requestID string, to procurement.Status) (List, error) {
	method := "approve"
	if to == procurement.StatusRejected {
		method = "reject"
	}
	ctx, span := telemetry.StartServiceSpan(ctx, moduleProcurement, method,
		telemetry.SpanAttrIdentity.String(identity),
		telemetry.SpanAttrRequestID.String(requestID),
	)
	defer span.End()

	current, err := s.load(ctx, identity)
	if err != nil {
		return s.failedWith(ctx, span, "procurements.list", err, nil)
	}

	approver := s.approverFor(identity)
	_, decision, err := procurement.Decide(current, requestID, to, approver, s.now())
	if err != nil {
		return s.failedWith(ctx, span, "procurements."+method, err, current)
	}
	if err := s.decisions.Put(ctx, identity, decision); err != nil {
		return s.failedWith(ctx, span, "procurements."+method, err, current)
	}

	outcome.WriteSucceeded(ctx, s.metrics, moduleProcurement)
	logger.Or(ctx, s.logger).Info("procurement request decided",
		zap.String("request_id", requestID),
		zap.String("status", to.String()),
		zap.String("approver", approver),
	)
	return s.List(ctx, identity), nil
}

func (s *Service) approverFor(identity string) string {
	if id := strings.TrimSpace(identity); id != "" {
		return id
	}
	return s.approver
}

// failed reports a write failure and returns a fresh list
func (s *Service) failed(ctx context.Context, span trace.Span, endpoint string, err error, identity string) (List, error) {
	outcome.WriteFailed(ctx, s.logger, s.metrics, span, moduleProcurement, endpoint, err)
	return s.List(ctx, identity), err
}

// failedWith reports a write failure and returns the state the write started
// from, or an empty stale list when that state could not be loaded
func (s *Service) failedWith(ctx context.Context, span trace.Span, endpoint string, err error, current []procurement.Request) (List, error) {
	outcome.WriteFailed(ctx, s.logger, s.metrics, span, moduleProcurement, endpoint, err)
	if current == nil {
		return newList([]procurement.Request{}, true), err
	}
	return newList(current, false), err
}
