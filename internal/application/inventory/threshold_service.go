// Package inventory loads stock threshold settings and saves edits to them.
package inventory

import (
	"context"

	"github.com/erp/dashboard/internal/application/outcome"
	"github.com/erp/dashboard/internal/domain/inventory"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const moduleThresholds = "thresholds"

// ThresholdGateway is the part of the backend API the threshold service uses
type ThresholdGateway interface {
	Thresholds(ctx context.Context, identity string) ([]inventory.ThresholdSetting, error)
	DeleteThreshold(ctx context.Context, identity string, index int) error
	AddThresholdSettings(ctx context.Context, identity string, list []inventory.ThresholdSetting) error
}

// ThresholdList is a loaded set of threshold settings. Stale is set when the
// list could not be fetched; after a save whose reload failed it holds the
// saved list as edited locally.
type ThresholdList struct {
	Items   []inventory.ThresholdSetting
	Summary inventory.Summary
	Stale   bool
}

func newThresholdList(items []inventory.ThresholdSetting, stale bool) ThresholdList {
	return ThresholdList{Items: items, Summary: inventory.Summarize(items), Stale: stale}
}

// ThresholdService lists threshold settings and saves edits
type ThresholdService struct {
	gateway ThresholdGateway
	metrics *telemetry.DashboardMetrics
	logger  *zap.Logger
}

// NewThresholdService creates a threshold service. metrics may be nil.
func NewThresholdService(gateway ThresholdGateway, metrics *telemetry.DashboardMetrics, logger *zap.Logger) *ThresholdService {
	return &ThresholdService{gateway: gateway, metrics: metrics, logger: logger}
}

// List fetches the settings of identity with every status re-derived
func (s *ThresholdService) List(ctx context.Context, identity string) ThresholdList {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleThresholds, "list", telemetry.SpanAttrIdentity.String(identity))
	defer span.End()

	items, err := s.load(ctx, identity)
	if err != nil {
		outcome.ReadFailed(ctx, s.logger, s.metrics, span, moduleThresholds, "thresholds.list", err)
		return newThresholdList([]inventory.ThresholdSetting{}, true)
	}
	outcome.ReadSucceeded(span, len(items))

	list := newThresholdList(items, false)
	s.metrics.RecordThresholdLevels(ctx, list.Summary.Critical, list.Summary.Low, list.Summary.Normal)
	return list
}

func (s *ThresholdService) load(ctx context.Context, identity string) ([]inventory.ThresholdSetting, error) {
	raw, err := s.gateway.Thresholds(ctx, identity)
	if err != nil {
		return nil, err
	}
	return inventory.NormalizeThresholds(raw), nil
}

// Summary counts the settings of identity per alert level
func (s *ThresholdService) Summary(ctx context.Context, identity string) (inventory.Summary, bool) {
	list := s.List(ctx, identity)
	return list.Summary, list.Stale
}

// Save applies edit to the setting with id and persists the whole list: the
// stored entries are deleted by index, highest first, then the edited list is
// posted. Every call is awaited and the first failure aborts the save. The
// authoritative list is the reload that follows; if that reload fails the
// edited list is returned marked stale.
func (s *ThresholdService) Save(ctx context.Context, identity, id string, edit inventory.ThresholdEdit) (ThresholdList, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, moduleThresholds, "save", telemetry.SpanAttrIdentity.String(identity))
	defer span.End()

	current, err := s.load(ctx, identity)
	if err != nil {
		return s.failed(ctx, span, "thresholds.list", err, nil)
	}

	edited, err := inventory.ApplyEdit(current, id, edit)
	if err != nil {
		return s.failed(ctx, span, "thresholds.save", err, current)
	}

	for idx := len(current) - 1; idx >= 0; idx-- {
		if err := s.gateway.DeleteThreshold(ctx, identity, idx); err != nil {
			if deleted := len(current) - 1 - idx; deleted > 0 {
				logger.Or(ctx, s.logger).Error("threshold save interrupted after partial delete",
					zap.Int("deleted", deleted),
					zap.Int("total", len(current)),
				)
			}
			return s.failed(ctx, span, "thresholds.delete", err, current)
		}
	}
	if err := s.gateway.AddThresholdSettings(ctx, identity, edited); err != nil {
		logger.Or(ctx, s.logger).Error("threshold settings deleted but not re-added", zap.Int("count", len(edited)))
		return s.failed(ctx, span, "thresholds.add", err, current)
	}

	outcome.WriteSucceeded(ctx, s.metrics, moduleThresholds)

	reloaded, err := s.load(ctx, identity)
	if err != nil {
		outcome.ReadFailed(ctx, s.logger, s.metrics, span, moduleThresholds, "thresholds.list", err)
		return newThresholdList(edited, true), nil
	}
	list := newThresholdList(reloaded, false)
	s.metrics.RecordThresholdLevels(ctx, list.Summary.Critical, list.Summary.Low, list.Summary.Normal)
	return list, nil
}

func (s *ThresholdService) failed(ctx context.Context, span trace.Span, endpoint string, err error, current []inventory.ThresholdSetting) (ThresholdList, error) {
	outcome.WriteFailed(ctx, s.logger, s.metrics, span, moduleThresholds, endpoint, err)
	if current == nil {
		return newThresholdList([]inventory.ThresholdSetting{}, true), err
	}
	return newThresholdList(current, false), err
}
