// Package inventory holds per-item stock thresholds and the alert status
// derived from them.
package inventory

import (
	"fmt"

	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ThresholdStatus is the alert level of an item
type ThresholdStatus string

const (
	StatusNormal   ThresholdStatus = "normal"
	StatusLow      ThresholdStatus = "low"
	StatusCritical ThresholdStatus = "critical"
)

// IsValid checks if the status is a known ThresholdStatus
func (s ThresholdStatus) IsValid() bool {
	switch s {
	case StatusNormal, StatusLow, StatusCritical:
		return true
	}
	return false
}

// String returns the string representation of ThresholdStatus
func (s ThresholdStatus) String() string {
	return string(s)
}

// DeriveStatus computes the alert level, most severe first: critical when
// stock is at or below the minimum, low when at or below the reorder level,
// normal otherwise. Quantities may be fractional.
func DeriveStatus(currentStock, minStock, reorderLevel decimal.Decimal) ThresholdStatus {
	switch {
	case currentStock.LessThanOrEqual(minStock):
		return StatusCritical
	case currentStock.LessThanOrEqual(reorderLevel):
		return StatusLow
	default:
		return StatusNormal
	}
}

// ThresholdSetting configures stock alerts for one inventory item
type ThresholdSetting struct {
	ID           string             `json:"id"`
	ItemName     string             `json:"itemName"`
	CurrentStock valueobject.Number `json:"currentStock"`
	ReorderLevel valueobject.Number `json:"reorderLevel"`
	MinStock     valueobject.Number `json:"minStock"`
	MaxStock     valueobject.Number `json:"maxStock"`
	AutoAlerts   bool               `json:"autoAlerts"`
	Status       ThresholdStatus    `json:"status"`
}

// Normalize returns a copy with coerced quantities and a re-derived status.
// Quantities keep their exact value; only missing or malformed ones become 0.
func (t ThresholdSetting) Normalize() ThresholdSetting {
	out := t
	out.CurrentStock = valueobject.NumberOf(t.CurrentStock.Decimal())
	out.ReorderLevel = valueobject.NumberOf(t.ReorderLevel.Decimal())
	out.MinStock = valueobject.NumberOf(t.MinStock.Decimal())
	out.MaxStock = valueobject.NumberOf(t.MaxStock.Decimal())
	out.Status = t.derive()
	return out
}

func (t ThresholdSetting) derive() ThresholdStatus {
	return DeriveStatus(t.CurrentStock.Decimal(), t.MinStock.Decimal(), t.ReorderLevel.Decimal())
}

// NormalizeThresholds normalizes every setting of a fetched list
func NormalizeThresholds(list []ThresholdSetting) []ThresholdSetting {
	out := make([]ThresholdSetting, len(list))
	for i, t := range list {
		out[i] = t.Normalize()
	}
	return out
}

// ThresholdEdit holds the user-editable fields of a setting. Levels are
// entered as whole numbers.
type ThresholdEdit struct {
	ReorderLevel int64
	MinStock     int64
	MaxStock     int64
	AutoAlerts   bool
}

// Validate checks the edit for internally consistent levels
func (e ThresholdEdit) Validate() error {
	if e.ReorderLevel < 0 || e.MinStock < 0 || e.MaxStock < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Stock levels cannot be negative")
	}
	if e.MaxStock > 0 && e.MinStock > e.MaxStock {
		return shared.NewDomainError("INVALID_INPUT", "Minimum stock cannot exceed maximum stock")
	}
	return nil
}

// ApplyEdit returns a new list in which the setting with the given id carries
// the edited levels and a re-derived status. Other settings are left exactly
// as given. The input list is not modified.
func ApplyEdit(list []ThresholdSetting, id string, edit ThresholdEdit) ([]ThresholdSetting, error) {
	if err := edit.Validate(); err != nil {
		return nil, err
	}

	out := make([]ThresholdSetting, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		out[i].ReorderLevel = valueobject.NumberFromInt(edit.ReorderLevel)
		out[i].MinStock = valueobject.NumberFromInt(edit.MinStock)
		out[i].MaxStock = valueobject.NumberFromInt(edit.MaxStock)
		out[i].AutoAlerts = edit.AutoAlerts
		out[i].Status = out[i].derive()
		return out, nil
	}
	return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Threshold setting %q not found", id))
}

// Summary counts items per alert level
type Summary struct {
	Total    int
	Critical int
	Low      int
	Normal   int
}

// Summarize counts a list of settings by status
func Summarize(list []ThresholdSetting) Summary {
	s := Summary{Total: len(list)}
	for _, t := range list {
		switch t.Status {
		case StatusCritical:
			s.Critical++
		case StatusLow:
			s.Low++
		default:
			s.Normal++
		}
	}
	return s
}
