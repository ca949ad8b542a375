package dto

import "github.com/erp/dashboard/internal/domain/inventory"

// ThresholdEditRequest carries the editable levels of one setting
type ThresholdEditRequest struct {
	ReorderLevel int64 `json:"reorderLevel" form:"reorderLevel" binding:"gte=0"`
	MinStock     int64 `json:"minStock" form:"minStock" binding:"gte=0"`
	MaxStock     int64 `json:"maxStock" form:"maxStock" binding:"gte=0"`
	AutoAlerts   bool  `json:"autoAlerts" form:"autoAlerts"`
}

// ThresholdSummaryResponse counts settings per alert level
type ThresholdSummaryResponse struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Low      int `json:"low"`
	Normal   int `json:"normal"`
}

// NewThresholdSummaryResponse converts a domain summary
func NewThresholdSummaryResponse(s inventory.Summary) ThresholdSummaryResponse {
	return ThresholdSummaryResponse{Total: s.Total, Critical: s.Critical, Low: s.Low, Normal: s.Normal}
}

// ThresholdListResponse is the threshold settings list
type ThresholdListResponse struct {
	Items   []inventory.ThresholdSetting `json:"items"`
	Summary ThresholdSummaryResponse     `json:"summary"`
	Stale   bool                         `json:"stale"`
}
