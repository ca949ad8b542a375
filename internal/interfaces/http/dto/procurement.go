package dto

import (
	"github.com/erp/dashboard/internal/domain/procurement"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddProcurementRequest is the new-request form, one item per request
type AddProcurementRequest struct {
	Department    string          `json:"department" form:"department" binding:"required,max=100"`
	ItemName      string          `json:"itemName" form:"itemName" binding:"required,max=200"`
	Quantity      decimal.Decimal `json:"quantity" form:"quantity"`
	EstimatedCost decimal.Decimal `json:"estimatedCost" form:"estimatedCost"`
}

// ProcurementRequestResponse is a request with its total value
type ProcurementRequestResponse struct {
	procurement.Request
	TotalValue valueobject.Number `json:"totalValue"`
}

// ProcurementListResponse is the procurement request list
type ProcurementListResponse struct {
	Items   []ProcurementRequestResponse `json:"items"`
	Pending int                          `json:"pending"`
	Stale   bool                         `json:"stale"`
}
