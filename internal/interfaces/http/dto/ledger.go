package dto

import (
	"github.com/erp/dashboard/internal/domain/ledger"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddCreditorRequest is the add-creditor form
type AddCreditorRequest struct {
	SupplierName   string          `json:"supplierName" form:"supplierName" binding:"required,max=200"`
	OriginalAmount decimal.Decimal `json:"originalAmount" form:"originalAmount"`
}

// SettleCreditorRequest records a payment made to a supplier
type SettleCreditorRequest struct {
	Amount    decimal.Decimal `json:"amount" form:"amount"`
	Method    string          `json:"method" form:"method" binding:"required,oneof=Cash POS Transfer Cheque"`
	Reference string          `json:"reference" form:"reference" binding:"max=100"`
	Notes     string          `json:"notes" form:"notes" binding:"max=500"`
}

// RecordPaymentRequest records a payment received from a customer
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" form:"amount"`
	Method    string          `json:"method" form:"method" binding:"required,oneof=cash POS transfer"`
	Reference string          `json:"reference" form:"reference" binding:"max=100"`
}

// LedgerSummaryResponse totals a creditor or receivable ledger
type LedgerSummaryResponse struct {
	Count       int                `json:"count"`
	Original    valueobject.Number `json:"original"`
	Paid        valueobject.Number `json:"paid"`
	Outstanding valueobject.Number `json:"outstanding"`
	Settled     int                `json:"settled"`
	Partial     int                `json:"partial"`
	Open        int                `json:"open"`
}

// NewLedgerSummaryResponse converts a domain summary
func NewLedgerSummaryResponse(s ledger.Summary) LedgerSummaryResponse {
	return LedgerSummaryResponse{
		Count:       s.Count,
		Original:    valueobject.NumberOf(s.Original),
		Paid:        valueobject.NumberOf(s.Paid),
		Outstanding: valueobject.NumberOf(s.Outstanding),
		Settled:     s.Settled,
		Partial:     s.Partial,
		Open:        s.Open,
	}
}

// CreditorListResponse is the creditor ledger. Stale is set when the backend
// could not be read and Items is empty for that reason.
type CreditorListResponse struct {
	Items   []ledger.Creditor     `json:"items"`
	Summary LedgerSummaryResponse `json:"summary"`
	Stale   bool                  `json:"stale"`
}

// ReceivableListResponse is the receivable ledger
type ReceivableListResponse struct {
	Items   []ledger.Receivable   `json:"items"`
	Summary LedgerSummaryResponse `json:"summary"`
	Stale   bool                  `json:"stale"`
}
