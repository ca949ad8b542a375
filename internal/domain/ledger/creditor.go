package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreditorStatus is the display status of a creditor
type CreditorStatus string

const (
	CreditorUnpaid        CreditorStatus = "Unpaid"
	CreditorPartiallyPaid CreditorStatus = "Partially Paid"
	CreditorFullyPaid     CreditorStatus = "Fully Paid"
)

// IsValid checks if the status is a known CreditorStatus
func (s CreditorStatus) IsValid() bool {
	switch s {
	case CreditorUnpaid, CreditorPartiallyPaid, CreditorFullyPaid:
		return true
	}
	return false
}

// String returns the string representation of CreditorStatus
func (s CreditorStatus) String() string {
	return string(s)
}

func creditorStatusOf(stage Stage) CreditorStatus {
	switch stage {
	case StageSettled:
		return CreditorFullyPaid
	case StagePartial:
		return CreditorPartiallyPaid
	default:
		return CreditorUnpaid
	}
}

// SettlementMethod is how a supplier was paid
type SettlementMethod string

const (
	SettlementCash     SettlementMethod = "Cash"
	SettlementPOS      SettlementMethod = "POS"
	SettlementTransfer SettlementMethod = "Transfer"
	SettlementCheque   SettlementMethod = "Cheque"
)

// SettlementMethods lists the accepted methods in display order
var SettlementMethods = []SettlementMethod{SettlementCash, SettlementPOS, SettlementTransfer, SettlementCheque}

// IsValid checks if the method is a known SettlementMethod
func (m SettlementMethod) IsValid() bool {
	switch m {
	case SettlementCash, SettlementPOS, SettlementTransfer, SettlementCheque:
		return true
	}
	return false
}

// SettlementRecord is one payment made to a supplier. Records are immutable
// once created and kept in insertion order.
type SettlementRecord struct {
	ID         string             `json:"id"`
	Amount     valueobject.Number `json:"amount"`
	Date       string             `json:"date"`
	Method     SettlementMethod   `json:"method"`
	Reference  string             `json:"reference,omitempty"`
	RecordedBy string             `json:"recordedBy"`
	Notes      string             `json:"notes,omitempty"`
}

// Creditor is a supplier the account owes money to
type Creditor struct {
	ID                string             `json:"id"`
	SupplierName      string             `json:"supplierName"`
	OriginalAmount    valueobject.Number `json:"originalAmount"`
	RemainingBalance  valueobject.Number `json:"remainingBalance"`
	CreationDate      string             `json:"creationDate"`
	Status            CreditorStatus     `json:"status"`
	SettlementHistory []SettlementRecord `json:"settlementHistory"`
}

// Balance derives the creditor's money state from its ledger
func (c Creditor) Balance() Balance {
	amounts := make([]valueobject.Number, len(c.SettlementHistory))
	for i, s := range c.SettlementHistory {
		amounts[i] = s.Amount
	}
	return Settle(c.OriginalAmount, c.RemainingBalance, amounts)
}

// Normalize returns a copy of the creditor with every amount coerced, the
// remaining balance recomputed and the status re-derived. The receiver is
// not modified.
func (c Creditor) Normalize() Creditor {
	history := make([]SettlementRecord, len(c.SettlementHistory))
	for i, s := range c.SettlementHistory {
		s.Amount = valueobject.NumberOf(s.Amount.Decimal())
		history[i] = s
	}

	b := c.Balance()
	out := c
	out.OriginalAmount = valueobject.NumberOf(b.Original)
	out.RemainingBalance = valueobject.NumberOf(b.Remaining)
	out.Status = creditorStatusOf(b.Stage)
	out.SettlementHistory = history
	return out
}

// TotalPaid sums the settlement history
func (c Creditor) TotalPaid() decimal.Decimal {
	return c.Balance().TotalPaid
}

// CanSettle reports whether a new settlement may be recorded
func (c Creditor) CanSettle() bool {
	return c.Balance().Stage != StageSettled
}

// NormalizeCreditors normalizes every creditor of a fetched list
func NormalizeCreditors(list []Creditor) []Creditor {
	out := make([]Creditor, len(list))
	for i, c := range list {
		out[i] = c.Normalize()
	}
	return out
}

// SettlementInput is what the user enters to settle part of a creditor
type SettlementInput struct {
	Amount    decimal.Decimal
	Method    SettlementMethod
	Reference string
	Notes     string
}

// SettlementRequest is the payload the backend expects when recording a settlement
type SettlementRequest struct {
	OriginalBalance  valueobject.Number `json:"originalBalance"`
	RemainingBalance valueobject.Number `json:"remainingBalance"`
	Method           SettlementMethod   `json:"method"`
	Reference        string             `json:"reference,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

// PrepareSettlement validates a settlement against the creditor's current
// balance and builds the backend payload
func (c Creditor) PrepareSettlement(in SettlementInput) (SettlementRequest, error) {
	if err := checkAmount(in.Amount); err != nil {
		return SettlementRequest{}, err
	}
	if !in.Amount.IsPositive() {
		return SettlementRequest{}, shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	if !in.Method.IsValid() {
		return SettlementRequest{}, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown settlement method %q", in.Method))
	}
	b := c.Balance()
	if b.Stage == StageSettled {
		return SettlementRequest{}, shared.NewDomainError("INVALID_STATE", "Creditor is already fully paid")
	}
	if in.Amount.GreaterThan(b.Remaining) {
		return SettlementRequest{}, shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Settlement amount %s exceeds remaining balance %s", in.Amount.String(), b.Remaining.String()))
	}

	return SettlementRequest{
		OriginalBalance:  valueobject.NumberOf(b.Original),
		RemainingBalance: valueobject.NumberOf(b.Remaining.Sub(in.Amount)),
		Method:           in.Method,
		Reference:        strings.TrimSpace(in.Reference),
		Notes:            strings.TrimSpace(in.Notes),
	}, nil
}

// NewCreditor is the payload for adding a creditor
type NewCreditor struct {
	SupplierName   string             `json:"supplierName"`
	OriginalAmount valueobject.Number `json:"originalAmount"`
	CreationDate   string             `json:"creationDate"`
}

// NewCreditorDraft validates a new creditor against the existing list.
// Supplier names are unique per account.
func NewCreditorDraft(supplierName string, originalAmount decimal.Decimal, today time.Time, existing []Creditor) (NewCreditor, error) {
	name := strings.TrimSpace(supplierName)
	if name == "" {
		return NewCreditor{}, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if err := checkAmount(originalAmount); err != nil {
		return NewCreditor{}, err
	}
	if originalAmount.IsNegative() {
		return NewCreditor{}, shared.NewDomainError("INVALID_AMOUNT", "Original amount cannot be negative")
	}
	for _, c := range existing {
		if strings.EqualFold(strings.TrimSpace(c.SupplierName), name) {
			return NewCreditor{}, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Creditor %q already exists", name))
		}
	}
	return NewCreditor{
		SupplierName:   name,
		OriginalAmount: valueobject.NumberOf(originalAmount),
		CreationDate:   shared.FormatDate(today),
	}, nil
}

// FindCreditor looks a creditor up by supplier name
func FindCreditor(list []Creditor, supplierName string) (Creditor, bool) {
	for _, c := range list {
		if c.SupplierName == supplierName {
			return c, true
		}
	}
	return Creditor{}, false
}
