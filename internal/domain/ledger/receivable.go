package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReceivableStatus is the display status of a receivable
type ReceivableStatus string

const (
	ReceivableUnsettled     ReceivableStatus = "Unsettled"
	ReceivablePartiallyPaid ReceivableStatus = "Partially Paid"
	ReceivableFullyPaid     ReceivableStatus = "Fully Paid"
)

// IsValid checks if the status is a known ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableUnsettled, ReceivablePartiallyPaid, ReceivableFullyPaid:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

func receivableStatusOf(stage Stage) ReceivableStatus {
	switch stage {
	case StageSettled:
		return ReceivableFullyPaid
	case StagePartial:
		return ReceivablePartiallyPaid
	default:
		return ReceivableUnsettled
	}
}

// PaymentMethod is how a customer paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentPOS      PaymentMethod = "POS"
	PaymentTransfer PaymentMethod = "transfer"
)

// PaymentMethods lists the accepted methods in display order
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentPOS, PaymentTransfer}

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentPOS, PaymentTransfer:
		return true
	}
	return false
}

// PaymentRecord is one payment received from a customer
type PaymentRecord struct {
	ID         string             `json:"id"`
	Amount     valueobject.Number `json:"amount"`
	Date       string             `json:"date"`
	Method     PaymentMethod      `json:"method"`
	Reference  string             `json:"reference,omitempty"`
	RecordedBy string             `json:"recordedBy"`
}

// Receivable is money a customer owes, collected by a cashier
type Receivable struct {
	ID               string             `json:"id"`
	CashierName      string             `json:"cashierName"`
	CustomerName     string             `json:"customerName"`
	Amount           valueobject.Number `json:"amount"`
	CreationDate     string             `json:"creationDate"`
	Status           ReceivableStatus   `json:"status"`
	RemainingBalance valueobject.Number `json:"remainingBalance"`
	PaymentHistory   []PaymentRecord    `json:"paymentHistory"`
}

// Balance derives the receivable's money state from its payments
func (r Receivable) Balance() Balance {
	amounts := make([]valueobject.Number, len(r.PaymentHistory))
	for i, p := range r.PaymentHistory {
		amounts[i] = p.Amount
	}
	return Settle(r.Amount, r.RemainingBalance, amounts)
}

// Normalize returns a copy with coerced amounts and derived remaining balance
// and status. A status sent by the backend is ignored.
func (r Receivable) Normalize() Receivable {
	history := make([]PaymentRecord, len(r.PaymentHistory))
	for i, p := range r.PaymentHistory {
		p.Amount = valueobject.NumberOf(p.Amount.Decimal())
		history[i] = p
	}

	b := r.Balance()
	out := r
	out.Amount = valueobject.NumberOf(b.Original)
	out.RemainingBalance = valueobject.NumberOf(b.Remaining)
	out.Status = receivableStatusOf(b.Stage)
	out.PaymentHistory = history
	return out
}

// CanCollect reports whether another payment may be recorded
func (r Receivable) CanCollect() bool {
	return r.Balance().Stage != StageSettled
}

// NormalizeReceivables normalizes every receivable of a fetched list
func NormalizeReceivables(list []Receivable) []Receivable {
	out := make([]Receivable, len(list))
	for i, r := range list {
		out[i] = r.Normalize()
	}
	return out
}

// FindReceivable looks a receivable up by id
func FindReceivable(list []Receivable, id string) (Receivable, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return Receivable{}, false
}

// PaymentInput is what the user enters to record a customer payment
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference string
}

// PaymentRequest is the first write of a receivable payment (add-payment)
type PaymentRequest struct {
	CustomerName  string             `json:"customerName"`
	CashierName   string             `json:"cashierName"`
	ReceivableID  string             `json:"receivableId"`
	Amount        valueobject.Number `json:"amount"`
	PaymentMethod PaymentMethod      `json:"paymentMethod"`
	Reference     string             `json:"reference,omitempty"`
}

// ReceivableUpdate is the second write of a receivable payment, which
// updates the receivable's balance on the backend
type ReceivableUpdate struct {
	CustomerName string             `json:"customerName"`
	CashierName  string             `json:"cashierName"`
	Amount       valueobject.Number `json:"amount"`
	Date         time.Time          `json:"date"`
	Note         string             `json:"note"`
}

// PreparePayment validates a payment against the receivable and builds both
// backend payloads
func (r Receivable) PreparePayment(in PaymentInput, now time.Time) (PaymentRequest, ReceivableUpdate, error) {
	if err := checkAmount(in.Amount); err != nil {
		return PaymentRequest{}, ReceivableUpdate{}, err
	}
	if !in.Amount.IsPositive() {
		return PaymentRequest{}, ReceivableUpdate{}, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !in.Method.IsValid() {
		return PaymentRequest{}, ReceivableUpdate{}, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method %q", in.Method))
	}
	b := r.Balance()
	if b.Stage == StageSettled {
		return PaymentRequest{}, ReceivableUpdate{}, shared.NewDomainError("INVALID_STATE", "Receivable is already fully paid")
	}
	if in.Amount.GreaterThan(b.Remaining) {
		return PaymentRequest{}, ReceivableUpdate{}, shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Payment amount %s exceeds remaining balance %s", in.Amount.String(), b.Remaining.String()))
	}

	amount := valueobject.NumberOf(in.Amount)
	req := PaymentRequest{
		CustomerName:  r.CustomerName,
		CashierName:   r.CashierName,
		ReceivableID:  r.ID,
		Amount:        amount,
		PaymentMethod: in.Method,
		Reference:     strings.TrimSpace(in.Reference),
	}
	upd := ReceivableUpdate{
		CustomerName: r.CustomerName,
		CashierName:  r.CashierName,
		Amount:       amount,
		Date:         now.UTC(),
		Note: fmt.Sprintf("Payment of %s made in service to %s, administered by %s",
			in.Amount.String(), r.CustomerName, r.CashierName),
	}
	return req, upd, nil
}
