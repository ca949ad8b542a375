// Package procurement models departmental purchase requests and their
// one-way approval workflow.
package procurement

import (
	"strings"
	"time"

	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the approval state of a request
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition is defined
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Item is one requested line. ApprovedQty and AdjustedCost are nil until an
// approver sets them.
type Item struct {
	Name          string              `json:"name"`
	RequestedQty  valueobject.Number  `json:"requestedQty"`
	ApprovedQty   *valueobject.Number `json:"approvedQty,omitempty"`
	EstimatedCost valueobject.Number  `json:"estimatedCost"`
	AdjustedCost  *valueobject.Number `json:"adjustedCost,omitempty"`
}

// EffectiveCost is the adjusted cost when set and non-zero, else the estimate
func (i Item) EffectiveCost() decimal.Decimal {
	if i.AdjustedCost != nil && !i.AdjustedCost.IsZero() {
		return i.AdjustedCost.Decimal()
	}
	return i.EstimatedCost.Decimal()
}

func (i Item) normalize() Item {
	out := i
	out.RequestedQty = valueobject.NumberOf(i.RequestedQty.Decimal())
	out.EstimatedCost = valueobject.NumberOf(i.EstimatedCost.Decimal())
	if i.ApprovedQty != nil {
		n := valueobject.NumberOf(i.ApprovedQty.Decimal())
		out.ApprovedQty = &n
	}
	if i.AdjustedCost != nil {
		n := valueobject.NumberOf(i.AdjustedCost.Decimal())
		out.AdjustedCost = &n
	}
	return out
}

// Request is a departmental procurement request
type Request struct {
	ID           string `json:"id"`
	Department   string `json:"department"`
	Items        []Item `json:"items"`
	Status       Status `json:"status"`
	RequestDate  string `json:"requestDate"`
	ApprovedBy   string `json:"approvedBy,omitempty"`
	ApprovedDate string `json:"approvedDate,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Normalize returns a copy with coerced item quantities and costs. A missing
// request date defaults to today and a missing status to Pending.
func (r Request) Normalize(today time.Time) Request {
	out := r
	out.Items = make([]Item, len(r.Items))
	for i, it := range r.Items {
		out.Items[i] = it.normalize()
	}
	if out.RequestDate == "" {
		out.RequestDate = shared.FormatDate(today)
	}
	if out.Status == "" {
		out.Status = StatusPending
	}
	return out
}

// NormalizeRequests normalizes every request of a fetched list
func NormalizeRequests(list []Request, today time.Time) []Request {
	out := make([]Request, len(list))
	for i, r := range list {
		out[i] = r.Normalize(today)
	}
	return out
}

// TotalValue sums the effective cost of every item
func (r Request) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.EffectiveCost())
	}
	return total
}

// Approve moves a pending request to Approved, stamping approver and date.
// It reports whether the transition happened; on any other status it leaves
// the request untouched.
func (r *Request) Approve(approver string, on time.Time) bool {
	return r.decide(StatusApproved, approver, on)
}

// Reject moves a pending request to Rejected. See Approve.
func (r *Request) Reject(approver string, on time.Time) bool {
	return r.decide(StatusRejected, approver, on)
}

func (r *Request) decide(to Status, approver string, on time.Time) bool {
	if r.Status != StatusPending {
		return false
	}
	r.Status = to
	r.ApprovedBy = approver
	r.ApprovedDate = shared.FormatDate(on)
	return true
}

// NewItem is one line of a new request
type NewItem struct {
	Name          string             `json:"name"`
	RequestedQty  valueobject.Number `json:"requestedQty"`
	EstimatedCost valueobject.Number `json:"estimatedCost"`
}

// NewRequest is the payload for adding a procurement request
type NewRequest struct {
	Department  string    `json:"department"`
	Items       []NewItem `json:"items"`
	RequestDate string    `json:"requestDate"`
}

// NewRequestDraft validates a single-item request and builds its payload
func NewRequestDraft(department, itemName string, qty, estimatedCost decimal.Decimal, today time.Time) (NewRequest, error) {
	department = strings.TrimSpace(department)
	itemName = strings.TrimSpace(itemName)
	if department == "" || itemName == "" {
		return NewRequest{}, shared.NewDomainError("INVALID_INPUT", "Department and item name are required")
	}
	if !valueobject.InRange(qty) || !valueobject.InRange(estimatedCost) {
		return NewRequest{}, shared.NewDomainError("INVALID_AMOUNT", "Quantity or cost is out of range")
	}
	if !qty.IsPositive() {
		return NewRequest{}, shared.NewDomainError("INVALID_INPUT", "Requested quantity must be positive")
	}
	if estimatedCost.IsNegative() {
		return NewRequest{}, shared.NewDomainError("INVALID_INPUT", "Estimated cost cannot be negative")
	}
	return NewRequest{
		Department: department,
		Items: []NewItem{{
			Name:          itemName,
			RequestedQty:  valueobject.NumberOf(qty),
			EstimatedCost: valueobject.NumberOf(estimatedCost),
		}},
		RequestDate: shared.FormatDate(today),
	}, nil
}
