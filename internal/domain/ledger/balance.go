// Package ledger holds the settlement model shared by creditors (money owed
// to suppliers) and receivables (money owed by customers).
package ledger

import (
	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Stage is the entity-neutral settlement stage of a ledger entry.
// Creditors and receivables map it onto their own status labels.
type Stage int

const (
	StageNoPayment Stage = iota // nothing paid yet
	StagePartial                // something paid, balance outstanding
	StageSettled                // balance cleared
)

// String returns a lowercase name for logs
func (s Stage) String() string {
	switch s {
	case StagePartial:
		return "partial"
	case StageSettled:
		return "settled"
	default:
		return "no_payment"
	}
}

// Balance is the derived money state of one ledger entry
type Balance struct {
	Original  decimal.Decimal
	TotalPaid decimal.Decimal
	Remaining decimal.Decimal
	Stage     Stage
}

// Settle derives the balance of a ledger entry from its original amount, the
// remaining balance reported by the backend (if any) and its payments, in
// entry order.
//
// The backend figure wins only when it is a positive number; otherwise the
// remaining balance is original minus paid, floored at zero. The stage is
// StageNoPayment whenever nothing has been paid, even if the balance is zero,
// so a zero-amount entry without payments is never reported as settled.
func Settle(original, reported valueobject.Number, payments []valueobject.Number) Balance {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Decimal())
	}

	orig := original.Decimal()
	remaining := orig.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if reported.IsPositive() {
		remaining = reported.Decimal()
	}

	return Balance{
		Original:  orig,
		TotalPaid: paid,
		Remaining: remaining,
		Stage:     stageOf(remaining, paid),
	}
}

func stageOf(remaining, paid decimal.Decimal) Stage {
	switch {
	case !paid.IsPositive():
		return StageNoPayment
	case remaining.IsZero():
		return StageSettled
	default:
		return StagePartial
	}
}

// Summary aggregates balances for display
type Summary struct {
	Count       int
	Original    decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
	Settled     int
	Partial     int
	Open        int
}

// Summarize totals a set of balances
func Summarize(balances []Balance) Summary {
	s := Summary{
		Original:    decimal.Zero,
		Paid:        decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, b := range balances {
		s.Count++
		s.Original = s.Original.Add(b.Original)
		s.Paid = s.Paid.Add(b.TotalPaid)
		s.Outstanding = s.Outstanding.Add(b.Remaining)
		switch b.Stage {
		case StageSettled:
			s.Settled++
		case StagePartial:
			s.Partial++
		default:
			s.Open++
		}
	}
	return s
}

// checkAmount rejects a user-entered amount that is too large or too precise
// to compute with
func checkAmount(d decimal.Decimal) error {
	if !valueobject.InRange(d) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount is out of range")
	}
	return nil
}
