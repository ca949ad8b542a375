package ledger

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReceivable(amount int64, payments ...int64) Receivable {
	history := make([]PaymentRecord, len(payments))
	for i, p := range payments {
		history[i] = PaymentRecord{
			ID:         "p" + string(rune('0'+i)),
			Amount:     valueobject.NumberFromInt(p),
			Date:       "2024-01-20",
			Method:     PaymentCash,
			RecordedBy: "Super Admin",
		}
	}
	return Receivable{
		ID:             "rc-1",
		CashierName:    "Ada",
		CustomerName:   "Tunde",
		Amount:         valueobject.NumberFromInt(amount),
		CreationDate:   "2024-01-15",
		PaymentHistory: history,
	}
}

func TestReceivable_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		receivable Receivable
		remaining  int64
		status     ReceivableStatus
	}{
		{"partially paid", newTestReceivable(15000, 5000), 10000, ReceivablePartiallyPaid},
		{"fully paid", newTestReceivable(25000, 20000, 5000), 0, ReceivableFullyPaid},
		{"unsettled", newTestReceivable(25000), 25000, ReceivableUnsettled},
		{"zero amount stays unsettled", newTestReceivable(0), 0, ReceivableUnsettled},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.receivable.Normalize()
			assert.True(t, got.RemainingBalance.Decimal().Equal(decimal.NewFromInt(tc.remaining)))
			assert.Equal(t, tc.status, got.Status)
		})
	}
}

func TestReceivable_NormalizeDerivesStatusFromServerBalance(t *testing.T) {
	var r Receivable
	raw := `{"id":"r9","customerName":"Bola","cashierName":"Ada","amount":"15000","remainingBalance":"9000",
		"status":"Fully Paid","paymentHistory":[{"id":"x","amount":"5000","method":"cash"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	out := r.Normalize()

	assert.True(t, out.RemainingBalance.Decimal().Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, ReceivablePartiallyPaid, out.Status)
	assert.True(t, out.CanCollect())
	assert.Equal(t, out, out.Normalize())
}

func TestNormalizeReceivables(t *testing.T) {
	out := NormalizeReceivables([]Receivable{newTestReceivable(100, 100), newTestReceivable(100)})

	require.Len(t, out, 2)
	assert.Equal(t, ReceivableFullyPaid, out[0].Status)
	assert.False(t, out[0].CanCollect())
	assert.Equal(t, ReceivableUnsettled, out[1].Status)

	_, ok := FindReceivable(out, "rc-1")
	assert.True(t, ok)
	_, ok = FindReceivable(out, "missing")
	assert.False(t, ok)
}

func TestReceivable_PreparePayment(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	r := newTestReceivable(15000, 5000)

	req, upd, err := r.PreparePayment(PaymentInput{Amount: decimal.NewFromInt(4000), Method: PaymentTransfer, Reference: "TRX-9"}, now)
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"customerName":"Tunde","cashierName":"Ada","receivableId":"rc-1","amount":4000,"paymentMethod":"transfer","reference":"TRX-9"}`, string(data))

	assert.Equal(t, "Payment of 4000 made in service to Tunde, administered by Ada", upd.Note)
	assert.Equal(t, now, upd.Date)
	assert.True(t, upd.Amount.Decimal().Equal(decimal.NewFromInt(4000)))
}

func TestReceivable_PreparePaymentErrors(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		r     Receivable
		input PaymentInput
		err   error
	}{
		{"zero amount", newTestReceivable(100), PaymentInput{Amount: decimal.Zero, Method: PaymentCash}, nil},
		{"unknown method", newTestReceivable(100), PaymentInput{Amount: decimal.NewFromInt(1), Method: "Cash"}, nil},
		{"fully paid", newTestReceivable(100, 100), PaymentInput{Amount: decimal.NewFromInt(1), Method: PaymentPOS}, shared.ErrInvalidState},
		{"exceeds", newTestReceivable(100, 50), PaymentInput{Amount: decimal.NewFromInt(51), Method: PaymentPOS}, shared.ErrExceedsOutstanding},
		{"huge exponent", newTestReceivable(100), PaymentInput{Amount: decimal.New(1, 900000000), Method: PaymentPOS}, shared.NewDomainError("INVALID_AMOUNT", "")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.r.PreparePayment(tc.input, now)
			require.Error(t, err)
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err))
			}
		})
	}
}
