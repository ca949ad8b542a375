package ledger

import (
	"testing"

	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func nums(values ...int64) []valueobject.Number {
	out := make([]valueobject.Number, len(values))
	for i, v := range values {
		out[i] = valueobject.NumberFromInt(v)
	}
	return out
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name      string
		original  valueobject.Number
		reported  valueobject.Number
		payments  []valueobject.Number
		remaining int64
		paid      int64
		stage     Stage
	}{
		{"partial", valueobject.NumberFromInt(10000), valueobject.Number{}, nums(3000, 2000), 5000, 5000, StagePartial},
		{"settled", valueobject.NumberFromInt(5000), valueobject.Number{}, nums(5000), 0, 5000, StageSettled},
		{"zero amount without payments", valueobject.NumberFromInt(0), valueobject.Number{}, nil, 0, 0, StageNoPayment},
		{"no payments", valueobject.NumberFromInt(800), valueobject.Number{}, nil, 800, 0, StageNoPayment},
		{"overpaid is floored", valueobject.NumberFromInt(1000), valueobject.Number{}, nums(700, 700), 0, 1400, StageSettled},
		{"missing original", valueobject.Number{}, valueobject.Number{}, nums(100), 0, 100, StageSettled},
		{"reported balance wins", valueobject.NumberFromInt(10000), valueobject.NumberFromInt(6000), nums(3000), 6000, 3000, StagePartial},
		{"reported zero is ignored", valueobject.NumberFromInt(10000), valueobject.NumberFromInt(0), nums(3000), 7000, 3000, StagePartial},
		{"reported garbage is ignored", valueobject.NumberFromInt(10000), valueobject.ParseNumber("n/a"), nums(3000), 7000, 3000, StagePartial},
		{"string amounts", valueobject.ParseNumber("2500"), valueobject.Number{}, []valueobject.Number{valueobject.ParseNumber("500"), valueobject.ParseNumber("")}, 2000, 500, StagePartial},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := Settle(tc.original, tc.reported, tc.payments)
			assert.True(t, b.Remaining.Equal(decimal.NewFromInt(tc.remaining)), "remaining %s", b.Remaining)
			assert.True(t, b.TotalPaid.Equal(decimal.NewFromInt(tc.paid)), "paid %s", b.TotalPaid)
			assert.Equal(t, tc.stage, b.Stage)
		})
	}
}

func TestSettle_RemainingIsOriginalMinusPaidFloored(t *testing.T) {
	for original := int64(0); original <= 3000; original += 750 {
		for _, payments := range [][]int64{{}, {0}, {250}, {1000, 1000}, {500, 500, 500, 500, 500, 500, 500}} {
			b := Settle(valueobject.NumberFromInt(original), valueobject.Number{}, nums(payments...))

			var sum int64
			for _, p := range payments {
				sum += p
			}
			want := original - sum
			if want < 0 {
				want = 0
			}
			assert.True(t, b.Remaining.Equal(decimal.NewFromInt(want)), "original=%d payments=%v", original, payments)
			assert.False(t, b.Remaining.IsNegative())
		}
	}
}

func TestSettle_StageIsFunctionOfRemainingAndPaid(t *testing.T) {
	for _, payments := range [][]int64{{}, {0}, {100}, {100, 400}, {1000}} {
		b := Settle(valueobject.NumberFromInt(500), valueobject.Number{}, nums(payments...))
		switch {
		case !b.TotalPaid.IsPositive():
			assert.Equal(t, StageNoPayment, b.Stage)
		case b.Remaining.IsZero():
			assert.Equal(t, StageSettled, b.Stage)
		default:
			assert.Equal(t, StagePartial, b.Stage)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Balance{
		Settle(valueobject.NumberFromInt(10000), valueobject.Number{}, nums(3000, 2000)),
		Settle(valueobject.NumberFromInt(5000), valueobject.Number{}, nums(5000)),
		Settle(valueobject.NumberFromInt(2000), valueobject.Number{}, nil),
	})

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.Settled)
	assert.Equal(t, 1, s.Partial)
	assert.Equal(t, 1, s.Open)
	assert.True(t, s.Original.Equal(decimal.NewFromInt(17000)))
	assert.True(t, s.Paid.Equal(decimal.NewFromInt(10000)))
	assert.True(t, s.Outstanding.Equal(decimal.NewFromInt(7000)))
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "no_payment", StageNoPayment.String())
	assert.Equal(t, "partial", StagePartial.String())
	assert.Equal(t, "settled", StageSettled.String())
}
