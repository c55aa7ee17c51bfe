package refund

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestSettle_TierTable(t *testing.T) {
	cases := []struct {
		name    string
		deposit string
		hours   float64
		rate    int64
		refund  string
		penalty string
	}{
		{"more than five hours notice", "200000", 6, 0, "0", "200000"},
		{"exactly five hours", "200000", 5, 10, "20000", "180000"},
		{"four and a half hours", "200000", 4.5, 10, "20000", "180000"},
		{"exactly four hours", "200000", 4, 40, "80000", "120000"},
		{"three and a half hours", "100000", 3.5, 40, "40000", "60000"},
		{"exactly three hours", "100000", 3, 70, "70000", "30000"},
		{"two and a half hours", "100000", 2.5, 70, "70000", "30000"},
		{"exactly two hours", "100000", 2, 100, "100000", "0"},
		{"one hour", "100000", 1, 100, "100000", "0"},
		{"at start time", "100000", 0, 100, "100000", "0"},
		{"already started", "150000", -float64(10) / 60, 0, "0", "150000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := Settle(d(tc.deposit), tc.hours)
			require.NoError(t, err)
			assert.Equal(t, tc.rate, st.RefundPercent)
			assert.True(t, st.Refund.Equal(d(tc.refund)), "refund: got %s want %s", st.Refund, tc.refund)
			assert.True(t, st.Penalty.Equal(d(tc.penalty)), "penalty: got %s want %s", st.Penalty, tc.penalty)
		})
	}
}

func TestSettle_RefundPlusPenaltyEqualsDeposit(t *testing.T) {
	deposits := []string{"0", "0.01", "1", "99.99", "150000", "333333.33", "1234567.89"}
	hours := []float64{-5, -0.001, 0, 0.5, 2, 2.0001, 3, 3.5, 4, 4.0001, 5, 5.0001, 48}

	for _, dep := range deposits {
		for _, h := range hours {
			st, err := Settle(d(dep), h)
			require.NoError(t, err)
			sum := st.Refund.Add(st.Penalty)
			assert.True(t, sum.Equal(d(dep)), "deposit=%s hours=%v: refund %s + penalty %s != deposit", dep, h, st.Refund, st.Penalty)
			assert.False(t, st.Refund.IsNegative())
			assert.False(t, st.Penalty.IsNegative())
		}
	}
}

func TestSettle_RoundingHalfUp(t *testing.T) {
	// 10% of 333.35 is 33.335, which rounds half-up to 33.34.
	st, err := Settle(d("333.35"), 4.5)
	require.NoError(t, err)
	assert.True(t, st.Refund.Equal(d("33.34")), "got %s", st.Refund)
	assert.True(t, st.Penalty.Equal(d("300.01")), "got %s", st.Penalty)
}

func TestSettle_NegativeDeposit(t *testing.T) {
	_, err := Settle(d("-1"), 3)
	assert.ErrorIs(t, err, ErrInvalidDeposit)
}

func TestRateFor_TiersContiguous(t *testing.T) {
	// Walk the axis in small steps; every point must land in exactly one
	// tier, with the documented boundary behaviour.
	assert.Equal(t, int64(0), RateFor(5.0000001))
	assert.Equal(t, int64(10), RateFor(5))
	assert.Equal(t, int64(10), RateFor(4.0000001))
	assert.Equal(t, int64(40), RateFor(4))
	assert.Equal(t, int64(40), RateFor(3.0000001))
	assert.Equal(t, int64(70), RateFor(3))
	assert.Equal(t, int64(70), RateFor(2.0000001))
	assert.Equal(t, int64(100), RateFor(2))
	assert.Equal(t, int64(100), RateFor(0))
	assert.Equal(t, int64(0), RateFor(-0.0000001))
}

func TestHoursUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 4.5, HoursUntil(now.Add(270*time.Minute), now), 1e-9)
	assert.InDelta(t, -1, HoursUntil(now.Add(-time.Hour), now), 1e-9)
}
