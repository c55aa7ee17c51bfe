// Package refund computes the refund/penalty split applied when a
// confirmed booking (or a package session) is cancelled. It is pure: the
// caller supplies the deposit and the notice given in hours, nothing is
// read from a store or a clock.
package refund

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidDeposit = errors.New("deposit amount must be non-negative")

var oneHundred = decimal.NewFromInt(100)

// Settlement is the outcome of applying the refund policy to a deposit.
// Refund + Penalty always equals the deposit exactly: only the refund is
// rounded, the penalty is the remainder.
type Settlement struct {
	RefundPercent int64
	Refund        decimal.Decimal
	Penalty       decimal.Decimal
}

// RefundOwed reports whether any amount has to be paid back to the player.
func (s Settlement) RefundOwed() bool {
	return s.Refund.IsPositive()
}

// RateFor returns the refund percentage for the given notice. Tiers are
// contiguous and cover the whole axis; the first match wins.
func RateFor(hoursUntilStart float64) int64 {
	switch {
	case hoursUntilStart < 0:
		return 0
	case hoursUntilStart <= 2:
		return 100
	case hoursUntilStart <= 3:
		return 70
	case hoursUntilStart <= 4:
		return 40
	case hoursUntilStart <= 5:
		return 10
	default:
		return 0
	}
}

// Settle applies the tier table to a deposit. The refund is rounded to two
// decimal places half-up (deposits are never negative, so Round behaves as
// half-up here).
func Settle(deposit decimal.Decimal, hoursUntilStart float64) (Settlement, error) {
	if deposit.IsNegative() {
		return Settlement{}, ErrInvalidDeposit
	}

	rate := RateFor(hoursUntilStart)
	refundAmount := deposit.Mul(decimal.NewFromInt(rate)).Div(oneHundred).Round(2)

	return Settlement{
		RefundPercent: rate,
		Refund:        refundAmount,
		Penalty:       deposit.Sub(refundAmount),
	}, nil
}

// HoursUntil is the notice given when cancelling at now a reservation
// starting at start. Negative when the reservation has already begun.
func HoursUntil(start, now time.Time) float64 {
	return start.Sub(now).Hours()
}
