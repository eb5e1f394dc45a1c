package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon kinds
const (
	CouponPercent = "PERCENT"
	CouponFixed   = "FIXED"
)

type Coupon struct {
	ID         int64
	Code       string
	Kind       string
	Value      decimal.Decimal
	ValidFrom  *time.Time
	ValidUntil *time.Time
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidAt reports whether the coupon may be applied at the given time
func (c Coupon) ValidAt(t time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom != nil && t.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && t.After(*c.ValidUntil) {
		return false
	}
	return true
}

// Discount applies the coupon to a total.
// Percent coupons take Value as percentage, fixed ones subtract Value.
// Result never goes below zero.
func (c Coupon) Discount(total decimal.Decimal) decimal.Decimal {
	var discounted decimal.Decimal

	switch c.Kind {
	case CouponPercent:
		factor := decimal.NewFromInt(100).Sub(c.Value).Div(decimal.NewFromInt(100))
		discounted = total.Mul(factor).Round(2)
	case CouponFixed:
		discounted = total.Sub(c.Value)
	default:
		return total
	}

	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}
