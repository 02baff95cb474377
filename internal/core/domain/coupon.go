package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage   DiscountType = "percentage"
	DiscountTypeFixed        DiscountType = "fixed"
	DiscountTypeFreeShipping DiscountType = "free_shipping"
)

type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusInactive CouponStatus = "inactive"
	CouponStatusExpired  CouponStatus = "expired"
	CouponStatusUsedUp   CouponStatus = "used_up"
)

type Coupon struct {
	ID                 uuid.UUID
	Code               string
	Description        string
	DiscountType       DiscountType
	Value              decimal.Decimal
	MinimumOrderAmount *decimal.Decimal
	MaximumDiscount    *decimal.Decimal
	UsageLimit         *int32
	UsedCount          int32
	Status             CouponStatus
	ValidFrom          time.Time
	ValidUntil         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NormalizeCouponCode makes codes case-insensitive by storing and
// looking them up in upper case.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount is what the evaluator returns: the merchandise discount and
// whether shipping is waived. A free_shipping coupon discounts nothing
// against the subtotal.
type Discount struct {
	Amount       decimal.Decimal
	FreeShipping bool
}

// Evaluate validates the coupon against an order amount at a point in
// time and computes the discount. It does not mutate usage counters;
// redemption happens atomically with order creation.
func (c *Coupon) Evaluate(orderAmount decimal.Decimal, now time.Time) (Discount, error) {
	if c.Status != CouponStatusActive {
		return Discount{}, ErrCouponNotActive
	}
	if now.Before(c.ValidFrom) {
		return Discount{}, ErrCouponNotStarted
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return Discount{}, ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return Discount{}, ErrCouponUsageExceeded
	}
	if c.MinimumOrderAmount != nil && orderAmount.Cmp(*c.MinimumOrderAmount) < 0 {
		return Discount{}, ErrCouponMinimumAmount
	}

	switch c.DiscountType {
	case DiscountTypePercentage:
		raw, err := orderAmount.Mul(c.Value)
		if err != nil {
			return Discount{}, fmt.Errorf("math error: %w", err)
		}
		amount, err := raw.Quo(decimal.Hundred)
		if err != nil {
			return Discount{}, fmt.Errorf("math error: %w", err)
		}
		if c.MaximumDiscount != nil && amount.Cmp(*c.MaximumDiscount) > 0 {
			amount = *c.MaximumDiscount
		}
		return Discount{Amount: amount}, nil
	case DiscountTypeFixed:
		amount := c.Value
		if amount.Cmp(orderAmount) > 0 {
			amount = orderAmount
		}
		return Discount{Amount: amount}, nil
	case DiscountTypeFreeShipping:
		return Discount{Amount: decimal.Zero, FreeShipping: true}, nil
	default:
		return Discount{}, fmt.Errorf("%w: unknown discount type %q", ErrValidation, c.DiscountType)
	}
}
