package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
	"go.uber.org/zap"
)

// ValidateCoupon looks a code up and prices the discount against an
// order amount. It never mutates the usage counter; that happens inside
// the order creation transaction.
func (s *Service) ValidateCoupon(ctx context.Context, code string, orderAmount decimal.Decimal) (*domain.Coupon, domain.Discount, error) {
	coupon, err := s.coupons.ReadCouponByCode(ctx, domain.NormalizeCouponCode(code))
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.Discount{}, domain.ErrCouponNotFound
		}
		s.logger.Error("Read coupon", zap.Error(err))
		return nil, domain.Discount{}, err
	}

	discount, err := coupon.Evaluate(orderAmount, time.Now())
	if err != nil {
		return nil, domain.Discount{}, err
	}

	return coupon, discount, nil
}

func (s *Service) CreateCoupon(ctx context.Context, actor domain.Actor, coupon *domain.Coupon) (*domain.Coupon, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if coupon.Code == "" {
		return nil, fmt.Errorf("%w: coupon code is required", domain.ErrValidation)
	}
	if coupon.Value.IsNeg() {
		return nil, fmt.Errorf("%w: coupon value must not be negative", domain.ErrValidation)
	}

	coupon.ID = uuid.New()
	coupon.Code = domain.NormalizeCouponCode(coupon.Code)
	coupon.UsedCount = 0
	if coupon.Status == "" {
		coupon.Status = domain.CouponStatusActive
	}
	if coupon.ValidFrom.IsZero() {
		coupon.ValidFrom = time.Now()
	}

	created, err := s.coupons.CreateCoupon(ctx, coupon)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("Create coupon", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *Service) UpdateCoupon(ctx context.Context, actor domain.Actor, coupon *domain.Coupon) (*domain.Coupon, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	coupon.Code = domain.NormalizeCouponCode(coupon.Code)

	updated, err := s.coupons.UpdateCoupon(ctx, coupon)
	if err != nil {
		s.logger.Error("Update coupon", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeactivateCoupon(ctx context.Context, actor domain.Actor, code string) (*domain.Coupon, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	coupon, err := s.coupons.ReadCouponByCode(ctx, domain.NormalizeCouponCode(code))
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, err
	}

	coupon.Status = domain.CouponStatusInactive

	updated, err := s.coupons.UpdateCoupon(ctx, coupon)
	if err != nil {
		s.logger.Error("Deactivate coupon", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) ListCoupons(ctx context.Context, actor domain.Actor) ([]*domain.Coupon, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.coupons.ListCoupons(ctx)
}
