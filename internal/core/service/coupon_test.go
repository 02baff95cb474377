package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zorel/fulfillment/internal/core/domain"
)

func TestService_ValidateCoupon(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	coupon := domain.Coupon{
		Code:         "SAVE20",
		DiscountType: domain.DiscountTypeFixed,
		Value:        decimal.MustParse("20"),
		Status:       domain.CouponStatusActive,
		ValidFrom:    time.Now().Add(-time.Hour),
	}

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)
		m.coupons.EXPECT().ReadCouponByCode(gomock.Any(), "SAVE20").Return(&coupon, nil)

		result, discount, err := s.ValidateCoupon(context.Background(), " save20 ", decimal.MustParse("150"))
		assert.NoError(t, err)
		assert.Equal(t, &coupon, result)
		assert.Zero(t, decimal.MustParse("20").Cmp(discount.Amount))
	})

	t.Run("unknown code", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)
		m.coupons.EXPECT().ReadCouponByCode(gomock.Any(), "NOPE").Return(nil, domain.ErrDataNotFound)

		result, _, err := s.ValidateCoupon(context.Background(), "nope", decimal.MustParse("150"))
		assert.ErrorIs(t, err, domain.ErrCouponNotFound)
		assert.Nil(t, result)
	})
}

func TestService_CreateCoupon(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("defaults applied", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		m.coupons.EXPECT().CreateCoupon(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domain.Coupon) (*domain.Coupon, error) {
				return c, nil
			})

		created, err := s.CreateCoupon(context.Background(), staff, &domain.Coupon{
			Code:         "summer10",
			DiscountType: domain.DiscountTypePercentage,
			Value:        decimal.MustParse("10"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "SUMMER10", created.Code)
		assert.Equal(t, domain.CouponStatusActive, created.Status)
		assert.False(t, created.ValidFrom.IsZero())
		assert.Zero(t, created.UsedCount)
	})

	t.Run("customer is refused", func(t *testing.T) {
		s, _ := newServiceWithMocks(t, mockCtrl)

		created, err := s.CreateCoupon(context.Background(), customer, &domain.Coupon{Code: "X"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, created)
	})

	t.Run("negative value", func(t *testing.T) {
		s, _ := newServiceWithMocks(t, mockCtrl)

		created, err := s.CreateCoupon(context.Background(), staff, &domain.Coupon{
			Code:  "BAD",
			Value: decimal.MustParse("-1"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, created)
	})
}

func TestService_DeactivateCoupon(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	s, m := newServiceWithMocks(t, mockCtrl)

	coupon := domain.Coupon{
		Code:         "SAVE20",
		DiscountType: domain.DiscountTypeFixed,
		Value:        decimal.MustParse("20"),
		Status:       domain.CouponStatusActive,
	}

	m.coupons.EXPECT().ReadCouponByCode(gomock.Any(), "SAVE20").Return(&coupon, nil)
	m.coupons.EXPECT().UpdateCoupon(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Coupon) (*domain.Coupon, error) {
			return c, nil
		})

	updated, err := s.DeactivateCoupon(context.Background(), staff, "save20")
	assert.NoError(t, err)
	assert.Equal(t, domain.CouponStatusInactive, updated.Status)
}

func TestService_Stock(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	productID := testOrder(domain.OrderStatusPending, domain.PaymentStatusPending).Items[0].ProductID

	t.Run("set stock", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)
		m.stock.EXPECT().SetStock(gomock.Any(), productID, int32(25)).
			Return(&domain.Stock{ProductID: productID, AvailableQuantity: 25}, nil)

		stock, err := s.SetStock(context.Background(), staff, productID, 25)
		assert.NoError(t, err)
		assert.Equal(t, int32(25), stock.AvailableQuantity)
	})

	t.Run("negative quantity", func(t *testing.T) {
		s, _ := newServiceWithMocks(t, mockCtrl)

		stock, err := s.SetStock(context.Background(), staff, productID, -1)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, stock)
	})

	t.Run("customer is refused", func(t *testing.T) {
		s, _ := newServiceWithMocks(t, mockCtrl)

		stock, err := s.GetStock(context.Background(), customer, productID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, stock)
	})
}
