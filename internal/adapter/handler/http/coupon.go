package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

type CouponHandler struct {
	Handler
	service port.Service
}

func NewCouponHandler(service port.Service, logger *zap.Logger) (*CouponHandler, error) {
	return &CouponHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type validateCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"required"`
}

type validateCouponResponse struct {
	Valid          bool            `json:"valid"`
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FreeShipping   bool            `json:"free_shipping"`
}

func (ch *CouponHandler) ValidateCoupon(ctx *gin.Context) {
	req := validateCouponRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	amount, err := decimal.NewFromFloat64(req.OrderAmount)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	coupon, discount, err := ch.service.ValidateCoupon(ctx, req.Code, amount)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, validateCouponResponse{
		Valid:          true,
		Code:           coupon.Code,
		DiscountType:   string(coupon.DiscountType),
		DiscountAmount: discount.Amount,
		FreeShipping:   discount.FreeShipping,
	})
}

type couponRequest struct {
	Code               string     `json:"code"`
	Description        string     `json:"description"`
	DiscountType       string     `json:"discount_type" binding:"required"`
	Value              float64    `json:"value"`
	MinimumOrderAmount *float64   `json:"minimum_order_amount"`
	MaximumDiscount    *float64   `json:"maximum_discount"`
	UsageLimit         *int32     `json:"usage_limit"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
}

type couponResponse struct {
	Code               string           `json:"code"`
	Description        string           `json:"description,omitempty"`
	DiscountType       string           `json:"discount_type"`
	Value              decimal.Decimal  `json:"value"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount,omitempty"`
	MaximumDiscount    *decimal.Decimal `json:"maximum_discount,omitempty"`
	UsageLimit         *int32           `json:"usage_limit,omitempty"`
	UsedCount          int32            `json:"used_count"`
	Status             string           `json:"status"`
	ValidFrom          time.Time        `json:"valid_from"`
	ValidUntil         *time.Time       `json:"valid_until,omitempty"`
}

func newCouponResponse(c *domain.Coupon) couponResponse {
	return couponResponse{
		Code:               c.Code,
		Description:        c.Description,
		DiscountType:       string(c.DiscountType),
		Value:              c.Value,
		MinimumOrderAmount: c.MinimumOrderAmount,
		MaximumDiscount:    c.MaximumDiscount,
		UsageLimit:         c.UsageLimit,
		UsedCount:          c.UsedCount,
		Status:             string(c.Status),
		ValidFrom:          c.ValidFrom,
		ValidUntil:         c.ValidUntil,
	}
}

func (ch *CouponHandler) couponFromRequest(req *couponRequest) (*domain.Coupon, error) {
	value, err := decimal.NewFromFloat64(req.Value)
	if err != nil {
		return nil, err
	}

	coupon := domain.Coupon{
		Code:         req.Code,
		Description:  req.Description,
		DiscountType: domain.DiscountType(req.DiscountType),
		Value:        value,
		UsageLimit:   req.UsageLimit,
		ValidUntil:   req.ValidUntil,
	}
	if req.ValidFrom != nil {
		coupon.ValidFrom = *req.ValidFrom
	}
	if req.MinimumOrderAmount != nil {
		minimum, err := decimal.NewFromFloat64(*req.MinimumOrderAmount)
		if err != nil {
			return nil, err
		}
		coupon.MinimumOrderAmount = &minimum
	}
	if req.MaximumDiscount != nil {
		maximum, err := decimal.NewFromFloat64(*req.MaximumDiscount)
		if err != nil {
			return nil, err
		}
		coupon.MaximumDiscount = &maximum
	}

	return &coupon, nil
}

func (ch *CouponHandler) CreateCoupon(ctx *gin.Context) {
	req := couponRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}
	if req.Code == "" {
		ch.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	coupon, err := ch.couponFromRequest(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	created, err := ch.service.CreateCoupon(ctx, actorFrom(ctx), coupon)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, newCouponResponse(created), http.StatusCreated)
}

func (ch *CouponHandler) UpdateCoupon(ctx *gin.Context) {
	req := couponRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}
	req.Code = ctx.Param("code")

	coupon, err := ch.couponFromRequest(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	updated, err := ch.service.UpdateCoupon(ctx, actorFrom(ctx), coupon)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCouponResponse(updated))
}

func (ch *CouponHandler) DeactivateCoupon(ctx *gin.Context) {
	coupon, err := ch.service.DeactivateCoupon(ctx, actorFrom(ctx), ctx.Param("code"))
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCouponResponse(coupon))
}

func (ch *CouponHandler) ListCoupons(ctx *gin.Context) {
	list, err := ch.service.ListCoupons(ctx, actorFrom(ctx))
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	result := make([]couponResponse, 0, len(list))
	for _, c := range list {
		result = append(result, newCouponResponse(c))
	}

	ch.handleSuccess(ctx, result)
}
