package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int32     `json:"quantity" binding:"required"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerEmail   string             `json:"customer_email" binding:"required,email"`
	CustomerPhone   string             `json:"customer_phone"`
	Items           []orderItemRequest `json:"items" binding:"required"`
	ShippingAddress domain.Address     `json:"shipping_address" binding:"required"`
	BillingAddress  *domain.Address    `json:"billing_address"`
	CouponCode      string             `json:"coupon_code"`
	PaymentMethod   string             `json:"payment_method" binding:"required"`
	CustomerNotes   string             `json:"customer_notes"`
}

type orderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

type orderResponse struct {
	ID            uuid.UUID `json:"id"`
	Number        string    `json:"number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	TotalAmount    decimal.Decimal `json:"total_amount"`

	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference,omitempty"`

	ShippingAddress domain.Address  `json:"shipping_address"`
	BillingAddress  *domain.Address `json:"billing_address,omitempty"`

	ShippingCompany string `json:"shipping_company,omitempty"`
	TrackingNumber  string `json:"tracking_number,omitempty"`

	CustomerNotes    string                      `json:"customer_notes,omitempty"`
	AdminNotes       string                      `json:"admin_notes,omitempty"`
	CommunicationLog []domain.CommunicationEntry `json:"communication_log,omitempty"`

	Items []orderItemResponse `json:"items"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	return orderResponse{
		ID:               o.ID,
		Number:           o.Number,
		Status:           string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		Subtotal:         o.Subtotal,
		DiscountAmount:   o.DiscountAmount,
		TaxAmount:        o.TaxAmount,
		ShippingCost:     o.ShippingCost,
		TotalAmount:      o.TotalAmount,
		PaymentMethod:    string(o.PaymentMethod),
		PaymentReference: o.PaymentReference,
		ShippingAddress:  o.ShippingAddress,
		BillingAddress:   o.BillingAddress,
		ShippingCompany:  o.ShippingCompany,
		TrackingNumber:   o.TrackingNumber,
		CustomerNotes:    o.CustomerNotes,
		AdminNotes:       o.AdminNotes,
		CommunicationLog: o.CommunicationLog,
		Items:            items,
		ConfirmedAt:      o.ConfirmedAt,
		ShippedAt:        o.ShippedAt,
		DeliveredAt:      o.DeliveredAt,
		CreatedAt:        o.CreatedAt,
	}
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := createOrderRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	items := make([]port.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, port.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	order, err := oh.service.CreateOrder(ctx, port.CreateOrderInput{
		Actor:           actorFrom(ctx),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		CouponCode:      req.CouponCode,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		CustomerNotes:   req.CustomerNotes,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResponse(order), http.StatusCreated)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetOrder(ctx, actorFrom(ctx), id)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

type listOrdersRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	Limit         uint64 `form:"limit"`
	Offset        uint64 `form:"offset"`
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	req := listOrdersRequest{}
	err := ctx.ShouldBindQuery(&req)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	filter := domain.OrderFilter{Limit: req.Limit, Offset: req.Offset}
	if req.Status != "" {
		status := domain.OrderStatus(req.Status)
		filter.Status = &status
	}
	if req.PaymentStatus != "" {
		status := domain.PaymentStatus(req.PaymentStatus)
		filter.PaymentStatus = &status
	}

	list, err := oh.service.ListOrders(ctx, actorFrom(ctx), filter)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResponse(o))
	}

	oh.handleSuccess(ctx, result)
}

func (oh *OrderHandler) ConfirmOrder(ctx *gin.Context) {
	oh.transition(ctx, func(id uuid.UUID) (*domain.Order, error) {
		return oh.service.ConfirmOrder(ctx, actorFrom(ctx), id)
	})
}

type rejectOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (oh *OrderHandler) RejectOrder(ctx *gin.Context) {
	req := rejectOrderRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	oh.transition(ctx, func(id uuid.UUID) (*domain.Order, error) {
		return oh.service.RejectOrder(ctx, actorFrom(ctx), id, req.Reason)
	})
}

func (oh *OrderHandler) CancelOrder(ctx *gin.Context) {
	oh.transition(ctx, func(id uuid.UUID) (*domain.Order, error) {
		return oh.service.CancelOrder(ctx, actorFrom(ctx), id)
	})
}

type shipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

func (oh *OrderHandler) ShipOrder(ctx *gin.Context) {
	req := shipOrderRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	oh.transition(ctx, func(id uuid.UUID) (*domain.Order, error) {
		return oh.service.ShipOrder(ctx, actorFrom(ctx), id, req.TrackingNumber)
	})
}

func (oh *OrderHandler) DeliverOrder(ctx *gin.Context) {
	oh.transition(ctx, func(id uuid.UUID) (*domain.Order, error) {
		return oh.service.DeliverOrder(ctx, actorFrom(ctx), id)
	})
}

type orderNoteRequest struct {
	Message string `json:"message" binding:"required"`
}

func (oh *OrderHandler) AddOrderNote(ctx *gin.Context) {
	req := orderNoteRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	oh.transition(ctx, func(id uuid.UUID) (*domain.Order, error) {
		return oh.service.AddOrderNote(ctx, actorFrom(ctx), id, req.Message)
	})
}

func (oh *OrderHandler) transition(ctx *gin.Context, do func(id uuid.UUID) (*domain.Order, error)) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := do(id)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}
