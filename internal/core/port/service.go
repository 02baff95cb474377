package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
)

type CreateOrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int32
	Size      string
	Color     string
}

type CreateOrderInput struct {
	Actor           domain.Actor
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Items           []CreateOrderItemInput
	ShippingAddress domain.Address
	BillingAddress  *domain.Address
	CouponCode      string
	PaymentMethod   domain.PaymentMethod
	CustomerNotes   string
}

type Service interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, email, password string) (string, error)

	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor, filter domain.OrderFilter) ([]*domain.Order, error)
	ConfirmOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error)
	RejectOrder(ctx context.Context, actor domain.Actor, id uuid.UUID, reason string) (*domain.Order, error)
	CancelOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error)
	ShipOrder(ctx context.Context, actor domain.Actor, id uuid.UUID, trackingNumber string) (*domain.Order, error)
	DeliverOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error)
	AddOrderNote(ctx context.Context, actor domain.Actor, id uuid.UUID, message string) (*domain.Order, error)

	CreatePaymentIntent(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*PaymentIntent, error)
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error
	RefundOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID, amount *decimal.Decimal) (*domain.Order, error)

	ValidateCoupon(ctx context.Context, code string, orderAmount decimal.Decimal) (*domain.Coupon, domain.Discount, error)
	CreateCoupon(ctx context.Context, actor domain.Actor, coupon *domain.Coupon) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, actor domain.Actor, coupon *domain.Coupon) (*domain.Coupon, error)
	DeactivateCoupon(ctx context.Context, actor domain.Actor, code string) (*domain.Coupon, error)
	ListCoupons(ctx context.Context, actor domain.Actor) ([]*domain.Coupon, error)

	GenerateInvoice(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, actor domain.Actor, filter domain.InvoiceFilter) ([]*domain.Invoice, error)
	SendInvoice(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Invoice, error)
	MarkInvoicePaid(ctx context.Context, actor domain.Actor, id uuid.UUID,
		method domain.PaymentMethod, reference string) (*domain.Invoice, error)
	RenderInvoicePDF(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]byte, error)

	GetStock(ctx context.Context, actor domain.Actor, productID uuid.UUID) (*domain.Stock, error)
	SetStock(ctx context.Context, actor domain.Actor, productID uuid.UUID, quantity int32) (*domain.Stock, error)
}
