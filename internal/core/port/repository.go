package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/zorel/fulfillment/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

// StockReleaser returns reserved units to the ledger. Implementations
// are bound to the transaction of the surrounding order update, so a
// release is never visible without the transition that caused it.
type StockReleaser interface {
	Release(ctx context.Context, productID uuid.UUID, quantity int32) error
}

// UpdateOrderFn runs with the order row locked. The mutation it applies
// and any stock releases commit atomically, or not at all.
type UpdateOrderFn func(order *domain.Order, stock StockReleaser) error

type OrderRepository interface {
	// CreateOrder persists the order, its items, the stock reservation
	// for every item and the coupon redemption (when CouponID is set)
	// in one transaction.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ReadOrderByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateOrderTx(ctx context.Context, id uuid.UUID, fn UpdateOrderFn) (*domain.Order, error)
}

type CouponRepository interface {
	CreateCoupon(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error)
	ReadCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]*domain.Coupon, error)
}

type UpdateInvoiceFn func(invoice *domain.Invoice) error

type InvoiceRepository interface {
	// CreateInvoice allocates the invoice number from a database
	// sequence inside the insert, so concurrent generation cannot
	// collide.
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	ReadInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ReadInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error)
	UpdateInvoiceTx(ctx context.Context, id uuid.UUID, fn UpdateInvoiceFn) (*domain.Invoice, error)
}

type StockRepository interface {
	ReadStock(ctx context.Context, productID uuid.UUID) (*domain.Stock, error)
	SetStock(ctx context.Context, productID uuid.UUID, quantity int32) (*domain.Stock, error)
	Release(ctx context.Context, productID uuid.UUID, quantity int32) error
}

type ProductRepository interface {
	ReadProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ReadProducts(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
