package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"github.com/zorel/fulfillment/internal/core/port/mock"
)

var (
	customerID = uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-111111111111")
	staffID    = uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-222222222222")

	customer = domain.Actor{UserID: customerID, Role: domain.UserRoleCustomer}
	staff    = domain.Actor{UserID: staffID, Role: domain.UserRoleStaff}
)

func testAddress() domain.Address {
	return domain.Address{
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func TestService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	productID := uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-333333333333")
	product := domain.Product{
		ID:       productID,
		Name:     "Linen Shirt",
		SKU:      "LS-01",
		Price:    decimal.MustParse("75"),
		IsActive: true,
	}

	couponID := uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-444444444444")
	coupon := domain.Coupon{
		ID:           couponID,
		Code:         "SAVE20",
		DiscountType: domain.DiscountTypeFixed,
		Value:        decimal.MustParse("20"),
		Status:       domain.CouponStatusActive,
		ValidFrom:    time.Now().Add(-time.Hour),
	}

	passThroughCreate := func(m *serviceMocks) {
		m.orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o *domain.Order) (*domain.Order, error) {
				return o, nil
			})
		m.notifier.EXPECT().Notify(port.NotificationOrderCreated, gomock.Any())
	}

	type createOrderTest struct {
		name        string
		input       port.CreateOrderInput
		mock        func(m *serviceMocks)
		expError    error
		expSubtotal string
		expDiscount string
		expTax      string
		expShipping string
		expTotal    string
	}

	tests := []createOrderTest{
		{
			name: "Create good order",
			input: port.CreateOrderInput{
				Actor:           customer,
				CustomerName:    "Test Customer",
				CustomerEmail:   "customer@example.com",
				Items:           []port.CreateOrderItemInput{{ProductID: productID, Quantity: 2}},
				ShippingAddress: testAddress(),
				PaymentMethod:   domain.PaymentMethodOnline,
			},
			mock: func(m *serviceMocks) {
				m.products.EXPECT().ReadProducts(gomock.Any(), []uuid.UUID{productID}).
					Return([]*domain.Product{&product}, nil)
				passThroughCreate(m)
			},
			expSubtotal: "150",
			expDiscount: "0",
			expTax:      "12.495",
			expShipping: "9.99",
			expTotal:    "172.485",
		},
		{
			name: "Create order with coupon",
			input: port.CreateOrderInput{
				Actor:           customer,
				CustomerName:    "Test Customer",
				CustomerEmail:   "customer@example.com",
				Items:           []port.CreateOrderItemInput{{ProductID: productID, Quantity: 2}},
				ShippingAddress: testAddress(),
				CouponCode:      "save20",
				PaymentMethod:   domain.PaymentMethodOnline,
			},
			mock: func(m *serviceMocks) {
				m.products.EXPECT().ReadProducts(gomock.Any(), []uuid.UUID{productID}).
					Return([]*domain.Product{&product}, nil)
				m.coupons.EXPECT().ReadCouponByCode(gomock.Any(), "SAVE20").Return(&coupon, nil)
				passThroughCreate(m)
			},
			expSubtotal: "150",
			expDiscount: "20",
			expTax:      "10.829",
			expShipping: "9.99",
			expTotal:    "150.819",
		},
		{
			name: "Free shipping over threshold",
			input: port.CreateOrderInput{
				Actor:           customer,
				CustomerName:    "Test Customer",
				CustomerEmail:   "customer@example.com",
				Items:           []port.CreateOrderItemInput{{ProductID: productID, Quantity: 4}},
				ShippingAddress: testAddress(),
				PaymentMethod:   domain.PaymentMethodOnline,
			},
			mock: func(m *serviceMocks) {
				m.products.EXPECT().ReadProducts(gomock.Any(), []uuid.UUID{productID}).
					Return([]*domain.Product{&product}, nil)
				passThroughCreate(m)
			},
			expSubtotal: "300",
			expDiscount: "0",
			expTax:      "24.99",
			expShipping: "0",
			expTotal:    "324.99",
		},
		{
			name: "Empty items",
			input: port.CreateOrderInput{
				Actor:           customer,
				ShippingAddress: testAddress(),
				PaymentMethod:   domain.PaymentMethodOnline,
			},
			mock:     func(m *serviceMocks) {},
			expError: domain.ErrValidation,
		},
		{
			name: "Non-positive quantity",
			input: port.CreateOrderInput{
				Actor:           customer,
				Items:           []port.CreateOrderItemInput{{ProductID: productID, Quantity: 0}},
				ShippingAddress: testAddress(),
				PaymentMethod:   domain.PaymentMethodOnline,
			},
			mock:     func(m *serviceMocks) {},
			expError: domain.ErrValidation,
		},
		{
			name: "Unknown product",
			input: port.CreateOrderInput{
				Actor:           customer,
				Items:           []port.CreateOrderItemInput{{ProductID: productID, Quantity: 1}},
				ShippingAddress: testAddress(),
				PaymentMethod:   domain.PaymentMethodOnline,
			},
			mock: func(m *serviceMocks) {
				m.products.EXPECT().ReadProducts(gomock.Any(), []uuid.UUID{productID}).
					Return([]*domain.Product{}, nil)
			},
			expError: domain.ErrDataNotFound,
		},
		{
			name: "Insufficient stock",
			input: port.CreateOrderInput{
				Actor:           customer,
				CustomerName:    "Test Customer",
				CustomerEmail:   "customer@example.com",
				Items:           []port.CreateOrderItemInput{{ProductID: productID, Quantity: 2}},
				ShippingAddress: testAddress(),
				PaymentMethod:   domain.PaymentMethodOnline,
			},
			mock: func(m *serviceMocks) {
				m.products.EXPECT().ReadProducts(gomock.Any(), []uuid.UUID{productID}).
					Return([]*domain.Product{&product}, nil)
				m.orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, &domain.InsufficientStockError{ProductIDs: []uuid.UUID{productID}})
			},
			expError: domain.ErrInsufficientStock,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, m := newServiceWithMocks(t, mockCtrl)
			test.mock(m)

			order, err := s.CreateOrder(context.Background(), test.input)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, order)
				return
			}

			assert.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), order.Number)
			assert.Equal(t, domain.OrderStatusPending, order.Status)
			assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
			assert.Equal(t, customerID, order.UserID)

			assert.Zero(t, decimal.MustParse(test.expSubtotal).Cmp(order.Subtotal))
			assert.Zero(t, decimal.MustParse(test.expDiscount).Cmp(order.DiscountAmount))
			assert.Zero(t, decimal.MustParse(test.expTax).Cmp(order.TaxAmount))
			assert.Zero(t, decimal.MustParse(test.expShipping).Cmp(order.ShippingCost))
			assert.Zero(t, decimal.MustParse(test.expTotal).Cmp(order.TotalAmount))
			assert.NoError(t, order.CheckTotals())
		})
	}
}

func testOrder(status domain.OrderStatus, payment domain.PaymentStatus) *domain.Order {
	productID := uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-333333333333")
	return &domain.Order{
		ID:            uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-555555555555"),
		Number:        "ORD-20260830-0000AAAA",
		UserID:        customerID,
		Status:        status,
		PaymentStatus: payment,
		TotalAmount:   decimal.MustParse("172.485"),
		Items: []domain.OrderItem{
			{ProductID: productID, Quantity: 2, UnitPrice: decimal.MustParse("75")},
		},
	}
}

// updateTxPassThrough wires UpdateOrderTx to run the closure against the
// given order with a permissive stock releaser, mirroring what the real
// repository does inside its transaction.
func updateTxPassThrough(ctrl *gomock.Controller, m *serviceMocks, order *domain.Order) {
	releaser := mock.NewMockStockReleaser(ctrl)
	releaser.EXPECT().Release(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	m.orders.EXPECT().UpdateOrderTx(gomock.Any(), order.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fn port.UpdateOrderFn) (*domain.Order, error) {
			if err := fn(order, releaser); err != nil {
				return nil, err
			}
			return order, nil
		})
}

func TestService_OrderTransitions(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type transitionTest struct {
		name      string
		actor     domain.Actor
		order     *domain.Order
		run       func(s port.Service, id uuid.UUID) (*domain.Order, error)
		mock      func(m *serviceMocks, order *domain.Order)
		expError  error
		expStatus domain.OrderStatus
	}

	tests := []transitionTest{
		{
			name:  "Confirm pending",
			actor: staff,
			order: testOrder(domain.OrderStatusPending, domain.PaymentStatusPending),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.ConfirmOrder(context.Background(), staff, id)
			},
			mock: func(m *serviceMocks, order *domain.Order) {
				updateTxPassThrough(mockCtrl, m, order)
				m.notifier.EXPECT().Notify(port.NotificationOrderConfirmed, gomock.Any())
			},
			expStatus: domain.OrderStatusConfirmed,
		},
		{
			name:  "Confirm forbidden for customer",
			actor: customer,
			order: testOrder(domain.OrderStatusPending, domain.PaymentStatusPending),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.ConfirmOrder(context.Background(), customer, id)
			},
			mock:     func(m *serviceMocks, order *domain.Order) {},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Reject confirmed fails",
			actor: staff,
			order: testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.RejectOrder(context.Background(), staff, id, "no stock")
			},
			mock: func(m *serviceMocks, order *domain.Order) {
				updateTxPassThrough(mockCtrl, m, order)
			},
			expError: domain.ErrInvalidTransition,
		},
		{
			name:  "Reject without reason",
			actor: staff,
			order: testOrder(domain.OrderStatusPending, domain.PaymentStatusPending),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.RejectOrder(context.Background(), staff, id, "")
			},
			mock:     func(m *serviceMocks, order *domain.Order) {},
			expError: domain.ErrValidation,
		},
		{
			name:  "Cancel own order",
			actor: customer,
			order: testOrder(domain.OrderStatusPending, domain.PaymentStatusPending),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.CancelOrder(context.Background(), customer, id)
			},
			mock: func(m *serviceMocks, order *domain.Order) {
				updateTxPassThrough(mockCtrl, m, order)
				m.notifier.EXPECT().Notify(port.NotificationOrderCancelled, gomock.Any())
			},
			expStatus: domain.OrderStatusCancelled,
		},
		{
			name:  "Cancel someone else's order",
			actor: domain.Actor{UserID: uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-999999999999"), Role: domain.UserRoleCustomer},
			order: testOrder(domain.OrderStatusPending, domain.PaymentStatusPending),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				other := domain.Actor{UserID: uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-999999999999"), Role: domain.UserRoleCustomer}
				return s.CancelOrder(context.Background(), other, id)
			},
			mock: func(m *serviceMocks, order *domain.Order) {
				updateTxPassThrough(mockCtrl, m, order)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Ship paid order",
			actor: staff,
			order: testOrder(domain.OrderStatusProcessing, domain.PaymentStatusCompleted),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.ShipOrder(context.Background(), staff, id, "TRK123")
			},
			mock: func(m *serviceMocks, order *domain.Order) {
				updateTxPassThrough(mockCtrl, m, order)
				m.notifier.EXPECT().Notify(port.NotificationOrderShipped, gomock.Any())
			},
			expStatus: domain.OrderStatusShipped,
		},
		{
			name:  "Ship unpaid order fails",
			actor: staff,
			order: testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.ShipOrder(context.Background(), staff, id, "TRK123")
			},
			mock: func(m *serviceMocks, order *domain.Order) {
				updateTxPassThrough(mockCtrl, m, order)
			},
			expError: domain.ErrInvalidTransition,
		},
		{
			name:  "Deliver shipped order",
			actor: staff,
			order: testOrder(domain.OrderStatusShipped, domain.PaymentStatusCompleted),
			run: func(s port.Service, id uuid.UUID) (*domain.Order, error) {
				return s.DeliverOrder(context.Background(), staff, id)
			},
			mock: func(m *serviceMocks, order *domain.Order) {
				updateTxPassThrough(mockCtrl, m, order)
				m.notifier.EXPECT().Notify(port.NotificationOrderDelivered, gomock.Any())
			},
			expStatus: domain.OrderStatusDelivered,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, m := newServiceWithMocks(t, mockCtrl)
			test.mock(m, test.order)

			result, err := test.run(s, test.order.ID)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expStatus, result.Status)
		})
	}
}

func TestService_GetOrderScoping(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	order := testOrder(domain.OrderStatusPending, domain.PaymentStatusPending)

	t.Run("owner reads own order", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)
		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		result, err := s.GetOrder(context.Background(), customer, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, order, result)
	})

	t.Run("staff reads any order", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)
		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		result, err := s.GetOrder(context.Background(), staff, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, order, result)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)
		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		other := domain.Actor{UserID: uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-999999999999"), Role: domain.UserRoleCustomer}
		result, err := s.GetOrder(context.Background(), other, order.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, result)
	})

	t.Run("customer list is scoped to owner", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)
		m.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
				assert.NotNil(t, filter.UserID)
				assert.Equal(t, customerID, *filter.UserID)
				return []*domain.Order{order}, nil
			})

		list, err := s.ListOrders(context.Background(), customer, domain.OrderFilter{})
		assert.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
