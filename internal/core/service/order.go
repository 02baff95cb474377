package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

// CreateOrder prices the requested items from current catalog data,
// applies the coupon if one is supplied and persists the order together
// with its stock reservation and coupon redemption in one transaction.
// On any failure nothing is persisted.
func (s *Service) CreateOrder(ctx context.Context, input port.CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", domain.ErrValidation)
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s",
				domain.ErrValidation, item.ProductID)
		}
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.ReadProducts(ctx, ids)
	if err != nil {
		s.logger.Error("Read products", zap.Error(err))
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	now := time.Now()

	order := &domain.Order{
		ID:               uuid.New(),
		UserID:           input.Actor.UserID,
		CustomerName:     input.CustomerName,
		CustomerEmail:    input.CustomerEmail,
		CustomerPhone:    input.CustomerPhone,
		Status:           domain.OrderStatusPending,
		PaymentStatus:    domain.PaymentStatusPending,
		PaymentMethod:    input.PaymentMethod,
		ShippingAddress:  input.ShippingAddress,
		BillingAddress:   input.BillingAddress,
		CustomerNotes:    input.CustomerNotes,
		CommunicationLog: []domain.CommunicationEntry{},
		CreatedAt:        now,
	}

	for _, item := range input.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			return nil, fmt.Errorf("%w: product %s", domain.ErrDataNotFound, item.ProductID)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	subtotal, err := domain.ItemsSubtotal(order.Items)
	if err != nil {
		return nil, err
	}
	order.Subtotal = subtotal

	discount := domain.Discount{Amount: decimal.Zero}
	if input.CouponCode != "" {
		coupon, d, err := s.ValidateCoupon(ctx, input.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = d
		order.CouponID = &coupon.ID
	}
	order.DiscountAmount = discount.Amount

	order.ShippingCost = s.pricing.ShippingCost
	if discount.FreeShipping || subtotal.Cmp(s.pricing.FreeShippingThreshold) >= 0 {
		order.ShippingCost = decimal.Zero
	}

	taxable, err := subtotal.Sub(order.DiscountAmount)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}
	taxRaw, err := taxable.Mul(s.pricing.TaxRatePercent)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}
	order.TaxAmount, err = taxRaw.Quo(decimal.Hundred)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}
	withTax, err := taxable.Add(order.TaxAmount)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}
	order.TotalAmount, err = withTax.Add(order.ShippingCost)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}

	order.Number, err = domain.NewOrderNumber(now)
	if err != nil {
		s.logger.Error("Generate order number", zap.Error(err))
		return nil, domain.ErrInternal
	}

	newOrder, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrCouponUsageExceeded) {
			return nil, err
		}
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(port.NotificationOrderCreated, orderPayload(newOrder))

	return newOrder, nil
}

func (s *Service) GetOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.ReadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && order.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, actor domain.Actor, filter domain.OrderFilter) ([]*domain.Order, error) {
	if !actor.IsStaff() {
		// Customers only ever see their own orders.
		userID := actor.UserID
		filter.UserID = &userID
	}
	list, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		s.logger.Error("List orders", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) ConfirmOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.UpdateOrderTx(ctx, id,
		func(o *domain.Order, stock port.StockReleaser) error {
			return o.Confirm(time.Now())
		})
	if err != nil {
		return nil, err
	}

	// Confirmation notification carries the payment link for online orders.
	s.notifier.Notify(port.NotificationOrderConfirmed, orderPayload(order))

	return order, nil
}

func (s *Service) RejectOrder(ctx context.Context, actor domain.Actor, id uuid.UUID, reason string) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}

	order, err := s.orders.UpdateOrderTx(ctx, id,
		func(o *domain.Order, stock port.StockReleaser) error {
			if err := o.Reject(reason, time.Now()); err != nil {
				return err
			}
			return releaseItems(ctx, stock, o.Items)
		})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(port.NotificationOrderRejected, orderPayloadWith(order, map[string]any{"reason": reason}))

	return order, nil
}

func (s *Service) CancelOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.UpdateOrderTx(ctx, id,
		func(o *domain.Order, stock port.StockReleaser) error {
			if !actor.IsStaff() && o.UserID != actor.UserID {
				return domain.ErrForbidden
			}
			if err := o.Cancel(time.Now()); err != nil {
				return err
			}
			return releaseItems(ctx, stock, o.Items)
		})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(port.NotificationOrderCancelled, orderPayload(order))

	return order, nil
}

func (s *Service) ShipOrder(ctx context.Context, actor domain.Actor, id uuid.UUID, trackingNumber string) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if trackingNumber == "" {
		return nil, fmt.Errorf("%w: tracking number is required", domain.ErrValidation)
	}

	order, err := s.orders.UpdateOrderTx(ctx, id,
		func(o *domain.Order, stock port.StockReleaser) error {
			return o.Ship(trackingNumber, time.Now())
		})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(port.NotificationOrderShipped,
		orderPayloadWith(order, map[string]any{"tracking_number": trackingNumber}))

	return order, nil
}

func (s *Service) DeliverOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.UpdateOrderTx(ctx, id,
		func(o *domain.Order, stock port.StockReleaser) error {
			return o.Deliver(time.Now())
		})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(port.NotificationOrderDelivered, orderPayload(order))

	return order, nil
}

func (s *Service) AddOrderNote(ctx context.Context, actor domain.Actor, id uuid.UUID, message string) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if message == "" {
		return nil, fmt.Errorf("%w: note message is required", domain.ErrValidation)
	}

	return s.orders.UpdateOrderTx(ctx, id,
		func(o *domain.Order, stock port.StockReleaser) error {
			o.AppendNote(actor.UserID.String(), message, time.Now())
			return nil
		})
}

func releaseItems(ctx context.Context, stock port.StockReleaser, items []domain.OrderItem) error {
	for _, item := range items {
		if err := stock.Release(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func orderPayload(o *domain.Order) map[string]any {
	return map[string]any{
		"order_id":       o.ID.String(),
		"order_number":   o.Number,
		"user_id":        o.UserID.String(),
		"customer_email": o.CustomerEmail,
		"status":         string(o.Status),
		"payment_status": string(o.PaymentStatus),
		"total_amount":   o.TotalAmount.String(),
	}
}

func orderPayloadWith(o *domain.Order, extra map[string]any) map[string]any {
	payload := orderPayload(o)
	for k, v := range extra {
		payload[k] = v
	}
	return payload
}
