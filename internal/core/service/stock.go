package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
)

func (s *Service) GetStock(ctx context.Context, actor domain.Actor, productID uuid.UUID) (*domain.Stock, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.stock.ReadStock(ctx, productID)
}

// SetStock is the administrative restock/correction path. Reservation
// and release during the order lifecycle never go through here.
func (s *Service) SetStock(ctx context.Context, actor domain.Actor, productID uuid.UUID, quantity int32) (*domain.Stock, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: stock quantity must not be negative", domain.ErrValidation)
	}
	return s.stock.SetStock(ctx, productID, quantity)
}

func decimalFromQuantity(quantity int32) (decimal.Decimal, error) {
	d, err := decimal.New(int64(quantity), 0)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("math error: %w", err)
	}
	return d, nil
}
