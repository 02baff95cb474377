package domain_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zorel/fulfillment/internal/core/domain"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	number, err := domain.NewOrderNumber(now)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20260830-[0-9A-F]{8}$`), number)

	other, err := domain.NewOrderNumber(now)
	assert.NoError(t, err)
	assert.NotEqual(t, number, other)
}

func TestItemsSubtotal(t *testing.T) {
	items := []domain.OrderItem{
		{Quantity: 2, UnitPrice: decimal.MustParse("49.99")},
		{Quantity: 1, UnitPrice: decimal.MustParse("15.50")},
	}

	subtotal, err := domain.ItemsSubtotal(items)
	assert.NoError(t, err)
	assert.Equal(t, decimal.MustParse("115.48"), subtotal)
}

func TestOrderCheckTotals(t *testing.T) {
	order := domain.Order{
		Subtotal:       decimal.MustParse("150"),
		DiscountAmount: decimal.MustParse("20"),
		TaxAmount:      decimal.MustParse("10.829"),
		ShippingCost:   decimal.MustParse("9.99"),
		TotalAmount:    decimal.MustParse("150.819"),
	}
	assert.NoError(t, order.CheckTotals())

	order.TotalAmount = decimal.MustParse("150.82")
	err := order.CheckTotals()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrderAppendNote(t *testing.T) {
	order := domain.Order{CommunicationLog: []domain.CommunicationEntry{}}
	now := time.Now()

	order.AppendNote("staff-1", "called customer", now)
	order.AppendNote("staff-2", "customer confirmed address", now.Add(time.Minute))

	assert.Len(t, order.CommunicationLog, 2)
	assert.Equal(t, "called customer", order.CommunicationLog[0].Message)
	assert.Equal(t, "staff-2", order.CommunicationLog[1].Author)
}
