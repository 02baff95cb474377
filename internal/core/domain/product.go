package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// Product is the slice of the catalog the fulfillment core needs:
// identity, current price and active flag. Order items snapshot the
// price at creation, so later price edits never touch existing orders.
type Product struct {
	ID        uuid.UUID
	Name      string
	SKU       string
	Price     decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
