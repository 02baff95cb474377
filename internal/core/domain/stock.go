package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stock is the per-product availability counter. Reservation folds the
// reserved quantity into the same counter: reserve decrements now,
// release increments back, settlement needs no further ledger call.
type Stock struct {
	ProductID         uuid.UUID
	AvailableQuantity int32
	UpdatedAt         time.Time
}

// StockReservation is one line of a batch reserve request.
type StockReservation struct {
	ProductID uuid.UUID
	Quantity  int32
}
