package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceItem is a frozen copy of an order line, including the product
// name at issue time. Later catalog edits never reach it.
type InvoiceItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	NetAmount   decimal.Decimal `json:"net_amount"`
}

type Invoice struct {
	ID      uuid.UUID
	Number  string
	OrderID uuid.UUID
	UserID  uuid.UUID

	CustomerName  string
	CustomerEmail string

	IssueDate time.Time
	DueDate   *time.Time

	Items       []InvoiceItem
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal

	Status           InvoiceStatus
	PaymentMethod    PaymentMethod
	PaymentDate      *time.Time
	PaymentReference string

	BillingAddress  Address
	ShippingAddress *Address

	CreatedAt time.Time
	UpdatedAt time.Time
}

var invoiceStatusFlow = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusPaid, InvoiceStatusCancelled},
}

// Transition moves the invoice along draft -> sent -> paid (or to
// cancelled). Items and totals stay frozen regardless.
func (i *Invoice) Transition(to InvoiceStatus) error {
	for _, next := range invoiceStatusFlow[i.Status] {
		if next == to {
			i.Status = to
			return nil
		}
	}
	return ErrInvalidTransition
}

// MarkPaid records payment confirmation fields, the only mutation an
// issued invoice ever receives besides status.
func (i *Invoice) MarkPaid(method PaymentMethod, reference string, now time.Time) error {
	if err := i.Transition(InvoiceStatusPaid); err != nil {
		return err
	}
	i.PaymentMethod = method
	i.PaymentReference = reference
	i.PaymentDate = &now
	return nil
}

type InvoiceFilter struct {
	OrderID *uuid.UUID
	UserID  *uuid.UUID
	Status  *InvoiceStatus
	Limit   uint64
	Offset  uint64
}
