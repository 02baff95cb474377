package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodOnline       PaymentMethod = "online"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
)

// Address is copied into the order at creation time and never re-read
// from the customer profile.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CommunicationEntry is one admin annotation on an order. The log is
// append-only.
type CommunicationEntry struct {
	At      time.Time `json:"at"`
	Author  string    `json:"author"`
	Message string    `json:"message"`
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice decimal.Decimal
	Size      string
	Color     string
}

type Order struct {
	ID            uuid.UUID
	Number        string
	UserID        uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Status        OrderStatus
	PaymentStatus PaymentStatus

	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	ShippingCost   decimal.Decimal
	TotalAmount    decimal.Decimal

	CouponID *uuid.UUID

	PaymentMethod    PaymentMethod
	PaymentReference string
	PaymentIntentID  string
	PaymentDate      *time.Time

	ShippingAddress Address
	BillingAddress  *Address

	ShippingCompany string
	TrackingNumber  string

	CustomerNotes    string
	AdminNotes       string
	CommunicationLog []CommunicationEntry

	ConfirmedAt       *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	EstimatedDelivery *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem
}

// NewOrderNumber builds a date-prefixed human-readable number,
// e.g. ORD-20260830-3F41A2BC.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("order number suffix: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s",
		now.Format("20060102"),
		strings.ToUpper(hex.EncodeToString(suffix))), nil
}

// ItemsSubtotal sums unit_price * quantity over the order lines.
func ItemsSubtotal(items []OrderItem) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range items {
		qty, err := decimal.New(int64(item.Quantity), 0)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("math error: %w", err)
		}
		line, err := item.UnitPrice.Mul(qty)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("math error: %w", err)
		}
		sum, err = sum.Add(line)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("math error: %w", err)
		}
	}
	return sum, nil
}

// CheckTotals verifies total = subtotal - discount + tax + shipping.
func (o *Order) CheckTotals() error {
	taxable, err := o.Subtotal.Sub(o.DiscountAmount)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}
	withTax, err := taxable.Add(o.TaxAmount)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}
	expected, err := withTax.Add(o.ShippingCost)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}
	if o.TotalAmount.Cmp(expected) != 0 {
		return fmt.Errorf("%w: total %s does not match components %s", ErrValidation, o.TotalAmount, expected)
	}
	return nil
}

// AppendNote adds an entry to the append-only communication log.
func (o *Order) AppendNote(author, message string, now time.Time) {
	o.CommunicationLog = append(o.CommunicationLog, CommunicationEntry{
		At:      now,
		Author:  author,
		Message: message,
	})
}

type OrderFilter struct {
	UserID        *uuid.UUID
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Limit         uint64
	Offset        uint64
}
