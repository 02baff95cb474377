package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type Transition string

const (
	TransitionConfirm          Transition = "confirm"
	TransitionReject           Transition = "reject"
	TransitionCancel           Transition = "cancel"
	TransitionShip             Transition = "ship"
	TransitionDeliver          Transition = "deliver"
	TransitionReturn           Transition = "return"
	TransitionPaymentCompleted Transition = "payment_completed"
	TransitionPaymentFailed    Transition = "payment_failed"
	TransitionRefund           Transition = "refund"
)

// The two tables below are the single source of truth for what a
// transition may start from. A transition missing from a table has no
// constraint on that axis.
var transitionFromStatus = map[Transition][]OrderStatus{
	TransitionConfirm: {OrderStatusPending},
	TransitionReject:  {OrderStatusPending},
	TransitionCancel:  {OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing},
	TransitionShip:    {OrderStatusConfirmed, OrderStatusProcessing},
	TransitionDeliver: {OrderStatusShipped},
	TransitionReturn:  {OrderStatusDelivered},
}

var transitionFromPayment = map[Transition][]PaymentStatus{
	TransitionShip:             {PaymentStatusCompleted},
	TransitionRefund:           {PaymentStatusCompleted},
	TransitionPaymentCompleted: {PaymentStatusPending},
	TransitionPaymentFailed:    {PaymentStatusPending},
}

func (o *Order) guard(tr Transition) error {
	if allowed, ok := transitionFromStatus[tr]; ok {
		found := false
		for _, s := range allowed {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return &InvalidTransitionError{Transition: tr, Status: o.Status, PaymentStatus: o.PaymentStatus}
		}
	}
	if allowed, ok := transitionFromPayment[tr]; ok {
		found := false
		for _, s := range allowed {
			if o.PaymentStatus == s {
				found = true
				break
			}
		}
		if !found {
			return &InvalidTransitionError{Transition: tr, Status: o.Status, PaymentStatus: o.PaymentStatus}
		}
	}
	return nil
}

// CanTransition reports whether tr is legal from the order's current
// pair of states, without applying it.
func (o *Order) CanTransition(tr Transition) bool {
	return o.guard(tr) == nil
}

func (o *Order) Confirm(now time.Time) error {
	if err := o.guard(TransitionConfirm); err != nil {
		return err
	}
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	return nil
}

// Reject cancels a pending order with a required reason. Stock release
// is the caller's side effect, in the same transaction.
func (o *Order) Reject(reason string, now time.Time) error {
	if err := o.guard(TransitionReject); err != nil {
		return err
	}
	o.Status = OrderStatusCancelled
	o.AdminNotes = "Rejected: " + reason
	return nil
}

func (o *Order) Cancel(now time.Time) error {
	if err := o.guard(TransitionCancel); err != nil {
		return err
	}
	o.Status = OrderStatusCancelled
	return nil
}

func (o *Order) Ship(trackingNumber string, now time.Time) error {
	if err := o.guard(TransitionShip); err != nil {
		return err
	}
	o.Status = OrderStatusShipped
	o.TrackingNumber = trackingNumber
	o.ShippedAt = &now
	return nil
}

func (o *Order) Deliver(now time.Time) error {
	if err := o.guard(TransitionDeliver); err != nil {
		return err
	}
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	return nil
}

// MarkPaymentCompleted settles the order. Replayed webhook deliveries
// are reported as changed=false and are not an error.
func (o *Order) MarkPaymentCompleted(reference string, now time.Time) (changed bool, err error) {
	if o.PaymentStatus == PaymentStatusCompleted {
		return false, nil
	}
	if err := o.guard(TransitionPaymentCompleted); err != nil {
		return false, err
	}
	o.PaymentStatus = PaymentStatusCompleted
	o.PaymentReference = reference
	o.PaymentDate = &now
	if o.Status == OrderStatusConfirmed {
		o.Status = OrderStatusProcessing
	}
	return true, nil
}

// MarkPaymentFailed is idempotent against redelivery the same way.
func (o *Order) MarkPaymentFailed() (changed bool, err error) {
	if o.PaymentStatus == PaymentStatusFailed || o.PaymentStatus == PaymentStatusCompleted {
		return false, nil
	}
	if err := o.guard(TransitionPaymentFailed); err != nil {
		return false, err
	}
	o.PaymentStatus = PaymentStatusFailed
	return true, nil
}

// MarkRefunded records a successful gateway refund.
func (o *Order) MarkRefunded() error {
	if err := o.guard(TransitionRefund); err != nil {
		return err
	}
	o.PaymentStatus = PaymentStatusRefunded
	return nil
}

// ValidateRefundAmount checks a partial refund request against the
// order total.
func (o *Order) ValidateRefundAmount(amount decimal.Decimal) error {
	if err := o.guard(TransitionRefund); err != nil {
		return err
	}
	if amount.IsNeg() || amount.Cmp(o.TotalAmount) > 0 {
		return ErrValidation
	}
	return nil
}
