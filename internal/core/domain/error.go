package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")
	ErrValidation = errors.New("invalid input")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidTransition   = errors.New("transition not allowed from current state")
	ErrCouponNotFound      = errors.New("coupon code not found")
	ErrCouponNotActive     = errors.New("coupon is not active")
	ErrCouponNotStarted    = errors.New("coupon is not yet valid")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponUsageExceeded = errors.New("coupon usage limit reached")
	ErrCouponMinimumAmount = errors.New("order amount below coupon minimum")
	ErrInvoiceNotPayable   = errors.New("invoice cannot be marked paid before order payment settles")

	// * External collaborators.
	ErrExternalService  = errors.New("external service error")
	ErrWebhookSignature = errors.New("webhook signature verification failed")
)

// InsufficientStockError names the products that could not be reserved
// so the caller can report exactly which lines failed.
type InsufficientStockError struct {
	ProductIDs []uuid.UUID
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for products %v", e.ProductIDs)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

type InvalidTransitionError struct {
	Transition    Transition
	Status        OrderStatus
	PaymentStatus PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %q not allowed from status=%s payment_status=%s",
		e.Transition, e.Status, e.PaymentStatus)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
