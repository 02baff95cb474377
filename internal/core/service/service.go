package service

import (
	"context"
	"errors"

	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"github.com/zorel/fulfillment/internal/core/utils"
	"go.uber.org/zap"
)

// Pricing carries the flat-rate policies applied at order creation.
type Pricing struct {
	TaxRatePercent decimal.Decimal
	ShippingCost   decimal.Decimal
	// Orders with a merchandise subtotal at or above this ship free.
	FreeShippingThreshold decimal.Decimal
}

type Service struct {
	orders   port.OrderRepository
	coupons  port.CouponRepository
	invoices port.InvoiceRepository
	stock    port.StockRepository
	products port.ProductRepository
	users    port.UserRepository

	tokenService port.TokenService
	gateway      port.PaymentGateway
	notifier     port.NotificationSender
	renderer     port.InvoiceRenderer
	validator    port.InvoiceValidator

	pricing Pricing
	logger  *zap.Logger
}

type Deps struct {
	Orders   port.OrderRepository
	Coupons  port.CouponRepository
	Invoices port.InvoiceRepository
	Stock    port.StockRepository
	Products port.ProductRepository
	Users    port.UserRepository

	TokenService port.TokenService
	Gateway      port.PaymentGateway
	Notifier     port.NotificationSender
	Renderer     port.InvoiceRenderer
	Validator    port.InvoiceValidator
}

func NewService(deps Deps, pricing Pricing, logger *zap.Logger) (*Service, error) {
	return &Service{
		orders:       deps.Orders,
		coupons:      deps.Coupons,
		invoices:     deps.Invoices,
		stock:        deps.Stock,
		products:     deps.Products,
		users:        deps.Users,
		tokenService: deps.TokenService,
		gateway:      deps.Gateway,
		notifier:     deps.Notifier,
		renderer:     deps.Renderer,
		validator:    deps.Validator,
		pricing:      pricing,
		logger:       logger,
	}, nil
}

func (s *Service) RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	exUser, err := s.users.GetUserByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	if exUser != nil {
		return nil, domain.ErrConflictingData
	}

	if user.Role == "" {
		user.Role = domain.UserRoleCustomer
	}

	newUser, err := s.users.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Create user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newUser, nil
}

func (s *Service) LoginUser(ctx context.Context, email string, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}

	return token, nil
}
