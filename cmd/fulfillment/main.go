package main

import (
	"context"
	"fmt"

	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/adapter/auth"
	"github.com/zorel/fulfillment/internal/adapter/client/invoicedoc"
	"github.com/zorel/fulfillment/internal/adapter/client/notify"
	"github.com/zorel/fulfillment/internal/adapter/client/payment"
	"github.com/zorel/fulfillment/internal/adapter/config"
	"github.com/zorel/fulfillment/internal/adapter/handler/http"
	"github.com/zorel/fulfillment/internal/adapter/logger"
	"github.com/zorel/fulfillment/internal/adapter/storage"
	"github.com/zorel/fulfillment/internal/adapter/storage/repository"
	"github.com/zorel/fulfillment/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	gateway, err := payment.NewGatewayClient(conf.Payment, log.Named("Payment"))
	if err != nil {
		log.Error("payment gateway client creating error", zap.Error(err))
		return
	}
	notifier, err := notify.NewDispatcher(conf.Notify, log.Named("Notify"))
	if err != nil {
		log.Error("notification dispatcher creating error", zap.Error(err))
		return
	}
	notifier.Run(ctx, conf.Notify.Workers)

	renderer, err := invoicedoc.NewRendererClient(conf.Invoice, log.Named("Renderer"))
	if err != nil {
		log.Error("invoice renderer client creating error", zap.Error(err))
		return
	}
	validator, err := invoicedoc.NewValidatorClient(conf.Invoice, log.Named("Validator"))
	if err != nil {
		log.Error("invoice validator client creating error", zap.Error(err))
		return
	}

	pricing, err := parsePricing(conf.Pricing)
	if err != nil {
		log.Error("pricing config error", zap.Error(err))
		return
	}

	svc, err := service.NewService(service.Deps{
		Orders:       repo,
		Coupons:      repo,
		Invoices:     repo,
		Stock:        repo,
		Products:     repo,
		Users:        repo,
		TokenService: tokenService,
		Gateway:      gateway,
		Notifier:     notifier,
		Renderer:     renderer,
		Validator:    validator,
	}, pricing, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(svc, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}
	couponHandler, err := http.NewCouponHandler(svc, log.Named("Coupon handler"))
	if err != nil {
		log.Error("coupon handler creating error", zap.Error(err))
		return
	}
	invoiceHandler, err := http.NewInvoiceHandler(svc, log.Named("Invoice handler"))
	if err != nil {
		log.Error("invoice handler creating error", zap.Error(err))
		return
	}
	stockHandler, err := http.NewStockHandler(svc, log.Named("Stock handler"))
	if err != nil {
		log.Error("stock handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService,
		userHandler, orderHandler, paymentHandler, couponHandler, invoiceHandler, stockHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}

func parsePricing(conf *config.Pricing) (service.Pricing, error) {
	taxRate, err := decimal.Parse(conf.TaxRatePercent)
	if err != nil {
		return service.Pricing{}, fmt.Errorf("tax rate: %w", err)
	}
	shipping, err := decimal.Parse(conf.ShippingCost)
	if err != nil {
		return service.Pricing{}, fmt.Errorf("shipping cost: %w", err)
	}
	threshold, err := decimal.Parse(conf.FreeShippingThreshold)
	if err != nil {
		return service.Pricing{}, fmt.Errorf("free shipping threshold: %w", err)
	}

	return service.Pricing{
		TaxRatePercent:        taxRate,
		ShippingCost:          shipping,
		FreeShippingThreshold: threshold,
	}, nil
}
