package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/zorel/fulfillment/internal/adapter/config"
	"github.com/zorel/fulfillment/internal/core/port"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	userHandler *UserHandler,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	couponHandler *CouponHandler,
	invoiceHandler *InvoiceHandler,
	stockHandler *StockHandler) (*Router, error) {

	router := gin.New()

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		// Gateway callbacks authenticate by signature, not token.
		api.POST("/payments/webhook", paymentHandler.Webhook)

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService))
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.POST("/:id/payment-intent", paymentHandler.CreatePaymentIntent)

			staff := orders.Group("")
			{
				staff.Use(staffOnly())
				staff.POST("/:id/confirm", orderHandler.ConfirmOrder)
				staff.POST("/:id/reject", orderHandler.RejectOrder)
				staff.POST("/:id/ship", orderHandler.ShipOrder)
				staff.POST("/:id/deliver", orderHandler.DeliverOrder)
				staff.POST("/:id/notes", orderHandler.AddOrderNote)
				staff.POST("/:id/refund", paymentHandler.RefundOrder)
				staff.POST("/:id/invoice", invoiceHandler.GenerateInvoice)
			}
		}

		coupons := api.Group("/coupons")
		{
			coupons.Use(authCheck(tokenService))
			coupons.POST("/validate", couponHandler.ValidateCoupon)

			staff := coupons.Group("")
			{
				staff.Use(staffOnly())
				staff.POST("", couponHandler.CreateCoupon)
				staff.GET("", couponHandler.ListCoupons)
				staff.PUT("/:code", couponHandler.UpdateCoupon)
				staff.DELETE("/:code", couponHandler.DeactivateCoupon)
			}
		}

		invoices := api.Group("/invoices")
		{
			invoices.Use(authCheck(tokenService))
			invoices.GET("", invoiceHandler.ListInvoices)
			invoices.GET("/:id", invoiceHandler.GetInvoice)
			invoices.GET("/:id/pdf", invoiceHandler.DownloadInvoicePDF)

			staff := invoices.Group("")
			{
				staff.Use(staffOnly())
				staff.POST("/:id/send", invoiceHandler.SendInvoice)
				staff.POST("/:id/paid", invoiceHandler.MarkInvoicePaid)
			}
		}

		stock := api.Group("/stock")
		{
			stock.Use(authCheck(tokenService), staffOnly())
			stock.GET("/:id", stockHandler.GetStock)
			stock.PUT("/:id", stockHandler.SetStock)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
