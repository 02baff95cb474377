package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Payment  *Payment
	Notify   *Notify
	Invoice  *Invoice
	Pricing  *Pricing
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Payment struct {
	HostString    string `env:"PAYMENT_GATEWAY_ADDRESS"`
	APIKey        string `env:"PAYMENT_GATEWAY_API_KEY"`
	WebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET"`
}

type Notify struct {
	HostString string `env:"NOTIFY_ADDRESS"`
	Workers    int    `env:"NOTIFY_WORKERS" envDefault:"2"`
}

type Invoice struct {
	RendererHost  string `env:"INVOICE_RENDERER_ADDRESS"`
	ValidatorHost string `env:"INVOICE_VALIDATOR_ADDRESS"`
}

// Pricing holds the flat-rate policies applied at order creation.
// Amounts are decimal strings to keep parsing exact.
type Pricing struct {
	TaxRatePercent        string `env:"TAX_RATE_PERCENT"`
	ShippingCost          string `env:"SHIPPING_COST"`
	FreeShippingThreshold string `env:"FREE_SHIPPING_THRESHOLD"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var payment Payment
	var notify Notify
	var invoice Invoice
	var pricing Pricing
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&payment.HostString, "p", "", "Payment gateway address")
	flag.StringVar(&notify.HostString, "n", "", "Notification service address")
	flag.StringVar(&invoice.RendererHost, "r", "", "Invoice renderer address")
	flag.StringVar(&pricing.TaxRatePercent, "tax", `8.33`, "Flat tax rate, percent")
	flag.StringVar(&pricing.ShippingCost, "shipping", `9.99`, "Flat shipping cost")
	flag.StringVar(&pricing.FreeShippingThreshold, "freeship", `200`, "Free shipping from this subtotal")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&payment)
	if err != nil {
		return nil, fmt.Errorf("error parsing payment config: %w", err)
	}
	err = env.Parse(&notify)
	if err != nil {
		return nil, fmt.Errorf("error parsing notify config: %w", err)
	}
	err = env.Parse(&invoice)
	if err != nil {
		return nil, fmt.Errorf("error parsing invoice config: %w", err)
	}
	err = env.Parse(&pricing)
	if err != nil {
		return nil, fmt.Errorf("error parsing pricing config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Payment:  &payment,
		Notify:   &notify,
		Invoice:  &invoice,
		Pricing:  &pricing,
		App:      &app,
	}

	return &config, nil
}
