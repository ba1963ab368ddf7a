package config

import "github.com/pitabwire/frame"

type MpesaConfig struct {
	frame.ConfigurationDefault

	// Where validated C2B confirmations are forwarded to
	ConfirmationURL    string `envDefault:"http://localhost:8080/c2b/confirm" env:"MPESA_CONFIRMATION_URL" required:"true"`
	AccessToken        string `envDefault:"" env:"MPESA_ACCESS_TOKEN"`
	HTTPTimeoutSeconds int    `envDefault:"30" env:"MPESA_HTTP_TIMEOUT_SECONDS"`
	Currency           string `envDefault:"KES" env:"MPESA_CURRENCY"`

	PaymentServiceURI string `envDefault:"" env:"PAYMENT_SERVICE_URI"`

	//nolint:revive // NATS_URL follows environment variable ALL_CAPS convention
	NATS_URL       string `envDefault:"nats://nats:4222" env:"NATS_URL"`
	ConfirmedTopic string `envDefault:"mpesa.c2b.confirmed" env:"CONFIRMED_TOPIC"`
}
