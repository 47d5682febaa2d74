package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	PublicURL   string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`

	RabbitMQ struct {
		User string `envconfig:"RABBITMQ_USER" default:"guest"`
		Pass string `envconfig:"RABBITMQ_PASS" default:"guest"`
		Host string `envconfig:"RABBITMQ_HOST" default:"localhost"`
		Port string `envconfig:"RABBITMQ_PORT" default:"5672"`
	}

	Stripe struct {
		SecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
		WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
		BaseURL       string `envconfig:"STRIPE_API_URL" default:"https://api.stripe.com"`
	}

	PayPal struct {
		ClientID     string `envconfig:"PAYPAL_CLIENT_ID"`
		ClientSecret string `envconfig:"PAYPAL_CLIENT_SECRET"`
		Mode         string `envconfig:"PAYPAL_MODE" default:"sandbox"`
	}

	Mail struct {
		Host string `envconfig:"MAIL_HOST"`
		Port int    `envconfig:"MAIL_PORT" default:"587"`
		User string `envconfig:"MAIL_USER"`
		Pass string `envconfig:"MAIL_PASS"`
		From string `envconfig:"MAIL_FROM" default:"rechnung@poolbau-vergleich.de"`
	}
}

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Stripe.SecretKey == "" && cfg.PayPal.ClientID == "" {
		return nil, errors.New("at least one payment provider must be configured")
	}

	return &cfg, nil
}

// PayPalBaseURL resolves the API host from the configured mode.
func (c *Config) PayPalBaseURL() string {
	if c.PayPal.Mode == "live" {
		return "https://api-m.paypal.com"
	}
	return "https://api-m.sandbox.paypal.com"
}
