package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/poolbau-vergleich/leadmarket/internal/config"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/database"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/handlers"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/paypal"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/stripe"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/mail"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/queue"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.User, cfg.RabbitMQ.Pass, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	if err != nil {
		logrus.WithError(err).Fatal("rabbitmq connection failed")
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	leadRepo := database.NewLeadRepository(db)
	cartRepo := database.NewCartRepository(db)
	orderRepo := database.NewOrderRepository(db)
	purchaseRepo := database.NewPurchaseRepository(db)
	fulfillmentRepo := database.NewFulfillmentRepository(db)
	userRepo := database.NewUserRepository(db)

	// Gateways and adapters
	stripeGateway := stripe.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.BaseURL)
	paypalGateway := paypal.NewClient(cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, cfg.PayPalBaseURL())
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From)

	// Worker: consumes order-completed events and sends invoice mails
	worker := queue.NewWorker(rabbitMQ.Ch, mailSender, userRepo)
	go worker.Start(queue.EmailQueueName)

	// UseCases
	cartUC := usecase.NewCartUseCase(cartRepo, leadRepo, purchaseRepo)
	checkoutUC := usecase.NewCreateCheckoutSessionUseCase(purchaseRepo, stripeGateway, paypalGateway, cfg.PublicURL)
	fulfillUC := usecase.NewFulfillPaymentUseCase(orderRepo, fulfillmentRepo, producer)
	leadAdminUC := usecase.NewLeadAdminUseCase(leadRepo)

	// Handlers
	cartHandler := handlers.NewCartHandler(cartUC)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutUC)
	webhookHandler := handlers.NewWebhookHandler(fulfillUC, cfg.Stripe.WebhookSecret)
	captureHandler := handlers.NewPayPalCaptureHandler(paypalGateway, fulfillUC, cfg.PublicURL)
	orderHandler := handlers.NewOrderHandler(orderRepo)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseRepo)
	leadHandler := handlers.NewLeadHandler(leadRepo, leadAdminUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn,
		cfg.Stripe.SecretKey != "", cfg.PayPal.ClientID != "")

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Provider callbacks carry their own authentication (signature / token).
	r.Post("/webhooks/stripe", webhookHandler.Handle)
	r.Get("/api/checkout/paypal/capture", captureHandler.Handle)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/leads", leadHandler.HandleList)
		r.Post("/leads/{leadId}/publish", leadHandler.HandlePublish)
		r.Post("/leads/{leadId}/unpublish", leadHandler.HandleUnpublish)
		r.Post("/leads/{leadId}/archive", leadHandler.HandleArchive)

		r.Get("/cart", cartHandler.HandleList)
		r.Post("/cart/add", cartHandler.HandleAdd)
		r.Post("/cart/remove", cartHandler.HandleRemove)
		r.Delete("/cart", cartHandler.HandleClear)

		r.Post("/checkout/stripe", checkoutHandler.HandleStripe)
		r.Post("/checkout/paypal", checkoutHandler.HandlePayPal)

		r.Get("/orders", orderHandler.HandleList)
		r.Get("/orders/{orderId}", orderHandler.HandleGet)

		r.Get("/purchases", purchaseHandler.HandleList)
	})

	logrus.WithField("port", cfg.Port).Info("leadmarket API listening")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
