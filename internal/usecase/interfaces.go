package usecase

import (
	"context"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/database"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/paypal"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/stripe"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/queue"
)

type LeadRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	ListPublished(ctx context.Context, excludeUserID, sort string) ([]*entity.Lead, error)
	ReserveSaleUnit(ctx context.Context, leadID string) (bool, entity.LeadStatus, error)
	UpdateStatus(ctx context.Context, leadID string, from, to entity.LeadStatus) error
}

type CartRepositoryInterface interface {
	Add(ctx context.Context, entry *entity.CartEntry) error
	Remove(ctx context.Context, userID, leadID string) error
	List(ctx context.Context, userID string) ([]*entity.CartEntry, error)
	Clear(ctx context.Context, userID string) error
}

type OrderRepositoryInterface interface {
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.Order, error)
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
}

type PurchaseRepositoryInterface interface {
	HasGrant(ctx context.Context, userID, leadID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.PurchaseGrant, error)
}

type FulfillmentRepositoryInterface interface {
	Fulfill(ctx context.Context, input database.FulfillmentInput) (*database.FulfillmentResult, error)
}

type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, input stripe.CheckoutSessionInput) (string, error)
}

type PayPalGateway interface {
	CreateOrder(ctx context.Context, input paypal.CreateOrderInput) (approvalURL, orderID string, err error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, error)
}

type QueueProducerInterface interface {
	PublishOrderCompleted(ctx context.Context, event queue.OrderCompletedEvent) error
	PublishReconciliationAlert(ctx context.Context, alert queue.ReconciliationAlert) error
}
