package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/database"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/queue"
)

// PaymentConfirmation is the provider-independent result of a verified
// webhook or redirect capture. Totals are always recomputed from the
// manifest prices, never taken from the client.
type PaymentConfirmation struct {
	PaymentID    string
	Method       entity.PaymentMethod
	UserID       string
	LeadIDs      []string
	Prices       []float64
	IsSingleItem bool
}

type FulfillmentOutput struct {
	Order *entity.Order
	// AlreadyProcessed is true when the payment id was seen before and the
	// call was a no-op.
	AlreadyProcessed bool
	OversoldLeadIDs  []string
}

// FulfillPaymentUseCase turns a confirmed payment into delivered access
// exactly once per payment id.
type FulfillPaymentUseCase struct {
	OrderRepo       OrderRepositoryInterface
	FulfillmentRepo FulfillmentRepositoryInterface
	Producer        QueueProducerInterface
}

func NewFulfillPaymentUseCase(
	orderRepo OrderRepositoryInterface,
	fulfillmentRepo FulfillmentRepositoryInterface,
	producer QueueProducerInterface,
) *FulfillPaymentUseCase {
	return &FulfillPaymentUseCase{
		OrderRepo:       orderRepo,
		FulfillmentRepo: fulfillmentRepo,
		Producer:        producer,
	}
}

func (uc *FulfillPaymentUseCase) Execute(ctx context.Context, confirmation PaymentConfirmation) (*FulfillmentOutput, error) {
	log := logrus.WithFields(logrus.Fields{
		"payment_id": confirmation.PaymentID,
		"user_id":    confirmation.UserID,
		"lead_ids":   confirmation.LeadIDs,
	})

	if confirmation.PaymentID == "" || confirmation.UserID == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "confirmation without payment id or user id"}
	}
	if len(confirmation.LeadIDs) == 0 || len(confirmation.LeadIDs) != len(confirmation.Prices) {
		return nil, &DomainError{Code: CodeValidation, Message: "confirmation manifest is malformed"}
	}

	// Idempotency gate: providers do not guarantee exactly-once delivery.
	existing, err := uc.OrderRepo.FindByPaymentID(ctx, confirmation.PaymentID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if existing != nil {
		log.WithField("order_id", existing.ID).Info("payment already processed, skipping duplicate")
		return &FulfillmentOutput{Order: existing, AlreadyProcessed: true}, nil
	}

	items := make([]PricingItem, len(confirmation.LeadIDs))
	for i, leadID := range confirmation.LeadIDs {
		items[i] = PricingItem{LeadID: leadID, Price: confirmation.Prices[i]}
	}
	pricing := CalculatePricing(items)

	order, err := entity.NewOrder(
		confirmation.UserID, confirmation.Method, confirmation.PaymentID,
		RoundAmount(pricing.Subtotal), RoundAmount(pricing.DiscountAmount),
		RoundAmount(pricing.TaxAmount), RoundAmount(pricing.Total),
	)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	result, err := uc.FulfillmentRepo.Fulfill(ctx, database.FulfillmentInput{
		Order:        order,
		LeadIDs:      confirmation.LeadIDs,
		Prices:       confirmation.Prices,
		IsSingleItem: confirmation.IsSingleItem,
	})
	if errors.Is(err, entity.ErrDuplicatePayment) {
		// Lost the race against a concurrent delivery of the same payment.
		// The unique index made the duplicate insert fail cleanly.
		winner, findErr := uc.OrderRepo.FindByPaymentID(ctx, confirmation.PaymentID)
		if findErr != nil || winner == nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "duplicate payment but order not readable"}
		}
		log.WithField("order_id", winner.ID).Info("payment already processed, skipping duplicate")
		return &FulfillmentOutput{Order: winner, AlreadyProcessed: true}, nil
	}
	if err != nil {
		// Nothing was committed. The provider will redeliver.
		log.WithError(err).Error("fulfillment failed, expecting provider retry")
		return nil, &TechnicalError{Code: "FULFILLMENT_FAILED", Message: err.Error()}
	}

	completed := result.Order
	log = log.WithFields(logrus.Fields{
		"order_id": completed.ID,
		"invoice":  completed.InvoiceNumber,
	})
	log.Info("order fulfilled")

	for _, leadID := range result.OversoldLeadIDs {
		// Payment was captured before capacity ran out, so access stands.
		log.WithField("lead_id", leadID).Warn("lead oversold, granted anyway, flagged for reconciliation")
		if err := uc.Producer.PublishReconciliationAlert(ctx, queue.ReconciliationAlert{
			PaymentID: confirmation.PaymentID,
			OrderID:   completed.ID,
			UserID:    confirmation.UserID,
			LeadID:    leadID,
			Reason:    "capacity exhausted between checkout and confirmation",
		}); err != nil {
			log.WithError(err).Error("failed to publish reconciliation alert")
		}
	}

	// The order is committed; a publish failure must not bounce the webhook
	// into a retry that would then no-op and lose the email anyway.
	if err := uc.Producer.PublishOrderCompleted(ctx, queue.OrderCompletedEvent{
		OrderID:       completed.ID,
		UserID:        completed.UserID,
		InvoiceNumber: completed.InvoiceNumber,
		Total:         completed.Total,
		LeadIDs:       confirmation.LeadIDs,
		PaymentMethod: string(completed.PaymentMethod),
	}); err != nil {
		log.WithError(err).Error("failed to publish order-completed event")
	}

	return &FulfillmentOutput{Order: completed, OversoldLeadIDs: result.OversoldLeadIDs}, nil
}
