package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/stripe"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

// FulfillmentExecutor lets tests stand in for the fulfillment usecase.
type FulfillmentExecutor interface {
	Execute(ctx context.Context, confirmation usecase.PaymentConfirmation) (*usecase.FulfillmentOutput, error)
}

// WebhookHandler consumes Stripe's asynchronous payment notifications. The
// body is opaque until the signature verifies; 2xx is returned only after
// processing (or confirming the payment was already handled), anything else
// makes Stripe redeliver.
type WebhookHandler struct {
	FulfillUC     FulfillmentExecutor
	WebhookSecret string
}

func NewWebhookHandler(fulfillUC FulfillmentExecutor, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{FulfillUC: fulfillUC, WebhookSecret: webhookSecret}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	event, err := stripe.ConstructEvent(body, r.Header.Get("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		logrus.WithError(err).Warn("stripe webhook rejected")
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_signature"})
		return
	}

	if event.Type != "checkout.session.completed" {
		respondJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	session := event.Data.Object
	if session.PaymentStatus != "paid" {
		// Session completed without funds captured. No fulfillment action.
		respondJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	confirmation, err := confirmationFromMetadata(session)
	if err != nil {
		logrus.WithError(err).WithField("payment_id", session.ID).
			Error("stripe session carries a malformed manifest")
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed manifest"})
		return
	}

	output, err := h.FulfillUC.Execute(r.Context(), confirmation)
	if err != nil {
		middleware.RecordPayment("stripe", "failed")
		// Non-2xx: Stripe retries, the idempotency gate absorbs duplicates.
		respondError(w, err)
		return
	}

	middleware.RecordPayment("stripe", "completed")
	if !output.AlreadyProcessed {
		middleware.RecordOrderCompleted()
		for range output.OversoldLeadIDs {
			middleware.RecordOversoldLead()
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func confirmationFromMetadata(session stripe.CheckoutSession) (usecase.PaymentConfirmation, error) {
	var leadIDs []string
	var prices []float64

	if err := json.Unmarshal([]byte(session.Metadata["lead_ids"]), &leadIDs); err != nil {
		return usecase.PaymentConfirmation{}, err
	}
	if err := json.Unmarshal([]byte(session.Metadata["prices"]), &prices); err != nil {
		return usecase.PaymentConfirmation{}, err
	}

	return usecase.PaymentConfirmation{
		PaymentID:    session.ID,
		Method:       entity.PaymentMethodStripe,
		UserID:       session.Metadata["user_id"],
		LeadIDs:      leadIDs,
		Prices:       prices,
		IsSingleItem: session.Metadata["is_single_item"] == "true",
	}, nil
}
