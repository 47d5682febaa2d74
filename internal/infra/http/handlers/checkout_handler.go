package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

type CheckoutHandler struct {
	CreateSessionUC *usecase.CreateCheckoutSessionUseCase
}

func NewCheckoutHandler(uc *usecase.CreateCheckoutSessionUseCase) *CheckoutHandler {
	return &CheckoutHandler{CreateSessionUC: uc}
}

// HandleStripe creates a Stripe Checkout Session and returns its URL.
func (h *CheckoutHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, entity.PaymentMethodStripe)
}

// HandlePayPal creates a PayPal order and returns its approval URL.
func (h *CheckoutHandler) HandlePayPal(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, entity.PaymentMethodPayPal)
}

func (h *CheckoutHandler) handle(w http.ResponseWriter, r *http.Request, method entity.PaymentMethod) {
	var input usecase.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	input.UserID = middleware.UserID(r)

	output, err := h.CreateSessionUC.Execute(r.Context(), method, input)
	if err != nil {
		if usecase.IsDomainError(err) && err.(*usecase.DomainError).Code == usecase.CodePaymentFailed {
			middleware.RecordIntegrationError(string(method))
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, output)
}
