package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

// PayPalCaptureHandler finishes the synchronous redirect flow: PayPal sends
// the buyer back with an order token, the capture happens server-side and
// the manifest from custom_id drives fulfillment.
type PayPalCaptureHandler struct {
	Gateway   usecase.PayPalGateway
	FulfillUC FulfillmentExecutor
	PublicURL string
}

func NewPayPalCaptureHandler(gateway usecase.PayPalGateway, fulfillUC FulfillmentExecutor, publicURL string) *PayPalCaptureHandler {
	return &PayPalCaptureHandler{Gateway: gateway, FulfillUC: fulfillUC, PublicURL: publicURL}
}

func (h *PayPalCaptureHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	payerID := r.URL.Query().Get("PayerID")

	if token == "" || payerID == "" {
		h.redirectCancel(w, r)
		return
	}

	capture, err := h.Gateway.CaptureOrder(r.Context(), token)
	if err != nil {
		logrus.WithError(err).WithField("payment_id", token).Error("paypal capture failed")
		middleware.RecordIntegrationError("paypal")
		h.redirectCancel(w, r)
		return
	}

	if capture.Status != "COMPLETED" {
		// Buyer aborted or the capture was declined. Cancellation path, not
		// an error.
		logrus.WithFields(logrus.Fields{
			"payment_id": token,
			"status":     capture.Status,
		}).Info("paypal capture not completed")
		h.redirectCancel(w, r)
		return
	}

	output, err := h.FulfillUC.Execute(r.Context(), usecase.PaymentConfirmation{
		PaymentID:    capture.OrderID,
		Method:       entity.PaymentMethodPayPal,
		UserID:       capture.Manifest.UserID,
		LeadIDs:      capture.Manifest.LeadIDs,
		Prices:       capture.Manifest.Prices,
		IsSingleItem: capture.Manifest.IsSingleItem,
	})
	if err != nil {
		middleware.RecordPayment("paypal", "failed")
		logrus.WithError(err).WithField("payment_id", token).
			Error("fulfillment failed after paypal capture")
		h.redirectCancel(w, r)
		return
	}

	middleware.RecordPayment("paypal", "completed")
	if !output.AlreadyProcessed {
		middleware.RecordOrderCompleted()
		for range output.OversoldLeadIDs {
			middleware.RecordOversoldLead()
		}
	}

	http.Redirect(w, r,
		h.PublicURL+"/dashboard/checkout/success?orderId="+output.Order.ID,
		http.StatusFound)
}

func (h *PayPalCaptureHandler) redirectCancel(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.PublicURL+"/dashboard/checkout/cancel", http.StatusFound)
}
