package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/stripe"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

const webhookSecret = "whsec_test_secret"

type FulfillmentExecutorMock struct {
	mock.Mock
}

func (m *FulfillmentExecutorMock) Execute(ctx context.Context, confirmation usecase.PaymentConfirmation) (*usecase.FulfillmentOutput, error) {
	args := m.Called(ctx, confirmation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.FulfillmentOutput), args.Error(1)
}

func paidSessionPayload() []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"payment_status": "paid",
				"metadata": {
					"user_id": "user-1",
					"lead_ids": "[\"lead-1\",\"lead-2\"]",
					"prices": "[49,99]",
					"is_single_item": "false"
				}
			}
		}
	}`)
}

func signedRequest(payload []byte) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	r.Header.Set("Stripe-Signature", stripe.SignPayload(payload, webhookSecret, time.Now()))
	return r
}

func TestWebhookFulfillsPaidSession(t *testing.T) {
	fulfillUC := &FulfillmentExecutorMock{}
	fulfillUC.On("Execute", mock.Anything, mock.MatchedBy(func(c usecase.PaymentConfirmation) bool {
		return c.PaymentID == "cs_test_123" &&
			c.Method == entity.PaymentMethodStripe &&
			c.UserID == "user-1" &&
			len(c.LeadIDs) == 2 &&
			c.Prices[1] == 99
	})).Return(&usecase.FulfillmentOutput{Order: &entity.Order{ID: "order-1"}}, nil)

	handler := NewWebhookHandler(fulfillUC, webhookSecret)
	w := httptest.NewRecorder()
	handler.Handle(w, signedRequest(paidSessionPayload()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")
	fulfillUC.AssertExpectations(t)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	fulfillUC := &FulfillmentExecutorMock{}
	handler := NewWebhookHandler(fulfillUC, webhookSecret)

	payload := paidSessionPayload()
	r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	r.Header.Set("Stripe-Signature", stripe.SignPayload(payload, "whsec_wrong", time.Now()))

	w := httptest.NewRecorder()
	handler.Handle(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_signature")
	fulfillUC.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	handler := NewWebhookHandler(&FulfillmentExecutorMock{}, webhookSecret)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(paidSessionPayload()))
	handler.Handle(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookIgnoresUnpaidSession(t *testing.T) {
	fulfillUC := &FulfillmentExecutorMock{}
	handler := NewWebhookHandler(fulfillUC, webhookSecret)

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_123", "payment_status": "unpaid", "metadata": {}}}
	}`)

	w := httptest.NewRecorder()
	handler.Handle(w, signedRequest(payload))

	assert.Equal(t, http.StatusOK, w.Code)
	fulfillUC.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	fulfillUC := &FulfillmentExecutorMock{}
	handler := NewWebhookHandler(fulfillUC, webhookSecret)

	payload := []byte(`{"id": "evt_1", "type": "payment_intent.created", "data": {"object": {}}}`)

	w := httptest.NewRecorder()
	handler.Handle(w, signedRequest(payload))

	assert.Equal(t, http.StatusOK, w.Code)
	fulfillUC.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestWebhookRejectsMalformedManifest(t *testing.T) {
	fulfillUC := &FulfillmentExecutorMock{}
	handler := NewWebhookHandler(fulfillUC, webhookSecret)

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_123", "payment_status": "paid", "metadata": {"lead_ids": "not json"}}}
	}`)

	w := httptest.NewRecorder()
	handler.Handle(w, signedRequest(payload))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fulfillUC.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestWebhookBouncesOnFulfillmentFailure(t *testing.T) {
	fulfillUC := &FulfillmentExecutorMock{}
	fulfillUC.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.TechnicalError{Code: "FULFILLMENT_FAILED", Message: "deadlock detected"})

	handler := NewWebhookHandler(fulfillUC, webhookSecret)
	w := httptest.NewRecorder()
	handler.Handle(w, signedRequest(paidSessionPayload()))

	// Non-2xx makes Stripe redeliver the event.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookDuplicateDeliveryStays200(t *testing.T) {
	fulfillUC := &FulfillmentExecutorMock{}
	fulfillUC.On("Execute", mock.Anything, mock.Anything).
		Return(&usecase.FulfillmentOutput{Order: &entity.Order{ID: "order-1"}, AlreadyProcessed: true}, nil)

	handler := NewWebhookHandler(fulfillUC, webhookSecret)
	w := httptest.NewRecorder()
	handler.Handle(w, signedRequest(paidSessionPayload()))

	assert.Equal(t, http.StatusOK, w.Code)
}
