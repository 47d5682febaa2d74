package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/paypal"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

type PayPalGatewayMock struct {
	mock.Mock
}

func (m *PayPalGatewayMock) CreateOrder(ctx context.Context, input paypal.CreateOrderInput) (string, string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *PayPalGatewayMock) CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.CaptureResult), args.Error(1)
}

func captureRequest(token, payerID string) *http.Request {
	return httptest.NewRequest(http.MethodGet,
		"/api/checkout/paypal/capture?token="+token+"&PayerID="+payerID, nil)
}

func TestPayPalCaptureSuccess(t *testing.T) {
	gateway := &PayPalGatewayMock{}
	fulfillUC := &FulfillmentExecutorMock{}

	gateway.On("CaptureOrder", mock.Anything, "5O190127TN").Return(&paypal.CaptureResult{
		OrderID: "5O190127TN",
		Status:  "COMPLETED",
		Manifest: paypal.Manifest{
			UserID:  "user-1",
			LeadIDs: []string{"lead-1"},
			Prices:  []float64{49},
		},
	}, nil)
	fulfillUC.On("Execute", mock.Anything, mock.MatchedBy(func(c usecase.PaymentConfirmation) bool {
		return c.PaymentID == "5O190127TN" && c.Method == entity.PaymentMethodPayPal && c.UserID == "user-1"
	})).Return(&usecase.FulfillmentOutput{Order: &entity.Order{ID: "order-1"}}, nil)

	handler := NewPayPalCaptureHandler(gateway, fulfillUC, "https://example.com")
	w := httptest.NewRecorder()
	handler.Handle(w, captureRequest("5O190127TN", "PAYER1"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/dashboard/checkout/success?orderId=order-1", w.Header().Get("Location"))
	fulfillUC.AssertExpectations(t)
}

func TestPayPalCaptureMissingTokenRedirectsToCancel(t *testing.T) {
	gateway := &PayPalGatewayMock{}
	handler := NewPayPalCaptureHandler(gateway, &FulfillmentExecutorMock{}, "https://example.com")

	w := httptest.NewRecorder()
	handler.Handle(w, httptest.NewRequest(http.MethodGet, "/api/checkout/paypal/capture", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/dashboard/checkout/cancel", w.Header().Get("Location"))
	gateway.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
}

func TestPayPalCaptureDeclinedRedirectsToCancel(t *testing.T) {
	gateway := &PayPalGatewayMock{}
	fulfillUC := &FulfillmentExecutorMock{}

	gateway.On("CaptureOrder", mock.Anything, "5O190127TN").
		Return(&paypal.CaptureResult{OrderID: "5O190127TN", Status: "DECLINED"}, nil)

	handler := NewPayPalCaptureHandler(gateway, fulfillUC, "https://example.com")
	w := httptest.NewRecorder()
	handler.Handle(w, captureRequest("5O190127TN", "PAYER1"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/dashboard/checkout/cancel", w.Header().Get("Location"))
	fulfillUC.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPayPalCaptureGatewayErrorRedirectsToCancel(t *testing.T) {
	gateway := &PayPalGatewayMock{}
	gateway.On("CaptureOrder", mock.Anything, "5O190127TN").
		Return(nil, errors.New("paypal unreachable"))

	handler := NewPayPalCaptureHandler(gateway, &FulfillmentExecutorMock{}, "https://example.com")
	w := httptest.NewRecorder()
	handler.Handle(w, captureRequest("5O190127TN", "PAYER1"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/dashboard/checkout/cancel", w.Header().Get("Location"))
}
