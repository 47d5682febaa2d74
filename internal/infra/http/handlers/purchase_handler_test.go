package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
)

type PurchaseRepositoryMock struct {
	mock.Mock
}

func (m *PurchaseRepositoryMock) HasGrant(ctx context.Context, userID, leadID string) (bool, error) {
	args := m.Called(ctx, userID, leadID)
	return args.Bool(0), args.Error(1)
}

func (m *PurchaseRepositoryMock) ListByUser(ctx context.Context, userID string) ([]*entity.PurchaseGrant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PurchaseGrant), args.Error(1)
}

func TestPurchaseList(t *testing.T) {
	purchaseRepo := &PurchaseRepositoryMock{}
	purchaseRepo.On("ListByUser", mock.Anything, "user-1").Return([]*entity.PurchaseGrant{
		{ID: "grant-1", UserID: "user-1", LeadID: "lead-1", OrderID: "order-1", PurchasePrice: 49},
	}, nil)

	handler := middleware.RequireUser(http.HandlerFunc(NewPurchaseHandler(purchaseRepo).HandleList))

	r := httptest.NewRequest(http.MethodGet, "/purchases", nil)
	r.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lead-1")
	assert.Contains(t, w.Body.String(), `"count":1`)
	purchaseRepo.AssertExpectations(t)
}

func TestPurchaseListEmpty(t *testing.T) {
	purchaseRepo := &PurchaseRepositoryMock{}
	purchaseRepo.On("ListByUser", mock.Anything, "user-1").Return([]*entity.PurchaseGrant{}, nil)

	handler := middleware.RequireUser(http.HandlerFunc(NewPurchaseHandler(purchaseRepo).HandleList))

	r := httptest.NewRequest(http.MethodGet, "/purchases", nil)
	r.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}
