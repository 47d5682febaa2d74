package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

type OrderHandler struct {
	OrderRepo usecase.OrderRepositoryInterface
}

func NewOrderHandler(orderRepo usecase.OrderRepositoryInterface) *OrderHandler {
	return &OrderHandler{OrderRepo: orderRepo}
}

func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.OrderRepo.ListByUser(r.Context(), middleware.UserID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// HandleGet returns one order with its items, for invoice rendering. Orders
// are private to their owner.
func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.OrderRepo.FindByID(r.Context(), chi.URLParam(r, "orderId"))
	if errors.Is(err, entity.ErrOrderNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	if order.UserID != middleware.UserID(r) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
		return
	}

	respondJSON(w, http.StatusOK, order)
}
