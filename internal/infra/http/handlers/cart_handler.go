package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

type CartHandler struct {
	Cart *usecase.CartUseCase
}

func NewCartHandler(cart *usecase.CartUseCase) *CartHandler {
	return &CartHandler{Cart: cart}
}

type cartItemRequest struct {
	LeadID string `json:"lead_id"`
}

func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var input cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Cart.Add(r.Context(), middleware.UserID(r), input.LeadID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Lead zum Warenkorb hinzugefügt",
	})
}

func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	var input cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Cart.Remove(r.Context(), middleware.UserID(r), input.LeadID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *CartHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Cart.List(r.Context(), middleware.UserID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": entries, "count": len(entries)})
}

func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context(), middleware.UserID(r)); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
