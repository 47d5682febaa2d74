package handlers

import (
	"net/http"

	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

type PurchaseHandler struct {
	PurchaseRepo usecase.PurchaseRepositoryInterface
}

func NewPurchaseHandler(purchaseRepo usecase.PurchaseRepositoryInterface) *PurchaseHandler {
	return &PurchaseHandler{PurchaseRepo: purchaseRepo}
}

// HandleList returns the buyer's library: every lead the user paid for, with
// the snapshot price and the order it came from.
func (h *PurchaseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	grants, err := h.PurchaseRepo.ListByUser(r.Context(), middleware.UserID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"purchases": grants, "count": len(grants)})
}
