package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/poolbau-vergleich/leadmarket/internal/infra/http/middleware"
	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

type LeadHandler struct {
	LeadRepo usecase.LeadRepositoryInterface
	AdminUC  *usecase.LeadAdminUseCase
}

func NewLeadHandler(leadRepo usecase.LeadRepositoryInterface, adminUC *usecase.LeadAdminUseCase) *LeadHandler {
	return &LeadHandler{LeadRepo: leadRepo, AdminUC: adminUC}
}

// HandleList shows the marketplace: published leads the user has not bought
// yet. Masking of contact details is the UI collaborator's job.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.LeadRepo.ListPublished(r.Context(), middleware.UserID(r), r.URL.Query().Get("sort"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}

func (h *LeadHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.AdminUC.Publish)
}

func (h *LeadHandler) HandleUnpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.AdminUC.Unpublish)
}

func (h *LeadHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.AdminUC.Archive)
}

func (h *LeadHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error) {
	if err := op(r.Context(), chi.URLParam(r, "leadId")); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
