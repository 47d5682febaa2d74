package usecase

import (
	"context"
	"errors"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

// LeadAdminUseCase exposes the review transitions to the admin collaborator.
// The lifecycle is one-way except PUBLISHED↔NEW.
type LeadAdminUseCase struct {
	LeadRepo LeadRepositoryInterface
}

func NewLeadAdminUseCase(leadRepo LeadRepositoryInterface) *LeadAdminUseCase {
	return &LeadAdminUseCase{LeadRepo: leadRepo}
}

func (uc *LeadAdminUseCase) Publish(ctx context.Context, leadID string) error {
	return uc.transition(ctx, leadID, entity.LeadStatusPublished)
}

func (uc *LeadAdminUseCase) Unpublish(ctx context.Context, leadID string) error {
	return uc.transition(ctx, leadID, entity.LeadStatusNew)
}

func (uc *LeadAdminUseCase) Archive(ctx context.Context, leadID string) error {
	return uc.transition(ctx, leadID, entity.LeadStatusArchived)
}

func (uc *LeadAdminUseCase) transition(ctx context.Context, leadID string, to entity.LeadStatus) error {
	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return &DomainError{Code: CodeLeadNotAvailable, Message: "lead not found"}
	}
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if !entity.CanTransition(lead.Status, to) {
		return &DomainError{
			Code:    CodeValidation,
			Message: string(lead.Status) + " -> " + string(to) + " is not allowed",
		}
	}

	// The repository re-checks the from-status atomically; a concurrent
	// transition makes this fail instead of silently overwriting.
	if err := uc.LeadRepo.UpdateStatus(ctx, leadID, lead.Status, to); err != nil {
		if errors.Is(err, entity.ErrBadTransition) {
			return &DomainError{Code: CodeValidation, Message: "lead status changed concurrently"}
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	return nil
}
