package usecase

import (
	"context"
	"errors"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

// CartUseCase owns the cart rules: only published leads can be carted and a
// lead the user already paid for is rejected with a conflict.
type CartUseCase struct {
	CartRepo     CartRepositoryInterface
	LeadRepo     LeadRepositoryInterface
	PurchaseRepo PurchaseRepositoryInterface
}

func NewCartUseCase(
	cartRepo CartRepositoryInterface,
	leadRepo LeadRepositoryInterface,
	purchaseRepo PurchaseRepositoryInterface,
) *CartUseCase {
	return &CartUseCase{
		CartRepo:     cartRepo,
		LeadRepo:     leadRepo,
		PurchaseRepo: purchaseRepo,
	}
}

func (uc *CartUseCase) Add(ctx context.Context, userID, leadID string) error {
	if leadID == "" {
		return &DomainError{Code: CodeValidation, Message: "lead_id is required"}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return &DomainError{Code: CodeLeadNotAvailable, Message: "lead not found"}
	}
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if lead.Status != entity.LeadStatusPublished {
		return &DomainError{Code: CodeLeadNotAvailable, Message: "lead is not available"}
	}

	purchased, err := uc.PurchaseRepo.HasGrant(ctx, userID, leadID)
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if purchased {
		return &DomainError{Code: CodeDuplicatePurchase, Message: "lead already purchased"}
	}

	entry, err := entity.NewCartEntry(userID, leadID)
	if err != nil {
		return &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	if err := uc.CartRepo.Add(ctx, entry); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	return nil
}

func (uc *CartUseCase) Remove(ctx context.Context, userID, leadID string) error {
	if leadID == "" {
		return &DomainError{Code: CodeValidation, Message: "lead_id is required"}
	}
	return uc.CartRepo.Remove(ctx, userID, leadID)
}

func (uc *CartUseCase) List(ctx context.Context, userID string) ([]*entity.CartEntry, error) {
	return uc.CartRepo.List(ctx, userID)
}

func (uc *CartUseCase) Clear(ctx context.Context, userID string) error {
	return uc.CartRepo.Clear(ctx, userID)
}
