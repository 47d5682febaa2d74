package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

type LeadRepositoryMock struct {
	mock.Mock
}

func (m *LeadRepositoryMock) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *LeadRepositoryMock) ListPublished(ctx context.Context, excludeUserID, sort string) ([]*entity.Lead, error) {
	args := m.Called(ctx, excludeUserID, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *LeadRepositoryMock) ReserveSaleUnit(ctx context.Context, leadID string) (bool, entity.LeadStatus, error) {
	args := m.Called(ctx, leadID)
	return args.Bool(0), args.Get(1).(entity.LeadStatus), args.Error(2)
}

func (m *LeadRepositoryMock) UpdateStatus(ctx context.Context, leadID string, from, to entity.LeadStatus) error {
	args := m.Called(ctx, leadID, from, to)
	return args.Error(0)
}

type CartRepositoryMock struct {
	mock.Mock
}

func (m *CartRepositoryMock) Add(ctx context.Context, entry *entity.CartEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *CartRepositoryMock) Remove(ctx context.Context, userID, leadID string) error {
	args := m.Called(ctx, userID, leadID)
	return args.Error(0)
}

func (m *CartRepositoryMock) List(ctx context.Context, userID string) ([]*entity.CartEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CartEntry), args.Error(1)
}

func (m *CartRepositoryMock) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func publishedLead(id string) *entity.Lead {
	return &entity.Lead{ID: id, Status: entity.LeadStatusPublished, Kind: entity.LeadKindInterest, Price: entity.PriceInterest, MaxSales: 3}
}

func TestCartAdd(t *testing.T) {
	cartRepo := &CartRepositoryMock{}
	leadRepo := &LeadRepositoryMock{}
	purchaseRepo := &PurchaseRepositoryMock{}

	leadRepo.On("FindByID", mock.Anything, "lead-1").Return(publishedLead("lead-1"), nil)
	purchaseRepo.On("HasGrant", mock.Anything, "user-1", "lead-1").Return(false, nil)
	cartRepo.On("Add", mock.Anything, mock.MatchedBy(func(entry *entity.CartEntry) bool {
		return entry.UserID == "user-1" && entry.LeadID == "lead-1" && entry.ID != ""
	})).Return(nil)

	uc := NewCartUseCase(cartRepo, leadRepo, purchaseRepo)
	err := uc.Add(context.Background(), "user-1", "lead-1")

	assert.Nil(t, err)
	cartRepo.AssertExpectations(t)
}

func TestCartAddRejectsUnknownLead(t *testing.T) {
	leadRepo := &LeadRepositoryMock{}
	leadRepo.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrLeadNotFound)

	uc := NewCartUseCase(&CartRepositoryMock{}, leadRepo, &PurchaseRepositoryMock{})
	err := uc.Add(context.Background(), "user-1", "missing")

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeLeadNotAvailable, domainErr.Code)
}

func TestCartAddRejectsUnpublishedLead(t *testing.T) {
	leadRepo := &LeadRepositoryMock{}
	lead := publishedLead("lead-1")
	lead.Status = entity.LeadStatusSold
	leadRepo.On("FindByID", mock.Anything, "lead-1").Return(lead, nil)

	uc := NewCartUseCase(&CartRepositoryMock{}, leadRepo, &PurchaseRepositoryMock{})
	err := uc.Add(context.Background(), "user-1", "lead-1")

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeLeadNotAvailable, domainErr.Code)
}

func TestCartAddRejectsAlreadyPurchasedLead(t *testing.T) {
	cartRepo := &CartRepositoryMock{}
	leadRepo := &LeadRepositoryMock{}
	purchaseRepo := &PurchaseRepositoryMock{}

	leadRepo.On("FindByID", mock.Anything, "lead-1").Return(publishedLead("lead-1"), nil)
	purchaseRepo.On("HasGrant", mock.Anything, "user-1", "lead-1").Return(true, nil)

	uc := NewCartUseCase(cartRepo, leadRepo, purchaseRepo)
	err := uc.Add(context.Background(), "user-1", "lead-1")

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeDuplicatePurchase, domainErr.Code)
	cartRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCartRemoveRequiresLeadID(t *testing.T) {
	uc := NewCartUseCase(&CartRepositoryMock{}, &LeadRepositoryMock{}, &PurchaseRepositoryMock{})

	err := uc.Remove(context.Background(), "user-1", "")

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeValidation, domainErr.Code)
}
