package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type LeadKind string

const (
	LeadKindInterest     LeadKind = "INTEREST"
	LeadKindConsultation LeadKind = "CONSULTATION"
)

// Fixed unit prices in EUR per lead kind.
const (
	PriceInterest     = 49.0
	PriceConsultation = 99.0
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusPublished LeadStatus = "PUBLISHED"
	LeadStatusSold      LeadStatus = "SOLD"
	LeadStatusArchived  LeadStatus = "ARCHIVED"
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrBadTransition = errors.New("status transition not allowed")
)

// Lead is a prospective customer's pool project, sold as a product to
// companies. Created by the ingestion collaborator; this service only
// publishes, archives and sells it.
type Lead struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Zip       string `json:"zip"`
	City      string `json:"city"`

	PoolType          string  `json:"pool_type"`
	Dimensions        string  `json:"dimensions"`
	Features          string  `json:"features,omitempty"`
	EstimatedPriceMin float64 `json:"estimated_price_min,omitempty"`
	EstimatedPriceMax float64 `json:"estimated_price_max,omitempty"`
	Timeline          string  `json:"timeline,omitempty"`
	BudgetConfirmed   bool    `json:"budget_confirmed"`

	Kind   LeadKind   `json:"kind"`
	Status LeadStatus `json:"status"`
	Price  float64    `json:"price"`

	Exclusive  bool `json:"exclusive"`
	MaxSales   int  `json:"max_sales"`
	SalesCount int  `json:"sales_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead builds a lead in NEW status. Kind and price are set once here and
// never recomputed downstream.
func NewLead(firstName, lastName, email, zip, city, poolType, dimensions string, kind LeadKind, exclusive bool, maxSales int) (*Lead, error) {
	lead := &Lead{
		ID:         uuid.New().String(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Zip:        zip,
		City:       city,
		PoolType:   poolType,
		Dimensions: dimensions,
		Kind:       kind,
		Status:     LeadStatusNew,
		Exclusive:  exclusive,
		MaxSales:   maxSales,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	switch kind {
	case LeadKindInterest:
		lead.Price = PriceInterest
	case LeadKindConsultation:
		lead.Price = PriceConsultation
	default:
		return nil, errors.New("kind must be INTEREST or CONSULTATION")
	}

	if exclusive {
		lead.MaxSales = 1
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Email == "" {
		return errors.New("email is required")
	}
	if l.Zip == "" || l.City == "" {
		return errors.New("zip and city are required")
	}
	if l.PoolType == "" {
		return errors.New("pool_type is required")
	}
	if l.MaxSales < 1 {
		return errors.New("max_sales must be at least 1")
	}
	if l.Exclusive && l.MaxSales != 1 {
		return errors.New("exclusive leads must have max_sales = 1")
	}
	if l.SalesCount < 0 || l.SalesCount > l.MaxSales {
		return errors.New("sales_count out of range")
	}
	return nil
}

// CanTransition enforces the admin lifecycle: NEW to PUBLISHED, PUBLISHED
// back to NEW (unpublish), NEW to ARCHIVED. SOLD is owned by fulfillment and
// is terminal.
func CanTransition(from, to LeadStatus) bool {
	switch {
	case from == LeadStatusNew && to == LeadStatusPublished:
		return true
	case from == LeadStatusPublished && to == LeadStatusNew:
		return true
	case from == LeadStatusNew && to == LeadStatusArchived:
		return true
	}
	return false
}
