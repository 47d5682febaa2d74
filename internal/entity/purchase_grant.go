package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PurchaseGrant records a buyer's paid access to a lead's full contact
// details. Created once per (user, lead) pair, with the order and snapshot
// price linked for auditability.
type PurchaseGrant struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	LeadID        string    `json:"lead_id"`
	OrderID       string    `json:"order_id,omitempty"`
	PurchasePrice float64   `json:"purchase_price"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewPurchaseGrant(userID, leadID, orderID string, price float64) (*PurchaseGrant, error) {
	if userID == "" || leadID == "" {
		return nil, errors.New("user_id and lead_id are required")
	}

	return &PurchaseGrant{
		ID:            uuid.New().String(),
		UserID:        userID,
		LeadID:        leadID,
		OrderID:       orderID,
		PurchasePrice: price,
		CreatedAt:     time.Now(),
	}, nil
}
