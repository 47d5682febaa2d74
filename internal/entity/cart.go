package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CartEntry is one (user, lead) pair awaiting checkout. A lead appears at
// most once per cart; there is no quantity concept.
type CartEntry struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	LeadID  string    `json:"lead_id"`
	AddedAt time.Time `json:"added_at"`

	// Joined lead summary for cart listings.
	Lead *Lead `json:"lead,omitempty"`
}

func NewCartEntry(userID, leadID string) (*CartEntry, error) {
	if userID == "" {
		return nil, errors.New("user_id is required")
	}
	if leadID == "" {
		return nil, errors.New("lead_id is required")
	}

	return &CartEntry{
		ID:      uuid.New().String(),
		UserID:  userID,
		LeadID:  leadID,
		AddedAt: time.Now(),
	}, nil
}
