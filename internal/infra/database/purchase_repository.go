package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

type PurchaseRepository struct {
	DB *sql.DB
}

func NewPurchaseRepository(db *sql.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

// HasGrant reports whether the user already paid for the lead. Checked
// before adding to cart and before creating a payment session.
func (r *PurchaseRepository) HasGrant(ctx context.Context, userID, leadID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM purchase_grants WHERE user_id = $1 AND lead_id = $2
		)
	`, userID, leadID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase grant: %w", err)
	}

	return exists, nil
}

// ListByUser returns the user's grants, newest purchases first.
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID string) ([]*entity.PurchaseGrant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, lead_id, order_id, purchase_price, created_at
		FROM purchase_grants
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var grants []*entity.PurchaseGrant
	for rows.Next() {
		var grant entity.PurchaseGrant
		var orderID sql.NullString
		if err := rows.Scan(&grant.ID, &grant.UserID, &grant.LeadID,
			&orderID, &grant.PurchasePrice, &grant.CreatedAt); err != nil {
			return nil, err
		}
		grant.OrderID = orderID.String
		grants = append(grants, &grant)
	}

	return grants, rows.Err()
}
