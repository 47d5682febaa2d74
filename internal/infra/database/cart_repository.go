package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

type CartRepository struct {
	DB *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{DB: db}
}

// Add upserts the (user, lead) pair. Re-adding only refreshes the timestamp,
// so the operation is idempotent.
func (r *CartRepository) Add(ctx context.Context, entry *entity.CartEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_entries (id, user_id, lead_id, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, lead_id) DO UPDATE SET added_at = NOW()
	`, entry.ID, entry.UserID, entry.LeadID, entry.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add lead %s to cart: %w", entry.LeadID, err)
	}

	return nil
}

func (r *CartRepository) Remove(ctx context.Context, userID, leadID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM cart_entries WHERE user_id = $1 AND lead_id = $2`,
		userID, leadID)
	return err
}

// List returns the user's cart with the lead summaries joined in, newest
// additions first.
func (r *CartRepository) List(ctx context.Context, userID string) ([]*entity.CartEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.lead_id, c.added_at, `+qualifiedLeadColumns()+`
		FROM cart_entries c
		INNER JOIN leads ON c.lead_id = leads.id
		WHERE c.user_id = $1
		ORDER BY c.added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	defer rows.Close()

	var entries []*entity.CartEntry
	for rows.Next() {
		var entry entity.CartEntry
		var lead entity.Lead
		var phone, features, timeline sql.NullString
		var priceMin, priceMax sql.NullFloat64

		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.LeadID, &entry.AddedAt,
			&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &phone,
			&lead.Zip, &lead.City, &lead.PoolType, &lead.Dimensions, &features,
			&priceMin, &priceMax, &timeline, &lead.BudgetConfirmed,
			&lead.Kind, &lead.Status, &lead.Price,
			&lead.Exclusive, &lead.MaxSales, &lead.SalesCount,
			&lead.CreatedAt, &lead.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		lead.Phone = phone.String
		lead.Features = features.String
		lead.Timeline = timeline.String
		lead.EstimatedPriceMin = priceMin.Float64
		lead.EstimatedPriceMax = priceMax.Float64

		entry.Lead = &lead
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM cart_entries WHERE user_id = $1`, userID)
	return err
}
