package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

const leadColumns = `
	id, first_name, last_name, email, phone, zip, city,
	pool_type, dimensions, features, estimated_price_min, estimated_price_max,
	timeline, budget_confirmed, kind, status, price,
	exclusive, max_sales, sales_count, created_at, updated_at`

// qualifiedLeadColumns prefixes every lead column with the table name.
// Required in joins against tables that also carry an id column, where the
// unqualified name is ambiguous to postgres.
func qualifiedLeadColumns() string {
	cols := strings.Split(leadColumns, ",")
	for i, col := range cols {
		cols[i] = "leads." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

// ListPublished returns PUBLISHED leads, excluding those the user already
// holds a purchase grant for. Sort is "newest" (default), "price_asc" or
// "price_desc".
func (r *LeadRepository) ListPublished(ctx context.Context, excludeUserID, sort string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE status = 'PUBLISHED'`
	var args []any

	if excludeUserID != "" {
		query += ` AND NOT EXISTS (
			SELECT 1 FROM purchase_grants g
			WHERE g.lead_id = leads.id AND g.user_id = $1
		)`
		args = append(args, excludeUserID)
	}

	switch sort {
	case "price_asc":
		query += ` ORDER BY price ASC, created_at DESC`
	case "price_desc":
		query += ` ORDER BY price DESC, created_at DESC`
	default:
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list published leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// ReserveSaleUnit atomically takes one unit of sale capacity. The conditional
// UPDATE is the whole protection against overselling: two concurrent buyers
// of the last unit race on the row, exactly one sees sales_count < max_sales.
func (r *LeadRepository) ReserveSaleUnit(ctx context.Context, leadID string) (bool, entity.LeadStatus, error) {
	return reserveSaleUnit(ctx, r.DB, leadID)
}

func reserveSaleUnit(ctx context.Context, q querier, leadID string) (bool, entity.LeadStatus, error) {
	var status entity.LeadStatus
	err := q.QueryRowContext(ctx, `
		UPDATE leads
		SET sales_count = sales_count + 1,
		    status = CASE WHEN sales_count + 1 >= max_sales THEN 'SOLD' ELSE status END,
		    updated_at = NOW()
		WHERE id = $1 AND sales_count < max_sales
		RETURNING status
	`, leadID).Scan(&status)

	if errors.Is(err, sql.ErrNoRows) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to reserve sale unit for lead %s: %w", leadID, err)
	}

	return true, status, nil
}

// UpdateStatus applies an admin transition. The from-status condition keeps
// it a single atomic statement; zero rows means the lead moved underneath us.
func (r *LeadRepository) UpdateStatus(ctx context.Context, leadID string, from, to entity.LeadStatus) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE leads SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, leadID, from)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrBadTransition
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var phone, features, timeline sql.NullString
	var priceMin, priceMax sql.NullFloat64

	err := row.Scan(
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

	return &lead, nil
}
