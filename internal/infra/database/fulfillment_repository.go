package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

// FulfillmentInput is a validated, de-duplicated payment confirmation ready
// to be written. Order arrives in pending state without an invoice number.
type FulfillmentInput struct {
	Order        *entity.Order
	LeadIDs      []string
	Prices       []float64
	IsSingleItem bool
}

type FulfillmentResult struct {
	Order *entity.Order
	// Leads whose capacity was already exhausted when the confirmation
	// arrived. Access was granted anyway; these need manual reconciliation.
	OversoldLeadIDs []string
}

type FulfillmentRepository struct {
	DB *sql.DB
}

func NewFulfillmentRepository(db *sql.DB) *FulfillmentRepository {
	return &FulfillmentRepository{DB: db}
}

// Fulfill converts a confirmed payment into delivered access in one
// transaction: order row, order items, invoice number, completion, capacity
// reservation, purchase grants and cart cleanup all commit or roll back
// together. A duplicate payment_id surfaces as entity.ErrDuplicatePayment via
// the unique index, so a racing duplicate webhook fails cleanly.
func (r *FulfillmentRepository) Fulfill(ctx context.Context, input FulfillmentInput) (*FulfillmentResult, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin fulfillment transaction: %w", err)
	}
	defer tx.Rollback()

	order := input.Order

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, subtotal, discount, tax_rate, tax_amount, total,
			payment_method, payment_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', $10)
	`,
		order.ID, order.UserID,
		order.Subtotal, order.Discount, order.TaxRate, order.TaxAmount, order.Total,
		order.PaymentMethod, order.PaymentID, order.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, entity.ErrDuplicatePayment
		}
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	order.Items = make([]entity.OrderItem, len(input.LeadIDs))
	for i, leadID := range input.LeadIDs {
		item := entity.OrderItem{
			ID:      uuid.New().String(),
			OrderID: order.ID,
			LeadID:  leadID,
			Price:   input.Prices[i],
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, lead_id, price) VALUES ($1, $2, $3, $4)`,
			item.ID, item.OrderID, item.LeadID, item.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item for lead %s: %w", leadID, err)
		}
		order.Items[i] = item
	}

	now := time.Now()
	invoiceNumber, err := nextInvoiceNumber(ctx, tx, now.Year())
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = 'completed', invoice_number = $1, completed_at = $2
		WHERE id = $3
	`, invoiceNumber, now, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}
	order.Status = entity.OrderStatusCompleted
	order.InvoiceNumber = invoiceNumber
	order.CompletedAt = &now

	result := &FulfillmentResult{Order: order}

	for i, leadID := range input.LeadIDs {
		granted, _, err := reserveSaleUnit(ctx, tx, leadID)
		if err != nil {
			return nil, err
		}
		if !granted {
			// Sold out between checkout and confirmation. The payment is
			// already captured, so access is granted regardless and the
			// lead is reported for manual reconciliation.
			result.OversoldLeadIDs = append(result.OversoldLeadIDs, leadID)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO purchase_grants (id, user_id, lead_id, order_id, purchase_price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, lead_id) DO NOTHING
		`, uuid.New().String(), order.UserID, leadID, order.ID, input.Prices[i], now)
		if err != nil {
			return nil, fmt.Errorf("failed to create purchase grant for lead %s: %w", leadID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM cart_entries WHERE user_id = $1 AND lead_id = ANY($2)`,
		order.UserID, pq.Array(input.LeadIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to remove purchased leads from cart: %w", err)
	}

	if !input.IsSingleItem {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM cart_entries WHERE user_id = $1`, order.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit fulfillment: %w", err)
	}

	return result, nil
}

// nextInvoiceNumber allocates the next sequential invoice number for the
// year. German invoicing requires a gap-free sequence, so concurrent
// completions serialize on a per-year advisory lock held until commit; a
// read-max-then-increment without it would hand out duplicates. The max is
// taken over the numeric suffix, not the string: once the sequence outgrows
// its zero padding, string ordering would misreport the latest number.
func nextInvoiceNumber(ctx context.Context, tx *sql.Tx, year int) (string, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(year)); err != nil {
		return "", fmt.Errorf("failed to take invoice sequence lock: %w", err)
	}

	var last sql.NullInt64
	err := tx.QueryRowContext(ctx, `
		SELECT MAX(CAST(split_part(invoice_number, '-', 3) AS int))
		FROM orders WHERE invoice_number LIKE $1
	`, fmt.Sprintf("INV-%d-%%", year)).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("failed to read last invoice number: %w", err)
	}

	seq := 1
	if last.Valid {
		seq = int(last.Int64) + 1
	}

	return entity.FormatInvoiceNumber(year, seq), nil
}
