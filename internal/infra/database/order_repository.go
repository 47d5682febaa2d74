package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

const orderColumns = `
	id, user_id, subtotal, discount, tax_rate, tax_amount, total,
	payment_method, payment_id, status, invoice_number, completed_at, created_at`

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// FindByPaymentID is the idempotency lookup. Returns (nil, nil) when no
// order exists for the payment identifier yet.
func (r *OrderRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE payment_id = $1 LIMIT 1`, paymentID)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return order, err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *OrderRepository) findItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, order_id, lead_id, price FROM order_items WHERE order_id = $1`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.LeadID, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var order entity.Order
	var invoiceNumber sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&order.ID, &order.UserID,
		&order.Subtotal, &order.Discount, &order.TaxRate, &order.TaxAmount, &order.Total,
		&order.PaymentMethod, &order.PaymentID, &order.Status,
		&invoiceNumber, &completedAt, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.InvoiceNumber = invoiceNumber.String
	if completedAt.Valid {
		order.CompletedAt = &completedAt.Time
	}

	return &order, nil
}
