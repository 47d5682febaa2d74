package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "subtotal", "discount", "tax_rate", "tax_amount", "total",
		"payment_method", "payment_id", "status", "invoice_number", "completed_at", "created_at",
	})
}

func TestOrderRepositoryFindByPaymentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE payment_id = $1`)).
		WithArgs("cs_test_123").
		WillReturnRows(orderRows().AddRow(
			"order-1", "user-1", 49.0, 0.0, 19.0, 9.31, 58.31,
			"stripe", "cs_test_123", "completed", "INV-2025-00001", now, now,
		))

	repo := NewOrderRepository(db)
	order, err := repo.FindByPaymentID(context.Background(), "cs_test_123")

	assert.Nil(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	assert.Equal(t, "INV-2025-00001", order.InvoiceNumber)
	assert.NotNil(t, order.CompletedAt)
}

func TestOrderRepositoryFindByPaymentIDUnknownIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE payment_id = $1`)).
		WithArgs("cs_unknown").
		WillReturnRows(orderRows())

	repo := NewOrderRepository(db)
	order, err := repo.FindByPaymentID(context.Background(), "cs_unknown")

	// (nil, nil) is the contract: no order yet means the payment is fresh.
	assert.Nil(t, err)
	assert.Nil(t, order)
}

func TestOrderRepositoryFindByIDLoadsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
		WithArgs("order-1").
		WillReturnRows(orderRows().AddRow(
			"order-1", "user-1", 148.0, 0.0, 19.0, 28.12, 176.12,
			"paypal", "5O190127TN", "completed", "INV-2025-00002", now, now,
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items WHERE order_id = $1`)).
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "lead_id", "price"}).
			AddRow("item-1", "order-1", "lead-1", 49.0).
			AddRow("item-2", "order-1", "lead-2", 99.0))

	repo := NewOrderRepository(db)
	order, err := repo.FindByID(context.Background(), "order-1")

	assert.Nil(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "lead-2", order.Items[1].LeadID)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(orderRows())

	repo := NewOrderRepository(db)
	order, err := repo.FindByID(context.Background(), "missing")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, entity.ErrOrderNotFound)
}

func TestOrderRepositoryListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs("user-1").
		WillReturnRows(orderRows().
			AddRow("order-2", "user-1", 49.0, 0.0, 19.0, 9.31, 58.31,
				"stripe", "cs_test_2", "pending", nil, nil, now).
			AddRow("order-1", "user-1", 49.0, 0.0, 19.0, 9.31, 58.31,
				"stripe", "cs_test_1", "completed", "INV-2025-00001", now, now))

	repo := NewOrderRepository(db)
	orders, err := repo.ListByUser(context.Background(), "user-1")

	assert.Nil(t, err)
	assert.Len(t, orders, 2)
	assert.Empty(t, orders[0].InvoiceNumber)
	assert.Nil(t, orders[0].CompletedAt)
	assert.Equal(t, "INV-2025-00001", orders[1].InvoiceNumber)
}
