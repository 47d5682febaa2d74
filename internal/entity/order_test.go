package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("user-1", PaymentMethodStripe, "cs_test_123", 245.00, 12.25, 44.22, 276.97)
	assert.Nil(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, 19.0, order.TaxRate)
	assert.Empty(t, order.InvoiceNumber)
}

func TestNewOrderValidation(t *testing.T) {
	_, err := NewOrder("", PaymentMethodStripe, "cs_test_123", 49, 0, 9.31, 58.31)
	assert.NotNil(t, err)

	_, err = NewOrder("user-1", PaymentMethodStripe, "", 49, 0, 9.31, 58.31)
	assert.NotNil(t, err)

	_, err = NewOrder("user-1", PaymentMethod("sepa"), "cs_test_123", 49, 0, 9.31, 58.31)
	assert.NotNil(t, err)
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-00001", FormatInvoiceNumber(2025, 1))
	assert.Equal(t, "INV-2025-00042", FormatInvoiceNumber(2025, 42))
	assert.Equal(t, "INV-2026-12345", FormatInvoiceNumber(2026, 12345))
}
