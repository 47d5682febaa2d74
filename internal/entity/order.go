package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// German VAT applied to every order.
const TaxRatePercent = 19.0

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicatePayment = errors.New("payment already processed")
)

// Order is one completed checkout transaction. PaymentID is the
// provider-assigned identifier and the idempotency key: it is unique across
// all orders. InvoiceNumber is assigned only on completion.
type Order struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	TaxRate   float64 `json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentID     string        `json:"payment_id"`

	Status        OrderStatus `json:"status"`
	InvoiceNumber string      `json:"invoice_number,omitempty"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the lead price at purchase time, protecting the order
// against later price changes on the lead.
type OrderItem struct {
	ID      string  `json:"id"`
	OrderID string  `json:"order_id"`
	LeadID  string  `json:"lead_id"`
	Price   float64 `json:"price"`
}

func NewOrder(userID string, method PaymentMethod, paymentID string, subtotal, discount, taxAmount, total float64) (*Order, error) {
	if userID == "" {
		return nil, errors.New("user_id is required")
	}
	if paymentID == "" {
		return nil, errors.New("payment_id is required")
	}
	if method != PaymentMethodStripe && method != PaymentMethodPayPal {
		return nil, errors.New("payment_method must be stripe or paypal")
	}

	return &Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		Subtotal:      subtotal,
		Discount:      discount,
		TaxRate:       TaxRatePercent,
		TaxAmount:     taxAmount,
		Total:         total,
		PaymentMethod: method,
		PaymentID:     paymentID,
		Status:        OrderStatusPending,
		CreatedAt:     time.Now(),
	}, nil
}

// FormatInvoiceNumber renders the user-facing invoice identifier,
// e.g. INV-2025-00001. Sequences restart each calendar year.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%05d", year, seq)
}
