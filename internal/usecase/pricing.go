package usecase

import "math"

// German VAT, fixed for every order.
const TaxRate = 0.19

// Carts with at least this many leads get the bulk discount.
const (
	BulkDiscountMinItems = 5
	BulkDiscountRate     = 0.05
)

type PricingItem struct {
	LeadID string  `json:"lead_id"`
	Price  float64 `json:"price"`
}

type PricingBreakdown struct {
	Subtotal         float64 `json:"subtotal"`
	DiscountRate     float64 `json:"discount_rate"`
	DiscountAmount   float64 `json:"discount_amount"`
	NetAfterDiscount float64 `json:"net_after_discount"`
	TaxAmount        float64 `json:"tax_amount"`
	Total            float64 `json:"total"`
}

// CalculatePricing computes the checkout totals. Arithmetic stays in full
// float precision; rounding happens only at the provider/presentation
// boundary via RoundAmount. Empty carts are rejected by the caller.
func CalculatePricing(items []PricingItem) PricingBreakdown {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price
	}

	discountRate := 0.0
	if len(items) >= BulkDiscountMinItems {
		discountRate = BulkDiscountRate
	}

	discountAmount := subtotal * discountRate
	net := subtotal - discountAmount
	taxAmount := net * TaxRate

	return PricingBreakdown{
		Subtotal:         subtotal,
		DiscountRate:     discountRate,
		DiscountAmount:   discountAmount,
		NetAfterDiscount: net,
		TaxAmount:        taxAmount,
		Total:            net + taxAmount,
	}
}

// RoundAmount rounds a monetary value to 2 decimal places for storage and
// provider submission.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
