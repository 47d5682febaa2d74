package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCheckoutSession opens a hosted payment page and returns its redirect
// URL. The manifest travels as session metadata; Stripe echoes it back on the
// checkout.session.completed webhook.
func (c *Client) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (string, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("currency", "eur")
	form.Set("locale", "de")
	form.Set("success_url", input.SuccessURL)
	form.Set("cancel_url", input.CancelURL)
	form.Set("payment_method_types[0]", "card")

	for i, item := range input.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", "1")
		form.Set(prefix+"[price_data][currency]", "eur")
		form.Set(prefix+"[price_data][unit_amount]", strconv.Itoa(cents(item.Price)))
		form.Set(prefix+"[price_data][product_data][name]", "Pool Lead")
		form.Set(prefix+"[price_data][product_data][description]", "Lead ID: "+item.LeadID)
	}

	if input.DiscountAmount > 0 {
		prefix := fmt.Sprintf("line_items[%d]", len(input.Items))
		form.Set(prefix+"[quantity]", "1")
		form.Set(prefix+"[price_data][currency]", "eur")
		form.Set(prefix+"[price_data][unit_amount]", strconv.Itoa(-cents(input.DiscountAmount)))
		form.Set(prefix+"[price_data][product_data][name]",
			fmt.Sprintf("Mengenrabatt (%.0f%%)", input.DiscountRate*100))
	}

	leadIDs, err := json.Marshal(leadIDsOf(input.Items))
	if err != nil {
		return "", err
	}
	prices, err := json.Marshal(pricesOf(input.Items))
	if err != nil {
		return "", err
	}

	form.Set("metadata[user_id]", input.UserID)
	form.Set("metadata[lead_ids]", string(leadIDs))
	form.Set("metadata[prices]", string(prices))
	form.Set("metadata[is_single_item]", strconv.FormatBool(input.IsSingleItem))
	form.Set("metadata[subtotal]", fmt.Sprintf("%.2f", input.Subtotal))
	form.Set("metadata[discount]", fmt.Sprintf("%.2f", input.DiscountAmount))
	form.Set("metadata[tax_amount]", fmt.Sprintf("%.2f", input.TaxAmount))
	form.Set("metadata[total]", fmt.Sprintf("%.2f", input.Total))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("stripe rejected checkout session (status %d): %s", resp.StatusCode, string(body))
	}

	var session checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("failed to decode stripe response: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("stripe returned no redirect url for session %s", session.ID)
	}

	return session.URL, nil
}

func cents(v float64) int {
	return int(math.Round(v * 100))
}

func leadIDsOf(items []LineItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.LeadID
	}
	return ids
}

func pricesOf(items []LineItem) []float64 {
	prices := make([]float64, len(items))
	for i, item := range items {
		prices[i] = item.Price
	}
	return prices
}
