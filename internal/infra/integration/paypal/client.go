package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

func NewClient(clientID, clientSecret, baseURL string) *Client {
	return &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateOrder opens a CAPTURE-intent order and returns the buyer approval
// URL plus the PayPal order id. The manifest rides in custom_id.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (string, string, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return "", "", err
	}

	manifest, err := json.Marshal(Manifest{
		UserID:       input.UserID,
		LeadIDs:      leadIDsOf(input.Items),
		Prices:       pricesOf(input.Items),
		IsSingleItem: input.IsSingleItem,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	items := make([]orderItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = orderItem{
			Name:        "Pool Lead",
			Description: "Lead ID: " + item.LeadID,
			Quantity:    "1",
			UnitAmount:  eur(item.Price),
			Category:    "DIGITAL_GOODS",
		}
	}

	payload := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount: amount{
				CurrencyCode: "EUR",
				Value:        fmt.Sprintf("%.2f", input.Total),
				Breakdown: &breakdown{
					ItemTotal: eur(input.Net),
					TaxTotal:  eur(input.Tax),
				},
			},
			Items:    items,
			CustomID: string(manifest),
		}},
		ApplicationContext: applicationContext{
			ReturnURL:   input.ReturnURL,
			CancelURL:   input.CancelURL,
			BrandName:   "Poolbau Vergleich",
			Locale:      "de-DE",
			LandingPage: "BILLING",
			UserAction:  "PAY_NOW",
		},
	}

	var response orderResponse
	if err := c.post(ctx, "/v2/checkout/orders", token, payload, &response); err != nil {
		return "", "", err
	}

	if response.Status != "CREATED" {
		return "", "", fmt.Errorf("paypal order creation failed, status %q", response.Status)
	}

	for _, link := range response.Links {
		if link.Rel == "approve" {
			return link.Href, response.ID, nil
		}
	}

	return "", "", errors.New("no paypal approval url in response")
}

// CaptureOrder exchanges an approved order token for a capture confirmation
// and extracts the manifest from custom_id.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var response orderResponse
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", token, struct{}{}, &response); err != nil {
		return nil, err
	}

	result := &CaptureResult{OrderID: orderID, Status: response.Status}

	if response.Status != "COMPLETED" {
		return result, nil
	}

	if len(response.PurchaseUnits) == 0 || response.PurchaseUnits[0].CustomID == "" {
		return nil, errors.New("no custom_id in paypal capture response")
	}
	if err := json.Unmarshal([]byte(response.PurchaseUnits[0].CustomID), &result.Manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest in custom_id: %w", err)
	}

	return result, nil
}

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal rejected token request (status %d): %s", resp.StatusCode, string(raw))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode paypal token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("failed to get paypal access token")
	}

	return tokenResp.AccessToken, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paypal rejected %s (status %d): %s", path, resp.StatusCode, string(raw))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func eur(v float64) money {
	return money{CurrencyCode: "EUR", Value: fmt.Sprintf("%.2f", v)}
}

func leadIDsOf(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.LeadID
	}
	return ids
}

func pricesOf(items []Item) []float64 {
	prices := make([]float64, len(items))
	for i, item := range items {
		prices[i] = item.Price
	}
	return prices
}
