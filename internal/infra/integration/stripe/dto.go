package stripe

// LineItem is one lead priced in EUR.
type LineItem struct {
	LeadID string
	Price  float64
}

// CheckoutSessionInput carries everything needed to open a hosted Checkout
// Session. The manifest fields are round-tripped back through session
// metadata on the webhook.
type CheckoutSessionInput struct {
	UserID       string
	Items        []LineItem
	IsSingleItem bool

	Subtotal       float64
	DiscountRate   float64
	DiscountAmount float64
	TaxAmount      float64
	Total          float64

	SuccessURL string
	CancelURL  string
}

// --- What Stripe sends back on session creation ---

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// --- Webhook event shapes ---

type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}
