package paypal

// Item is one lead priced in EUR.
type Item struct {
	LeadID string
	Price  float64
}

// Manifest is the checkout context PayPal round-trips back through the
// purchase unit's custom_id. It is the only source of truth at capture time.
type Manifest struct {
	UserID       string    `json:"userId"`
	LeadIDs      []string  `json:"leadIds"`
	Prices       []float64 `json:"prices"`
	IsSingleItem bool      `json:"isSingleItem"`
}

type CreateOrderInput struct {
	UserID       string
	Items        []Item
	IsSingleItem bool

	Net   float64
	Tax   float64
	Total float64

	ReturnURL string
	CancelURL string
}

// CaptureResult is the outcome of the server-side capture of an approved
// order. OrderID doubles as the payment identifier.
type CaptureResult struct {
	OrderID  string
	Status   string
	Manifest Manifest
}

// --- Wire shapes ---

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type amount struct {
	CurrencyCode string     `json:"currency_code"`
	Value        string     `json:"value"`
	Breakdown    *breakdown `json:"breakdown,omitempty"`
}

type breakdown struct {
	ItemTotal money `json:"item_total"`
	TaxTotal  money `json:"tax_total"`
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type orderItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitAmount  money  `json:"unit_amount"`
	Category    string `json:"category"`
}

type purchaseUnit struct {
	Amount   amount      `json:"amount"`
	Items    []orderItem `json:"items,omitempty"`
	CustomID string      `json:"custom_id,omitempty"`
}

type applicationContext struct {
	ReturnURL   string `json:"return_url"`
	CancelURL   string `json:"cancel_url"`
	BrandName   string `json:"brand_name"`
	Locale      string `json:"locale"`
	LandingPage string `json:"landing_page"`
	UserAction  string `json:"user_action"`
}

type createOrderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []purchaseUnit     `json:"purchase_units"`
	ApplicationContext applicationContext `json:"application_context"`
}

type orderLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Links         []orderLink    `json:"links"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}
