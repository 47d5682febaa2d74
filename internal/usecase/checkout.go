package usecase

import (
	"context"
	"fmt"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/paypal"
	"github.com/poolbau-vergleich/leadmarket/internal/infra/integration/stripe"
)

type CheckoutInput struct {
	UserID string        `json:"-"`
	Items  []PricingItem `json:"items"`
	// IsSingleItem marks the one-click buy-now flow. It changes post-payment
	// cart cleanup, not pricing.
	IsSingleItem bool `json:"is_single_item"`
}

type CheckoutOutput struct {
	RedirectURL string `json:"redirect_url"`
}

// CreateCheckoutSessionUseCase is the payment session initiator: it rejects
// invalid or duplicate purchases, prices the cart and opens a
// provider-hosted payment page. No order row is written here: the
// provider's payment id is the sole idempotency anchor and it does not exist
// until the provider confirms.
type CreateCheckoutSessionUseCase struct {
	PurchaseRepo PurchaseRepositoryInterface
	Stripe       StripeGateway
	PayPal       PayPalGateway
	PublicURL    string
}

func NewCreateCheckoutSessionUseCase(
	purchaseRepo PurchaseRepositoryInterface,
	stripeGateway StripeGateway,
	paypalGateway PayPalGateway,
	publicURL string,
) *CreateCheckoutSessionUseCase {
	return &CreateCheckoutSessionUseCase{
		PurchaseRepo: purchaseRepo,
		Stripe:       stripeGateway,
		PayPal:       paypalGateway,
		PublicURL:    publicURL,
	}
}

func (uc *CreateCheckoutSessionUseCase) Execute(ctx context.Context, method entity.PaymentMethod, input CheckoutInput) (*CheckoutOutput, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	pricing := CalculatePricing(input.Items)

	switch method {
	case entity.PaymentMethodStripe:
		return uc.stripeSession(ctx, input, pricing)
	case entity.PaymentMethodPayPal:
		return uc.paypalOrder(ctx, input, pricing)
	default:
		return nil, &DomainError{Code: CodeValidation, Message: "payment method must be stripe or paypal"}
	}
}

func (uc *CreateCheckoutSessionUseCase) validate(ctx context.Context, input CheckoutInput) error {
	if input.UserID == "" {
		return &DomainError{Code: CodeValidation, Message: "user id is required"}
	}
	if len(input.Items) == 0 {
		return &DomainError{Code: CodeEmptyCheckout, Message: "no items provided"}
	}

	for _, item := range input.Items {
		if item.LeadID == "" {
			return &DomainError{Code: CodeValidation, Message: "item without lead id"}
		}
		if item.Price <= 0 {
			return &DomainError{Code: CodeValidation, Message: "item price must be positive"}
		}

		purchased, err := uc.PurchaseRepo.HasGrant(ctx, input.UserID, item.LeadID)
		if err != nil {
			return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
		}
		if purchased {
			return &DomainError{
				Code:    CodeDuplicatePurchase,
				Message: fmt.Sprintf("lead %s wurde bereits gekauft", item.LeadID),
			}
		}
	}

	return nil
}

func (uc *CreateCheckoutSessionUseCase) stripeSession(ctx context.Context, input CheckoutInput, pricing PricingBreakdown) (*CheckoutOutput, error) {
	items := make([]stripe.LineItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = stripe.LineItem{LeadID: item.LeadID, Price: item.Price}
	}

	url, err := uc.Stripe.CreateCheckoutSession(ctx, stripe.CheckoutSessionInput{
		UserID:         input.UserID,
		Items:          items,
		IsSingleItem:   input.IsSingleItem,
		Subtotal:       RoundAmount(pricing.Subtotal),
		DiscountRate:   pricing.DiscountRate,
		DiscountAmount: RoundAmount(pricing.DiscountAmount),
		TaxAmount:      RoundAmount(pricing.TaxAmount),
		Total:          RoundAmount(pricing.Total),
		SuccessURL:     uc.PublicURL + "/dashboard/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      uc.PublicURL + "/dashboard/checkout/cancel",
	})
	if err != nil {
		return nil, &DomainError{Code: CodePaymentFailed, Message: "stripe rejected the checkout session: " + err.Error()}
	}

	return &CheckoutOutput{RedirectURL: url}, nil
}

func (uc *CreateCheckoutSessionUseCase) paypalOrder(ctx context.Context, input CheckoutInput, pricing PricingBreakdown) (*CheckoutOutput, error) {
	items := make([]paypal.Item, len(input.Items))
	for i, item := range input.Items {
		items[i] = paypal.Item{LeadID: item.LeadID, Price: item.Price}
	}

	approvalURL, _, err := uc.PayPal.CreateOrder(ctx, paypal.CreateOrderInput{
		UserID:       input.UserID,
		Items:        items,
		IsSingleItem: input.IsSingleItem,
		Net:          RoundAmount(pricing.NetAfterDiscount),
		Tax:          RoundAmount(pricing.TaxAmount),
		Total:        RoundAmount(pricing.Total),
		ReturnURL:    uc.PublicURL + "/api/checkout/paypal/capture",
		CancelURL:    uc.PublicURL + "/dashboard/checkout/cancel",
	})
	if err != nil {
		return nil, &DomainError{Code: CodePaymentFailed, Message: "paypal rejected the order: " + err.Error()}
	}

	return &CheckoutOutput{RedirectURL: approvalURL}, nil
}
