package usecase

// DomainError is a business-rule rejection the caller can act on.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError wraps infrastructure failures (database, queue, provider).
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// Domain error codes surfaced over the API.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeEmptyCheckout     = "EMPTY_CHECKOUT"
	CodeDuplicatePurchase = "DUPLICATE_PURCHASE"
	CodeLeadNotAvailable  = "LEAD_NOT_AVAILABLE"
	CodePaymentFailed     = "PAYMENT_FAILED"
)
