package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeOverflowRejected    = "OVERFLOW_REJECTED"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeBatchNotFound       = "BATCH_NOT_FOUND"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidPromoCode    = "INVALID_PROMO_CODE"
	ErrCodeInvalidPromoLength  = "INVALID_PROMO_LENGTH"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "Requested status change is not a legal transition from the order's current status")
	ErrInsufficientBalance = NewDomainError(ErrCodeInsufficientBalance, "Redemption exceeds the account's mileage balance")
	ErrOverflowRejected    = NewDomainError(ErrCodeOverflowRejected, "Posting would exceed the safe integer range for a balance")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrBatchNotFound       = NewDomainError(ErrCodeBatchNotFound, "Shipment batch not found")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPromoCode    = NewDomainError(ErrCodeInvalidPromoCode, "Promo code must appear in at least two promo files")
	ErrInvalidPromoLength  = NewDomainError(ErrCodeInvalidPromoLength, "Promo code must be between 8 and 10 characters")
)
