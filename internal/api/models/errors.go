package models

import (
	"net/http"

	"github.com/google/uuid"
)

// ErrorCode represents standard error codes
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"
	ErrInvalidOrderType    ErrorCode = "INVALID_ORDER_TYPE"
	ErrInvalidSide         ErrorCode = "INVALID_SIDE"
	ErrInvalidPrice        ErrorCode = "INVALID_PRICE"
	ErrInvalidQuantity     ErrorCode = "INVALID_QUANTITY"
	ErrInvalidSymbol       ErrorCode = "INVALID_SYMBOL"
	ErrInvalidUserID       ErrorCode = "INVALID_USER_ID"
	ErrInvalidOrderID      ErrorCode = "INVALID_ORDER_ID"
	ErrMissingPrice        ErrorCode = "MISSING_PRICE"
	ErrOrderNotFound       ErrorCode = "ORDER_NOT_FOUND"
	ErrOrderNotCancellable ErrorCode = "ORDER_NOT_CANCELLABLE"
	ErrOrderRejected       ErrorCode = "ORDER_REJECTED"
	ErrInternalError       ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured error response
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPError wraps an APIError with an HTTP status code
type HTTPError struct {
	StatusCode int
	Error      APIError
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, code ErrorCode, message string, details map[string]interface{}) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Error: APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// Common error constructors

func ErrBadRequest(message string, details map[string]interface{}) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidRequest, message, details)
}

func ErrInvalidOrderTypeError(providedType string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidOrderType,
		"Invalid order type, must be 'market', 'limit', 'stop' or 'stop_limit'",
		map[string]interface{}{"provided_value": providedType})
}

func ErrInvalidSideError(providedSide string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidSide,
		"Invalid side, must be 'buy' or 'sell'",
		map[string]interface{}{"provided_value": providedSide})
}

func ErrInvalidPriceError(price string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidPrice,
		"Price must be a positive decimal number",
		map[string]interface{}{"field": "price", "provided_value": price})
}

func ErrInvalidQuantityError(quantity string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidQuantity,
		"Quantity must be a positive decimal number",
		map[string]interface{}{"field": "quantity", "provided_value": quantity})
}

func ErrInvalidSymbolError(symbol string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidSymbol,
		"Symbol must be between 1 and 20 characters",
		map[string]interface{}{"field": "symbol", "provided_value": symbol})
}

func ErrInvalidUserIDError(userID string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidUserID,
		"user_id must be a valid UUID",
		map[string]interface{}{"field": "user_id", "provided_value": userID})
}

func ErrInvalidOrderIDError(orderID string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidOrderID,
		"Order id must be a valid UUID",
		map[string]interface{}{"provided_value": orderID})
}

func ErrMissingPriceError() *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, ErrMissingPrice,
		"Price is required for limit orders", nil)
}

func ErrOrderNotFoundError(orderID uuid.UUID) *HTTPError {
	return NewHTTPError(http.StatusNotFound, ErrOrderNotFound,
		"Order not found",
		map[string]interface{}{"order_id": orderID.String()})
}

func ErrOrderNotCancellableError(orderID uuid.UUID, status string) *HTTPError {
	return NewHTTPError(http.StatusConflict, ErrOrderNotCancellable,
		"Order is already in a terminal state",
		map[string]interface{}{"order_id": orderID.String(), "status": status})
}

func ErrInternal(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, ErrInternalError, message, nil)
}
