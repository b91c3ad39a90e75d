package types

import "errors"

// Domain error values returned by the book and engine. The API layer maps
// these to HTTP status codes; the core never panics on user input.
var (
	// ErrOrderNotFound is returned when an order id is unknown.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotCancellable is returned when cancelling an order that is
	// already filled, cancelled or rejected.
	ErrOrderNotCancellable = errors.New("order is already in a terminal state")

	// ErrSymbolMismatch is returned when an order is submitted to a book
	// for a different symbol.
	ErrSymbolMismatch = errors.New("order symbol does not match book symbol")
)
