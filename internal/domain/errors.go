package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrStockInsufficient indicates a quantity increase would exceed the
	// fulfilling variant's available stock. The cart is left unchanged.
	ErrStockInsufficient = errors.New("insufficient stock")

	// ErrBarcodeNotFound indicates a scanned code matches no catalog variant.
	ErrBarcodeNotFound = errors.New("barcode not found")

	// ErrValidation indicates bad input caught before any state change or
	// network call.
	ErrValidation = errors.New("invalid input")

	// ErrCheckoutInFlight indicates a checkout submission is already running.
	ErrCheckoutInFlight = errors.New("checkout already in progress")

	// ErrPrinter indicates a receipt printer could not connect or print.
	// Never blocks or reverses a completed sale.
	ErrPrinter = errors.New("printer error")
)
