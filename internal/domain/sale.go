package domain

import "time"

// SaleItem is the wire form of one cart line. VariantID names the variant the
// backend debits stock from; SubstituteFromVariantID carries the variant the
// customer originally asked for when the line was substituted.
type SaleItem struct {
	VariantID               string  `json:"variantId"`
	Quantity                int     `json:"quantity"`
	Price                   int64   `json:"price"`
	SubstituteFromVariantID *string `json:"substituteFromVariantId,omitempty"`
}

// SaleRequest is the sale-submission request body.
type SaleRequest struct {
	CustomerID      *string    `json:"customerId,omitempty"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone,omitempty"`
	CustomerAddress string     `json:"customerAddress,omitempty"`
	Items           []SaleItem `json:"items"`
	DiscountPercent int        `json:"discount"`
	Notes           string     `json:"notes,omitempty"`
}

// TransactionItem is one committed sale line as returned by the backend.
type TransactionItem struct {
	VariantID               string  `json:"variantId"`
	Name                    string  `json:"name"`
	Size                    string  `json:"size"`
	Color                   string  `json:"color"`
	Quantity                int     `json:"quantity"`
	Price                   int64   `json:"price"`
	SubstituteFromVariantID *string `json:"substituteFromVariantId,omitempty"`
}

// Transaction is a committed sale.
type Transaction struct {
	ID             string            `json:"id"`
	InvoiceNumber  string            `json:"invoiceNumber"`
	Date           time.Time         `json:"date"`
	CustomerName   string            `json:"customerName"`
	CustomerPhone  string            `json:"customerPhone,omitempty"`
	Items          []TransactionItem `json:"items"`
	Subtotal       int64             `json:"subtotal"`
	DiscountAmount int64             `json:"discountAmount"`
	Total          int64             `json:"total"`
	Notes          string            `json:"notes,omitempty"`
}
