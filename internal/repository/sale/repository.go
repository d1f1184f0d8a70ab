package sale

import (
	"context"

	"fashionpos/internal/domain"
)

// Repository commits sales. Create debits stock and writes the sale and its
// items in one database transaction: either the whole sale lands or nothing
// does.
type Repository interface {
	Create(ctx context.Context, in domain.SaleRequest) (*domain.Transaction, error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
}
