package customer

import (
	"context"

	"fashionpos/internal/domain"
)

// Repository persists and fetches customers.
type Repository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
}
