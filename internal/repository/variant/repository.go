package variant

import (
	"context"

	"fashionpos/internal/domain"
)

// UpsertInput identifies a variant by its natural key (product, size, color).
type UpsertInput struct {
	ProductName  string
	ProductPrice int64
	Size         string
	Color        string
	Barcode      string
	Stock        int
	SellingPrice *int64
}

type Repository interface {
	List(ctx context.Context, search string) ([]domain.Variant, error)
	GetByID(ctx context.Context, id string) (*domain.Variant, error)
	Upsert(ctx context.Context, in UpsertInput) (*domain.Variant, error)
}
