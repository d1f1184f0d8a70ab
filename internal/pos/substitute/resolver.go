package substitute

import (
	"fashionpos/internal/catalog"
	"fashionpos/internal/domain"
	"fashionpos/internal/pos/cart"
)

// Resolver finds replacement variants when the variant a customer asked for is
// out of stock: same product, same color, a different size, with stock left
// after current cart reservations. A candidate already in the cart stays
// listed; selecting it again increments the existing substituted line.
type Resolver struct {
	snapshot *catalog.Snapshot
	engine   *cart.Engine
}

func New(snapshot *catalog.Snapshot, engine *cart.Engine) *Resolver {
	return &Resolver{snapshot: snapshot, engine: engine}
}

// Candidates lists substitution options for target against the current cart.
func (r *Resolver) Candidates(target domain.Variant) []domain.Variant {
	return Candidates(r.snapshot.Variants(), r.engine.Cart().Lines, target)
}

// Select commits the operator's choice as a substituted cart line.
func (r *Resolver) Select(target, candidate domain.Variant, customPrice *int64) error {
	return r.engine.AddSubstitute(target, candidate, customPrice)
}

// Candidates is the pure candidate computation: variants of the same product
// and color in a different size whose available stock is positive.
func Candidates(variants []domain.Variant, lines []domain.CartLine, target domain.Variant) []domain.Variant {
	var out []domain.Variant
	for _, v := range variants {
		if v.ID == target.ID {
			continue
		}
		if v.Product.ID != target.Product.ID || v.Color != target.Color || v.Size == target.Size {
			continue
		}
		if cart.Available(v, lines) <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}
