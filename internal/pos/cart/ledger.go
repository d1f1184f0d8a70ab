package cart

import "fashionpos/internal/domain"

// The stock ledger is pure arithmetic over the cart: a variant's available
// stock is its raw on-hand count minus every quantity already claimed by cart
// lines fulfilled from it. A variant can fulfil several distinct targets
// through substitution, so reservations are always summed across all lines.

// Reserved sums the quantities of all lines whose fulfilling variant is
// variantID.
func Reserved(lines []domain.CartLine, variantID string) int {
	total := 0
	for _, l := range lines {
		if l.Fulfilling().ID == variantID {
			total += l.Quantity
		}
	}
	return total
}

// ReservedByOthers sums reservations against variantID held by every line
// except the one identified by exclude. Used when editing a line: the line's
// own current quantity is not counted against its requested new total.
func ReservedByOthers(lines []domain.CartLine, exclude domain.LineKey, variantID string) int {
	total := 0
	for _, l := range lines {
		if l.Key() == exclude {
			continue
		}
		if l.Fulfilling().ID == variantID {
			total += l.Quantity
		}
	}
	return total
}

// Available is the variant's raw stock minus all current cart reservations.
func Available(v domain.Variant, lines []domain.CartLine) int {
	return v.Stock - Reserved(lines, v.ID)
}
