package domain

// LineKey identifies a cart line: the variant the customer asked for plus the
// variant it is fulfilled from, empty when the line is not substituted. The
// same target may appear once per distinct fulfiller.
type LineKey struct {
	TargetID     string
	SubstituteID string
}

// CartLine is one cart entry. Substitute is set only when the line is
// fulfilled from a different variant of the same product/color.
type CartLine struct {
	Target      Variant  `json:"target"`
	Substitute  *Variant `json:"substitute,omitempty"`
	Quantity    int      `json:"quantity"`
	CustomPrice *int64   `json:"customPrice,omitempty"`
}

// Key returns the uniqueness key for this line.
func (l CartLine) Key() LineKey {
	k := LineKey{TargetID: l.Target.ID}
	if l.Substitute != nil {
		k.SubstituteID = l.Substitute.ID
	}
	return k
}

// Substituted reports whether the line is fulfilled from a variant other than
// the one the customer asked for.
func (l CartLine) Substituted() bool {
	return l.Substitute != nil
}

// Fulfilling returns the variant whose stock this line actually claims.
func (l CartLine) Fulfilling() Variant {
	if l.Substitute != nil {
		return *l.Substitute
	}
	return l.Target
}

// EffectivePrice is the negotiated override when set, else the fulfilling
// variant's price.
func (l CartLine) EffectivePrice() int64 {
	if l.CustomPrice != nil {
		return *l.CustomPrice
	}
	return l.Fulfilling().Price()
}

// Total is the line total.
func (l CartLine) Total() int64 {
	return l.EffectivePrice() * int64(l.Quantity)
}

// Cart is the live, session-owned cart plus the checkout fields collected
// alongside it.
type Cart struct {
	Lines           []CartLine `json:"lines"`
	CustomerID      *string    `json:"customerId,omitempty"`
	CustomerName    string     `json:"customerName,omitempty"`
	CustomerPhone   string     `json:"customerPhone,omitempty"`
	CustomerAddress string     `json:"customerAddress,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	DiscountPercent int        `json:"discountPercent"`
	SourceDraftID   string     `json:"sourceDraftId,omitempty"`
}

// Empty reports whether the cart holds no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Subtotal sums line totals before discount.
func (c Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.Total()
	}
	return sum
}

// DiscountAmount is the whole-rupiah discount derived from the percentage.
func (c Cart) DiscountAmount() int64 {
	return c.Subtotal() * int64(c.DiscountPercent) / 100
}

// Total is subtotal minus discount.
func (c Cart) Total() int64 {
	return c.Subtotal() - c.DiscountAmount()
}
