package domain

import "testing"

func price(v int64) *int64 { return &v }

func TestEffectivePriceFallbackChain(t *testing.T) {
	target := Variant{ID: "v1", Product: Product{ID: "p1", Name: "Kemeja", Price: 185000}}
	fulfiller := Variant{ID: "v2", Product: Product{ID: "p1", Name: "Kemeja", Price: 185000}, SellingPrice: price(175000)}

	// A direct line prices from its own variant.
	direct := CartLine{Target: target, Quantity: 1}
	if got := direct.EffectivePrice(); got != 185000 {
		t.Fatalf("direct line price: got %d, want 185000", got)
	}

	// A substituted line prices from the fulfilling variant, the unit that
	// actually leaves the shelf.
	substituted := CartLine{Target: target, Substitute: &fulfiller, Quantity: 2}
	if got := substituted.EffectivePrice(); got != 175000 {
		t.Fatalf("substituted line price: got %d, want 175000", got)
	}
	if got := substituted.Total(); got != 350000 {
		t.Fatalf("substituted line total: got %d, want 350000", got)
	}

	// An override wins over both.
	substituted.CustomPrice = price(150000)
	if got := substituted.EffectivePrice(); got != 150000 {
		t.Fatalf("override price: got %d, want 150000", got)
	}
}
