package cart

import (
	"encoding/json"
	"errors"
	"testing"

	"fashionpos/internal/domain"
)

// memStore keeps persisted snapshots as marshaled JSON, like the real store.
type memStore struct {
	values map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{values: map[string][]byte{}}
}

func (m *memStore) Put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.values[key] = data
	return nil
}

func (m *memStore) Get(key string, out interface{}) (bool, error) {
	data, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

func intPtr(v int64) *int64 { return &v }

func variant(id string, stock int, price int64) domain.Variant {
	return domain.Variant{
		ID:      id,
		Product: domain.Product{ID: "p-" + id, Name: "Shirt", Price: price},
		Size:    "M",
		Color:   "Black",
		Stock:   stock,
	}
}

func TestAddUntilStockExhausted(t *testing.T) {
	e := New(nil, nil)
	v := variant("v1", 5, 100_000)

	for i := 0; i < 5; i++ {
		if err := e.Add(v, nil); err != nil {
			t.Fatalf("add %d: unexpected error: %v", i+1, err)
		}
	}

	cart := e.Cart()
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected one line with quantity 5, got %+v", cart.Lines)
	}

	if err := e.Add(v, nil); !errors.Is(err, domain.ErrStockInsufficient) {
		t.Fatalf("expected stock error on sixth add, got %v", err)
	}
	if got := e.Cart().Lines[0].Quantity; got != 5 {
		t.Fatalf("rejected add must not mutate cart, quantity=%d", got)
	}
}

func TestAddZeroStockRejected(t *testing.T) {
	e := New(nil, nil)
	if err := e.Add(variant("v1", 0, 1000), nil); !errors.Is(err, domain.ErrStockInsufficient) {
		t.Fatalf("expected stock error, got %v", err)
	}
	if !e.Cart().Empty() {
		t.Fatalf("cart must stay empty")
	}
}

func TestDirectAndSubstitutedLinesCoexist(t *testing.T) {
	e := New(nil, nil)
	target := variant("vm", 0, 1000)
	fulfiller := variant("vs", 3, 1000)
	fulfiller.Size = "S"

	if err := e.AddSubstitute(target, fulfiller, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Add(fulfiller, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart := e.Cart()
	if len(cart.Lines) != 2 {
		t.Fatalf("expected two distinct lines, got %+v", cart.Lines)
	}
	// Both lines claim vs: 1 substituted + 1 direct = 2 of 3.
	if got := Reserved(cart.Lines, "vs"); got != 2 {
		t.Fatalf("expected 2 reserved against vs, got %d", got)
	}
}

func TestSharedFulfillerCannotOversell(t *testing.T) {
	e := New(nil, nil)
	target := variant("vm", 0, 1000)
	fulfiller := variant("vs", 3, 1000)
	fulfiller.Size = "S"

	// Substituted line takes 2, direct line takes 1: vs is exhausted.
	if err := e.AddSubstitute(target, fulfiller, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AddSubstitute(target, fulfiller, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Add(fulfiller, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := e.Add(fulfiller, nil); !errors.Is(err, domain.ErrStockInsufficient) {
		t.Fatalf("direct add past shared stock must fail, got %v", err)
	}
	if err := e.AddSubstitute(target, fulfiller, nil); !errors.Is(err, domain.ErrStockInsufficient) {
		t.Fatalf("substitute add past shared stock must fail, got %v", err)
	}
	if got := Reserved(e.Cart().Lines, "vs"); got != 3 {
		t.Fatalf("reservations must never exceed raw stock, got %d", got)
	}
}

func TestSubstituteScenario(t *testing.T) {
	e := New(nil, nil)
	target := variant("vm", 0, 1000)
	fulfiller := variant("vs", 3, 1000)
	fulfiller.Size = "S"

	for i := 0; i < 3; i++ {
		if err := e.AddSubstitute(target, fulfiller, nil); err != nil {
			t.Fatalf("substitute add %d: unexpected error: %v", i+1, err)
		}
	}

	cart := e.Cart()
	if len(cart.Lines) != 1 {
		t.Fatalf("repeated selection of same substitute must keep one line, got %+v", cart.Lines)
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Lines[0].Quantity)
	}
	if key := cart.Lines[0].Key(); key != (domain.LineKey{TargetID: "vm", SubstituteID: "vs"}) {
		t.Fatalf("unexpected line key %+v", key)
	}

	if err := e.AddSubstitute(target, fulfiller, nil); !errors.Is(err, domain.ErrStockInsufficient) {
		t.Fatalf("fourth substitute add must fail, got %v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	e := New(nil, nil)
	v := variant("v1", 5, 1000)
	if err := e.Add(v, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := e.UpdateQuantity("v1", 5, ""); err != nil {
		t.Fatalf("edit up to raw stock must pass: %v", err)
	}
	if err := e.UpdateQuantity("v1", 6, ""); !errors.Is(err, domain.ErrStockInsufficient) {
		t.Fatalf("edit past raw stock must fail, got %v", err)
	}
	if got := e.Cart().Lines[0].Quantity; got != 5 {
		t.Fatalf("rejected edit must not mutate, quantity=%d", got)
	}

	if err := e.UpdateQuantity("v1", 0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Cart().Empty() {
		t.Fatalf("zero quantity must remove the line")
	}

	if err := e.UpdateQuantity("v1", 1, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("editing a missing line must report not found, got %v", err)
	}
}

func TestUpdatePrice(t *testing.T) {
	e := New(nil, nil)
	v := variant("v1", 5, 80_000)
	if err := e.Add(v, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := e.UpdatePrice("v1", intPtr(-5), ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("non-positive price must be rejected, got %v", err)
	}
	if err := e.UpdatePrice("v1", intPtr(60_000), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Cart().Lines[0].EffectivePrice(); got != 60_000 {
		t.Fatalf("expected override 60000, got %d", got)
	}

	// Clearing the override falls back to the variant price.
	if err := e.UpdatePrice("v1", nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Cart().Lines[0].EffectivePrice(); got != 80_000 {
		t.Fatalf("expected variant price 80000, got %d", got)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	e := New(nil, nil)
	if err := e.Add(variant("v1", 2, 1000), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Remove("v1", "")
	e.Remove("v1", "")
	e.Remove("ghost", "")
	if !e.Cart().Empty() {
		t.Fatalf("expected empty cart")
	}
}

func TestDiscountTotals(t *testing.T) {
	e := New(nil, nil)
	if err := e.Add(variant("v1", 5, 100_000), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.SetDiscount(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart := e.Cart()
	if cart.Subtotal() != 100_000 {
		t.Fatalf("expected subtotal 100000, got %d", cart.Subtotal())
	}
	if cart.DiscountAmount() != 10_000 {
		t.Fatalf("expected discount 10000, got %d", cart.DiscountAmount())
	}
	if cart.Total() != 90_000 {
		t.Fatalf("expected total 90000, got %d", cart.Total())
	}

	if err := e.SetDiscount(101); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("discount over 100 must be rejected, got %v", err)
	}
}

func TestAddBarcode(t *testing.T) {
	e := New(nil, nil)
	v := variant("v1", 2, 1000)
	lookup := func(code string) (domain.Variant, bool) {
		if code == "111" {
			return v, true
		}
		return domain.Variant{}, false
	}

	if err := e.AddBarcode("111", lookup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AddBarcode("111", lookup); err != nil {
		t.Fatalf("rescan must increment: %v", err)
	}
	if got := e.Cart().Lines[0].Quantity; got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}

	if err := e.AddBarcode("999", lookup); !errors.Is(err, domain.ErrBarcodeNotFound) {
		t.Fatalf("unknown code must report barcode not found, got %v", err)
	}
}

func TestPersistRoundTrip(t *testing.T) {
	st := newMemStore()

	e := New(st, nil)
	if err := e.Add(variant("v1", 5, 100_000), intPtr(90_000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.SetDiscount(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.SetCustomer(nil, "Ani", "08123", "Jl. Merdeka 1")
	e.SetNotes("pickup tomorrow")

	restored := New(st, nil)
	restored.Restore()

	want := e.Cart()
	got := restored.Cart()
	if len(got.Lines) != 1 || got.Lines[0].Key() != want.Lines[0].Key() {
		t.Fatalf("lines did not survive restore: %+v", got.Lines)
	}
	if got.Lines[0].Quantity != 1 || got.Lines[0].EffectivePrice() != 90_000 {
		t.Fatalf("line detail did not survive restore: %+v", got.Lines[0])
	}
	if got.CustomerName != "Ani" || got.CustomerPhone != "08123" || got.CustomerAddress != "Jl. Merdeka 1" {
		t.Fatalf("customer fields did not survive restore: %+v", got)
	}
	if got.Notes != "pickup tomorrow" || got.DiscountPercent != 10 {
		t.Fatalf("notes/discount did not survive restore: %+v", got)
	}
	if got.Total() != want.Total() {
		t.Fatalf("totals diverged after restore: %d != %d", got.Total(), want.Total())
	}
}

func TestReplaceFromDraftOverwrites(t *testing.T) {
	e := New(nil, nil)
	if err := e.Add(variant("v1", 5, 1000), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := domain.Draft{
		ID:   "d1",
		Name: "afternoon",
		Cart: domain.Cart{
			Lines:           []domain.CartLine{{Target: variant("v2", 2, 2000), Quantity: 2}},
			CustomerName:    "Budi",
			DiscountPercent: 5,
		},
	}
	e.ReplaceFromDraft(d)

	cart := e.Cart()
	if len(cart.Lines) != 1 || cart.Lines[0].Target.ID != "v2" {
		t.Fatalf("draft load must overwrite, not merge: %+v", cart.Lines)
	}
	if cart.SourceDraftID != "d1" {
		t.Fatalf("expected source draft id d1, got %q", cart.SourceDraftID)
	}
	if cart.CustomerName != "Budi" || cart.DiscountPercent != 5 {
		t.Fatalf("draft fields not applied: %+v", cart)
	}
}
