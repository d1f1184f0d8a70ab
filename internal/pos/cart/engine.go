package cart

import (
	"fmt"
	"io"
	"log"
	"sync"

	"fashionpos/internal/domain"
	"fashionpos/internal/store"
)

// persister is the slice of the local store the engine needs.
type persister interface {
	Put(key string, v interface{}) error
	Get(key string, out interface{}) (bool, error)
}

// Engine owns the session's cart. All mutation goes through its methods so the
// no-oversell and line-uniqueness invariants are enforced in one place.
//
// The stock rule is uniform for every quantity increase (direct add, substitute
// add, explicit edit): the requested total for a line must not exceed the
// fulfilling variant's raw stock minus reservations held by other lines with
// the same fulfiller. Validation happens before mutation; a rejected operation
// leaves the cart untouched.
type Engine struct {
	mu     sync.Mutex
	cart   domain.Cart
	store  persister
	logger *log.Logger
}

// Persisted snapshots. The cart lines and the checkout fields live under
// separate keys so either can be restored or lost independently.
type persistedCart struct {
	Lines         []domain.CartLine `json:"lines"`
	SourceDraftID string            `json:"sourceDraftId,omitempty"`
}

type persistedFields struct {
	CustomerID      *string `json:"customerId,omitempty"`
	CustomerName    string  `json:"customerName,omitempty"`
	CustomerPhone   string  `json:"customerPhone,omitempty"`
	CustomerAddress string  `json:"customerAddress,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	DiscountPercent int     `json:"discountPercent"`
}

// New builds an Engine. store may be nil (no persistence, used in tests).
func New(st persister, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{store: st, logger: logger}
}

// Restore loads the persisted cart and checkout fields, if any. Malformed or
// absent snapshots leave the engine empty.
func (e *Engine) Restore() {
	if e.store == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var pc persistedCart
	if ok, err := e.store.Get(store.KeyCart, &pc); err != nil {
		e.logger.Printf("cart restore failed: %v", err)
	} else if ok {
		e.cart.Lines = pc.Lines
		e.cart.SourceDraftID = pc.SourceDraftID
	}

	var pf persistedFields
	if ok, err := e.store.Get(store.KeyFields, &pf); err != nil {
		e.logger.Printf("checkout fields restore failed: %v", err)
	} else if ok {
		e.cart.CustomerID = pf.CustomerID
		e.cart.CustomerName = pf.CustomerName
		e.cart.CustomerPhone = pf.CustomerPhone
		e.cart.CustomerAddress = pf.CustomerAddress
		e.cart.Notes = pf.Notes
		e.cart.DiscountPercent = pf.DiscountPercent
	}
}

// Cart returns a copy of the current cart.
func (e *Engine) Cart() domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.cart
	out.Lines = append([]domain.CartLine(nil), e.cart.Lines...)
	return out
}

// Available is the ledger view for UI decisions: raw stock minus current cart
// reservations against v.
func (e *Engine) Available(v domain.Variant) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Available(v, e.cart.Lines)
}

// Add puts one unit of v into the cart as a direct line, or bumps the existing
// direct line by one.
func (e *Engine) Add(v domain.Variant, customPrice *int64) error {
	return e.addLine(v, nil, customPrice)
}

// AddSubstitute puts one unit of fulfiller into the cart on behalf of target,
// keyed by the (target, fulfiller) pair.
func (e *Engine) AddSubstitute(target, fulfiller domain.Variant, customPrice *int64) error {
	return e.addLine(target, &fulfiller, customPrice)
}

func (e *Engine) addLine(target domain.Variant, substitute *domain.Variant, customPrice *int64) error {
	if err := validPrice(customPrice); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	line := domain.CartLine{Target: target, Substitute: substitute, Quantity: 1, CustomPrice: customPrice}
	key := line.Key()
	fulfiller := line.Fulfilling()

	requested := 1
	idx := e.findLine(key)
	if idx >= 0 {
		requested = e.cart.Lines[idx].Quantity + 1
	}
	if requested > fulfiller.Stock-ReservedByOthers(e.cart.Lines, key, fulfiller.ID) {
		return fmt.Errorf("%w: %s", domain.ErrStockInsufficient, fulfiller.Label())
	}

	if idx >= 0 {
		e.cart.Lines[idx].Quantity = requested
	} else {
		e.cart.Lines = append(e.cart.Lines, line)
	}
	e.persistLocked()
	return nil
}

// UpdateQuantity sets a line's quantity. A non-positive quantity removes the
// line. fulfillerID is empty for direct lines.
func (e *Engine) UpdateQuantity(targetID string, quantity int, fulfillerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := domain.LineKey{TargetID: targetID, SubstituteID: fulfillerID}
	idx := e.findLine(key)
	if idx < 0 {
		return fmt.Errorf("%w: cart line %s", domain.ErrNotFound, targetID)
	}
	if quantity <= 0 {
		e.cart.Lines = append(e.cart.Lines[:idx], e.cart.Lines[idx+1:]...)
		e.persistLocked()
		return nil
	}

	fulfiller := e.cart.Lines[idx].Fulfilling()
	if quantity > fulfiller.Stock-ReservedByOthers(e.cart.Lines, key, fulfiller.ID) {
		return fmt.Errorf("%w: %s", domain.ErrStockInsufficient, fulfiller.Label())
	}

	e.cart.Lines[idx].Quantity = quantity
	e.persistLocked()
	return nil
}

// UpdatePrice sets or clears a line's negotiated price override.
func (e *Engine) UpdatePrice(targetID string, price *int64, fulfillerID string) error {
	if err := validPrice(price); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.findLine(domain.LineKey{TargetID: targetID, SubstituteID: fulfillerID})
	if idx < 0 {
		return fmt.Errorf("%w: cart line %s", domain.ErrNotFound, targetID)
	}
	e.cart.Lines[idx].CustomPrice = price
	e.persistLocked()
	return nil
}

// Remove drops a line; removing an absent line is a no-op.
func (e *Engine) Remove(targetID, fulfillerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.findLine(domain.LineKey{TargetID: targetID, SubstituteID: fulfillerID})
	if idx < 0 {
		return
	}
	e.cart.Lines = append(e.cart.Lines[:idx], e.cart.Lines[idx+1:]...)
	e.persistLocked()
}

// Clear empties the cart and resets the checkout fields.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = domain.Cart{}
	e.persistLocked()
}

// AddBarcode resolves a scanned code through lookup and adds the variant as a
// direct line. Scans never trigger the substitute flow.
func (e *Engine) AddBarcode(code string, lookup func(string) (domain.Variant, bool)) error {
	v, ok := lookup(code)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrBarcodeNotFound, code)
	}
	return e.Add(v, nil)
}

// SetCustomer records the selected customer, or free-text contact fields when
// id is nil.
func (e *Engine) SetCustomer(id *string, name, phone, address string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.CustomerID = id
	e.cart.CustomerName = name
	e.cart.CustomerPhone = phone
	e.cart.CustomerAddress = address
	e.persistLocked()
}

// SetNotes records free-text order notes.
func (e *Engine) SetNotes(notes string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.Notes = notes
	e.persistLocked()
}

// SetDiscount sets the percentage discount, 0-100.
func (e *Engine) SetDiscount(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: discount %d%% out of range", domain.ErrValidation, percent)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.DiscountPercent = percent
	e.persistLocked()
	return nil
}

// ReplaceFromDraft overwrites the live cart with the draft's snapshot and
// records the draft id so a later checkout can delete exactly that draft.
// Loading does not merge.
func (e *Engine) ReplaceFromDraft(d domain.Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = d.Cart
	e.cart.Lines = append([]domain.CartLine(nil), d.Cart.Lines...)
	e.cart.SourceDraftID = d.ID
	e.persistLocked()
}

func (e *Engine) findLine(key domain.LineKey) int {
	for i, l := range e.cart.Lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// persistLocked writes both snapshots best-effort; a failed write loses at
// most this mutation, never corrupts stored state.
func (e *Engine) persistLocked() {
	if e.store == nil {
		return
	}
	if err := e.store.Put(store.KeyCart, persistedCart{Lines: e.cart.Lines, SourceDraftID: e.cart.SourceDraftID}); err != nil {
		e.logger.Printf("persist cart: %v", err)
	}
	fields := persistedFields{
		CustomerID:      e.cart.CustomerID,
		CustomerName:    e.cart.CustomerName,
		CustomerPhone:   e.cart.CustomerPhone,
		CustomerAddress: e.cart.CustomerAddress,
		Notes:           e.cart.Notes,
		DiscountPercent: e.cart.DiscountPercent,
	}
	if err := e.store.Put(store.KeyFields, fields); err != nil {
		e.logger.Printf("persist checkout fields: %v", err)
	}
}

func validPrice(p *int64) error {
	if p != nil && *p <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	return nil
}
