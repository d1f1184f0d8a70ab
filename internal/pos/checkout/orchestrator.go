package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"fashionpos/internal/domain"
	"fashionpos/internal/messaging"
	"fashionpos/internal/pos/cart"
	"fashionpos/internal/printer"
)

// SalesAPI is the sale-submission boundary.
type SalesAPI interface {
	SubmitSale(ctx context.Context, in domain.SaleRequest) (*domain.Transaction, error)
}

type draftDeleter interface {
	Delete(id string)
}

// Orchestrator commits a cart: one submission per attempt, no re-entry while a
// submission is in flight. On success the cart is cleared, the consumed draft
// (if the cart was loaded from one) is removed, and receipt printing plus the
// message handoff run as fire-and-forget side effects that can never roll the
// sale back.
type Orchestrator struct {
	mu         sync.Mutex
	submitting bool

	engine   *cart.Engine
	drafts   draftDeleter
	api      SalesAPI
	printers []printer.Transport
	logger   *log.Logger
}

func New(engine *cart.Engine, drafts draftDeleter, api SalesAPI, printers []printer.Transport, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{engine: engine, drafts: drafts, api: api, printers: printers, logger: logger}
}

// Submitting reports whether a submission is in flight; the UI disables the
// checkout trigger while true.
func (o *Orchestrator) Submitting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.submitting
}

// Submit validates the cart, submits it once, and finalizes local state on
// success. On failure the cart is left intact for a retry.
func (o *Orchestrator) Submit(ctx context.Context) (*domain.Transaction, error) {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		return nil, domain.ErrCheckoutInFlight
	}
	o.submitting = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	snapshot := o.engine.Cart()
	req, err := buildRequest(snapshot)
	if err != nil {
		return nil, err
	}

	tx, err := o.api.SubmitSale(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit sale: %w", err)
	}

	o.engine.Clear()
	if snapshot.SourceDraftID != "" && o.drafts != nil {
		o.drafts.Delete(snapshot.SourceDraftID)
	}

	o.sideEffects(*tx, snapshot.CustomerPhone)
	return tx, nil
}

// buildRequest serializes the cart to the wire format. Note the swap: the
// backend debits the fulfilling variant, and the originally requested variant
// rides along only on substituted lines.
func buildRequest(c domain.Cart) (domain.SaleRequest, error) {
	if c.Empty() {
		return domain.SaleRequest{}, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}
	if strings.TrimSpace(c.CustomerName) == "" {
		return domain.SaleRequest{}, fmt.Errorf("%w: customer name required", domain.ErrValidation)
	}

	items := make([]domain.SaleItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		item := domain.SaleItem{
			VariantID: line.Fulfilling().ID,
			Quantity:  line.Quantity,
			Price:     line.EffectivePrice(),
		}
		if line.Substituted() {
			targetID := line.Target.ID
			item.SubstituteFromVariantID = &targetID
		}
		items = append(items, item)
	}

	return domain.SaleRequest{
		CustomerID:      c.CustomerID,
		CustomerName:    strings.TrimSpace(c.CustomerName),
		CustomerPhone:   strings.TrimSpace(c.CustomerPhone),
		CustomerAddress: strings.TrimSpace(c.CustomerAddress),
		Items:           items,
		DiscountPercent: c.DiscountPercent,
		Notes:           c.Notes,
	}, nil
}

// sideEffects runs printing and messaging after the commit. Failures are
// logged and otherwise ignored.
func (o *Orchestrator) sideEffects(tx domain.Transaction, phone string) {
	for _, p := range o.printers {
		go func(p printer.Transport) {
			ctx := context.Background()
			if err := p.Connect(ctx); err != nil {
				o.logger.Printf("receipt printing skipped: %v", err)
				return
			}
			if err := p.PrintReceipt(ctx, tx); err != nil {
				o.logger.Printf("receipt printing failed: %v", err)
			}
		}(p)
	}

	if phone != "" {
		if link, err := messaging.ReceiptLink(phone, tx); err == nil {
			o.logger.Printf("receipt message ready: %s", link)
		} else {
			o.logger.Printf("receipt message skipped: %v", err)
		}
	}
}
