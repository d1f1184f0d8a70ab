package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"fashionpos/internal/catalog"
	"fashionpos/internal/domain"
	"fashionpos/internal/pos/cart"
	"fashionpos/internal/pos/checkout"
	"fashionpos/internal/pos/draft"
	"fashionpos/internal/pos/substitute"
	"fashionpos/internal/printer"
)

// Session is the line-oriented terminal frontend for the register. Each input
// line is one command; scanned barcodes arrive either through the `scan`
// command or from a hardware listener feeding the same cart engine.
type Session struct {
	snapshot *catalog.Snapshot
	engine   *cart.Engine
	drafts   *draft.Store
	resolver *substitute.Resolver
	checkout *checkout.Orchestrator
	logger   *log.Logger
}

func New(snapshot *catalog.Snapshot, engine *cart.Engine, drafts *draft.Store, resolver *substitute.Resolver, co *checkout.Orchestrator, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		snapshot: snapshot,
		engine:   engine,
		drafts:   drafts,
		resolver: resolver,
		checkout: co,
		logger:   logger,
	}
}

// Run reads commands from in until ctx is done, the stream closes, or the
// operator quits.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "register ready, type help for commands")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		s.Handle(ctx, line, out)
	}
}

// Handle executes a single command line and writes the outcome to out.
func (s *Session) Handle(ctx context.Context, line string, out io.Writer) {
	cmd, rest := splitCommand(line)
	switch cmd {
	case "help":
		fmt.Fprint(out, helpText)
	case "find":
		s.find(rest, out)
	case "scan":
		s.Scan(rest, out)
	case "cart":
		s.printCart(out)
	case "qty":
		s.updateQuantity(rest, out)
	case "price":
		s.updatePrice(rest, out)
	case "rm":
		s.removeLine(rest, out)
	case "clear":
		s.engine.Clear()
		fmt.Fprintln(out, "cart cleared")
	case "subs":
		s.listSubstitutes(rest, out)
	case "sub":
		s.selectSubstitute(rest, out)
	case "customer":
		s.setCustomer(func(c *domain.Cart) { c.CustomerName = rest })
		fmt.Fprintln(out, "ok")
	case "phone":
		s.setCustomer(func(c *domain.Cart) { c.CustomerPhone = rest })
		fmt.Fprintln(out, "ok")
	case "address":
		s.setCustomer(func(c *domain.Cart) { c.CustomerAddress = rest })
		fmt.Fprintln(out, "ok")
	case "note":
		s.engine.SetNotes(rest)
		fmt.Fprintln(out, "ok")
	case "discount":
		s.setDiscount(rest, out)
	case "save":
		s.saveDraft(rest, out)
	case "drafts":
		s.listDrafts(out)
	case "load":
		s.loadDraft(rest, out)
	case "rmdraft":
		s.drafts.Delete(rest)
		fmt.Fprintln(out, "ok")
	case "checkout":
		s.submit(ctx, out)
	default:
		fmt.Fprintf(out, "unknown command %q, type help\n", cmd)
	}
}

// Scan resolves a barcode against the catalog snapshot and adds one unit.
func (s *Session) Scan(code string, out io.Writer) {
	code = strings.TrimSpace(code)
	if code == "" {
		fmt.Fprintln(out, "usage: scan <barcode>")
		return
	}
	if err := s.engine.AddBarcode(code, s.snapshot.ByBarcode); err != nil {
		fmt.Fprintln(out, errMessage(err))
		return
	}
	v, _ := s.snapshot.ByBarcode(code)
	fmt.Fprintf(out, "added %s\n", v.Label())
}

func (s *Session) find(query string, out io.Writer) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		fmt.Fprintln(out, "usage: find <text>")
		return
	}
	found := 0
	for _, v := range s.snapshot.Variants() {
		if !strings.Contains(strings.ToLower(v.Label()), query) && !strings.Contains(v.Barcode, query) {
			continue
		}
		found++
		fmt.Fprintf(out, "%s  %s  stock %d  %s\n", v.ID, v.Label(), s.engine.Available(v), printer.Rupiah(v.Price()))
	}
	if found == 0 {
		fmt.Fprintln(out, "no matches")
	}
}

func (s *Session) printCart(out io.Writer) {
	c := s.engine.Cart()
	if c.Empty() {
		fmt.Fprintln(out, "cart is empty")
		return
	}
	for i, l := range c.Lines {
		note := ""
		if l.Substituted() {
			note = fmt.Sprintf("  [from %s]", l.Substitute.Label())
		}
		fmt.Fprintf(out, "%2d. %s x%d  %s%s\n", i+1, l.Target.Label(), l.Quantity, printer.Rupiah(l.Total()), note)
	}
	fmt.Fprintf(out, "subtotal %s\n", printer.Rupiah(c.Subtotal()))
	if c.DiscountPercent > 0 {
		fmt.Fprintf(out, "discount %d%% -%s\n", c.DiscountPercent, printer.Rupiah(c.DiscountAmount()))
	}
	fmt.Fprintf(out, "total %s\n", printer.Rupiah(c.Total()))
}

func (s *Session) updateQuantity(args string, out io.Writer) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		fmt.Fprintln(out, "usage: qty <line> <count>")
		return
	}
	l, ok := s.lineAt(fields[0])
	if !ok {
		fmt.Fprintln(out, "no such line")
		return
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintln(out, "usage: qty <line> <count>")
		return
	}
	key := l.Key()
	if err := s.engine.UpdateQuantity(key.TargetID, count, key.SubstituteID); err != nil {
		fmt.Fprintln(out, errMessage(err))
		return
	}
	fmt.Fprintln(out, "ok")
}

func (s *Session) updatePrice(args string, out io.Writer) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		fmt.Fprintln(out, "usage: price <line> <amount|->")
		return
	}
	l, ok := s.lineAt(fields[0])
	if !ok {
		fmt.Fprintln(out, "no such line")
		return
	}
	var price *int64
	if fields[1] != "-" {
		amount, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Fprintln(out, "usage: price <line> <amount|->")
			return
		}
		price = &amount
	}
	key := l.Key()
	if err := s.engine.UpdatePrice(key.TargetID, price, key.SubstituteID); err != nil {
		fmt.Fprintln(out, errMessage(err))
		return
	}
	fmt.Fprintln(out, "ok")
}

func (s *Session) removeLine(args string, out io.Writer) {
	l, ok := s.lineAt(strings.TrimSpace(args))
	if !ok {
		fmt.Fprintln(out, "no such line")
		return
	}
	key := l.Key()
	s.engine.Remove(key.TargetID, key.SubstituteID)
	fmt.Fprintln(out, "ok")
}

func (s *Session) listSubstitutes(args string, out io.Writer) {
	target, ok := s.findVariant(strings.TrimSpace(args))
	if !ok {
		fmt.Fprintln(out, "no such variant")
		return
	}
	candidates := s.resolver.Candidates(target)
	if len(candidates) == 0 {
		fmt.Fprintf(out, "no substitutes for %s\n", target.Label())
		return
	}
	for _, v := range candidates {
		fmt.Fprintf(out, "%s  %s  stock %d  %s\n", v.ID, v.Label(), s.engine.Available(v), printer.Rupiah(v.Price()))
	}
}

func (s *Session) selectSubstitute(args string, out io.Writer) {
	fields := strings.Fields(args)
	if len(fields) != 2 && len(fields) != 3 {
		fmt.Fprintln(out, "usage: sub <target> <candidate> [price]")
		return
	}
	target, ok := s.findVariant(fields[0])
	if !ok {
		fmt.Fprintln(out, "no such target variant")
		return
	}
	candidate, ok := s.findVariant(fields[1])
	if !ok {
		fmt.Fprintln(out, "no such candidate variant")
		return
	}
	var price *int64
	if len(fields) == 3 {
		amount, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			fmt.Fprintln(out, "usage: sub <target> <candidate> [price]")
			return
		}
		price = &amount
	}
	if err := s.resolver.Select(target, candidate, price); err != nil {
		fmt.Fprintln(out, errMessage(err))
		return
	}
	fmt.Fprintf(out, "added %s for %s\n", candidate.Label(), target.Label())
}

func (s *Session) setDiscount(args string, out io.Writer) {
	pct, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		fmt.Fprintln(out, "usage: discount <percent>")
		return
	}
	if err := s.engine.SetDiscount(pct); err != nil {
		fmt.Fprintln(out, errMessage(err))
		return
	}
	fmt.Fprintln(out, "ok")
}

func (s *Session) saveDraft(name string, out io.Writer) {
	d, err := s.drafts.Save(name, s.engine.Cart())
	if err != nil {
		fmt.Fprintln(out, errMessage(err))
		return
	}
	s.engine.Clear()
	fmt.Fprintf(out, "saved draft %s (%s)\n", d.Name, d.ID)
}

func (s *Session) listDrafts(out io.Writer) {
	drafts := s.drafts.List()
	if len(drafts) == 0 {
		fmt.Fprintln(out, "no drafts")
		return
	}
	for _, d := range drafts {
		fmt.Fprintf(out, "%s  %s  %s  %s\n", d.ID, d.Name, printer.Rupiah(d.Total), d.SavedAt.Format("2006-01-02 15:04"))
	}
}

func (s *Session) loadDraft(id string, out io.Writer) {
	d, ok := s.drafts.Get(strings.TrimSpace(id))
	if !ok {
		fmt.Fprintln(out, "no such draft")
		return
	}
	s.engine.ReplaceFromDraft(d)
	fmt.Fprintf(out, "loaded draft %s\n", d.Name)
	s.printCart(out)
}

func (s *Session) submit(ctx context.Context, out io.Writer) {
	tx, err := s.checkout.Submit(ctx)
	if err != nil {
		fmt.Fprintln(out, errMessage(err))
		return
	}
	fmt.Fprintf(out, "sale %s recorded, total %s\n", tx.InvoiceNumber, printer.Rupiah(tx.Total))
}

func (s *Session) setCustomer(apply func(*domain.Cart)) {
	c := s.engine.Cart()
	apply(&c)
	s.engine.SetCustomer(c.CustomerID, c.CustomerName, c.CustomerPhone, c.CustomerAddress)
}

// lineAt resolves a 1-based cart line index.
func (s *Session) lineAt(arg string) (domain.CartLine, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return domain.CartLine{}, false
	}
	lines := s.engine.Cart().Lines
	if n < 1 || n > len(lines) {
		return domain.CartLine{}, false
	}
	return lines[n-1], true
}

// findVariant accepts a variant id or a barcode.
func (s *Session) findVariant(arg string) (domain.Variant, bool) {
	if v, ok := s.snapshot.ByID(arg); ok {
		return v, true
	}
	return s.snapshot.ByBarcode(arg)
}

func errMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrStockInsufficient):
		return "not enough stock: " + err.Error()
	case errors.Is(err, domain.ErrBarcodeNotFound):
		return "barcode not found"
	case errors.Is(err, domain.ErrCheckoutInFlight):
		return "checkout already in progress"
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	default:
		return err.Error()
	}
}

func splitCommand(line string) (string, string) {
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}

const helpText = `commands:
  find <text>            search the catalog
  scan <barcode>         add one unit by barcode
  cart                   show the cart
  qty <line> <count>     set a line's quantity (0 removes)
  price <line> <amt|->   set or clear a negotiated price
  rm <line>              remove a line
  clear                  empty the cart
  subs <variant>         list substitute candidates
  sub <target> <cand> [price]  add a substitute line
  customer/phone/address/note <text>
  discount <percent>     whole-order discount
  save <name>            save cart as draft
  drafts / load <id> / rmdraft <id>
  checkout               submit the sale
  quit
`
