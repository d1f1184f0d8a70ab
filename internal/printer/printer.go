package printer

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fashionpos/internal/domain"
)

// Transport is a receipt output channel. Connect and print failures surface as
// domain.ErrPrinter and must never block or reverse a completed sale.
type Transport interface {
	Name() string
	Connect(ctx context.Context) error
	PrintReceipt(ctx context.Context, tx domain.Transaction) error
}

// devicePrinter writes ESC/POS bytes to a character device. USB and Bluetooth
// printers differ only in which device node the OS binds them to.
type devicePrinter struct {
	name string
	path string
}

// NewUSB targets a USB-attached receipt printer (typically /dev/usb/lp0).
func NewUSB(path string) Transport {
	return &devicePrinter{name: "usb", path: path}
}

// NewBluetooth targets a printer bound to an RFCOMM device (typically
// /dev/rfcomm0).
func NewBluetooth(path string) Transport {
	return &devicePrinter{name: "bluetooth", path: path}
}

func (p *devicePrinter) Name() string { return p.name }

func (p *devicePrinter) Connect(_ context.Context) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: %s connect %s: %v", domain.ErrPrinter, p.name, p.path, err)
	}
	return f.Close()
}

func (p *devicePrinter) PrintReceipt(_ context.Context, tx domain.Transaction) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: %s open %s: %v", domain.ErrPrinter, p.name, p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(Render(tx)); err != nil {
		return fmt.Errorf("%w: %s write: %v", domain.ErrPrinter, p.name, err)
	}
	return nil
}

// ESC/POS control sequences for 58mm thermal printers.
var (
	escInit   = []byte{0x1b, 0x40}
	escCenter = []byte{0x1b, 0x61, 0x01}
	escLeft   = []byte{0x1b, 0x61, 0x00}
	escCut    = []byte{0x1d, 0x56, 0x42, 0x00}
)

// Render lays a transaction out as ESC/POS bytes.
func Render(tx domain.Transaction) []byte {
	var b []byte
	b = append(b, escInit...)
	b = append(b, escCenter...)
	b = append(b, []byte("FASHION POS\n")...)
	b = append(b, []byte(tx.InvoiceNumber+"\n")...)
	b = append(b, []byte(tx.Date.Format("02-01-2006 15:04")+"\n")...)
	b = append(b, escLeft...)
	b = append(b, []byte(strings.Repeat("-", 32)+"\n")...)

	for _, item := range tx.Items {
		b = append(b, []byte(item.Name+" "+item.Size+"/"+item.Color+"\n")...)
		b = append(b, []byte(fmt.Sprintf("  %d x %s = %s\n",
			item.Quantity, Rupiah(item.Price), Rupiah(item.Price*int64(item.Quantity))))...)
	}

	b = append(b, []byte(strings.Repeat("-", 32)+"\n")...)
	b = append(b, []byte("Subtotal  "+Rupiah(tx.Subtotal)+"\n")...)
	if tx.DiscountAmount > 0 {
		b = append(b, []byte("Discount  -"+Rupiah(tx.DiscountAmount)+"\n")...)
	}
	b = append(b, []byte("TOTAL     "+Rupiah(tx.Total)+"\n")...)
	if tx.CustomerName != "" {
		b = append(b, []byte("\nCustomer: "+tx.CustomerName+"\n")...)
	}
	b = append(b, []byte("\nTerima kasih!\n\n")...)
	b = append(b, escCut...)
	return b
}

// Rupiah formats an amount with thousands separators, e.g. Rp 1.250.000.
func Rupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	out := "Rp " + strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
