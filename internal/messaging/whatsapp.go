package messaging

import (
	"fmt"
	"net/url"
	"strings"

	"fashionpos/internal/domain"
	"fashionpos/internal/printer"
)

// ReceiptLink composes a WhatsApp deep link carrying the transaction summary.
// Delivery is entirely delegated: opening the link hands the message to the
// external channel and no confirmation comes back.
func ReceiptLink(phone string, tx domain.Transaction) (string, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return "", fmt.Errorf("%w: phone number required", domain.ErrValidation)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Terima kasih%s!\n", nameSuffix(tx.CustomerName))
	fmt.Fprintf(&b, "Invoice %s (%s)\n\n", tx.InvoiceNumber, tx.Date.Format("02-01-2006"))
	for _, item := range tx.Items {
		fmt.Fprintf(&b, "%s %s/%s x%d = %s\n",
			item.Name, item.Size, item.Color, item.Quantity, printer.Rupiah(item.Price*int64(item.Quantity)))
	}
	if tx.DiscountAmount > 0 {
		fmt.Fprintf(&b, "\nDiskon: -%s", printer.Rupiah(tx.DiscountAmount))
	}
	fmt.Fprintf(&b, "\nTotal: %s", printer.Rupiah(tx.Total))

	return "https://wa.me/" + normalized + "?text=" + url.QueryEscape(b.String()), nil
}

func nameSuffix(name string) string {
	if name == "" {
		return ""
	}
	return " " + name
}

// NormalizePhone strips formatting and rewrites the Indonesian 0-prefix to the
// 62 country code. Returns "" when no digits remain.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "0"):
		return "62" + s[1:]
	default:
		return s
	}
}
