package messaging

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fashionpos/internal/domain"
)

func TestNormalizePhone(t *testing.T) {
	require.Equal(t, "628123456789", NormalizePhone("0812-3456-789"))
	require.Equal(t, "628123456789", NormalizePhone("+62 812 3456 789"))
	require.Equal(t, "15551234", NormalizePhone("1 555 1234"))
	require.Equal(t, "", NormalizePhone("abc"))
}

func TestReceiptLink(t *testing.T) {
	tx := domain.Transaction{
		InvoiceNumber: "INV-20260301-AB12CD",
		Date:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Ani",
		Items: []domain.TransactionItem{
			{Name: "Blouse", Size: "M", Color: "White", Quantity: 1, Price: 95_000},
		},
		Subtotal: 95_000,
		Total:    95_000,
	}

	link, err := ReceiptLink("0812999", tx)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://wa.me/62812999?text="), link)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	require.Contains(t, text, "INV-20260301-AB12CD")
	require.Contains(t, text, "Blouse M/White x1")
	require.Contains(t, text, "Total: Rp 95.000")
}

func TestReceiptLinkRequiresPhone(t *testing.T) {
	_, err := ReceiptLink("  ", domain.Transaction{})
	require.ErrorIs(t, err, domain.ErrValidation)
}
