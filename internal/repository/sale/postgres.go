package sale

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fashionpos/internal/domain"
	variantrepo "fashionpos/internal/repository/variant"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in domain.SaleRequest) (*domain.Transaction, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var subtotal int64
	items := make([]domain.TransactionItem, 0, len(in.Items))
	for _, item := range in.Items {
		if err := variantrepo.DebitStock(ctx, tx, item.VariantID, item.Quantity); err != nil {
			if errors.Is(err, domain.ErrStockInsufficient) {
				return nil, fmt.Errorf("%w: variant %s", domain.ErrStockInsufficient, item.VariantID)
			}
			return nil, err
		}

		var name, size, color string
		err := tx.QueryRow(ctx, `
SELECT p.name, v.size, v.color
FROM variants v
JOIN products p ON p.id = v.product_id
WHERE v.id = $1
`, item.VariantID).Scan(&name, &size, &color)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: variant %s", domain.ErrNotFound, item.VariantID)
			}
			return nil, err
		}

		subtotal += item.Price * int64(item.Quantity)
		items = append(items, domain.TransactionItem{
			VariantID:               item.VariantID,
			Name:                    name,
			Size:                    size,
			Color:                   color,
			Quantity:                item.Quantity,
			Price:                   item.Price,
			SubstituteFromVariantID: item.SubstituteFromVariantID,
		})
	}

	discountAmount := subtotal * int64(in.DiscountPercent) / 100
	total := subtotal - discountAmount
	invoice := newInvoiceNumber(time.Now())

	out := domain.Transaction{
		InvoiceNumber:  invoice,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		Items:          items,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          total,
		Notes:          in.Notes,
	}

	err = tx.QueryRow(ctx, `
INSERT INTO sales (invoice_number, customer_id, customer_name, customer_phone, customer_address,
                   discount_percent, subtotal, discount_amount, total, notes)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''))
RETURNING id::text, created_at
`, invoice, in.CustomerID, in.CustomerName, in.CustomerPhone, in.CustomerAddress,
		in.DiscountPercent, subtotal, discountAmount, total, in.Notes).Scan(&out.ID, &out.Date)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		_, err := tx.Exec(ctx, `
INSERT INTO sale_items (sale_id, variant_id, quantity, price, substitute_from_variant_id)
VALUES ($1, $2, $3, $4, $5)
`, out.ID, item.VariantID, item.Quantity, item.Price, item.SubstituteFromVariantID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("sale repo: created %s total=%d items=%d", invoice, total, len(items))
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var out domain.Transaction
	err := r.pool.QueryRow(ctx, `
SELECT id::text, invoice_number, customer_name, COALESCE(customer_phone, ''),
       subtotal, discount_amount, total, COALESCE(notes, ''), created_at
FROM sales
WHERE id = $1
`, id).Scan(&out.ID, &out.InvoiceNumber, &out.CustomerName, &out.CustomerPhone,
		&out.Subtotal, &out.DiscountAmount, &out.Total, &out.Notes, &out.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT si.variant_id::text, p.name, v.size, v.color, si.quantity, si.price, si.substitute_from_variant_id::text
FROM sale_items si
JOIN variants v ON v.id = si.variant_id
JOIN products p ON p.id = v.product_id
WHERE si.sale_id = $1
ORDER BY si.created_at
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.TransactionItem
		if err := rows.Scan(&item.VariantID, &item.Name, &item.Size, &item.Color,
			&item.Quantity, &item.Price, &item.SubstituteFromVariantID); err != nil {
			return nil, err
		}
		out.Items = append(out.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &out, nil
}

// newInvoiceNumber builds INV-YYYYMMDD-XXXXXX with a random suffix; uniqueness
// is enforced by the database constraint.
func newInvoiceNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "INV-" + at.Format("20060102") + "-" + suffix
}
