package variant

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fashionpos/internal/domain"
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

const variantColumns = `
v.id::text, v.size, v.color, COALESCE(v.barcode, ''), v.stock, v.selling_price, v.created_at,
p.id::text, p.name, p.price
`

func scanVariant(row pgx.Row) (domain.Variant, error) {
	var v domain.Variant
	err := row.Scan(
		&v.ID, &v.Size, &v.Color, &v.Barcode, &v.Stock, &v.SellingPrice, &v.CreatedAt,
		&v.Product.ID, &v.Product.Name, &v.Product.Price,
	)
	return v, err
}

func (r *postgresRepo) List(ctx context.Context, search string) ([]domain.Variant, error) {
	q := `
SELECT ` + variantColumns + `
FROM variants v
JOIN products p ON p.id = v.product_id
`
	args := []interface{}{}
	if search != "" {
		q += `
WHERE p.name ILIKE '%' || $1 || '%'
   OR v.size ILIKE $1
   OR v.color ILIKE '%' || $1 || '%'
   OR v.barcode = $1
`
		args = append(args, search)
	}
	q += `
ORDER BY p.name, v.color, v.size
`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("variant repo: list search=%q error=%v", search, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("variant repo: list search=%q count=%d", search, len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Variant, error) {
	q := `
SELECT ` + variantColumns + `
FROM variants v
JOIN products p ON p.id = v.product_id
WHERE v.id = $1
`
	v, err := scanVariant(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, in UpsertInput) (*domain.Variant, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var productID string
	err = tx.QueryRow(ctx, `
INSERT INTO products (name, price)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price
RETURNING id::text
`, in.ProductName, in.ProductPrice).Scan(&productID)
	if err != nil {
		return nil, err
	}

	var variantID string
	err = tx.QueryRow(ctx, `
INSERT INTO variants (product_id, size, color, barcode, stock, selling_price)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
ON CONFLICT (product_id, size, color) DO UPDATE SET
    barcode = EXCLUDED.barcode,
    stock = EXCLUDED.stock,
    selling_price = EXCLUDED.selling_price
RETURNING id::text
`, productID, in.Size, in.Color, in.Barcode, in.Stock, in.SellingPrice).Scan(&variantID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, variantID)
}

// DebitStock decrements a variant's stock inside the caller's transaction,
// rejecting the debit when fewer than qty units remain.
func DebitStock(ctx context.Context, tx pgx.Tx, variantID string, qty int) error {
	cmd, err := tx.Exec(ctx, `
UPDATE variants
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, variantID, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrStockInsufficient
	}
	return nil
}
