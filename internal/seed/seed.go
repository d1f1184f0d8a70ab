package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	variantrepo "fashionpos/internal/repository/variant"
)

// Apply inserts a small fashion catalog for manual testing. It is idempotent
// via the variant repository's upsert.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := variantrepo.NewPostgres(pool, nil)

	price := func(v int64) *int64 { return &v }
	variants := []variantrepo.UpsertInput{
		{ProductName: "Kemeja Batik Parang", ProductPrice: 185_000, Size: "S", Color: "Navy", Barcode: "8991001001011", Stock: 4},
		{ProductName: "Kemeja Batik Parang", ProductPrice: 185_000, Size: "M", Color: "Navy", Barcode: "8991001001028", Stock: 6},
		{ProductName: "Kemeja Batik Parang", ProductPrice: 185_000, Size: "L", Color: "Navy", Barcode: "8991001001035", Stock: 0},
		{ProductName: "Dress Floral Midi", ProductPrice: 265_000, Size: "S", Color: "Dusty Pink", Barcode: "8991001002019", Stock: 3},
		{ProductName: "Dress Floral Midi", ProductPrice: 265_000, Size: "M", Color: "Dusty Pink", Barcode: "8991001002026", Stock: 0},
		{ProductName: "Celana Kulot Linen", ProductPrice: 155_000, Size: "M", Color: "Cream", Barcode: "8991001003016", Stock: 8, SellingPrice: price(149_000)},
		{ProductName: "Celana Kulot Linen", ProductPrice: 155_000, Size: "L", Color: "Cream", Barcode: "8991001003023", Stock: 5, SellingPrice: price(149_000)},
	}

	for _, in := range variants {
		if _, err := repo.Upsert(ctx, in); err != nil {
			return fmt.Errorf("upsert %s %s/%s: %w", in.ProductName, in.Size, in.Color, err)
		}
	}

	if err := seedCustomers(ctx, pool); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}
	return nil
}

func seedCustomers(ctx context.Context, pool *pgxpool.Pool) error {
	customers := []struct {
		name, phone, address string
	}{
		{"Ani Wijaya", "081234567890", "Jl. Melati 12, Bandung"},
		{"Budi Santoso", "081298765432", "Jl. Kenanga 3, Jakarta"},
	}

	for _, c := range customers {
		_, err := pool.Exec(ctx, `
INSERT INTO customers (name, phone, address)
SELECT $1, $2, $3
WHERE NOT EXISTS (SELECT 1 FROM customers WHERE name = $1)
`, c.name, c.phone, c.address)
		if err != nil {
			return err
		}
	}
	return nil
}
