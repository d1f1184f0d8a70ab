package importer

import (
	"context"
	"strings"
	"testing"

	"fashionpos/internal/domain"
	variantrepo "fashionpos/internal/repository/variant"
)

type stubVariantRepo struct {
	inputs []variantrepo.UpsertInput
}

func (s *stubVariantRepo) Upsert(_ context.Context, in variantrepo.UpsertInput) (*domain.Variant, error) {
	s.inputs = append(s.inputs, in)
	return &domain.Variant{}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `product,price,size,color,barcode,stock,sellingPrice
Kemeja Batik Parang,185.000,M,Navy,8991234500017,5,
Kemeja Batik Parang,185000,L,Navy,8991234500024,3,175.000
,,,,,,
Celana Kulot Linen,"210,000",S,Hitam,,0,`

	repo := &stubVariantRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 variants imported, got %d", count)
	}
	if len(repo.inputs) != 3 {
		t.Fatalf("expected 3 upserts, got %d", len(repo.inputs))
	}

	first := repo.inputs[0]
	if first.ProductName != "Kemeja Batik Parang" || first.ProductPrice != 185000 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.Size != "M" || first.Color != "Navy" || first.Barcode != "8991234500017" || first.Stock != 5 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.SellingPrice != nil {
		t.Fatalf("expected no selling price on first row, got %d", *first.SellingPrice)
	}

	second := repo.inputs[1]
	if second.SellingPrice == nil || *second.SellingPrice != 175000 {
		t.Fatalf("expected selling price 175000 on second row: %+v", second)
	}

	third := repo.inputs[2]
	if third.ProductPrice != 210000 || third.Stock != 0 || third.Barcode != "" {
		t.Fatalf("unexpected third row: %+v", third)
	}
}

func TestCSVImporter_RunRejectsBadRows(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{
			name: "missing size",
			csv: `product,price,size,color,barcode,stock
Kemeja Batik Parang,185000,,Navy,8991234500017,5`,
		},
		{
			name: "zero price",
			csv: `product,price,size,color,barcode,stock
Kemeja Batik Parang,0,M,Navy,8991234500017,5`,
		},
		{
			name: "negative stock",
			csv: `product,price,size,color,barcode,stock
Kemeja Batik Parang,185000,M,Navy,8991234500017,-1`,
		},
		{
			name: "bad selling price",
			csv: `product,price,size,color,barcode,stock,sellingPrice
Kemeja Batik Parang,185000,M,Navy,8991234500017,5,abc`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubVariantRepo{}
			imp := NewCSVImporter(strings.NewReader(tc.csv), repo)
			if _, err := imp.Run(context.Background()); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
			if len(repo.inputs) != 0 {
				t.Fatalf("expected no upserts, got %d", len(repo.inputs))
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"185000":  185000,
		"185.000": 185000,
		"185,000": 185000,
	}
	for in, want := range cases {
		got, err := parseAmount(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %d, want %d", in, got, want)
		}
	}
	if _, err := parseAmount(""); err == nil {
		t.Fatal("expected error for empty amount")
	}
}
