package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fashionpos/internal/domain"
	variantrepo "fashionpos/internal/repository/variant"
)

type VariantWriter interface {
	Upsert(ctx context.Context, in variantrepo.UpsertInput) (*domain.Variant, error)
}

// CSVImporter reads supplier stock sheets and inserts/updates variants.
// Expected headers: product, price, size, color, barcode, stock, sellingPrice.
type CSVImporter struct {
	reader      *csv.Reader
	variantRepo VariantWriter
}

func NewCSVImporter(r io.Reader, repo VariantWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		variantRepo: repo,
	}
}

// Run parses CSV rows and upserts one variant per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		in, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if in == nil {
			continue
		}

		if _, err := i.variantRepo.Upsert(ctx, *in); err != nil {
			return imported, fmt.Errorf("upsert %s %s/%s: %w", in.ProductName, in.Size, in.Color, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*variantrepo.UpsertInput, error) {
	name := pick(record, index, "product")
	size := pick(record, index, "size")
	color := pick(record, index, "color")
	if name == "" && size == "" && color == "" {
		return nil, nil // blank row
	}
	if name == "" || size == "" || color == "" {
		return nil, fmt.Errorf("row missing product/size/color: %v", record)
	}

	price, err := parseAmount(pick(record, index, "price"))
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("invalid price for %s %s/%s", name, size, color)
	}

	stock := 0
	if s := pick(record, index, "stock"); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock for %s %s/%s", name, size, color)
		}
	}

	in := &variantrepo.UpsertInput{
		ProductName:  name,
		ProductPrice: price,
		Size:         size,
		Color:        color,
		Barcode:      pick(record, index, "barcode"),
		Stock:        stock,
	}

	if s := pick(record, index, "sellingPrice"); s != "" {
		sp, err := parseAmount(s)
		if err != nil || sp <= 0 {
			return nil, fmt.Errorf("invalid sellingPrice for %s %s/%s", name, size, color)
		}
		in.SellingPrice = &sp
	}

	return in, nil
}

func parseAmount(s string) (int64, error) {
	// Sheets often carry thousands separators: 185.000 or 185,000.
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	if s == "" {
		return 0, errors.New("empty amount")
	}
	return strconv.ParseInt(s, 10, 64)
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
