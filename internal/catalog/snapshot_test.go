package catalog

import (
	"context"
	"errors"
	"testing"

	"fashionpos/internal/domain"
)

func TestSnapshotLookups(t *testing.T) {
	s := NewSnapshot()
	s.Replace([]domain.Variant{
		{ID: "v1", Barcode: "111", Size: "S"},
		{ID: "v2", Size: "M"},
	})

	if v, ok := s.ByID("v1"); !ok || v.Size != "S" {
		t.Fatalf("expected v1, got %+v ok=%v", v, ok)
	}
	if v, ok := s.ByBarcode("111"); !ok || v.ID != "v1" {
		t.Fatalf("expected barcode hit for v1, got %+v ok=%v", v, ok)
	}
	if _, ok := s.ByBarcode(""); ok {
		t.Fatalf("empty barcode must not resolve")
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	s := NewSnapshot()
	s.Replace([]domain.Variant{{ID: "v1", Barcode: "111"}})
	s.Replace([]domain.Variant{{ID: "v2", Barcode: "222"}})

	if _, ok := s.ByID("v1"); ok {
		t.Fatalf("v1 should be gone after wholesale replace")
	}
	if _, ok := s.ByBarcode("111"); ok {
		t.Fatalf("old barcode index should be gone")
	}
	if _, ok := s.ByID("v2"); !ok {
		t.Fatalf("v2 should be present")
	}
}

type stubFetcher struct {
	variants []domain.Variant
	err      error
}

func (f *stubFetcher) FetchVariants(_ context.Context, _ string) ([]domain.Variant, error) {
	return f.variants, f.err
}

func TestRefreshOnceKeepsSnapshotOnError(t *testing.T) {
	s := NewSnapshot()
	s.Replace([]domain.Variant{{ID: "v1"}})

	r := NewRefresher(s, &stubFetcher{err: errors.New("boom")}, 0, nil)
	if err := r.RefreshOnce(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
	if _, ok := s.ByID("v1"); !ok {
		t.Fatalf("failed refresh must keep the previous snapshot")
	}
}

func TestRefreshOnceReplaces(t *testing.T) {
	s := NewSnapshot()
	s.Replace([]domain.Variant{{ID: "v1"}})

	r := NewRefresher(s, &stubFetcher{variants: []domain.Variant{{ID: "v2"}}}, 0, nil)
	if err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.ByID("v2"); !ok {
		t.Fatalf("expected refreshed snapshot")
	}
}
