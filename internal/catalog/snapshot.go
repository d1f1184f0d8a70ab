package catalog

import (
	"sync"

	"fashionpos/internal/domain"
)

// Snapshot is the in-memory catalog the session sells against. It is
// read-only between refreshes; a refresh replaces the whole variant list, never
// parts of it.
type Snapshot struct {
	mu        sync.RWMutex
	variants  []domain.Variant
	byID      map[string]domain.Variant
	byBarcode map[string]domain.Variant
}

func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Replace(nil)
	return s
}

// Replace swaps in a new variant list wholesale.
func (s *Snapshot) Replace(variants []domain.Variant) {
	byID := make(map[string]domain.Variant, len(variants))
	byBarcode := make(map[string]domain.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
		if v.Barcode != "" {
			byBarcode[v.Barcode] = v
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.variants = variants
	s.byID = byID
	s.byBarcode = byBarcode
}

// Variants returns the current variant list.
func (s *Snapshot) Variants() []domain.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.variants
}

// ByID looks a variant up by id.
func (s *Snapshot) ByID(id string) (domain.Variant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	return v, ok
}

// ByBarcode looks a variant up by its scanned code.
func (s *Snapshot) ByBarcode(code string) (domain.Variant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byBarcode[code]
	return v, ok
}
