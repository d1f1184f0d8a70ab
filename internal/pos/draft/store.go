package draft

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fashionpos/internal/domain"
	"fashionpos/internal/store"
)

type persister interface {
	Put(key string, v interface{}) error
	Get(key string, out interface{}) (bool, error)
}

// Store keeps named cart snapshots. Drafts are independent of each other and
// of the live cart; loading one back is the engine's job, deletion here is
// idempotent.
type Store struct {
	mu     sync.Mutex
	drafts []domain.Draft
	store  persister
	logger *log.Logger
	now    func() time.Time
}

// New builds a draft store over the local persister (nil for tests).
func New(st persister, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{store: st, logger: logger, now: time.Now}
}

// Restore loads the persisted draft list, if any.
func (s *Store) Restore() {
	if s.store == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var drafts []domain.Draft
	if ok, err := s.store.Get(store.KeyDrafts, &drafts); err != nil {
		s.logger.Printf("draft restore failed: %v", err)
	} else if ok {
		s.drafts = drafts
	}
}

// Save snapshots the cart under name, freezing the total at save time.
// Rejects an empty cart or a blank name.
func (s *Store) Save(name string, cart domain.Cart) (domain.Draft, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Draft{}, fmt.Errorf("%w: draft name required", domain.ErrValidation)
	}
	if cart.Empty() {
		return domain.Draft{}, fmt.Errorf("%w: cannot save an empty cart", domain.ErrValidation)
	}

	// A saved draft stands on its own; it no longer points at another draft.
	cart.SourceDraftID = ""
	cart.Lines = append([]domain.CartLine(nil), cart.Lines...)

	d := domain.Draft{
		ID:      uuid.NewString(),
		Name:    name,
		Cart:    cart,
		Total:   cart.Total(),
		SavedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, d)
	s.persistLocked()
	return d, nil
}

// List returns drafts newest-first.
func (s *Store) List() []domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]domain.Draft(nil), s.drafts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out
}

// Get looks a draft up by id.
func (s *Store) Get(id string) (domain.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.drafts {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Draft{}, false
}

// Delete removes the draft with the given id; absent ids are a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.drafts {
		if d.ID == id {
			s.drafts = append(s.drafts[:i], s.drafts[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

func (s *Store) persistLocked() {
	if s.store == nil {
		return
	}
	if err := s.store.Put(store.KeyDrafts, s.drafts); err != nil {
		s.logger.Printf("persist drafts: %v", err)
	}
}
