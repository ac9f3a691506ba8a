package service

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.FavoritesKeeper = (*FavoritesStore)(nil)

// FavoritesStore keeps full product copies keyed by id. Every
// mutation serializes the whole sequence to local storage; there is
// no incremental diffing.
type FavoritesStore struct {
	mu    sync.Mutex
	store port.LocalStore
	items []domain.Product
}

func NewFavoritesStore(store port.LocalStore) *FavoritesStore {
	return &FavoritesStore{store: store}
}

// Toggle removes the product when one with the same id is present and
// appends the given copy otherwise. Two identical toggles cancel out.
func (s *FavoritesStore) Toggle(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(v domain.Product) bool {
		return v.ID == p.ID
	})
	if i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	} else {
		s.items = append(s.items, p)
	}
	s.persistLocked()
}

func (s *FavoritesStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked()
}

func (s *FavoritesStore) Items() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Hydrate replaces the sequence wholesale, used once at startup.
func (s *FavoritesStore) Hydrate(items []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
}

// Restore hydrates from local storage. A missing key is not an error.
func (s *FavoritesStore) Restore() {
	const op = "FavoritesStore.Restore"
	log := slog.With("op", op)

	var items []domain.Product
	if err := s.store.GetJSON(domain.KeyFavorites, &items); err != nil {
		log.Debug("no favorites to restore", "err", err)
		return
	}
	s.Hydrate(items)
	log.Info("favorites restored", "nItems", len(items))
}

func (s *FavoritesStore) persistLocked() {
	const op = "FavoritesStore.persist"

	items := s.items
	if items == nil {
		items = []domain.Product{}
	}
	if err := s.store.SetJSON(domain.KeyFavorites, items); err != nil {
		slog.With("op", op).Error("failed to persist favorites", "err", err)
	}
}
