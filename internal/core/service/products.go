package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductBrowser = (*ProductStore)(nil)

// ProductStore holds the authoritative in-memory product list for the
// current view: the accumulated pages, the pagination cursor, the
// active query and category, and the loading/error flags. Each
// successful mutation snapshots the state to local storage.
type ProductStore struct {
	mu      sync.Mutex
	catalog port.ProductCatalog
	store   port.LocalStore

	items    []domain.Product
	total    int
	skip     int
	limit    int
	query    string
	category string
	loading  bool
	err      string
}

const defaultLimit = 10

func NewProductStore(
	catalog port.ProductCatalog, store port.LocalStore,
) *ProductStore {
	return &ProductStore{
		catalog:  catalog,
		store:    store,
		limit:    defaultLimit,
		category: domain.CategoryAll,
	}
}

// Fetch issues one list/search/filter request and folds the result
// into the state. The returned page is appended when it continues the
// accumulated list (skip > 0 with an unchanged query and category) and
// replaces it otherwise. A failure records an error string and leaves
// the existing items untouched: stale data beats an empty list.
//
// Overlapping fetches are not sequenced; the last completion wins.
func (s *ProductStore) Fetch(ctx context.Context, q domain.PageQuery) error {
	const op = "ProductStore.Fetch"
	log := slog.With("op", op)

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	page, err := s.catalog.FetchPage(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.err = err.Error()
		log.Warn("fetch failed", "err", err)
		return err
	}

	appending := q.Skip > 0 && s.query == q.Query && s.category == q.Category
	if appending {
		// No de-duplication: overlapping server pages may repeat ids.
		s.items = append(s.items, page.Products...)
	} else {
		s.items = slices.Clone(page.Products)
	}
	s.total = page.Total
	s.skip = page.Skip
	s.limit = page.Limit
	s.query = q.Query
	s.category = q.Category

	s.persistLocked()
	return nil
}

// Create posts the draft to the remote catalog. When the remote call
// fails the flow is not blocked: a locally built product under a
// synthesized id goes to the front of the list instead, and the result
// is tagged LocalOnly so the caller can tell the placeholder from a
// durable record.
func (s *ProductStore) Create(
	ctx context.Context, d domain.ProductDraft,
) (domain.CreateResult, error) {
	const op = "ProductStore.Create"
	log := slog.With("op", op)

	p, err := s.catalog.CreateProduct(ctx, d)

	s.mu.Lock()
	defer s.mu.Unlock()

	res := domain.CreateResult{Status: domain.CreatePersisted, Product: p}
	if err != nil {
		res = domain.CreateResult{
			Status:  domain.CreateLocalOnly,
			Product: d.Product(s.localIDLocked()),
		}
		log.Warn("remote create failed, keeping record local-only",
			"err", err, "localID", res.Product.ID)
	}

	s.items = append([]domain.Product{res.Product}, s.items...)
	s.persistLocked()
	return res, nil
}

// Update replaces the matching item in place on success, preserving
// its position. No matching id is a no-op.
func (s *ProductStore) Update(
	ctx context.Context, id int, d domain.ProductDraft,
) error {
	const op = "ProductStore.Update"
	log := slog.With("op", op)

	p, err := s.catalog.UpdateProduct(ctx, id, d)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err.Error()
		log.Warn("update failed", "id", id, "err", err)
		return err
	}

	i := slices.IndexFunc(s.items, func(v domain.Product) bool {
		return v.ID == id
	})
	if i < 0 {
		return nil
	}
	s.items[i] = p
	s.persistLocked()
	return nil
}

// Remove deletes the matching item on success. No matching id is a
// no-op.
func (s *ProductStore) Remove(ctx context.Context, id int) error {
	const op = "ProductStore.Remove"
	log := slog.With("op", op)

	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		log.Warn("remove failed", "id", id, "err", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.DeleteFunc(s.items, func(v domain.Product) bool {
		return v.ID == id
	})
	s.persistLocked()
	return nil
}

// Hydrate restores a previously persisted snapshot. Zero-value fields
// of the snapshot keep the store defaults.
func (s *ProductStore) Hydrate(snap domain.ProductsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Items != nil {
		s.items = slices.Clone(snap.Items)
	}
	s.total = snap.Total
	s.skip = snap.Skip
	if snap.Limit > 0 {
		s.limit = snap.Limit
	}
	s.query = snap.Query
	if snap.Category != "" {
		s.category = snap.Category
	}
}

// Restore hydrates from the local storage cache, once at startup. A
// missing cache is not an error.
func (s *ProductStore) Restore() {
	const op = "ProductStore.Restore"
	log := slog.With("op", op)

	var snap domain.ProductsSnapshot
	if err := s.store.GetJSON(domain.KeyProductsCache, &snap); err != nil {
		log.Debug("no products cache to restore", "err", err)
		return
	}
	s.Hydrate(snap)
	log.Info("products cache restored", "nItems", len(snap.Items))
}

func (s *ProductStore) State() domain.ProductsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ProductsState{
		ProductsSnapshot: s.snapshotLocked(),
		Loading:          s.loading,
		Err:              s.err,
	}
}

// View filters the accumulated sequence by category and inclusive
// price bounds. It is computed on read and mutates nothing.
func (s *ProductStore) View(f domain.ViewFilter) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := make([]domain.Product, 0, len(s.items))
	for _, p := range s.items {
		if f.Category != "" && f.Category != domain.CategoryAll &&
			p.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		view = append(view, p)
	}
	return view
}

// HasMore reports whether another page is available behind the
// current cursor.
func (s *ProductStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skip+s.limit < s.total
}

func (s *ProductStore) snapshotLocked() domain.ProductsSnapshot {
	return domain.ProductsSnapshot{
		Items:    slices.Clone(s.items),
		Total:    s.total,
		Skip:     s.skip,
		Limit:    s.limit,
		Query:    s.query,
		Category: s.category,
	}
}

func (s *ProductStore) persistLocked() {
	const op = "ProductStore.persist"

	err := s.store.SetJSON(domain.KeyProductsCache, s.snapshotLocked())
	if err != nil {
		slog.With("op", op).Error("failed to persist cache", "err", err)
	}
}

// localIDLocked synthesizes an id for a local-only record: derived
// from the clock, bumped past any id already in the list.
func (s *ProductStore) localIDLocked() int {
	id := int(time.Now().UnixMilli())
	for slices.ContainsFunc(s.items, func(v domain.Product) bool {
		return v.ID == id
	}) {
		id++
	}
	return id
}
