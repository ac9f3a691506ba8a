package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

func makeProducts(ids ...int) []domain.Product {
	ps := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		ps = append(ps, domain.Product{
			ID:       id,
			Title:    "product",
			Price:    float64(id),
			Category: "smartphones",
		})
	}
	return ps
}

func itemIDs(items []domain.Product) []int {
	ids := make([]int, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductStoreFetch(t *testing.T) {
	t.Run("SecondPageAppends", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())

		q1 := domain.PageQuery{Limit: 10, Skip: 0, Category: domain.CategoryAll}
		catalog.On("FetchPage", mock.Anything, q1).Return(domain.ProductPage{
			Products: makeProducts(1, 2, 3),
			Total:    25, Skip: 0, Limit: 10,
		}, nil)

		q2 := domain.PageQuery{Limit: 10, Skip: 10, Category: domain.CategoryAll}
		catalog.On("FetchPage", mock.Anything, q2).Return(domain.ProductPage{
			Products: makeProducts(4, 5),
			Total:    25, Skip: 10, Limit: 10,
		}, nil)

		require.NoError(t, s.Fetch(t.Context(), q1))
		require.NoError(t, s.Fetch(t.Context(), q2))

		state := s.State()
		assert.Equal(t, []int{1, 2, 3, 4, 5}, itemIDs(state.Items))
		assert.Equal(t, 25, state.Total)
		assert.Equal(t, 10, state.Skip)
		assert.False(t, state.Loading)
		assert.Empty(t, state.Err)
	})

	t.Run("NewSearchReplaces", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())

		q1 := domain.PageQuery{Limit: 10, Skip: 0, Category: domain.CategoryAll}
		catalog.On("FetchPage", mock.Anything, q1).Return(domain.ProductPage{
			Products: makeProducts(1, 2, 3),
			Total:    25, Skip: 0, Limit: 10,
		}, nil)

		q2 := domain.PageQuery{
			Limit: 10, Skip: 0,
			Query: "phone", Category: domain.CategoryAll,
		}
		catalog.On("FetchPage", mock.Anything, q2).Return(domain.ProductPage{
			Products: makeProducts(7),
			Total:    1, Skip: 0, Limit: 10,
		}, nil)

		require.NoError(t, s.Fetch(t.Context(), q1))
		require.NoError(t, s.Fetch(t.Context(), q2))

		state := s.State()
		assert.Equal(t, []int{7}, itemIDs(state.Items))
		assert.Equal(t, "phone", state.Query)
	})

	t.Run("ChangedCategoryReplacesDespiteSkip", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())

		q1 := domain.PageQuery{Limit: 10, Skip: 0, Category: domain.CategoryAll}
		catalog.On("FetchPage", mock.Anything, q1).Return(domain.ProductPage{
			Products: makeProducts(1, 2),
			Total:    25, Skip: 0, Limit: 10,
		}, nil)

		q2 := domain.PageQuery{Limit: 10, Skip: 10, Category: "laptops"}
		catalog.On("FetchPage", mock.Anything, q2).Return(domain.ProductPage{
			Products: makeProducts(8, 9),
			Total:    12, Skip: 10, Limit: 10,
		}, nil)

		require.NoError(t, s.Fetch(t.Context(), q1))
		require.NoError(t, s.Fetch(t.Context(), q2))

		assert.Equal(t, []int{8, 9}, itemIDs(s.State().Items))
	})

	t.Run("FailureKeepsStaleItems", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())

		q1 := domain.PageQuery{Limit: 10, Skip: 0, Category: domain.CategoryAll}
		catalog.On("FetchPage", mock.Anything, q1).Return(domain.ProductPage{
			Products: makeProducts(1, 2),
			Total:    2, Skip: 0, Limit: 10,
		}, nil)

		q2 := domain.PageQuery{Limit: 10, Skip: 10, Category: domain.CategoryAll}
		catalog.On("FetchPage", mock.Anything, q2).
			Return(domain.ProductPage{}, errors.New("connection refused"))

		require.NoError(t, s.Fetch(t.Context(), q1))
		require.Error(t, s.Fetch(t.Context(), q2))

		state := s.State()
		assert.Equal(t, []int{1, 2}, itemIDs(state.Items))
		assert.Contains(t, state.Err, "connection refused")
		assert.False(t, state.Loading)
	})

	t.Run("SuccessClearsError", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())

		q := domain.PageQuery{Limit: 10, Skip: 0, Category: domain.CategoryAll}
		catalog.On("FetchPage", mock.Anything, q).
			Return(domain.ProductPage{}, errors.New("boom")).Once()
		catalog.On("FetchPage", mock.Anything, q).Return(domain.ProductPage{
			Products: makeProducts(1),
			Total:    1, Skip: 0, Limit: 10,
		}, nil).Once()

		require.Error(t, s.Fetch(t.Context(), q))
		require.NoError(t, s.Fetch(t.Context(), q))
		assert.Empty(t, s.State().Err)
	})
}

func TestProductStoreCreate(t *testing.T) {
	draft := domain.ProductDraft{
		Title:    "new product",
		Price:    9.99,
		Category: "smartphones",
	}

	t.Run("Persisted", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())
		s.Hydrate(domain.ProductsSnapshot{Items: makeProducts(1, 2)})

		catalog.On("CreateProduct", mock.Anything, draft).
			Return(draft.Product(101), nil)

		res, err := s.Create(t.Context(), draft)
		require.NoError(t, err)
		assert.Equal(t, domain.CreatePersisted, res.Status)
		assert.Equal(t, 101, res.Product.ID)
		assert.Equal(t, []int{101, 1, 2}, itemIDs(s.State().Items))
	})

	t.Run("LocalOnlyOnFailure", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())
		s.Hydrate(domain.ProductsSnapshot{Items: makeProducts(1, 2)})

		catalog.On("CreateProduct", mock.Anything, draft).
			Return(domain.Product{}, errors.New("timeout"))

		res, err := s.Create(t.Context(), draft)
		require.NoError(t, err)
		assert.Equal(t, domain.CreateLocalOnly, res.Status)

		items := s.State().Items
		require.Len(t, items, 3)
		assert.Equal(t, res.Product.ID, items[0].ID)
		assert.NotContains(t, []int{1, 2}, items[0].ID)
		assert.Equal(t, draft.Title, items[0].Title)
	})
}

func TestProductStoreUpdate(t *testing.T) {
	draft := domain.ProductDraft{Title: "renamed", Category: "smartphones"}

	t.Run("ReplacesInPlace", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())
		s.Hydrate(domain.ProductsSnapshot{Items: makeProducts(1, 2, 3)})

		catalog.On("UpdateProduct", mock.Anything, 2, draft).
			Return(draft.Product(2), nil)

		require.NoError(t, s.Update(t.Context(), 2, draft))

		items := s.State().Items
		assert.Equal(t, []int{1, 2, 3}, itemIDs(items))
		assert.Equal(t, "renamed", items[1].Title)
	})

	t.Run("NoMatchIsNoop", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())
		s.Hydrate(domain.ProductsSnapshot{Items: makeProducts(1, 2, 3)})
		before := s.State().Items

		catalog.On("UpdateProduct", mock.Anything, 5, draft).
			Return(draft.Product(5), nil)

		require.NoError(t, s.Update(t.Context(), 5, draft))
		assert.Equal(t, before, s.State().Items)
	})

	t.Run("FailureRecordsError", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())
		s.Hydrate(domain.ProductsSnapshot{Items: makeProducts(1)})

		catalog.On("UpdateProduct", mock.Anything, 1, draft).
			Return(domain.Product{}, errors.New("boom"))

		require.Error(t, s.Update(t.Context(), 1, draft))
		assert.Contains(t, s.State().Err, "boom")
		assert.Equal(t, []int{1}, itemIDs(s.State().Items))
	})
}

func TestProductStoreRemove(t *testing.T) {
	t.Run("RemovesMatch", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())
		s.Hydrate(domain.ProductsSnapshot{Items: makeProducts(1, 2, 3)})

		catalog.On("DeleteProduct", mock.Anything, 2).Return(nil)

		require.NoError(t, s.Remove(t.Context(), 2))
		assert.Equal(t, []int{1, 3}, itemIDs(s.State().Items))
	})

	t.Run("NoMatchIsNoop", func(t *testing.T) {
		catalog := new(MockCatalog)
		s := service.NewProductStore(catalog, newMemStore())
		s.Hydrate(domain.ProductsSnapshot{Items: makeProducts(1, 2)})

		catalog.On("DeleteProduct", mock.Anything, 9).Return(nil)

		require.NoError(t, s.Remove(t.Context(), 9))
		assert.Equal(t, []int{1, 2}, itemIDs(s.State().Items))
	})
}

func TestProductStoreHasMore(t *testing.T) {
	s := service.NewProductStore(new(MockCatalog), newMemStore())

	s.Hydrate(domain.ProductsSnapshot{Total: 25, Skip: 10, Limit: 10})
	assert.True(t, s.HasMore())

	s.Hydrate(domain.ProductsSnapshot{Total: 25, Skip: 20, Limit: 10})
	assert.False(t, s.HasMore())
}

func TestProductStoreView(t *testing.T) {
	s := service.NewProductStore(new(MockCatalog), newMemStore())
	s.Hydrate(domain.ProductsSnapshot{Items: []domain.Product{
		{ID: 1, Price: 5, Category: "smartphones"},
		{ID: 2, Price: 50, Category: "smartphones"},
		{ID: 3, Price: 500, Category: "laptops"},
	}})

	min := 10.0
	max := 100.0

	t.Run("PriceBoundsInclusive", func(t *testing.T) {
		got := s.View(domain.ViewFilter{MinPrice: &min, MaxPrice: &max})
		assert.Equal(t, []int{2}, itemIDs(got))

		exact := 50.0
		got = s.View(domain.ViewFilter{MinPrice: &exact, MaxPrice: &exact})
		assert.Equal(t, []int{2}, itemIDs(got))
	})

	t.Run("Category", func(t *testing.T) {
		got := s.View(domain.ViewFilter{Category: "laptops"})
		assert.Equal(t, []int{3}, itemIDs(got))
	})

	t.Run("AllIsUnfiltered", func(t *testing.T) {
		got := s.View(domain.ViewFilter{Category: domain.CategoryAll})
		assert.Equal(t, []int{1, 2, 3}, itemIDs(got))
	})

	t.Run("DoesNotMutate", func(t *testing.T) {
		before := s.State().Items
		s.View(domain.ViewFilter{Category: "laptops", MinPrice: &min})
		assert.Equal(t, before, s.State().Items)
	})
}

func TestProductStorePersistence(t *testing.T) {
	store := newMemStore()
	catalog := new(MockCatalog)
	s := service.NewProductStore(catalog, store)

	q := domain.PageQuery{Limit: 10, Skip: 0, Query: "phone", Category: domain.CategoryAll}
	catalog.On("FetchPage", mock.Anything, q).Return(domain.ProductPage{
		Products: makeProducts(1, 2),
		Total:    2, Skip: 0, Limit: 10,
	}, nil)
	require.NoError(t, s.Fetch(t.Context(), q))

	restored := service.NewProductStore(new(MockCatalog), store)
	restored.Restore()

	want := s.State()
	got := restored.State()
	assert.Equal(t, want.Items, got.Items)
	assert.Equal(t, want.Total, got.Total)
	assert.Equal(t, want.Query, got.Query)
	assert.Equal(t, want.Category, got.Category)
}
