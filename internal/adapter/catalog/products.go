package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductCatalog = (*Catalog)(nil)

type Catalog struct {
	cl Client
}

func New(cl Client) Catalog {
	return Catalog{cl}
}

// FetchPage routes one list/search/filter request. A non-empty search
// query always wins over the category; only without a query does a
// category other than "all" select the category path.
func (c Catalog) FetchPage(
	ctx context.Context, q domain.PageQuery,
) (domain.ProductPage, error) {
	const op = "Catalog.FetchPage"

	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("skip", strconv.Itoa(q.Skip))

	path := "/products"
	switch {
	case q.Query != "":
		params.Set("q", q.Query)
		path = "/products/search"
	case q.Category != "" && q.Category != domain.CategoryAll:
		path = "/products/category/" + url.PathEscape(q.Category)
	}

	var res pageResponse
	err := c.cl.do(ctx, http.MethodGet, path, params, nil, &res)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}
	return res.toDomain(), nil
}

func (c Catalog) Product(
	ctx context.Context, id int,
) (domain.Product, error) {
	const op = "Catalog.Product"

	var p domain.Product
	err := c.cl.do(ctx, http.MethodGet, productPath(id), nil, nil, &p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c Catalog) Categories(ctx context.Context) ([]string, error) {
	const op = "Catalog.Categories"

	var raw json.RawMessage
	err := c.cl.do(ctx, http.MethodGet, "/products/categories", nil, nil, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The demo API has served both plain slug arrays and slug objects.
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names, nil
	}
	var objs []categoryResponse
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("%s: failed to parse categories: %w", op, err)
	}
	for _, o := range objs {
		names = append(names, o.Slug)
	}
	return names, nil
}

func (c Catalog) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "Catalog.CreateProduct"

	var p domain.Product
	err := c.cl.do(ctx, http.MethodPost, "/products/add", nil, d, &p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c Catalog) UpdateProduct(
	ctx context.Context, id int, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "Catalog.UpdateProduct"

	var p domain.Product
	err := c.cl.do(ctx, http.MethodPut, productPath(id), nil, d, &p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c Catalog) DeleteProduct(ctx context.Context, id int) error {
	const op = "Catalog.DeleteProduct"

	err := c.cl.do(ctx, http.MethodDelete, productPath(id), nil, nil, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func productPath(id int) string {
	return "/products/" + strconv.Itoa(id)
}
