package httphandler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

type ProductsHandler struct {
	browser  port.ProductBrowser
	catalog  port.ProductCatalog
	validate *validator.Validate
}

func RegisterProducts(
	mux *http.ServeMux,
	browser port.ProductBrowser,
	catalog port.ProductCatalog,
	session port.SessionManager,
) {
	h := ProductsHandler{
		browser:  browser,
		catalog:  catalog,
		validate: validator.New(),
	}
	gate := RequireAuth(session)

	mux.HandleFunc("GET /v1/products", h.List)
	mux.HandleFunc("GET /v1/products/view", h.View)
	mux.HandleFunc("GET /v1/products/{id}", h.Detail)
	mux.HandleFunc("GET /v1/categories", h.Categories)
	mux.Handle("POST /v1/products", gate(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /v1/products/{id}", gate(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /v1/products/{id}", gate(http.HandlerFunc(h.Delete)))
}

// List triggers a fetch and answers with the resulting store state.
// A remote failure is part of that state, not an HTTP failure: the
// previous items stay served alongside the error string.
func (h ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := domain.PageQuery{
		Limit:    queryInt(r, "limit", defaultPageLimit),
		Skip:     queryInt(r, "skip", 0),
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	if q.Category == "" {
		q.Category = domain.CategoryAll
	}

	_ = h.browser.Fetch(r.Context(), q)
	writeJSON(w, http.StatusOK,
		toStateResponse(h.browser.State(), h.browser.HasMore()))
}

const defaultPageLimit = 10

func (h ProductsHandler) View(w http.ResponseWriter, r *http.Request) {
	f := domain.ViewFilter{
		Category: r.URL.Query().Get("category"),
		MinPrice: queryFloat(r, "min_price"),
		MaxPrice: queryFloat(r, "max_price"),
	}
	items := h.browser.View(f)
	if items == nil {
		items = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Detail serves an independent copy fetched by id, bypassing the
// accumulated list.
func (h ProductsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ProductsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if cs == nil {
		cs = []string{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.browser.Create(r.Context(), req.toDraft())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{
		Status:  res.Status.String(),
		Product: res.Product,
	})
}

func (h ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.browser.Update(r.Context(), id, req.toDraft()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.browser.Remove(r.Context(), id); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func queryFloat(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
