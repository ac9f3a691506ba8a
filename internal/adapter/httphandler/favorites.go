package httphandler

import (
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

type FavoritesHandler struct {
	favorites port.FavoritesKeeper
}

func RegisterFavorites(
	mux *http.ServeMux,
	favorites port.FavoritesKeeper,
	session port.SessionManager,
) {
	h := FavoritesHandler{favorites}
	gate := RequireAuth(session)

	mux.Handle("GET /v1/favorites", gate(http.HandlerFunc(h.List)))
	mux.Handle("POST /v1/favorites", gate(http.HandlerFunc(h.Toggle)))
	mux.Handle("DELETE /v1/favorites", gate(http.HandlerFunc(h.Clear)))
}

func (h FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.favorites.Items())
}

// Toggle takes the full product copy: the favorites sequence stores
// products, not ids.
func (h FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !decodeBody(w, r, &p) {
		return
	}
	if p.ID == 0 {
		writeError(w, http.StatusBadRequest, "product id is required")
		return
	}

	h.favorites.Toggle(p)
	writeJSON(w, http.StatusOK, h.favorites.Items())
}

func (h FavoritesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.favorites.Clear()
	w.WriteHeader(http.StatusNoContent)
}
