package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/niksmo/storefront/internal/core/domain"
)

type productRequest struct {
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" validate:"gte=0"`
	DiscountPercentage float64  `json:"discountPercentage" validate:"gte=0,lte=100"`
	Rating             float64  `json:"rating" validate:"gte=0,lte=5"`
	Stock              int      `json:"stock" validate:"gte=0"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category" validate:"required"`
	Thumbnail          string   `json:"thumbnail" validate:"omitempty,url"`
	Images             []string `json:"images" validate:"dive,url"`
}

func (r productRequest) toDraft() domain.ProductDraft {
	return domain.ProductDraft{
		Title:              r.Title,
		Description:        r.Description,
		Price:              r.Price,
		DiscountPercentage: r.DiscountPercentage,
		Rating:             r.Rating,
		Stock:              r.Stock,
		Brand:              r.Brand,
		Category:           r.Category,
		Thumbnail:          r.Thumbnail,
		Images:             r.Images,
	}
}

type productsStateResponse struct {
	Items    []domain.Product `json:"items"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
	Query    string           `json:"query,omitempty"`
	Category string           `json:"category,omitempty"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
	HasMore  bool             `json:"hasMore"`
}

func toStateResponse(s domain.ProductsState, hasMore bool) productsStateResponse {
	items := s.Items
	if items == nil {
		items = []domain.Product{}
	}
	return productsStateResponse{
		Items:    items,
		Total:    s.Total,
		Skip:     s.Skip,
		Limit:    s.Limit,
		Query:    s.Query,
		Category: s.Category,
		Loading:  s.Loading,
		Error:    s.Err,
		HasMore:  hasMore,
	}
}

type createResponse struct {
	Status  string         `json:"status"`
	Product domain.Product `json:"product"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type mockLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	Theme         domain.Theme `json:"theme"`
	Error         string       `json:"error,omitempty"`
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type errorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.With("op", op).Error("failed to write response body", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// writeValidationError reports each failing field inline, the way the
// original surfaced form errors.
func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = "failed " + fe.Tag() + " check"
	}
	writeJSON(w, http.StatusBadRequest, errorBody{
		Message: "validation failed",
		Fields:  fields,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON data")
		return false
	}
	return true
}
