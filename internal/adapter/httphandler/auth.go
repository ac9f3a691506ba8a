package httphandler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

type AuthHandler struct {
	session  port.SessionManager
	validate *validator.Validate
}

func RegisterAuth(mux *http.ServeMux, session port.SessionManager) {
	h := AuthHandler{session, validator.New()}

	mux.HandleFunc("POST /v1/auth/login", h.Login)
	mux.HandleFunc("POST /v1/auth/register", h.Register)
	mux.HandleFunc("POST /v1/auth/mock-login", h.MockLogin)
	mux.HandleFunc("POST /v1/auth/refresh", h.Refresh)
	mux.HandleFunc("POST /v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /v1/session", h.Session)
	mux.HandleFunc("GET /v1/theme", h.Theme)
	mux.HandleFunc("PUT /v1/theme", h.SetTheme)
	mux.HandleFunc("POST /v1/theme/toggle", h.ToggleTheme)
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.session.Login(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	h.writeSession(w, http.StatusOK)
}

func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.session.Register(req.Name, req.Email, req.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrUserExists) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	h.writeSession(w, http.StatusCreated)
}

func (h AuthHandler) MockLogin(w http.ResponseWriter, r *http.Request) {
	var req mockLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.session.MockLogin(req.Email, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	h.writeSession(w, http.StatusOK)
}

func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	err := h.session.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoRefreshToken) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	h.writeSession(w, http.StatusOK)
}

func (h AuthHandler) Theme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeRequest{Theme: string(h.session.Theme())})
}

func (h AuthHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	h.session.SetTheme(domain.Theme(req.Theme))
	writeJSON(w, http.StatusOK, req)
}

func (h AuthHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	t := h.session.ToggleTheme()
	writeJSON(w, http.StatusOK, themeRequest{Theme: string(t)})
}

func (h AuthHandler) writeSession(w http.ResponseWriter, status int) {
	res := sessionResponse{
		Theme: h.session.Theme(),
		Error: h.session.Err(),
	}
	if u, ok := h.session.CurrentUser(); ok {
		res.Authenticated = true
		res.User = &u
	}
	writeJSON(w, status, res)
}
