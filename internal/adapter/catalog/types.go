package catalog

import "github.com/niksmo/storefront/internal/core/domain"

type pageResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

func (r pageResponse) toDomain() domain.ProductPage {
	return domain.ProductPage{
		Products: r.Products,
		Total:    r.Total,
		Skip:     r.Skip,
		Limit:    r.Limit,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

type categoryResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
}

type loginResponse struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (r loginResponse) toDomain() domain.RemoteSession {
	return domain.RemoteSession{
		User: domain.User{
			ID:        r.ID,
			Username:  r.Username,
			Email:     r.Email,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		},
		Tokens: domain.TokenPair{
			AccessToken:  r.AccessToken,
			RefreshToken: r.RefreshToken,
		},
	}
}

type refreshRequest struct {
	RefreshToken  string `json:"refreshToken"`
	ExpiresInMins int    `json:"expiresInMins"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
