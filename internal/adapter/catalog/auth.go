package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// tokenTTLMinutes is the lifetime the demo API is asked to mint
// tokens with.
const tokenTTLMinutes = 30

var _ port.SessionGateway = (*AuthGateway)(nil)

type AuthGateway struct {
	cl Client
}

func NewAuthGateway(cl Client) AuthGateway {
	return AuthGateway{cl}
}

func (g AuthGateway) Login(
	ctx context.Context, username, password string,
) (domain.RemoteSession, error) {
	const op = "AuthGateway.Login"

	body := loginRequest{
		Username:      username,
		Password:      password,
		ExpiresInMins: tokenTTLMinutes,
	}
	var res loginResponse
	err := g.cl.do(ctx, http.MethodPost, "/auth/login", nil, body, &res)
	if err != nil {
		return domain.RemoteSession{}, fmt.Errorf("%s: %w", op, err)
	}
	return res.toDomain(), nil
}

func (g AuthGateway) Refresh(
	ctx context.Context, refreshToken string,
) (domain.TokenPair, error) {
	const op = "AuthGateway.Refresh"

	body := refreshRequest{
		RefreshToken:  refreshToken,
		ExpiresInMins: tokenTTLMinutes,
	}
	var res refreshResponse
	err := g.cl.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &res)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil
}
