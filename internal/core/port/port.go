package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Outbound ports.

type ProductCatalog interface {
	FetchPage(context.Context, domain.PageQuery) (domain.ProductPage, error)
	Product(ctx context.Context, id int) (domain.Product, error)
	Categories(context.Context) ([]string, error)
	CreateProduct(context.Context, domain.ProductDraft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int, d domain.ProductDraft) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

type SessionGateway interface {
	Login(ctx context.Context, username, password string) (domain.RemoteSession, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}

// LocalStore is the client-side key-value persistence. A missing key
// is domain.ErrNotFound, not a failure.
type LocalStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	GetJSON(key string, v any) error
	SetJSON(key string, v any) error
}

// Inbound ports, consumed by the presentation surface.

type ProductBrowser interface {
	Fetch(context.Context, domain.PageQuery) error
	Create(context.Context, domain.ProductDraft) (domain.CreateResult, error)
	Update(ctx context.Context, id int, d domain.ProductDraft) error
	Remove(ctx context.Context, id int) error
	State() domain.ProductsState
	View(domain.ViewFilter) []domain.Product
	HasMore() bool
}

type FavoritesKeeper interface {
	Toggle(domain.Product)
	Clear()
	Items() []domain.Product
}

type SessionManager interface {
	Login(ctx context.Context, username, password string) error
	Refresh(context.Context) error
	Register(name, email, password string) error
	MockLogin(email, password string) error
	Logout()
	CurrentUser() (domain.User, bool)
	Err() string
	Theme() domain.Theme
	SetTheme(domain.Theme)
	ToggleTheme() domain.Theme
}
