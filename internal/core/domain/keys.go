package domain

// Local store keys. Each store writes to its own namespace, so no two
// components contend for a key. Token values are raw strings, the rest
// are JSON-encoded.
const (
	KeyAccessToken   = "auth:accessToken"
	KeyRefreshToken  = "auth:refreshToken"
	KeyAuthUser      = "auth:user"
	KeyMockUsers     = "auth:users"
	KeyFavorites     = "favorites:items"
	KeyProductsCache = "products:cache"
	KeyTheme         = "ui:theme"
	KeyMockUser      = "ui:user"
)
