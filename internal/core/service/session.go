package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

var _ port.SessionManager = (*SessionStore)(nil)

// SessionStore is the single authoritative holder of the current
// user. It serves both the remote login flow (user plus access and
// refresh tokens) and the local mock flow (a small bcrypt-hashed user
// directory), and it owns the UI theme. The original app tracked the
// current user in two places; here there is exactly one.
type SessionStore struct {
	mu      sync.Mutex
	gateway port.SessionGateway
	store   port.LocalStore

	user      *domain.User
	access    string
	refresh   string
	mockUsers []domain.MockUser
	theme     domain.Theme
	err       string
}

func NewSessionStore(
	gateway port.SessionGateway, store port.LocalStore,
) *SessionStore {
	return &SessionStore{
		gateway: gateway,
		store:   store,
		theme:   domain.ThemeLight,
	}
}

// Login authenticates against the remote API. A failure becomes the
// stored error string; it never clears an existing session.
func (s *SessionStore) Login(ctx context.Context, username, password string) error {
	const op = "SessionStore.Login"
	log := slog.With("op", op)

	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()

	rs, err := s.gateway.Login(ctx, username, password)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err.Error()
		log.Warn("login failed", "username", username, "err", err)
		return err
	}

	u := rs.User
	s.user = &u
	s.access = rs.Tokens.AccessToken
	s.refresh = rs.Tokens.RefreshToken
	s.persistTokensLocked()
	s.persistValue(domain.KeyAuthUser, s.user)
	log.Info("logged in", "username", u.Username)
	return nil
}

// Refresh exchanges the stored refresh token for a fresh pair. It is
// independently triggered; the HTTP wrapper never calls it on 401.
func (s *SessionStore) Refresh(ctx context.Context) error {
	const op = "SessionStore.Refresh"
	log := slog.With("op", op)

	s.mu.Lock()
	token := s.refresh
	s.mu.Unlock()
	if token == "" {
		// Fall back to what a previous run persisted.
		token, _ = s.store.Get(domain.KeyRefreshToken)
	}
	if token == "" {
		return domain.ErrNoRefreshToken
	}

	pair, err := s.gateway.Refresh(ctx, token)
	if err != nil {
		log.Warn("refresh failed", "err", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = pair.AccessToken
	s.refresh = pair.RefreshToken
	s.persistTokensLocked()
	log.Info("session refreshed")
	return nil
}

// RunRefresher keeps the access token fresh in the background,
// re-running Refresh shortly before the token expires. Transient
// failures are retried with backoff; a run without a session just
// waits for one to appear.
func (s *SessionStore) RunRefresher(ctx context.Context) {
	const op = "SessionStore.RunRefresher"
	log := slog.With("op", op)

	const (
		idlePoll = time.Minute
		margin   = time.Minute
	)
	retryCfg := retry.Config{MaxAttempts: 3}

	for {
		wait := idlePoll
		if exp, ok := s.accessTokenExpiry(); ok {
			wait = max(time.Until(exp)-margin, time.Second)
		}

		select {
		case <-ctx.Done():
			log.Info("refresher is stopped")
			return
		case <-time.After(wait):
		}

		if _, ok := s.accessTokenExpiry(); !ok {
			continue
		}
		err := retry.Do(ctx, retryCfg, func() error {
			return s.Refresh(ctx)
		})
		if err != nil && !errors.Is(err, domain.ErrNoRefreshToken) {
			log.Warn("background refresh gave up", "err", err)
		}
	}
}

// accessTokenExpiry reads the expiry claim without verifying the
// signature; the token is the remote API's to validate.
func (s *SessionStore) accessTokenExpiry() (time.Time, bool) {
	s.mu.Lock()
	token := s.access
	s.mu.Unlock()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Register adds a user to the local mock directory and signs them in.
// A duplicate email surfaces as the stored error string.
func (s *SessionStore) Register(name, email, password string) error {
	const op = "SessionStore.Register"
	log := slog.With("op", op)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""

	email = strings.ToLower(strings.TrimSpace(email))
	exists := slices.ContainsFunc(s.mockUsers, func(u domain.MockUser) bool {
		return u.Email == email
	})
	if exists {
		s.err = domain.ErrUserExists.Error()
		return domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword(
		[]byte(password), bcrypt.DefaultCost,
	)
	if err != nil {
		s.err = err.Error()
		return err
	}

	s.mockUsers = append(s.mockUsers, domain.MockUser{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	s.user = &domain.User{Username: name, Email: email}
	s.persistValue(domain.KeyMockUsers, s.mockUsers)
	s.persistValue(domain.KeyMockUser, s.user)
	log.Info("registered mock user", "email", email)
	return nil
}

// MockLogin signs in against the local directory.
func (s *SessionStore) MockLogin(email, password string) error {
	const op = "SessionStore.MockLogin"
	log := slog.With("op", op)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""

	email = strings.ToLower(strings.TrimSpace(email))
	i := slices.IndexFunc(s.mockUsers, func(u domain.MockUser) bool {
		return u.Email == email
	})
	if i < 0 {
		s.err = domain.ErrInvalidCredentials.Error()
		return domain.ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(
		[]byte(s.mockUsers[i].PasswordHash), []byte(password),
	)
	if err != nil {
		s.err = domain.ErrInvalidCredentials.Error()
		return domain.ErrInvalidCredentials
	}

	s.user = &domain.User{Username: s.mockUsers[i].Name, Email: email}
	s.persistValue(domain.KeyMockUser, s.user)
	log.Info("mock login", "email", email)
	return nil
}

// Logout clears the session and its persisted keys. The mock
// directory survives, so a registered user can sign back in.
func (s *SessionStore) Logout() {
	const op = "SessionStore.Logout"
	log := slog.With("op", op)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.access = ""
	s.refresh = ""
	s.err = ""

	for _, key := range []string{
		domain.KeyAccessToken,
		domain.KeyRefreshToken,
		domain.KeyAuthUser,
		domain.KeyMockUser,
	} {
		if err := s.store.Delete(key); err != nil {
			log.Error("failed to delete key", "key", key, "err", err)
		}
	}
	log.Info("logged out")
}

func (s *SessionStore) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SessionStore) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *SessionStore) SetTheme(t domain.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != domain.ThemeLight && t != domain.ThemeDark {
		return
	}
	s.theme = t
	s.persistTheme()
}

func (s *SessionStore) ToggleTheme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == domain.ThemeDark {
		s.theme = domain.ThemeLight
	} else {
		s.theme = domain.ThemeDark
	}
	s.persistTheme()
	return s.theme
}

// Hydrate restores a previously persisted snapshot. Absent fields
// keep their defaults.
func (s *SessionStore) Hydrate(snap domain.SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.AccessToken != "" {
		s.access = snap.AccessToken
	}
	if snap.RefreshToken != "" {
		s.refresh = snap.RefreshToken
	}
	if snap.User != nil {
		u := *snap.User
		s.user = &u
	}
	if snap.MockUsers != nil {
		s.mockUsers = slices.Clone(snap.MockUsers)
	}
	if snap.Theme != "" {
		s.theme = snap.Theme
	}
}

// Restore hydrates from local storage, once at startup. The remote
// user takes precedence over a persisted mock user.
func (s *SessionStore) Restore() {
	const op = "SessionStore.Restore"
	log := slog.With("op", op)

	var snap domain.SessionSnapshot
	snap.AccessToken, _ = s.store.Get(domain.KeyAccessToken)
	snap.RefreshToken, _ = s.store.Get(domain.KeyRefreshToken)

	var user domain.User
	if err := s.store.GetJSON(domain.KeyAuthUser, &user); err == nil {
		snap.User = &user
	} else {
		var mock domain.User
		if err := s.store.GetJSON(domain.KeyMockUser, &mock); err == nil {
			snap.User = &mock
		}
	}

	var mockUsers []domain.MockUser
	if err := s.store.GetJSON(domain.KeyMockUsers, &mockUsers); err == nil {
		snap.MockUsers = mockUsers
	}

	if theme, err := s.store.Get(domain.KeyTheme); err == nil {
		snap.Theme = domain.Theme(theme)
	}

	s.Hydrate(snap)
	log.Info("session restored",
		"authenticated", snap.User != nil, "theme", s.Theme())
}

func (s *SessionStore) persistTokensLocked() {
	const op = "SessionStore.persistTokens"
	log := slog.With("op", op)

	if err := s.store.Set(domain.KeyAccessToken, s.access); err != nil {
		log.Error("failed to persist access token", "err", err)
	}
	if err := s.store.Set(domain.KeyRefreshToken, s.refresh); err != nil {
		log.Error("failed to persist refresh token", "err", err)
	}
}

func (s *SessionStore) persistTheme() {
	const op = "SessionStore.persistTheme"

	if err := s.store.Set(domain.KeyTheme, string(s.theme)); err != nil {
		slog.With("op", op).Error("failed to persist theme", "err", err)
	}
}

func (s *SessionStore) persistValue(key string, v any) {
	const op = "SessionStore.persistValue"

	if err := s.store.SetJSON(key, v); err != nil {
		slog.With("op", op).Error("failed to persist", "key", key, "err", err)
	}
}
