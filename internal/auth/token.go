// Package auth owns the credential: token storage, refresh, and the
// per-request authorization headers the dispatcher attaches.
package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// Token represents an access token with optional refresh metadata.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	ExpiresAt    time.Time `json:"-"`
}

// Valid reports whether the token can still be sent. A token expiring within
// the expiration buffer counts as invalid so refresh happens before the
// service starts rejecting it.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the current token behind a mutex. The credential is
// supplied at process start and only mutated by refresh.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, nil when none is set.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}

// TokenManager produces a valid access token for each request, refreshing
// when necessary.
type TokenManager interface {
	// GetToken returns a valid access token, refreshing first when the
	// current one is expired or expiring.
	GetToken(ctx context.Context) (string, error)

	// RefreshToken forces a refresh regardless of the current token's state.
	RefreshToken(ctx context.Context) error

	// SetToken manually installs an access token.
	SetToken(token string, expiresAt time.Time)
}

// Headers returns the auth header map for the current credential. A nil
// manager or an empty token yields an empty map, never a partial one; the
// dispatcher treats that as "no credential configured" rather than a network
// condition.
func Headers(ctx context.Context, manager TokenManager) (map[string]string, error) {
	if manager == nil {
		return map[string]string{}, nil
	}

	token, err := manager.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return map[string]string{}, nil
	}

	return map[string]string{
		"Authorization": constants.TokenTypeBearer + " " + token,
	}, nil
}

// StaticTokenManager serves a fixed token that cannot be refreshed.
type StaticTokenManager struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenManager creates a manager around a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the static token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, nil
}

// RefreshToken fails: there is nothing to refresh a static token against.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

// SetToken replaces the static token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

// RedactAuthorization masks the credential in an authorization header value
// for diagnostics, keeping the scheme visible.
func RedactAuthorization(value string) string {
	if value == "" {
		return ""
	}

	scheme, _, found := strings.Cut(value, " ")
	if !found {
		return constants.MaskedSecret
	}

	return scheme + " " + constants.MaskedSecret
}
