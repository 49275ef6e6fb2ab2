package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister writes a refreshed token back to the CLI configuration so
// the next invocation can reuse it.
type ConfigPersister interface {
	UpdateAPIToken(apiEndpoint, token string, expiresAt time.Time, refreshToken string) error
}

// ConfigTokenManager wraps OAuth2TokenManager and persists refreshed tokens
// through a ConfigPersister. Persistence failures never fail the request that
// triggered the refresh.
type ConfigTokenManager struct {
	oauth2Manager *OAuth2TokenManager
	persister     ConfigPersister
	apiEndpoint   string
	mutex         sync.RWMutex
	lastToken     string
	lastExpiry    time.Time
}

// NewConfigTokenManager creates a config-persisting token manager, seeding
// the wrapped manager with the token already on disk when one exists.
func NewConfigTokenManager(config *OAuth2Config, persister ConfigPersister, apiEndpoint, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	oauth2Manager := NewOAuth2TokenManager(config)

	if initialToken != "" {
		oauth2Manager.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		oauth2Manager: oauth2Manager,
		persister:     persister,
		apiEndpoint:   apiEndpoint,
		lastToken:     initialToken,
		lastExpiry:    initialExpiry,
	}
}

// GetToken returns a valid access token, refreshing if necessary. A refresh
// is persisted in the background.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	current := m.oauth2Manager.store.Get()
	if current != nil && (current.AccessToken != m.lastToken || !current.ExpiresAt.Equal(m.lastExpiry)) {
		go func() {
			persistErr := m.persistToken(current)
			if persistErr != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
			}
		}()

		m.lastToken = current.AccessToken
		m.lastExpiry = current.ExpiresAt
	}

	return token, nil
}

// RefreshToken forces a token refresh and persists the result.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	current := m.oauth2Manager.store.Get()
	if current != nil {
		persistErr := m.persistToken(current)
		if persistErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
		}

		m.lastToken = current.AccessToken
		m.lastExpiry = current.ExpiresAt
	}

	return nil
}

// SetToken manually sets the access token.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.oauth2Manager.SetToken(token, expiresAt)
	m.lastToken = token
	m.lastExpiry = expiresAt
}

// IsTokenExpiringSoon reports whether the token expires within the given
// duration. An absent token counts as expiring.
func (m *ConfigTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	token := m.oauth2Manager.store.Get()
	if token == nil {
		return true
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

// GetTokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	token := m.oauth2Manager.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.persister == nil {
		return ErrNoConfigPersister
	}

	err := m.persister.UpdateAPIToken(m.apiEndpoint, token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
