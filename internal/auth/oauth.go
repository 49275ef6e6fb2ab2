package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrNoValidCredentials       = errors.New("no valid credentials available")
	ErrTokenRequestFailed       = errors.New("token request failed")
)

// OAuth2Config configures the OAuth2 token manager. Exactly which grant runs
// depends on which credentials are present: a refresh token wins, then
// client credentials, then the password grant.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	AccessToken  string
	Scopes       []string
	HTTPClient   *http.Client
}

// OAuth2TokenManager obtains and refreshes tokens against an OAuth2 token
// endpoint.
type OAuth2TokenManager struct {
	config     *OAuth2Config
	store      *TokenStore
	httpClient *http.Client
}

// NewOAuth2TokenManager creates a token manager for the given config.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	manager := &OAuth2TokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    strings.ToLower(constants.TokenTypeBearer),
		})
	} else if config.RefreshToken != "" {
		// Hold the refresh token so the first GetToken can redeem it.
		manager.store.Set(&Token{
			RefreshToken: config.RefreshToken,
			ExpiresAt:    time.Now().Add(-time.Minute),
		})
	}

	return manager
}

// GetToken returns a valid access token, refreshing first when the current
// one is expired or expiring within the buffer.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	err := m.RefreshToken(ctx)
	if err != nil {
		return "", err
	}

	token = m.store.Get()
	if token == nil {
		return "", ErrNoValidCredentials
	}

	return token.AccessToken, nil
}

// RefreshToken obtains a fresh token using the best grant the configured
// credentials allow.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	current := m.store.Get()

	refreshToken := m.config.RefreshToken
	if current != nil && current.RefreshToken != "" {
		refreshToken = current.RefreshToken
	}

	switch {
	case refreshToken != "":
		return m.requestToken(ctx, url.Values{
			"grant_type":    []string{"refresh_token"},
			"refresh_token": []string{refreshToken},
		})
	case m.config.ClientID != "" && m.config.ClientSecret != "":
		return m.requestToken(ctx, url.Values{
			"grant_type": []string{"client_credentials"},
		})
	case m.config.Username != "" && m.config.Password != "":
		return m.requestToken(ctx, url.Values{
			"grant_type": []string{"password"},
			"username":   []string{m.config.Username},
			"password":   []string{m.config.Password},
		})
	default:
		return ErrNoValidCredentials
	}
}

// SetToken manually installs an access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	current := m.store.Get()

	refreshToken := ""
	if current != nil {
		refreshToken = current.RefreshToken
	}

	m.store.Set(&Token{
		AccessToken:  token,
		RefreshToken: refreshToken,
		TokenType:    strings.ToLower(constants.TokenTypeBearer),
		ExpiresAt:    expiresAt,
	})
}

// GetTokenExpiry returns the current token's expiration time, zero when no
// token is stored.
func (m *OAuth2TokenManager) GetTokenExpiry() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// requestToken performs one token-endpoint round trip and stores the result.
func (m *OAuth2TokenManager) requestToken(ctx context.Context, form url.Values) error {
	if len(m.config.Scopes) > 0 {
		form.Set("scope", strings.Join(m.config.Scopes, " "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if m.config.ClientID != "" {
		req.SetBasicAuth(m.config.ClientID, m.config.ClientSecret)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return tokenRequestError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	m.store.Set(&token)

	return nil
}

// tokenRequestError surfaces the OAuth2 error fields when present.
func tokenRequestError(status int, body []byte) error {
	var oauthErr struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}

	err := json.Unmarshal(body, &oauthErr)
	if err != nil || oauthErr.Error == "" {
		return fmt.Errorf("%w: status %d", ErrTokenRequestFailed, status)
	}

	if oauthErr.Description == "" {
		return fmt.Errorf("%w: %s", ErrTokenRequestFailed, oauthErr.Error)
	}

	return fmt.Errorf("%w: %s: %s", ErrTokenRequestFailed, oauthErr.Error, oauthErr.Description)
}

// NewTokenManagerForAPI builds an OAuth2 token manager for the service's
// token endpoint, derived from the API base URL when no explicit token URL
// is configured.
func NewTokenManagerForAPI(apiEndpoint, clientID, clientSecret, refreshToken string) *OAuth2TokenManager {
	return NewOAuth2TokenManager(&OAuth2Config{
		TokenURL:     strings.TrimSuffix(apiEndpoint, "/") + "/oauth2/token",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	})
}
