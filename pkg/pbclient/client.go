package pbclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/copyhacker/productboard-mcp/internal/client"
	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// New creates a new Productboard API client. The endpoint is normalized
// (trailing slash trimmed, https assumed when no scheme is given) and the
// OAuth2 token URL is derived from it when credentials need one.
func New(ctx context.Context, config *productboard.Config) (productboard.Client, error) {
	if config == nil {
		return nil, productboard.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		config.APIEndpoint = constants.DefaultAPIEndpoint
	}

	config.APIEndpoint = normalizeEndpoint(config.APIEndpoint)

	if needsAuth(config) && config.TokenURL == "" {
		config.TokenURL = config.APIEndpoint + "/oauth2/token"
	}

	pbClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return pbClient, nil
}

// NewWithEndpoint creates an unauthenticated client for the given endpoint.
// Every dispatched call will fail fast until a credential is configured; it
// is mainly useful for catalog inspection and tests.
func NewWithEndpoint(ctx context.Context, endpoint string) (productboard.Client, error) {
	return New(ctx, &productboard.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithToken creates a client authenticated with a static access token.
func NewWithToken(ctx context.Context, endpoint, accessToken string) (productboard.Client, error) {
	return New(ctx, &productboard.Config{
		APIEndpoint: endpoint,
		AccessToken: accessToken,
	})
}

// NewWithClientCredentials creates a client using the OAuth2
// client_credentials grant.
func NewWithClientCredentials(ctx context.Context, endpoint, clientID, clientSecret string) (productboard.Client, error) {
	return New(ctx, &productboard.Config{
		APIEndpoint:  endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// normalizeEndpoint trims the trailing slash and assumes https when the
// scheme is missing.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// needsAuth checks if the config requires an OAuth2 token endpoint.
func needsAuth(config *productboard.Config) bool {
	return config.AccessToken == "" &&
		(config.ClientID != "" || config.RefreshToken != "")
}
