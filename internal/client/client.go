// Package client implements the productboard.Client interface: resource
// clients over the dispatcher, the operation registry, and the gated Execute
// entry point.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/copyhacker/productboard-mcp/internal/auth"
	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/internal/ratelimit"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// Client implements the productboard.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       productboard.Logger
	registry     *productboard.Registry
	batch        *productboard.BatchExecutor
	metrics      *productboard.RequestMetrics
	events       productboard.EventPublisher

	// Resource clients
	features                  productboard.FeaturesClient
	components                productboard.ComponentsClient
	products                  productboard.ProductsClient
	statuses                  productboard.StatusesClient
	releases                  productboard.ReleasesClient
	releaseGroups             productboard.ReleaseGroupsClient
	featureReleaseAssignments productboard.FeatureReleaseAssignmentsClient
	objectives                productboard.ObjectivesClient
	keyResults                productboard.KeyResultsClient
	notes                     productboard.NotesClient
	companies                 productboard.CompaniesClient
	users                     productboard.UsersClient
	customFields              productboard.CustomFieldsClient
}

// createTokenManager creates the appropriate token manager for the
// configured credentials, in precedence order.
func createTokenManager(config *productboard.Config) auth.TokenManager {
	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		return createOAuth2TokenManager(config)
	}

	if config.RefreshToken != "" {
		return createOAuth2TokenManager(config)
	}

	return nil // No authentication
}

// createOAuth2TokenManager creates an OAuth2 token manager using the
// client_credentials or refresh_token grant.
func createOAuth2TokenManager(config *productboard.Config) auth.TokenManager {
	oauthConfig := &auth.OAuth2Config{
		TokenURL:     getTokenURL(config),
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RefreshToken: config.RefreshToken,
	}

	return auth.NewOAuth2TokenManager(oauthConfig)
}

// getTokenURL returns the token URL from config or derives it from the API
// endpoint.
func getTokenURL(config *productboard.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return config.APIEndpoint + "/oauth2/token"
}

// createHTTPClientOptions builds dispatcher options from config.
func createHTTPClientOptions(config *productboard.Config, events productboard.EventPublisher, metrics *productboard.RequestMetrics) []http.Option {
	httpOpts := []http.Option{
		http.WithEvents(events),
		http.WithMetrics(metrics),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	httpOpts = append(httpOpts, http.WithRetryPolicy(config.Retry.Normalized()))

	requestsPerSecond := config.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = constants.DefaultRequestsPerSecond
	}

	burst := config.Burst
	if burst <= 0 {
		burst = constants.DefaultRateBurst
	}

	httpOpts = append(httpOpts, http.WithGovernor(ratelimit.New(requestsPerSecond, burst)))

	return httpOpts
}

// New creates a new client for the configured API endpoint.
func New(ctx context.Context, config *productboard.Config) (*Client, error) {
	if config == nil {
		return nil, productboard.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, productboard.ErrAPIEndpointRequired
	}

	tokenManager := createTokenManager(config)

	return NewWithTokenManager(config, tokenManager)
}

// NewWithTokenManager creates a new client with a custom token manager.
func NewWithTokenManager(config *productboard.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, productboard.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, productboard.ErrAPIEndpointRequired
	}

	events, err := productboard.NewEventPublisher(config.Events, config.Logger)
	if err != nil {
		return nil, fmt.Errorf("configuring event publisher: %w", err)
	}

	metrics := productboard.NewRequestMetrics()

	httpOpts := createHTTPClientOptions(config, events, metrics)
	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
		registry:     productboard.NewRegistry(),
		metrics:      metrics,
		events:       events,
	}

	client.batch = productboard.NewBatchExecutor(client)

	client.initializeResourceClients()

	err = client.registerOperations()
	if err != nil {
		return nil, fmt.Errorf("registering operations: %w", err)
	}

	return client, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", constants.ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// MakeRequest implements productboard.RawClient.MakeRequest. It is the only
// path to the network; every resource client and batch operation rides on it.
func (c *Client) MakeRequest(ctx context.Context, method, path string, body interface{}, params *productboard.QueryParams, headers map[string]string) (json.RawMessage, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Body:    body,
		Headers: headers,
	})
	if err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body), nil
}

// ListPage implements productboard.RawClient.ListPage.
func (c *Client) ListPage(ctx context.Context, path string, params *productboard.QueryParams) (*productboard.Page, error) {
	return listPage(ctx, c.httpClient, path, params)
}

// CollectAll implements productboard.RawClient.CollectAll.
func (c *Client) CollectAll(ctx context.Context, path string, params *productboard.QueryParams) ([]json.RawMessage, error) {
	return productboard.CollectAll(ctx, c, path, params, nil)
}

// RunBatch implements productboard.RawClient.RunBatch.
func (c *Client) RunBatch(ctx context.Context, operations []productboard.BatchOperation) []productboard.BatchResult {
	return c.batch.Run(ctx, operations)
}

// Metrics implements productboard.Client.Metrics.
func (c *Client) Metrics() productboard.MetricsSnapshot {
	return c.metrics.Snapshot()
}

// Close releases the diagnostic-event mirror, if one is configured.
func (c *Client) Close() {
	if c.events != nil {
		c.events.Close()
	}
}

// Resource client accessors

// Features implements productboard.Client.Features.
func (c *Client) Features() productboard.FeaturesClient {
	return c.features
}

// Components implements productboard.Client.Components.
func (c *Client) Components() productboard.ComponentsClient {
	return c.components
}

// Products implements productboard.Client.Products.
func (c *Client) Products() productboard.ProductsClient {
	return c.products
}

// Statuses implements productboard.Client.Statuses.
func (c *Client) Statuses() productboard.StatusesClient {
	return c.statuses
}

// Releases implements productboard.Client.Releases.
func (c *Client) Releases() productboard.ReleasesClient {
	return c.releases
}

// ReleaseGroups implements productboard.Client.ReleaseGroups.
func (c *Client) ReleaseGroups() productboard.ReleaseGroupsClient {
	return c.releaseGroups
}

// FeatureReleaseAssignments implements productboard.Client.FeatureReleaseAssignments.
func (c *Client) FeatureReleaseAssignments() productboard.FeatureReleaseAssignmentsClient {
	return c.featureReleaseAssignments
}

// Objectives implements productboard.Client.Objectives.
func (c *Client) Objectives() productboard.ObjectivesClient {
	return c.objectives
}

// KeyResults implements productboard.Client.KeyResults.
func (c *Client) KeyResults() productboard.KeyResultsClient {
	return c.keyResults
}

// Notes implements productboard.Client.Notes.
func (c *Client) Notes() productboard.NotesClient {
	return c.notes
}

// Companies implements productboard.Client.Companies.
func (c *Client) Companies() productboard.CompaniesClient {
	return c.companies
}

// Users implements productboard.Client.Users.
func (c *Client) Users() productboard.UsersClient {
	return c.users
}

// CustomFields implements productboard.Client.CustomFields.
func (c *Client) CustomFields() productboard.CustomFieldsClient {
	return c.customFields
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.features = NewFeaturesClient(c.httpClient)
	c.components = NewComponentsClient(c.httpClient)
	c.products = NewProductsClient(c.httpClient)
	c.statuses = NewStatusesClient(c.httpClient)
	c.releases = NewReleasesClient(c.httpClient)
	c.releaseGroups = NewReleaseGroupsClient(c.httpClient)
	c.featureReleaseAssignments = NewFeatureReleaseAssignmentsClient(c.httpClient)
	c.objectives = NewObjectivesClient(c.httpClient)
	c.keyResults = NewKeyResultsClient(c.httpClient)
	c.notes = NewNotesClient(c.httpClient)
	c.companies = NewCompaniesClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
	c.customFields = NewCustomFieldsClient(c.httpClient)
}
