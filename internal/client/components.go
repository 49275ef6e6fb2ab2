package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// ComponentsClient implements productboard.ComponentsClient.
type ComponentsClient struct {
	httpClient *http.Client
}

// NewComponentsClient creates a new components client.
func NewComponentsClient(httpClient *http.Client) *ComponentsClient {
	return &ComponentsClient{
		httpClient: httpClient,
	}
}

// Create implements productboard.ComponentsClient.Create.
func (c *ComponentsClient) Create(ctx context.Context, request *productboard.ComponentCreateRequest) (*productboard.Component, error) {
	resp, err := c.httpClient.Post(ctx, "/components", request)
	if err != nil {
		return nil, fmt.Errorf("creating component: %w", err)
	}

	return decodeResource[productboard.Component](resp.Body, "component")
}

// Get implements productboard.ComponentsClient.Get.
func (c *ComponentsClient) Get(ctx context.Context, componentID string) (*productboard.Component, error) {
	path := "/components/" + componentID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting component: %w", err)
	}

	return decodeResource[productboard.Component](resp.Body, "component")
}

// List implements productboard.ComponentsClient.List.
func (c *ComponentsClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Component, error) {
	components, err := listAll[productboard.Component](ctx, c.httpClient, "/components", params)
	if err != nil {
		return nil, fmt.Errorf("listing components: %w", err)
	}

	return components, nil
}

// Update implements productboard.ComponentsClient.Update.
func (c *ComponentsClient) Update(ctx context.Context, componentID string, request *productboard.ComponentUpdateRequest) (*productboard.Component, error) {
	path := "/components/" + componentID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating component: %w", err)
	}

	return decodeResource[productboard.Component](resp.Body, "component")
}
