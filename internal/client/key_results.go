package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// KeyResultsClient implements productboard.KeyResultsClient.
type KeyResultsClient struct {
	httpClient *http.Client
}

// NewKeyResultsClient creates a new key results client.
func NewKeyResultsClient(httpClient *http.Client) *KeyResultsClient {
	return &KeyResultsClient{
		httpClient: httpClient,
	}
}

// Get implements productboard.KeyResultsClient.Get.
func (c *KeyResultsClient) Get(ctx context.Context, keyResultID string) (*productboard.KeyResult, error) {
	path := "/key-results/" + keyResultID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting key result: %w", err)
	}

	return decodeResource[productboard.KeyResult](resp.Body, "key result")
}

// List implements productboard.KeyResultsClient.List.
func (c *KeyResultsClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.KeyResult, error) {
	keyResults, err := listAll[productboard.KeyResult](ctx, c.httpClient, "/key-results", params)
	if err != nil {
		return nil, fmt.Errorf("listing key results: %w", err)
	}

	return keyResults, nil
}

// Update implements productboard.KeyResultsClient.Update.
func (c *KeyResultsClient) Update(ctx context.Context, keyResultID string, request *productboard.KeyResultUpdateRequest) (*productboard.KeyResult, error) {
	path := "/key-results/" + keyResultID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating key result: %w", err)
	}

	return decodeResource[productboard.KeyResult](resp.Body, "key result")
}
