package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// StatusesClient implements productboard.StatusesClient.
type StatusesClient struct {
	httpClient *http.Client
}

// NewStatusesClient creates a new statuses client.
func NewStatusesClient(httpClient *http.Client) *StatusesClient {
	return &StatusesClient{
		httpClient: httpClient,
	}
}

// List implements productboard.StatusesClient.List.
func (c *StatusesClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Status, error) {
	statuses, err := listAll[productboard.Status](ctx, c.httpClient, "/feature-statuses", params)
	if err != nil {
		return nil, fmt.Errorf("listing feature statuses: %w", err)
	}

	return statuses, nil
}
