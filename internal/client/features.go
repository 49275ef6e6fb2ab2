package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// FeaturesClient implements productboard.FeaturesClient.
type FeaturesClient struct {
	httpClient *http.Client
}

// NewFeaturesClient creates a new features client.
func NewFeaturesClient(httpClient *http.Client) *FeaturesClient {
	return &FeaturesClient{
		httpClient: httpClient,
	}
}

// Create implements productboard.FeaturesClient.Create.
func (c *FeaturesClient) Create(ctx context.Context, request *productboard.FeatureCreateRequest) (*productboard.Feature, error) {
	resp, err := c.httpClient.Post(ctx, "/features", request)
	if err != nil {
		return nil, fmt.Errorf("creating feature: %w", err)
	}

	return decodeResource[productboard.Feature](resp.Body, "feature")
}

// Get implements productboard.FeaturesClient.Get.
func (c *FeaturesClient) Get(ctx context.Context, featureID string) (*productboard.Feature, error) {
	path := "/features/" + featureID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting feature: %w", err)
	}

	return decodeResource[productboard.Feature](resp.Body, "feature")
}

// List implements productboard.FeaturesClient.List. All pages are aggregated
// in arrival order.
func (c *FeaturesClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Feature, error) {
	features, err := listAll[productboard.Feature](ctx, c.httpClient, "/features", params)
	if err != nil {
		return nil, fmt.Errorf("listing features: %w", err)
	}

	return features, nil
}

// Update implements productboard.FeaturesClient.Update.
func (c *FeaturesClient) Update(ctx context.Context, featureID string, request *productboard.FeatureUpdateRequest) (*productboard.Feature, error) {
	path := "/features/" + featureID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating feature: %w", err)
	}

	return decodeResource[productboard.Feature](resp.Body, "feature")
}

// Delete implements productboard.FeaturesClient.Delete.
func (c *FeaturesClient) Delete(ctx context.Context, featureID string) (*productboard.DeleteResult, error) {
	path := "/features/" + featureID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting feature: %w", err)
	}

	return decodeDeleteResult(resp.Body, featureID)
}
