package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// ProductsClient implements productboard.ProductsClient. Products are
// created in the service itself; the API only reads and renames them.
type ProductsClient struct {
	httpClient *http.Client
}

// NewProductsClient creates a new products client.
func NewProductsClient(httpClient *http.Client) *ProductsClient {
	return &ProductsClient{
		httpClient: httpClient,
	}
}

// Get implements productboard.ProductsClient.Get.
func (c *ProductsClient) Get(ctx context.Context, productID string) (*productboard.Product, error) {
	path := "/products/" + productID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}

	return decodeResource[productboard.Product](resp.Body, "product")
}

// List implements productboard.ProductsClient.List.
func (c *ProductsClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Product, error) {
	products, err := listAll[productboard.Product](ctx, c.httpClient, "/products", params)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return products, nil
}

// Update implements productboard.ProductsClient.Update.
func (c *ProductsClient) Update(ctx context.Context, productID string, request *productboard.ProductUpdateRequest) (*productboard.Product, error) {
	path := "/products/" + productID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	return decodeResource[productboard.Product](resp.Body, "product")
}
