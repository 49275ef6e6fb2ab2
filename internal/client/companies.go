package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// CompaniesClient implements productboard.CompaniesClient.
type CompaniesClient struct {
	httpClient *http.Client
}

// NewCompaniesClient creates a new companies client.
func NewCompaniesClient(httpClient *http.Client) *CompaniesClient {
	return &CompaniesClient{
		httpClient: httpClient,
	}
}

// Create implements productboard.CompaniesClient.Create.
func (c *CompaniesClient) Create(ctx context.Context, request *productboard.CompanyCreateRequest) (*productboard.Company, error) {
	resp, err := c.httpClient.Post(ctx, "/companies", request)
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	return decodeResource[productboard.Company](resp.Body, "company")
}

// Get implements productboard.CompaniesClient.Get.
func (c *CompaniesClient) Get(ctx context.Context, companyID string) (*productboard.Company, error) {
	path := "/companies/" + companyID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting company: %w", err)
	}

	return decodeResource[productboard.Company](resp.Body, "company")
}

// List implements productboard.CompaniesClient.List.
func (c *CompaniesClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Company, error) {
	companies, err := listAll[productboard.Company](ctx, c.httpClient, "/companies", params)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}

	return companies, nil
}

// Delete implements productboard.CompaniesClient.Delete.
func (c *CompaniesClient) Delete(ctx context.Context, companyID string) (*productboard.DeleteResult, error) {
	path := "/companies/" + companyID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting company: %w", err)
	}

	return decodeDeleteResult(resp.Body, companyID)
}
