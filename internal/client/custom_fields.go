package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// CustomFieldsClient implements productboard.CustomFieldsClient. Fields are
// defined in the service; the API reads them and reads/writes their values on
// hierarchy entities.
type CustomFieldsClient struct {
	httpClient *http.Client
}

// NewCustomFieldsClient creates a new custom fields client.
func NewCustomFieldsClient(httpClient *http.Client) *CustomFieldsClient {
	return &CustomFieldsClient{
		httpClient: httpClient,
	}
}

// List implements productboard.CustomFieldsClient.List.
func (c *CustomFieldsClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.CustomField, error) {
	fields, err := listAll[productboard.CustomField](ctx, c.httpClient, "/hierarchy-entities/custom-fields", params)
	if err != nil {
		return nil, fmt.Errorf("listing custom fields: %w", err)
	}

	return fields, nil
}

// Get implements productboard.CustomFieldsClient.Get.
func (c *CustomFieldsClient) Get(ctx context.Context, customFieldID string) (*productboard.CustomField, error) {
	path := "/hierarchy-entities/custom-fields/" + customFieldID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting custom field: %w", err)
	}

	return decodeResource[productboard.CustomField](resp.Body, "custom field")
}

// ListValues implements productboard.CustomFieldsClient.ListValues.
func (c *CustomFieldsClient) ListValues(ctx context.Context, params *productboard.QueryParams) ([]productboard.CustomFieldValue, error) {
	values, err := listAll[productboard.CustomFieldValue](ctx, c.httpClient, "/hierarchy-entities/custom-fields-values", params)
	if err != nil {
		return nil, fmt.Errorf("listing custom field values: %w", err)
	}

	return values, nil
}

// GetValue implements productboard.CustomFieldsClient.GetValue.
func (c *CustomFieldsClient) GetValue(ctx context.Context, customFieldID, hierarchyEntityID string) (*productboard.CustomFieldValue, error) {
	path := customFieldValuePath(customFieldID, hierarchyEntityID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting custom field value: %w", err)
	}

	return decodeResource[productboard.CustomFieldValue](resp.Body, "custom field value")
}

// SetValue implements productboard.CustomFieldsClient.SetValue.
func (c *CustomFieldsClient) SetValue(ctx context.Context, customFieldID, hierarchyEntityID string, request *productboard.CustomFieldValueSetRequest) (*productboard.CustomFieldValue, error) {
	path := customFieldValuePath(customFieldID, hierarchyEntityID)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("setting custom field value: %w", err)
	}

	return decodeResource[productboard.CustomFieldValue](resp.Body, "custom field value")
}

// customFieldValuePath addresses one field's value on one hierarchy entity.
func customFieldValuePath(customFieldID, hierarchyEntityID string) string {
	return "/hierarchy-entities/custom-fields-values/custom-field/" + customFieldID +
		"/hierarchy-entity/" + hierarchyEntityID
}
