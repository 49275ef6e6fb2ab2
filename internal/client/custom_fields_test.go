package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

func TestCustomFieldsClient_List(t *testing.T) {
	t.Parallel()

	RunListTest(t, "lists custom fields", "/hierarchy-entities/custom-fields",
		[]interface{}{
			map[string]interface{}{"id": "field-1", "name": "Effort", "type": "number"},
		},
		func(c *Client) func(context.Context, *productboard.QueryParams) ([]productboard.CustomField, error) {
			return c.CustomFields().List
		},
		func(fields []productboard.CustomField) {
			assert.Equal(t, "Effort", fields[0].Name)
			assert.Equal(t, "number", fields[0].Type)
		})
}

func TestCustomFieldsClient_GetValue(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/hierarchy-entities/custom-fields-values/custom-field/field-1/hierarchy-entity/feature-1", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"customField":     map[string]string{"id": "field-1"},
				"hierarchyEntity": map[string]string{"id": "feature-1"},
				"value":           float64(8),
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	value, err := client.CustomFields().GetValue(context.Background(), "field-1", "feature-1")
	require.NoError(t, err)
	assert.Equal(t, "field-1", value.CustomField.ID)
	assert.Equal(t, "feature-1", value.HierarchyEntity.ID)
	assert.InEpsilon(t, 8.0, value.Value, 0.001)
}

func TestCustomFieldsClient_SetValue(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/hierarchy-entities/custom-fields-values/custom-field/field-1/hierarchy-entity/feature-1", request.URL.Path)
		assert.Equal(t, "PUT", request.Method)

		var body productboard.CustomFieldValueSetRequest

		err := json.NewDecoder(request.Body).Decode(&body)
		require.NoError(t, err)
		assert.Equal(t, "high", body.Value)

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"customField":     map[string]string{"id": "field-1"},
			"hierarchyEntity": map[string]string{"id": "feature-1"},
			"value":           "high",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	value, err := client.CustomFields().SetValue(context.Background(), "field-1", "feature-1",
		&productboard.CustomFieldValueSetRequest{Value: "high"})
	require.NoError(t, err)
	assert.Equal(t, "high", value.Value)
}

func TestFeatureReleaseAssignmentsClient_Update(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/feature-release-assignments", request.URL.Path)
		assert.Equal(t, "PUT", request.Method)
		assert.Equal(t, "feature-1", request.URL.Query().Get("feature.id"))
		assert.Equal(t, "release-1", request.URL.Query().Get("release.id"))

		var body productboard.FeatureReleaseAssignmentUpdateRequest

		err := json.NewDecoder(request.Body).Decode(&body)
		require.NoError(t, err)
		assert.True(t, body.IsAssigned)

		_ = json.NewEncoder(writer).Encode(productboard.FeatureReleaseAssignment{
			Feature:    productboard.IDRef{ID: "feature-1"},
			Release:    productboard.IDRef{ID: "release-1"},
			IsAssigned: true,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	assignment, err := client.FeatureReleaseAssignments().Update(context.Background(), "feature-1", "release-1",
		&productboard.FeatureReleaseAssignmentUpdateRequest{IsAssigned: true})
	require.NoError(t, err)
	assert.True(t, assignment.IsAssigned)
	assert.Equal(t, "feature-1", assignment.Feature.ID)
}

func TestStatusesClient_List(t *testing.T) {
	t.Parallel()

	RunListTest(t, "lists the workflow", "/feature-statuses",
		[]interface{}{
			map[string]interface{}{"id": "status-1", "name": "Candidate"},
			map[string]interface{}{"id": "status-2", "name": "In progress"},
			map[string]interface{}{"id": "status-3", "name": "Released"},
		},
		func(c *Client) func(context.Context, *productboard.QueryParams) ([]productboard.Status, error) {
			return c.Statuses().List
		},
		func(statuses []productboard.Status) {
			assert.Equal(t, "Candidate", statuses[0].Name)
			assert.Equal(t, "Released", statuses[2].Name)
		})
}
