package client

import (
	"context"

	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// Permission metadata convention: list/get operations require
// "<resource>:read" at read level, create/update/set require
// "<resource>:write" at write level, delete requires "<resource>:delete" at
// delete level. User management is admin-only.

func readPerms(resource string) productboard.OperationPermissionMetadata {
	return productboard.OperationPermissionMetadata{
		RequiredPermissions: []productboard.Permission{productboard.Permission(resource + ":read")},
		MinimumAccessLevel:  productboard.AccessLevelRead,
	}
}

func writePerms(resource string) productboard.OperationPermissionMetadata {
	return productboard.OperationPermissionMetadata{
		RequiredPermissions: []productboard.Permission{productboard.Permission(resource + ":write")},
		MinimumAccessLevel:  productboard.AccessLevelWrite,
	}
}

func deletePerms(resource string) productboard.OperationPermissionMetadata {
	return productboard.OperationPermissionMetadata{
		RequiredPermissions: []productboard.Permission{productboard.Permission(resource + ":delete")},
		MinimumAccessLevel:  productboard.AccessLevelDelete,
	}
}

func adminPerms(resource string) productboard.OperationPermissionMetadata {
	return productboard.OperationPermissionMetadata{
		RequiredPermissions: []productboard.Permission{productboard.Permission(resource + ":admin")},
		MinimumAccessLevel:  productboard.AccessLevelAdmin,
	}
}

func listSpec() *productboard.ParamSpec {
	return &productboard.ParamSpec{Optional: []string{"pageLimit", "filters"}}
}

func getSpec() *productboard.ParamSpec {
	return &productboard.ParamSpec{Required: []string{"id"}}
}

// registerOperations populates the registry with the full operation catalog.
// Called once at construction; duplicate names fail the whole registration.
func (c *Client) registerOperations() error {
	groups := [][]*productboard.Operation{
		c.featureOperations(),
		c.componentOperations(),
		c.productOperations(),
		c.releaseOperations(),
		c.noteOperations(),
		c.companyOperations(),
		c.userOperations(),
		c.objectiveOperations(),
		c.customFieldOperations(),
		c.statusOperations(),
	}

	for _, group := range groups {
		for _, op := range group {
			err := c.registry.Register(op)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *Client) featureOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_features",
			Description: "List features, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("features"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.features.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_feature",
			Description: "Get one feature by id",
			Params:      getSpec(),
			Permissions: readPerms("features"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.features.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "create_feature",
			Description: "Create a feature",
			Params: &productboard.ParamSpec{
				Required: []string{"name"},
				Optional: []string{"description", "status", "parent", "owner", "timeframe"},
			},
			Permissions: writePerms("features"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.FeatureCreateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.features.Create(ctx, request)
			},
		},
		{
			Name:        "update_feature",
			Description: "Update a feature; absent fields are left untouched",
			Params: &productboard.ParamSpec{
				Required: []string{"id"},
				Optional: []string{"name", "description", "status", "owner", "timeframe", "archived"},
			},
			Permissions: writePerms("features"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.FeatureUpdateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.features.Update(ctx, stringParam(params, "id"), request)
			},
		},
		{
			Name:        "delete_feature",
			Description: "Delete a feature",
			Params:      getSpec(),
			Permissions: deletePerms("features"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.features.Delete(ctx, stringParam(params, "id"))
			},
		},
	}
}

func (c *Client) componentOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_components",
			Description: "List components, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("components"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.components.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_component",
			Description: "Get one component by id",
			Params:      getSpec(),
			Permissions: readPerms("components"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.components.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "create_component",
			Description: "Create a component",
			Params: &productboard.ParamSpec{
				Required: []string{"name"},
				Optional: []string{"description", "parent"},
			},
			Permissions: writePerms("components"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.ComponentCreateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.components.Create(ctx, request)
			},
		},
		{
			Name:        "update_component",
			Description: "Update a component",
			Params: &productboard.ParamSpec{
				Required: []string{"id"},
				Optional: []string{"name", "description"},
			},
			Permissions: writePerms("components"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.ComponentUpdateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.components.Update(ctx, stringParam(params, "id"), request)
			},
		},
	}
}

func (c *Client) productOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_products",
			Description: "List products, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("products"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.products.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_product",
			Description: "Get one product by id",
			Params:      getSpec(),
			Permissions: readPerms("products"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.products.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "update_product",
			Description: "Update a product",
			Params: &productboard.ParamSpec{
				Required: []string{"id"},
				Optional: []string{"name", "description"},
			},
			Permissions: writePerms("products"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.ProductUpdateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.products.Update(ctx, stringParam(params, "id"), request)
			},
		},
	}
}

func (c *Client) releaseOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_releases",
			Description: "List releases, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("releases"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.releases.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_release",
			Description: "Get one release by id",
			Params:      getSpec(),
			Permissions: readPerms("releases"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.releases.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "create_release",
			Description: "Create a release",
			Params: &productboard.ParamSpec{
				Required: []string{"name"},
				Optional: []string{"description", "state", "releaseGroup", "timeframe"},
			},
			Permissions: writePerms("releases"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.ReleaseCreateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.releases.Create(ctx, request)
			},
		},
		{
			Name:        "update_release",
			Description: "Update a release",
			Params: &productboard.ParamSpec{
				Required: []string{"id"},
				Optional: []string{"name", "description", "state", "timeframe"},
			},
			Permissions: writePerms("releases"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.ReleaseUpdateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.releases.Update(ctx, stringParam(params, "id"), request)
			},
		},
		{
			Name:        "delete_release",
			Description: "Delete a release",
			Params:      getSpec(),
			Permissions: deletePerms("releases"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.releases.Delete(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "list_release_groups",
			Description: "List release groups, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("release_groups"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.releaseGroups.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_release_group",
			Description: "Get one release group by id",
			Params:      getSpec(),
			Permissions: readPerms("release_groups"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.releaseGroups.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "list_feature_release_assignments",
			Description: "List feature release assignments, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("feature_release_assignments"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.featureReleaseAssignments.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "update_feature_release_assignment",
			Description: "Assign a feature to or remove it from a release",
			Params: &productboard.ParamSpec{
				Required: []string{"featureId", "releaseId", "isAssigned"},
			},
			Permissions: writePerms("feature_release_assignments"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				isAssigned, _ := params["isAssigned"].(bool)
				request := &productboard.FeatureReleaseAssignmentUpdateRequest{IsAssigned: isAssigned}

				return c.featureReleaseAssignments.Update(ctx,
					stringParam(params, "featureId"), stringParam(params, "releaseId"), request)
			},
		},
	}
}

func (c *Client) noteOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_notes",
			Description: "List notes, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("notes"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.notes.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_note",
			Description: "Get one note by id",
			Params:      getSpec(),
			Permissions: readPerms("notes"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.notes.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "create_note",
			Description: "Create a feedback note",
			Params: &productboard.ParamSpec{
				Required: []string{"title", "content"},
				Optional: []string{"tags", "company", "user", "displayUrl", "sourceOrigin", "sourceRecordId"},
			},
			Permissions: writePerms("notes"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.NoteCreateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.notes.Create(ctx, request)
			},
		},
		{
			Name:        "update_note",
			Description: "Update a note",
			Params: &productboard.ParamSpec{
				Required: []string{"id"},
				Optional: []string{"title", "content", "tags"},
			},
			Permissions: writePerms("notes"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.NoteUpdateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.notes.Update(ctx, stringParam(params, "id"), request)
			},
		},
		{
			Name:        "delete_note",
			Description: "Delete a note",
			Params:      getSpec(),
			Permissions: deletePerms("notes"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.notes.Delete(ctx, stringParam(params, "id"))
			},
		},
	}
}

func (c *Client) companyOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_companies",
			Description: "List companies, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("companies"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.companies.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_company",
			Description: "Get one company by id",
			Params:      getSpec(),
			Permissions: readPerms("companies"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.companies.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "create_company",
			Description: "Create a company",
			Params: &productboard.ParamSpec{
				Required: []string{"name"},
				Optional: []string{"domain", "description"},
			},
			Permissions: writePerms("companies"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.CompanyCreateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.companies.Create(ctx, request)
			},
		},
		{
			Name:        "delete_company",
			Description: "Delete a company",
			Params:      getSpec(),
			Permissions: deletePerms("companies"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.companies.Delete(ctx, stringParam(params, "id"))
			},
		},
	}
}

func (c *Client) userOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_users",
			Description: "List users, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("users"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.users.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_user",
			Description: "Get one user by id",
			Params:      getSpec(),
			Permissions: readPerms("users"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.users.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "create_user",
			Description: "Create a user (admin only)",
			Params: &productboard.ParamSpec{
				Required: []string{"email"},
				Optional: []string{"name", "role"},
			},
			Permissions: adminPerms("users"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.UserCreateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.users.Create(ctx, request)
			},
		},
		{
			Name:        "delete_user",
			Description: "Delete a user (admin only)",
			Params:      getSpec(),
			Permissions: adminPerms("users"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.users.Delete(ctx, stringParam(params, "id"))
			},
		},
	}
}

func (c *Client) objectiveOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_objectives",
			Description: "List objectives, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("objectives"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.objectives.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_objective",
			Description: "Get one objective by id",
			Params:      getSpec(),
			Permissions: readPerms("objectives"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.objectives.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "create_objective",
			Description: "Create an objective",
			Params: &productboard.ParamSpec{
				Required: []string{"name"},
				Optional: []string{"description", "owner", "timeframe"},
			},
			Permissions: writePerms("objectives"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.ObjectiveCreateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.objectives.Create(ctx, request)
			},
		},
		{
			Name:        "update_objective",
			Description: "Update an objective",
			Params: &productboard.ParamSpec{
				Required: []string{"id"},
				Optional: []string{"name", "description", "state", "owner", "timeframe"},
			},
			Permissions: writePerms("objectives"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.ObjectiveUpdateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.objectives.Update(ctx, stringParam(params, "id"), request)
			},
		},
		{
			Name:        "delete_objective",
			Description: "Delete an objective",
			Params:      getSpec(),
			Permissions: deletePerms("objectives"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.objectives.Delete(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "list_key_results",
			Description: "List key results, aggregating every page",
			Params:      listSpec(),
			Permissions: readPerms("key_results"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.keyResults.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_key_result",
			Description: "Get one key result by id",
			Params:      getSpec(),
			Permissions: readPerms("key_results"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.keyResults.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "update_key_result",
			Description: "Update a key result",
			Params: &productboard.ParamSpec{
				Required: []string{"id"},
				Optional: []string{"name", "currentValue", "targetValue"},
			},
			Permissions: writePerms("key_results"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request, err := decodeRequest[productboard.KeyResultUpdateRequest](params)
				if err != nil {
					return nil, err
				}

				return c.keyResults.Update(ctx, stringParam(params, "id"), request)
			},
		},
	}
}

func (c *Client) customFieldOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_custom_fields",
			Description: "List custom field definitions",
			Params:      listSpec(),
			Permissions: readPerms("custom_fields"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.customFields.List(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_custom_field",
			Description: "Get one custom field definition by id",
			Params:      getSpec(),
			Permissions: readPerms("custom_fields"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.customFields.Get(ctx, stringParam(params, "id"))
			},
		},
		{
			Name:        "list_custom_field_values",
			Description: "List custom field values across hierarchy entities",
			Params:      listSpec(),
			Permissions: readPerms("custom_fields"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.customFields.ListValues(ctx, queryFromParams(params))
			},
		},
		{
			Name:        "get_custom_field_value",
			Description: "Get one field's value on one hierarchy entity",
			Params: &productboard.ParamSpec{
				Required: []string{"customFieldId", "hierarchyEntityId"},
			},
			Permissions: readPerms("custom_fields"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.customFields.GetValue(ctx,
					stringParam(params, "customFieldId"), stringParam(params, "hierarchyEntityId"))
			},
		},
		{
			Name:        "set_custom_field_value",
			Description: "Set one field's value on one hierarchy entity",
			Params: &productboard.ParamSpec{
				Required: []string{"customFieldId", "hierarchyEntityId", "value"},
			},
			Permissions: writePerms("custom_fields"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				request := &productboard.CustomFieldValueSetRequest{Value: params["value"]}

				return c.customFields.SetValue(ctx,
					stringParam(params, "customFieldId"), stringParam(params, "hierarchyEntityId"), request)
			},
		},
	}
}

func (c *Client) statusOperations() []*productboard.Operation {
	return []*productboard.Operation{
		{
			Name:        "list_statuses",
			Description: "List the feature status workflow",
			Params:      listSpec(),
			Permissions: readPerms("statuses"),
			Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return c.statuses.List(ctx, queryFromParams(params))
			},
		},
	}
}
