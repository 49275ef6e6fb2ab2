package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// Execute implements productboard.OperationsClient.Execute: registry resolve,
// permission gate, parameter validation, then the operation handler. The gate
// runs before validation so a denied caller learns nothing about an
// operation's parameter contract.
func (c *Client) Execute(ctx context.Context, caller *productboard.CallerPermissions, name string, params map[string]interface{}) (interface{}, error) {
	op, err := c.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	err = productboard.CheckPermissions(name, caller, &op.Permissions)
	if err != nil {
		return nil, err
	}

	err = op.Params.Validate(params)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters for %s: %w", name, err)
	}

	return op.Handler(ctx, params)
}

// Operations implements productboard.OperationsClient.Operations.
func (c *Client) Operations() []productboard.OperationDescriptor {
	return c.registry.List()
}

// stringParam reads a string-typed parameter, empty when absent or not a
// string. Required parameters are enforced by the ParamSpec before handlers
// run.
func stringParam(params map[string]interface{}, name string) string {
	value, _ := params[name].(string)

	return value
}

// decodeRequest round-trips the validated parameter map into a typed request
// struct. Unknown keys (such as the addressing "id") are ignored by the
// target type.
func decodeRequest[T any](params map[string]interface{}) (*T, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding parameters: %w", err)
	}

	var request T

	err = json.Unmarshal(encoded, &request)
	if err != nil {
		return nil, fmt.Errorf("decoding parameters: %w", err)
	}

	return &request, nil
}

// queryFromParams lifts the conventional list parameters ("pageLimit" and the
// "filters" object) into query parameters.
func queryFromParams(params map[string]interface{}) *productboard.QueryParams {
	query := productboard.NewQueryParams()

	if limit, ok := params["pageLimit"].(float64); ok && limit > 0 {
		query.WithPageLimit(int(limit))
	}

	if filters, ok := params["filters"].(map[string]interface{}); ok {
		for key, value := range filters {
			query.WithFilter(key, fmt.Sprintf("%v", value))
		}
	}

	return query
}
