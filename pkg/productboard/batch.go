package productboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// RequestDispatcher is the slice of the client the batch executor rides on.
// Every batch operation goes through the same dispatch path as a direct
// call: auth, rate slot per attempt, classified retries.
type RequestDispatcher interface {
	MakeRequest(ctx context.Context, method, path string, body interface{}, params *QueryParams, headers map[string]string) (json.RawMessage, error)
}

// BatchOperation is a single operation in a batch.
type BatchOperation struct {
	// ID is an optional caller-chosen correlation identifier echoed on the
	// matching result.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Method string                 `json:"method"           yaml:"method"`
	Path   string                 `json:"path"             yaml:"path"`
	Body   map[string]interface{} `json:"body,omitempty"   yaml:"body,omitempty"`
	Params map[string]string      `json:"params,omitempty" yaml:"params,omitempty"`
}

// BatchResult is the outcome of one batch operation. Exactly one of Data and
// Error is meaningful, selected by Success.
type BatchResult struct {
	ID       string          `json:"id,omitempty"    yaml:"id,omitempty"`
	Success  bool            `json:"success"         yaml:"success"`
	Data     json.RawMessage `json:"data,omitempty"  yaml:"data,omitempty"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration   `json:"duration"        yaml:"duration"`
}

// supportedBatchMethods are the verbs a batch operation may carry.
var supportedBatchMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// BatchExecutor executes heterogeneous operation sequences. Operations run
// strictly in input order, one at a time: serializing bounds rate-governor
// contention and keeps failure isolation simple.
type BatchExecutor struct {
	dispatcher RequestDispatcher
	timeout    time.Duration
}

// NewBatchExecutor creates a batch executor over the given dispatcher.
func NewBatchExecutor(dispatcher RequestDispatcher) *BatchExecutor {
	return &BatchExecutor{
		dispatcher: dispatcher,
		timeout:    constants.DefaultHTTPTimeout,
	}
}

// SetTimeout bounds each individual operation.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Run executes every operation and always returns one result per input in
// the same order. A failing operation is recorded and execution continues;
// no error escapes the batch itself.
func (b *BatchExecutor) Run(ctx context.Context, operations []BatchOperation) []BatchResult {
	results := make([]BatchResult, 0, len(operations))

	for _, operation := range operations {
		results = append(results, b.runOne(ctx, operation))
	}

	return results
}

func (b *BatchExecutor) runOne(ctx context.Context, operation BatchOperation) BatchResult {
	result := BatchResult{ID: operation.ID}
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
	}()

	method := strings.ToUpper(strings.TrimSpace(operation.Method))
	if !supportedBatchMethods[method] {
		result.Error = ErrUnsupportedBatchMethod.Error() + ": " + operation.Method

		return result
	}

	opCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc

		opCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	var body interface{}
	if operation.Body != nil {
		body = operation.Body
	}

	data, err := b.dispatcher.MakeRequest(opCtx, method, operation.Path, body, batchParams(operation.Params), nil)
	if err != nil {
		result.Error = err.Error()

		return result
	}

	result.Success = true
	result.Data = data

	return result
}

// batchParams lifts the flat string map of a batch file entry into query
// parameters.
func batchParams(params map[string]string) *QueryParams {
	if len(params) == 0 {
		return nil
	}

	query := NewQueryParams()
	for key, value := range params {
		query.WithFilter(key, value)
	}

	return query
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0, constants.DefaultBatchCapacity),
	}
}

// AddGet adds a GET operation.
func (b *BatchBuilder) AddGet(id, path string, params map[string]string) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Method: http.MethodGet, Path: path, Params: params})
}

// AddPost adds a POST operation.
func (b *BatchBuilder) AddPost(id, path string, body map[string]interface{}) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Method: http.MethodPost, Path: path, Body: body})
}

// AddPut adds a PUT operation.
func (b *BatchBuilder) AddPut(id, path string, body map[string]interface{}) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Method: http.MethodPut, Path: path, Body: body})
}

// AddPatch adds a PATCH operation.
func (b *BatchBuilder) AddPatch(id, path string, body map[string]interface{}) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Method: http.MethodPatch, Path: path, Body: body})
}

// AddDelete adds a DELETE operation.
func (b *BatchBuilder) AddDelete(id, path string) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Method: http.MethodDelete, Path: path})
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}
