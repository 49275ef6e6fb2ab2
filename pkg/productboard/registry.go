package productboard

import (
	"context"
	"fmt"
	"sync"
)

// OperationHandler executes one registered operation with validated
// parameters and returns its result payload.
type OperationHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ParamSpec is the minimal parameter contract an operation declares:
// required names, recognized optional names, and whether unknown keys are
// tolerated.
type ParamSpec struct {
	Required        []string `json:"required,omitempty" yaml:"required,omitempty"`
	Optional        []string `json:"optional,omitempty" yaml:"optional,omitempty"`
	AllowAdditional bool     `json:"allow_additional"   yaml:"allow_additional"`
}

// Validate checks the supplied parameters against the spec.
func (s *ParamSpec) Validate(params map[string]interface{}) error {
	if s == nil {
		return nil
	}

	for _, name := range s.Required {
		value, ok := params[name]
		if !ok || value == nil {
			return fmt.Errorf("%w: %s", ErrMissingRequiredParam, name)
		}
	}

	if s.AllowAdditional {
		return nil
	}

	known := make(map[string]bool, len(s.Required)+len(s.Optional))
	for _, name := range s.Required {
		known[name] = true
	}

	for _, name := range s.Optional {
		known[name] = true
	}

	for name := range params {
		if !known[name] {
			return fmt.Errorf("%w: %s", ErrUnexpectedParam, name)
		}
	}

	return nil
}

// Operation is one named, permission-gated unit of work mapping to an
// external service call.
type Operation struct {
	Name        string
	Description string
	Params      *ParamSpec
	Permissions OperationPermissionMetadata
	Handler     OperationHandler
}

// OperationDescriptor is the public view of a registered operation.
type OperationDescriptor struct {
	Name        string                      `json:"name"                 yaml:"name"`
	Description string                      `json:"description"          yaml:"description"`
	Params      *ParamSpec                  `json:"params,omitempty"     yaml:"params,omitempty"`
	Permissions OperationPermissionMetadata `json:"permissions"          yaml:"permissions"`
}

// Registry is the name-keyed catalog of operations. Entries are registered
// once at startup; duplicate names are rejected unless the registry was
// built with WithReplace.
type Registry struct {
	mu      sync.RWMutex
	ops     map[string]*Operation
	order   []string
	replace bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithReplace lets a later registration overwrite an earlier one with the
// same name, keeping its original position in the catalog order.
func WithReplace() RegistryOption {
	return func(r *Registry) {
		r.replace = true
	}
}

// NewRegistry creates an empty operation registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	registry := &Registry{
		ops: make(map[string]*Operation),
	}

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// Register stores an operation keyed by its unique name.
func (r *Registry) Register(op *Operation) error {
	if op == nil {
		return ErrNilOperation
	}

	if op.Name == "" {
		return ErrOperationNameRequired
	}

	if op.Handler == nil {
		return fmt.Errorf("%w: %s", ErrOperationHandlerRequired, op.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.ops[op.Name]
	if exists && !r.replace {
		return fmt.Errorf("%w: %s", ErrOperationAlreadyRegistered, op.Name)
	}

	if !exists {
		r.order = append(r.order, op.Name)
	}

	r.ops[op.Name] = op

	return nil
}

// Resolve returns the operation registered under name.
func (r *Registry) Resolve(name string) (*Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, name)
	}

	return op, nil
}

// List returns the public descriptors of all registered operations in
// registration order.
func (r *Registry) List() []OperationDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]OperationDescriptor, 0, len(r.order))

	for _, name := range r.order {
		op := r.ops[name]
		descriptors = append(descriptors, OperationDescriptor{
			Name:        op.Name,
			Description: op.Description,
			Params:      op.Params,
			Permissions: op.Permissions,
		})
	}

	return descriptors
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ops)
}
