package productboard

import (
	"context"
	"encoding/json"
	"time"
)

// HierarchyClients provides access to product-hierarchy resource clients.
type HierarchyClients interface {
	Features() FeaturesClient
	Components() ComponentsClient
	Products() ProductsClient
	Statuses() StatusesClient
}

// PlanningClients provides access to release-planning resource clients.
type PlanningClients interface {
	Releases() ReleasesClient
	ReleaseGroups() ReleaseGroupsClient
	FeatureReleaseAssignments() FeatureReleaseAssignmentsClient
	Objectives() ObjectivesClient
	KeyResults() KeyResultsClient
}

// InsightClients provides access to feedback and customer resource clients.
type InsightClients interface {
	Notes() NotesClient
	Companies() CompaniesClient
	Users() UsersClient
	CustomFields() CustomFieldsClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	HierarchyClients
	PlanningClients
	InsightClients
}

// OperationsClient is the gated entry point for a tool-invoking caller:
// operations are resolved by name, checked against the caller's permissions,
// validated, and only then executed.
type OperationsClient interface {
	// Execute resolves and runs a registered operation on behalf of caller.
	Execute(ctx context.Context, caller *CallerPermissions, name string, params map[string]interface{}) (interface{}, error)

	// Operations returns the catalog of registered operations in
	// registration order.
	Operations() []OperationDescriptor
}

// RawClient is the untyped request surface. No operation implementation may
// reach the external service except through it.
type RawClient interface {
	// MakeRequest performs one dispatched call. DELETE yields a synthetic
	// success marker since the service returns no body for deletions.
	MakeRequest(ctx context.Context, method, path string, body interface{}, params *QueryParams, headers map[string]string) (json.RawMessage, error)

	// ListPage fetches one page of a list endpoint.
	ListPage(ctx context.Context, path string, params *QueryParams) (*Page, error)

	// CollectAll aggregates every page of a list endpoint into one ordered
	// result.
	CollectAll(ctx context.Context, path string, params *QueryParams) ([]json.RawMessage, error)

	// RunBatch executes a heterogeneous sequence of operations strictly in
	// order with per-operation failure isolation.
	RunBatch(ctx context.Context, operations []BatchOperation) []BatchResult
}

// Client is the full public surface.
type Client interface {
	ResourceClients
	OperationsClient
	RawClient

	// Metrics returns a snapshot of request diagnostics.
	Metrics() MetricsSnapshot
}

// FeaturesClient manages features.
type FeaturesClient interface {
	Create(ctx context.Context, request *FeatureCreateRequest) (*Feature, error)
	Get(ctx context.Context, featureID string) (*Feature, error)
	List(ctx context.Context, params *QueryParams) ([]Feature, error)
	Update(ctx context.Context, featureID string, request *FeatureUpdateRequest) (*Feature, error)
	Delete(ctx context.Context, featureID string) (*DeleteResult, error)
}

// ComponentsClient manages components.
type ComponentsClient interface {
	Create(ctx context.Context, request *ComponentCreateRequest) (*Component, error)
	Get(ctx context.Context, componentID string) (*Component, error)
	List(ctx context.Context, params *QueryParams) ([]Component, error)
	Update(ctx context.Context, componentID string, request *ComponentUpdateRequest) (*Component, error)
}

// ProductsClient manages products.
type ProductsClient interface {
	Get(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, params *QueryParams) ([]Product, error)
	Update(ctx context.Context, productID string, request *ProductUpdateRequest) (*Product, error)
}

// StatusesClient reads the feature-status workflow.
type StatusesClient interface {
	List(ctx context.Context, params *QueryParams) ([]Status, error)
}

// ReleasesClient manages releases.
type ReleasesClient interface {
	Create(ctx context.Context, request *ReleaseCreateRequest) (*Release, error)
	Get(ctx context.Context, releaseID string) (*Release, error)
	List(ctx context.Context, params *QueryParams) ([]Release, error)
	Update(ctx context.Context, releaseID string, request *ReleaseUpdateRequest) (*Release, error)
	Delete(ctx context.Context, releaseID string) (*DeleteResult, error)
}

// ReleaseGroupsClient reads release groups.
type ReleaseGroupsClient interface {
	Get(ctx context.Context, releaseGroupID string) (*ReleaseGroup, error)
	List(ctx context.Context, params *QueryParams) ([]ReleaseGroup, error)
}

// FeatureReleaseAssignmentsClient manages feature placement in releases.
type FeatureReleaseAssignmentsClient interface {
	List(ctx context.Context, params *QueryParams) ([]FeatureReleaseAssignment, error)
	Update(ctx context.Context, featureID, releaseID string, request *FeatureReleaseAssignmentUpdateRequest) (*FeatureReleaseAssignment, error)
}

// ObjectivesClient manages objectives.
type ObjectivesClient interface {
	Create(ctx context.Context, request *ObjectiveCreateRequest) (*Objective, error)
	Get(ctx context.Context, objectiveID string) (*Objective, error)
	List(ctx context.Context, params *QueryParams) ([]Objective, error)
	Update(ctx context.Context, objectiveID string, request *ObjectiveUpdateRequest) (*Objective, error)
	Delete(ctx context.Context, objectiveID string) (*DeleteResult, error)
}

// KeyResultsClient manages key results.
type KeyResultsClient interface {
	Get(ctx context.Context, keyResultID string) (*KeyResult, error)
	List(ctx context.Context, params *QueryParams) ([]KeyResult, error)
	Update(ctx context.Context, keyResultID string, request *KeyResultUpdateRequest) (*KeyResult, error)
}

// NotesClient manages customer feedback notes.
type NotesClient interface {
	Create(ctx context.Context, request *NoteCreateRequest) (*Note, error)
	Get(ctx context.Context, noteID string) (*Note, error)
	List(ctx context.Context, params *QueryParams) ([]Note, error)
	Update(ctx context.Context, noteID string, request *NoteUpdateRequest) (*Note, error)
	Delete(ctx context.Context, noteID string) (*DeleteResult, error)
}

// CompaniesClient manages customer companies.
type CompaniesClient interface {
	Create(ctx context.Context, request *CompanyCreateRequest) (*Company, error)
	Get(ctx context.Context, companyID string) (*Company, error)
	List(ctx context.Context, params *QueryParams) ([]Company, error)
	Delete(ctx context.Context, companyID string) (*DeleteResult, error)
}

// UsersClient manages feedback-submitting users.
type UsersClient interface {
	Create(ctx context.Context, request *UserCreateRequest) (*User, error)
	Get(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context, params *QueryParams) ([]User, error)
	Delete(ctx context.Context, userID string) (*DeleteResult, error)
}

// CustomFieldsClient reads custom fields and manages their values.
type CustomFieldsClient interface {
	List(ctx context.Context, params *QueryParams) ([]CustomField, error)
	Get(ctx context.Context, customFieldID string) (*CustomField, error)
	ListValues(ctx context.Context, params *QueryParams) ([]CustomFieldValue, error)
	GetValue(ctx context.Context, customFieldID, hierarchyEntityID string) (*CustomFieldValue, error)
	SetValue(ctx context.Context, customFieldID, hierarchyEntityID string, request *CustomFieldValueSetRequest) (*CustomFieldValue, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a productboard.Client.
//
// # Authentication precedence
//
//  1. AccessToken: if set, it is used directly as a static Bearer token.
//  2. ClientID/ClientSecret: uses the OAuth2 client_credentials grant
//     against TokenURL (derived from APIEndpoint when empty). A RefreshToken
//     lets the manager renew access tokens.
//  3. RefreshToken alone: the OAuth2 manager redeems it on first use.
//  4. No credentials: every dispatched call fails fast with an
//     Authentication-kind error before any network I/O.
//
// # Timeouts and retries
//
// Per-request timeouts are controlled via the context passed to client
// methods; an attempt exceeding its transport timeout classifies as a
// network failure and is subject to the same retry predicate. Retry counts
// and backoff bounds come from Retry, falling back to DefaultRetryPolicy.
type Config struct {
	// APIEndpoint is the base URL of the service. Normalized by the
	// constructor: trailing slash trimmed, "https://" added when no scheme
	// is present.
	APIEndpoint string

	// AccessToken is used directly as a static Bearer token when set.
	AccessToken string
	// ClientID is the OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret is the OAuth2 client secret used with ClientID.
	ClientSecret string
	// RefreshToken lets the OAuth2 manager renew access tokens.
	RefreshToken string
	// TokenURL is the full OAuth2 token endpoint. Derived from APIEndpoint
	// when empty and OAuth2 credentials are configured.
	TokenURL string

	// Retry bounds the retry loop. Zero fields fall back to the defaults.
	Retry RetryPolicy

	// RequestsPerSecond is the shared outbound budget; Burst the allowance
	// on top. Zero values fall back to the defaults.
	RequestsPerSecond float64
	Burst             int

	// HTTPTimeout bounds one request attempt.
	HTTPTimeout time.Duration

	// Debug enables HTTP request/response logging when a Logger is set.
	Debug bool
	// Logger is the structured logger used by the dispatcher.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Events configures the optional diagnostic-event mirror.
	Events EventsConfig
}
