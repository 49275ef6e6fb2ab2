package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single request attempt.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as token refresh.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and backoff limits.
const (
	// DefaultMaxAttempts is the default number of attempts per logical call,
	// counting the first try.
	DefaultMaxAttempts = 3

	// DefaultRetryWaitMin is the initial delay before the first retry.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax caps the exponentially growing retry delay.
	DefaultRetryWaitMax = 30 * time.Second

	// ExponentialBackoffBase is the base for exponential backoff.
	ExponentialBackoffBase = 2

	// RetryAfterFallbackSeconds is used when a 429 response carries no
	// parsable Retry-After header.
	RetryAfterFallbackSeconds = 60
)

// Rate governance.
const (
	// DefaultRequestsPerSecond is the shared outbound budget per rate key.
	DefaultRequestsPerSecond = 10

	// DefaultRateBurst is the burst allowance on top of the steady rate.
	DefaultRateBurst = 5

	// GlobalRateKey is the single key every dispatcher call acquires under.
	GlobalRateKey = "productboard"
)

// Pagination limits.
const (
	// DefaultPageLimit is the page size requested when the caller does not
	// set one. The service caps pageLimit at 100.
	DefaultPageLimit = 100

	// MaxPageLimit is the largest page size the service accepts.
	MaxPageLimit = 100

	// MaxPages bounds aggregation loops so inconsistent hasMore/cursor
	// responses cannot spin forever.
	MaxPages = 50
)

// Page parameter names understood by the service. Some endpoints paginate by
// cursor, others by offset; the aggregator switches between them.
const (
	PageCursorParam = "pageCursor"
	PageOffsetParam = "pageOffset"
	PageLimitParam  = "pageLimit"
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// TokenTypeBearer is the token type sent in the Authorization header.
	TokenTypeBearer = "Bearer"
)

// Service wire conventions.
const (
	// DefaultAPIEndpoint is the production API base URL.
	DefaultAPIEndpoint = "https://api.productboard.com"

	// APIVersionHeader names the versioning header the service requires.
	APIVersionHeader = "X-Version"

	// APIVersion is the API version sent on every request.
	APIVersion = "1"
)

// Batch execution.
const (
	// DefaultBatchCapacity is the initial capacity for batch result slices.
	DefaultBatchCapacity = 16
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// StringTruncationLength is the default length for truncating strings.
	StringTruncationLength = 80
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// CRUD operation constants.
const (
	// OperationCreate for create operations.
	OperationCreate = "create"

	// OperationUpdate for update operations.
	OperationUpdate = "update"

	// OperationDelete for delete operations.
	OperationDelete = "delete"

	// OperationGet for get operations.
	OperationGet = "get"

	// OperationList for list operations.
	OperationList = "list"
)

// Command argument counts.
const (
	// TwoArgumentsMax indicates commands allowing up to 2 arguments.
	TwoArgumentsMax = 2

	// KeyValueSplitParts is the number of parts when splitting key=value strings.
	KeyValueSplitParts = 2
)
