package constants

import "errors"

// Credential and configuration errors.
var (
	ErrNoAccessToken     = errors.New("no access token configured")
	ErrNoRefreshToken    = errors.New("no refresh token available, please run 'pb auth login' again")
	ErrNotAuthenticated  = errors.New("not authenticated. Run 'pb auth login' first")
	ErrNoAPIEndpoint     = errors.New("no API endpoint configured")
	ErrConfigKeyUnknown  = errors.New("unknown configuration key")
	ErrTokenFieldsNoEdit = errors.New("token fields cannot be set via config command, use 'pb auth login'")
)

// CLI validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output format must be one of json, yaml, table")
	ErrInvalidAccessLevel  = errors.New("access level must be one of read, write, delete, admin")
	ErrParamsNotJSON       = errors.New("params must be a JSON object")
	ErrBatchFileEmpty      = errors.New("batch file contains no operations")
)

// Required field errors.
var (
	ErrNameRequired      = errors.New("--name flag is required")
	ErrTitleRequired     = errors.New("--title flag is required")
	ErrContentRequired   = errors.New("--content flag is required")
	ErrEmailRequired     = errors.New("--email flag is required")
	ErrParentRequired    = errors.New("a parent component or product is required")
	ErrOperationRequired = errors.New("operation name is required")
)

// Operation errors.
var (
	ErrResourceNotFound         = errors.New("resource not found")
	ErrUnsupportedVerb          = errors.New("unsupported batch method")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)
