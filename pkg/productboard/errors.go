package productboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// ErrorKind identifies the classified category of a failed request. The set
// is closed: every error surfaced by the dispatcher carries exactly one kind.
type ErrorKind string

// The closed error taxonomy.
const (
	ErrorKindValidation     ErrorKind = "validation"
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindAuthorization  ErrorKind = "authorization"
	ErrorKindNotFound       ErrorKind = "not_found"
	ErrorKindRateLimited    ErrorKind = "rate_limited"
	ErrorKindServerError    ErrorKind = "server_error"
	ErrorKindNetworkFailure ErrorKind = "network_failure"
	ErrorKindGeneric        ErrorKind = "generic"
)

// APIError is the classified form of a failed request. Status is 0 when no
// response was received at all; Body holds the raw error payload when the
// service supplied one.
type APIError struct {
	Kind              ErrorKind `json:"kind"                          yaml:"kind"`
	Status            int       `json:"status,omitempty"              yaml:"status,omitempty"`
	Message           string    `json:"message"                       yaml:"message"`
	ResourceID        string    `json:"resource_id,omitempty"         yaml:"resource_id,omitempty"`
	RetryAfterSeconds int       `json:"retry_after_seconds,omitempty" yaml:"retry_after_seconds,omitempty"`
	Body              []byte    `json:"-"                             yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.Kind, e.Message, e.Status)
}

// Retryable reports whether the dispatcher retries this kind by default.
func (e *APIError) Retryable() bool {
	return KindRetryable(e.Kind)
}

// errorBody is the duck-typed view over the shapes the service uses for
// error payloads. Exactly one accessor wins, in field order.
type errorBody struct {
	Message interface{} `json:"message"`
	Err     interface{} `json:"error"`
	Errors  interface{} `json:"errors"`
	ID      string      `json:"id"`
}

// ExtractMessage pulls a human-readable message out of an error body,
// preferring "message", then "error", then "errors", each stringified when
// not already a string. Falls back to the supplied message when the body
// yields nothing.
func ExtractMessage(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}

	var parsed errorBody

	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return fallback
	}

	for _, candidate := range []interface{}{parsed.Message, parsed.Err, parsed.Errors} {
		if candidate == nil {
			continue
		}

		text := stringify(candidate)
		if text != "" {
			return text
		}
	}

	return fallback
}

// stringify renders a decoded JSON value as text; strings pass through,
// structured values are re-encoded.
func stringify(value interface{}) string {
	if text, ok := value.(string); ok {
		return text
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(encoded)
}

// KindForStatus maps a status code onto its kind without looking at the
// body. The dispatcher's retry predicate uses it before the body is read.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest:
		return ErrorKindValidation
	case status == http.StatusUnauthorized:
		return ErrorKindAuthentication
	case status == http.StatusForbidden:
		return ErrorKindAuthorization
	case status == http.StatusNotFound:
		return ErrorKindNotFound
	case status == http.StatusTooManyRequests:
		return ErrorKindRateLimited
	case status >= http.StatusInternalServerError:
		return ErrorKindServerError
	default:
		return ErrorKindGeneric
	}
}

// Classify maps a completed but unsuccessful response onto exactly one
// ErrorKind. It is pure: the same status, body, and headers always produce
// the same classification.
func Classify(status int, body []byte, header http.Header) *APIError {
	apiErr := &APIError{
		Kind:    KindForStatus(status),
		Status:  status,
		Message: ExtractMessage(body, http.StatusText(status)),
		Body:    body,
	}

	switch apiErr.Kind {
	case ErrorKindNotFound:
		apiErr.ResourceID = extractResourceID(body)
	case ErrorKindRateLimited:
		apiErr.RetryAfterSeconds = retryAfterSeconds(header)
	default:
	}

	return apiErr
}

// ClassifyTransport wraps a failure that produced no response at all.
func ClassifyTransport(err error) *APIError {
	return &APIError{
		Kind:    ErrorKindNetworkFailure,
		Message: err.Error(),
	}
}

// extractResourceID captures the resource identifier a 404 body names, when
// it names one.
func extractResourceID(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed errorBody

	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return ""
	}

	return parsed.ID
}

// retryAfterSeconds parses the Retry-After header, defaulting when the
// header is absent or unparsable.
func retryAfterSeconds(header http.Header) int {
	if header == nil {
		return constants.RetryAfterFallbackSeconds
	}

	raw := header.Get("Retry-After")

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return constants.RetryAfterFallbackSeconds
	}

	return seconds
}

// IsKind checks whether err carries the given classified kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return IsKind(err, ErrorKindNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return IsKind(err, ErrorKindValidation)
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return IsKind(err, ErrorKindAuthentication)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return IsKind(err, ErrorKindAuthorization)
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	return IsKind(err, ErrorKindRateLimited)
}

// IsRetryable checks if the error carries one of the kinds the dispatcher
// retries by default.
func IsRetryable(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	return false
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired             = errors.New("config is required")
	ErrAPIEndpointRequired        = errors.New("API endpoint is required")
	ErrNoHostInURL                = errors.New("no host specified in URL")
	ErrNoMoreItems                = errors.New("no more items")
	ErrTooManyPages               = errors.New("pagination exceeded the page ceiling")
	ErrOperationNotFound          = errors.New("operation not found")
	ErrOperationAlreadyRegistered = errors.New("operation already registered")
	ErrOperationNameRequired      = errors.New("operation name is required")
	ErrOperationHandlerRequired   = errors.New("operation handler is required")
	ErrMissingRequiredParam       = errors.New("missing required parameter")
	ErrUnexpectedParam            = errors.New("unexpected parameter")
	ErrStaticTokenCannotRefresh   = errors.New("static token cannot be refreshed")
	ErrNilOperation               = errors.New("operation is nil")
	ErrUnsupportedBatchMethod     = errors.New("unsupported batch method")
)
