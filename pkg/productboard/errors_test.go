package productboard

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	t.Run("with status", func(t *testing.T) {
		err := &APIError{
			Kind:    ErrorKindNotFound,
			Status:  http.StatusNotFound,
			Message: "Feature not found",
		}

		assert.Equal(t, "not_found: Feature not found (status: 404)", err.Error())
	})

	t.Run("without status", func(t *testing.T) {
		err := &APIError{
			Kind:    ErrorKindNetworkFailure,
			Message: "connection refused",
		}

		assert.Equal(t, "network_failure: connection refused", err.Error())
	})
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorKind
	}{
		{http.StatusBadRequest, ErrorKindValidation},
		{http.StatusUnauthorized, ErrorKindAuthentication},
		{http.StatusForbidden, ErrorKindAuthorization},
		{http.StatusNotFound, ErrorKindNotFound},
		{http.StatusTooManyRequests, ErrorKindRateLimited},
		{http.StatusInternalServerError, ErrorKindServerError},
		{http.StatusBadGateway, ErrorKindServerError},
		{http.StatusServiceUnavailable, ErrorKindServerError},
		{http.StatusConflict, ErrorKindGeneric},
		{http.StatusTeapot, ErrorKindGeneric},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForStatus(tt.status))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("not found captures the resource identifier", func(t *testing.T) {
		body := []byte(`{"message": "Feature not found", "id": "feature-1"}`)

		apiErr := Classify(http.StatusNotFound, body, nil)
		assert.Equal(t, ErrorKindNotFound, apiErr.Kind)
		assert.Equal(t, "Feature not found", apiErr.Message)
		assert.Equal(t, "feature-1", apiErr.ResourceID)
	})

	t.Run("rate limited honors Retry-After", func(t *testing.T) {
		header := http.Header{}
		header.Set("Retry-After", "15")

		apiErr := Classify(http.StatusTooManyRequests, nil, header)
		assert.Equal(t, ErrorKindRateLimited, apiErr.Kind)
		assert.Equal(t, 15, apiErr.RetryAfterSeconds)
	})

	t.Run("rate limited defaults when Retry-After is missing", func(t *testing.T) {
		apiErr := Classify(http.StatusTooManyRequests, nil, http.Header{})
		assert.Equal(t, 60, apiErr.RetryAfterSeconds)
	})

	t.Run("rate limited defaults when Retry-After is unparsable", func(t *testing.T) {
		header := http.Header{}
		header.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")

		apiErr := Classify(http.StatusTooManyRequests, nil, header)
		assert.Equal(t, 60, apiErr.RetryAfterSeconds)
	})

	t.Run("falls back to the status text without a body", func(t *testing.T) {
		apiErr := Classify(http.StatusInternalServerError, nil, nil)
		assert.Equal(t, ErrorKindServerError, apiErr.Kind)
		assert.Equal(t, "Internal Server Error", apiErr.Message)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		body := []byte(`{"error": "token expired"}`)

		first := Classify(http.StatusUnauthorized, body, nil)
		second := Classify(http.StatusUnauthorized, body, nil)
		assert.Equal(t, first, second)
	})
}

func TestClassifyTransport(t *testing.T) {
	apiErr := ClassifyTransport(errors.New("dial tcp: connection refused"))
	assert.Equal(t, ErrorKindNetworkFailure, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
	assert.Contains(t, apiErr.Message, "connection refused")
}

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "message field wins",
			body:     `{"message": "Name is required", "error": "ignored"}`,
			expected: "Name is required",
		},
		{
			name:     "error field used when message is absent",
			body:     `{"error": "invalid_token"}`,
			expected: "invalid_token",
		},
		{
			name:     "errors field used last",
			body:     `{"errors": [{"detail": "Name is required"}]}`,
			expected: `[{"detail":"Name is required"}]`,
		},
		{
			name:     "structured message is stringified",
			body:     `{"message": {"field": "name"}}`,
			expected: `{"field":"name"}`,
		},
		{
			name:     "empty body falls back",
			body:     "",
			expected: "fallback",
		},
		{
			name:     "unparsable body falls back",
			body:     `<html>502 Bad Gateway</html>`,
			expected: "fallback",
		},
		{
			name:     "body without known fields falls back",
			body:     `{"detail": "unused"}`,
			expected: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMessage([]byte(tt.body), "fallback"))
		})
	}
}

func TestIsKindHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		matcher func(error) bool
	}{
		{"not found", &APIError{Kind: ErrorKindNotFound}, IsNotFound},
		{"validation", &APIError{Kind: ErrorKindValidation}, IsValidation},
		{"unauthorized", &APIError{Kind: ErrorKindAuthentication}, IsUnauthorized},
		{"forbidden", &APIError{Kind: ErrorKindAuthorization}, IsForbidden},
		{"rate limited", &APIError{Kind: ErrorKindRateLimited}, IsRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.matcher(tt.err))
			assert.True(t, tt.matcher(fmt.Errorf("fetching feature: %w", tt.err)))
			assert.False(t, tt.matcher(errors.New("some error")))
			assert.False(t, tt.matcher(nil))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&APIError{Kind: ErrorKindServerError}))
	assert.True(t, IsRetryable(&APIError{Kind: ErrorKindNetworkFailure}))
	assert.True(t, IsRetryable(&APIError{Kind: ErrorKindRateLimited}))
	assert.False(t, IsRetryable(&APIError{Kind: ErrorKindValidation}))
	assert.False(t, IsRetryable(&APIError{Kind: ErrorKindNotFound}))
	assert.False(t, IsRetryable(errors.New("some error")))
}

func TestRetryAfterSeconds_Negative(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "-5")

	apiErr := Classify(http.StatusTooManyRequests, nil, header)
	require.Equal(t, 60, apiErr.RetryAfterSeconds)
}
