package productboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindRetryable(t *testing.T) {
	assert.True(t, KindRetryable(ErrorKindNetworkFailure))
	assert.True(t, KindRetryable(ErrorKindServerError))
	assert.True(t, KindRetryable(ErrorKindRateLimited))

	assert.False(t, KindRetryable(ErrorKindValidation))
	assert.False(t, KindRetryable(ErrorKindAuthentication))
	assert.False(t, KindRetryable(ErrorKindAuthorization))
	assert.False(t, KindRetryable(ErrorKindNotFound))
	assert.False(t, KindRetryable(ErrorKindGeneric))
}

func TestRetryPolicy_BackoffDelay(t *testing.T) {
	policy := RetryPolicy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, policy.BackoffDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicy_BackoffDelay_NoCap(t *testing.T) {
	policy := RetryPolicy{InitialDelay: 1 * time.Second}

	assert.Equal(t, 8*time.Second, policy.BackoffDelay(4))
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	t.Run("default predicate", func(t *testing.T) {
		policy := RetryPolicy{}
		assert.True(t, policy.ShouldRetry(ErrorKindServerError))
		assert.False(t, policy.ShouldRetry(ErrorKindNotFound))
	})

	t.Run("custom predicate wins", func(t *testing.T) {
		policy := RetryPolicy{
			RetryPredicate: func(kind ErrorKind) bool {
				return kind == ErrorKindNotFound
			},
		}
		assert.True(t, policy.ShouldRetry(ErrorKindNotFound))
		assert.False(t, policy.ShouldRetry(ErrorKindServerError))
	})
}

func TestRetryPolicy_Normalized(t *testing.T) {
	t.Run("zero value picks up defaults", func(t *testing.T) {
		policy := RetryPolicy{}.Normalized()

		assert.Equal(t, 3, policy.MaxAttempts)
		assert.Equal(t, 1*time.Second, policy.InitialDelay)
		assert.Equal(t, 30*time.Second, policy.MaxDelay)
		assert.NotNil(t, policy.RetryPredicate)
	})

	t.Run("explicit fields survive", func(t *testing.T) {
		policy := RetryPolicy{
			MaxAttempts:  5,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
		}.Normalized()

		assert.Equal(t, 5, policy.MaxAttempts)
		assert.Equal(t, 500*time.Millisecond, policy.InitialDelay)
		assert.Equal(t, 10*time.Second, policy.MaxDelay)
	})

	t.Run("max delay below initial is reset", func(t *testing.T) {
		policy := RetryPolicy{
			InitialDelay: 5 * time.Second,
			MaxDelay:     1 * time.Second,
		}.Normalized()

		assert.Equal(t, 30*time.Second, policy.MaxDelay)
	})
}
