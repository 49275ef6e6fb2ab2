package productboard

import (
	"time"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// RetryPolicy bounds the dispatcher's retry loop. MaxAttempts counts the
// first try; a policy with MaxAttempts of 1 never retries.
type RetryPolicy struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RetryPredicate func(ErrorKind) bool
}

// DefaultRetryPolicy returns the policy the dispatcher uses unless
// configured otherwise.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    constants.DefaultMaxAttempts,
		InitialDelay:   constants.DefaultRetryWaitMin,
		MaxDelay:       constants.DefaultRetryWaitMax,
		RetryPredicate: KindRetryable,
	}
}

// KindRetryable reports whether a kind is retried by default. Transient
// conditions retry; everything the caller must fix does not.
func KindRetryable(kind ErrorKind) bool {
	switch kind {
	case ErrorKindNetworkFailure, ErrorKindServerError, ErrorKindRateLimited:
		return true
	case ErrorKindValidation, ErrorKindAuthentication, ErrorKindAuthorization,
		ErrorKindNotFound, ErrorKindGeneric:
		return false
	default:
		return false
	}
}

// ShouldRetry applies the policy's predicate, falling back to the default
// predicate when none is set.
func (p RetryPolicy) ShouldRetry(kind ErrorKind) bool {
	if p.RetryPredicate != nil {
		return p.RetryPredicate(kind)
	}

	return KindRetryable(kind)
}

// BackoffDelay returns the delay inserted after failed attempt k, before
// attempt k+1: min(initialDelay * 2^(k-1), maxDelay).
func (p RetryPolicy) BackoffDelay(attempt int) time.Duration {
	delay := p.InitialDelay

	for k := 1; k < attempt; k++ {
		delay *= constants.ExponentialBackoffBase
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}

	return delay
}

// Normalized fills zero fields from the default policy so a partially
// specified policy behaves sensibly.
func (p RetryPolicy) Normalized() RetryPolicy {
	defaults := DefaultRetryPolicy()

	if p.MaxAttempts < 1 {
		p.MaxAttempts = defaults.MaxAttempts
	}

	if p.InitialDelay <= 0 {
		p.InitialDelay = defaults.InitialDelay
	}

	if p.MaxDelay < p.InitialDelay {
		p.MaxDelay = defaults.MaxDelay
	}

	if p.RetryPredicate == nil {
		p.RetryPredicate = defaults.RetryPredicate
	}

	return p
}
