package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrNotConfigured indicates required credentials are missing. Raised
	// at module construction, never after a network call.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrEmptyText indicates a synthesis request with blank input text.
	ErrEmptyText = errors.New("text must not be empty")

	// ErrRateLimit indicates the provider returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrProviderDown indicates the provider is temporarily unavailable.
	ErrProviderDown = errors.New("provider unavailable")

	// ErrBadResponse indicates the provider returned a 2xx response whose
	// body lacks the expected fields.
	ErrBadResponse = errors.New("malformed provider response")
)

// IsRetryable reports whether the error is transient and the request can
// be re-submitted by the caller. Nothing is retried automatically.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrProviderDown)
}
