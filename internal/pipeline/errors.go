package pipeline

import "fmt"

// ConfigError indicates missing or invalid configuration, typically a
// missing provider credential. Never retryable.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// RateLimitError indicates a provider rejected the call for quota reasons.
// It is surfaced to the caller unchanged; the pipeline never retries within
// a request.
type RateLimitError struct {
	Provider string
	Cause    error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by %s provider: %v", e.Provider, e.Cause)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// NetworkError indicates a transport failure reaching a provider that could
// not be degraded around.
type NetworkError struct {
	Provider string
	Cause    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error reaching %s provider: %v", e.Provider, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}
