// Package providers contains HTTP clients for the external places-search and
// web-search services. Any individual provider failure degrades to an empty
// candidate list upstream; these clients only classify, they never retry.
package providers

import "errors"

var (
	// ErrMissingCredential is returned when a provider API key is absent.
	ErrMissingCredential = errors.New("provider credential missing")

	// ErrProviderFailure is returned when a provider request fails in
	// transport or returns a non-success status.
	ErrProviderFailure = errors.New("provider request failed")

	// ErrProviderRateLimited is returned when a provider responds with a
	// rate-limit status.
	ErrProviderRateLimited = errors.New("provider rate limited")
)
