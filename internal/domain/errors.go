package domain

import "errors"

var (
	// ErrNotConfigured is returned when a provider's required credential is
	// missing; the aggregator skips that provider's step entirely.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrProviderTransient is returned for HTTP 429/5xx responses, retried
	// once before escalating to ErrProviderFailure.
	ErrProviderTransient = errors.New("transient provider error")

	// ErrProviderFailure is returned for any other failure talking to an
	// external source; the aggregator folds it into zero results.
	ErrProviderFailure = errors.New("provider request failed")

	// ErrProductNotFound is returned when a provider has no match for a query or barcode.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidQuery is returned for empty search input, rejected before any I/O.
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrInvalidPortion is returned for a negative or non-finite portion size.
	ErrInvalidPortion = errors.New("invalid portion size")

	// ErrCacheMiss is returned when data is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)
